// Copyright (C) 2022  Hunter Welch

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package langserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sourcegraph/jsonrpc2"
)

var hoverReference = map[string]string{
	"mv":   "**mv** dst, src\n\nCopies src into dst.",
	"io":   "**io** op, port\n\nMoves one byte between op and a device: `in` reads the keyboard, `out` writes the display.",
	"push": "**push** op\n\nPushes op onto the stack.",
	"pop":  "**pop** op\n\nPops the top of the stack into op.",
	"add":  "**add** dst, src\n\nSigned 16-bit addition into dst. Overflow halts the machine.",
	"sub":  "**sub** dst, src\n\nSigned 16-bit subtraction into dst. Overflow halts the machine.",
	"inc":  "**inc** op\n\nIncrements op by one.",
	"dec":  "**dec** op\n\nDecrements op by one.",
	"and":  "**and** dst, src\n\nBitwise and into dst.",
	"or":   "**or** dst, src\n\nBitwise or into dst.",
	"not":  "**not** dst, src\n\nBitwise complement of src into dst.",
	"cmp":  "**cmp** a, b\n\nSets the flags on a - b without storing the result.",
	"call": "**call** target\n\nPushes the return address and jumps to target.",
	"jnz":  "**jnz** target\n\nJumps to target unless the zero flag is set.",
	"ret":  "**ret**\n\nPops the return address into ip.",
	"hlt":  "**hlt**\n\nStops the machine.",

	".data":   "**.data** value\n\nStores one signed base-10 word. Requires a label.",
	".string": "**.string** \"text\"\n\nStores the text's bytes, NUL-terminated to an even length. Requires a label.",

	"a":  "General register **a**.",
	"b":  "General register **b**.",
	"c":  "General register **c**.",
	"d":  "General register **d**.",
	"ip": "Instruction pointer. Readable as a source operand.",
	"sp": "Stack pointer. Readable as a source operand.",
	"bp": "Base pointer. Readable as a source operand.",
}

func isWordChar(c byte) bool {
	return c == '.' || c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// Extracts the word under the cursor
func wordAt(text string, pos Position) string {
	lines := strings.Split(text, "\n")

	if pos.Line >= len(lines) {
		return ""
	}

	line := lines[pos.Line]

	if pos.Character > len(line) {
		return ""
	}

	start := pos.Character
	end := pos.Character

	for start > 0 && isWordChar(line[start-1]) {
		start--
	}

	for end < len(line) && isWordChar(line[end]) {
		end++
	}

	return strings.ToLower(line[start:end])
}

func (h *handler) hoverRequest(conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := TextDocumentPositionParams{}

	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	doc := h.documents[string(decodedParams.TextDocument.URI)]
	word := wordAt(doc.Text, decodedParams.Position)

	text, ok := hoverReference[word]

	if !ok {
		conn.Reply(context.Background(), req.ID, nil)
		return
	}

	conn.Reply(context.Background(), req.ID, Hover{
		Contents: MarkupContent{
			Kind:  "markdown",
			Value: text,
		},
	})
}
