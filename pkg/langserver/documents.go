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

	"github.com/hwelch-fle/llama-16/pkg/assembler"
)

// Assembly stops at the first error, so a document produces at most one
// diagnostic, placed over the offending source line.
func diagnose(text string) []Diagnostic {
	diagnostics := make([]Diagnostic, 0, 1)

	asm := assembler.New()

	_, err := asm.Assemble(strings.NewReader(text))

	if err == nil {
		return diagnostics
	}

	line := 0

	if lineErr, ok := err.(assembler.LineError); ok {
		line = lineErr.GetLine() - 1
	}

	length := 0
	lines := strings.Split(text, "\n")

	if line < len(lines) {
		length = len(lines[line])
	}

	diagnostics = append(diagnostics, Diagnostic{
		Range: Range{
			Start: Position{Line: line, Character: 0},
			End:   Position{Line: line, Character: length},
		},
		Severity: 1,
		Source:   "llama-16",
		Message:  err.Error(),
	})

	return diagnostics
}

func (h *handler) publishDiagnostics(
	conn *jsonrpc2.Conn, uri DocumentUri, version int,
) {
	doc := h.documents[string(uri)]

	conn.Notify(
		context.Background(),
		"textDocument/publishDiagnostics",
		PublishDiagnosticsParams{
			URI:         uri,
			Version:     version,
			Diagnostics: diagnose(doc.Text),
		},
	)
}

func (h *handler) documentOpenNotification(
	conn *jsonrpc2.Conn, req *jsonrpc2.Request,
) {
	decodedParams := DidOpenTextDocumentParams{}

	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	uri := decodedParams.TextDocument.URI
	h.documents[string(uri)] = decodedParams.TextDocument

	h.publishDiagnostics(conn, uri, decodedParams.TextDocument.Version)
}

func (h *handler) documentCloseNotification(
	conn *jsonrpc2.Conn, req *jsonrpc2.Request,
) {
	decodedParams := DidCloseTextDocumentParams{}

	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	delete(h.documents, string(decodedParams.TextDocument.URI))
}

func (h *handler) documentChangeNotification(
	conn *jsonrpc2.Conn, req *jsonrpc2.Request,
) {
	decodedParams := DidChangeTextDocumentParams{}

	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	if len(decodedParams.ContentChanges) == 0 {
		return
	}

	uri := decodedParams.TextDocument.URI
	doc := h.documents[string(uri)]
	doc.Text = decodedParams.ContentChanges[0].Text
	doc.Version = decodedParams.TextDocument.Version
	h.documents[string(uri)] = doc

	h.publishDiagnostics(conn, uri, doc.Version)
}

func (h *handler) documentDiagnostics(
	conn *jsonrpc2.Conn, req *jsonrpc2.Request,
) {
	decodedParams := DocumentDiagnosticsParams{}

	if err := json.Unmarshal(*req.Params, &decodedParams); err != nil {
		replyInvalidParams(conn, req)
		return
	}

	doc := h.documents[string(decodedParams.TextDocument.URI)]

	conn.Reply(context.Background(), req.ID, DocumentDiagnosticsReport{
		Kind:  "full",
		Items: diagnose(doc.Text),
	})
}
