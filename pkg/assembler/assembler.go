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

package assembler

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hwelch-fle/llama-16/pkg/encoding"
)

// Assembler performs a two-pass assembly of one source file. The first pass
// collects label addresses, the second emits the binary image; the location
// counter advances identically in both passes so every pass-1 address holds
// in pass 2. The zero value is not usable, call New.
type Assembler struct {
	// Optional per-line trace target
	Debug io.Writer

	origin  uint16
	pass    int
	line    int
	address uint16
	symbols *SymTable
	output  bytes.Buffer
}

func New() *Assembler {
	return &Assembler{
		origin:  Origin,
		symbols: NewSymTable(),
	}
}

func (asm *Assembler) Symbols() *SymTable {
	return asm.symbols
}

// Assemble runs both passes over the source and returns the binary image.
// The first error encountered aborts the run.
func (asm *Assembler) Assemble(input io.Reader) ([]byte, error) {
	var lines []string

	scanner := bufio.NewScanner(input)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for pass := 1; pass <= 2; pass++ {
		asm.pass = pass
		asm.line = 0
		asm.address = 0

		for _, line := range lines {
			asm.line++

			stmt, err := asm.parseLine(line)

			if err != nil {
				return nil, asm.trace(err)
			}

			if asm.Debug != nil && asm.pass == 1 {
				fmt.Fprintf(
					asm.Debug,
					"%3d: label=%q keyword=%q op1=%q op2=%q comment=%q\n",
					asm.line,
					stmt.Label,
					stmt.Keyword,
					stmt.Op1.Text,
					stmt.Op2.Text,
					stmt.Comment,
				)
			}

			if err := asm.process(stmt); err != nil {
				return nil, asm.trace(err)
			}
		}
	}

	return asm.output.Bytes(), nil
}

// Dumps the assembler state alongside a fatal error when tracing
func (asm *Assembler) trace(err error) error {
	if asm.Debug == nil {
		return err
	}

	fmt.Fprintf(
		asm.Debug,
		"pass %d stopped at line %d, address %04X\n",
		asm.pass,
		asm.line,
		asm.origin+asm.address,
	)

	asm.symbols.Each(func(name string, address uint16) {
		fmt.Fprintf(asm.Debug, "%04X %s\n", address, strings.ToUpper(name))
	})

	return err
}

func (asm *Assembler) process(stmt Statement) error {
	if stmt.Directive != DIRECTIVE_INVALID {
		return asm.processDirective(stmt)
	}

	if stmt.Keyword == "" {
		if stmt.Op1.Type == OPERAND_EMPTY || stmt.Op2.Type == OPERAND_EMPTY {
			return nil
		}

		return &UnknownMnemonicError{asm.line, stmt.Keyword}
	}

	mnemonic := parseMnemonic(stmt.Keyword)

	if mnemonic == MNEMONIC_INVALID {
		return &UnknownMnemonicError{asm.line, stmt.Keyword}
	}

	return asm.encode(mnemonic, stmt)
}

func (asm *Assembler) processDirective(stmt Statement) error {
	if stmt.Label == "" {
		return &UnlabeledDirectiveError{asm.line}
	}

	if stmt.Arg == "" {
		return &InvalidOperandsError{asm.line, stmt.Keyword}
	}

	switch stmt.Directive {
	case DIRECTIVE_DATA:
		value, err := strconv.ParseInt(stmt.Arg, 10, 16)

		if err != nil {
			return &InvalidDataError{asm.line, stmt.Arg}
		}

		return asm.emitWords(stmt.Label, []uint16{uint16(value)})

	case DIRECTIVE_STRING:
		text := unquote(stmt.Arg)

		// NUL termination keeps the emitted byte count even
		if len(text)%2 != 0 {
			text += "\x00"
		} else {
			text += "\x00\x00"
		}

		return asm.emit(stmt.Label, []byte(text))
	}

	return nil
}

// Strips one layer of surrounding quotes, double or single
func unquote(text string) string {
	if strings.HasPrefix(text, "\"") || strings.HasPrefix(text, "'") {
		text = text[1:]
	}

	if strings.HasSuffix(text, "\"") || strings.HasSuffix(text, "'") {
		text = text[:len(text)-1]
	}

	return text
}

// Encodes one instruction. The word layout is:
//
//	[15:12] opcode
//	[11:8]  first operand: register index, or 0xE (immediate) / 0xF (address)
//	[7:4]   second operand marker: 0xE (immediate) / 0xF (address)
//	[3:0]   second operand register index
//
// Immediate and label operands append one signed little-endian word and
// memory operands one unsigned word, in operand order. The io mnemonic
// instead adds its port selector to the finished word.
func (asm *Assembler) encode(mnemonic MnemonicType, stmt Statement) error {
	count := mnemonic.OperandCount()

	switch count {
	case 0:
		if stmt.Op1.Type != OPERAND_EMPTY || stmt.Op2.Type != OPERAND_EMPTY {
			return &InvalidOperandsError{asm.line, stmt.Keyword}
		}
	case 1:
		if stmt.Op1.Type == OPERAND_EMPTY || stmt.Op2.Type != OPERAND_EMPTY {
			return &InvalidOperandsError{asm.line, stmt.Keyword}
		}
	case 2:
		if stmt.Op1.Type == OPERAND_EMPTY || stmt.Op2.Type == OPERAND_EMPTY {
			return &InvalidOperandsError{asm.line, stmt.Keyword}
		}
	}

	word := mnemonic.Opcode() << 12

	switch stmt.Op1.Type {
	case OPERAND_REGISTER:
		index, _ := parseRegister(stmt.Op1.Text, generalRegisterCount)
		word |= index << 8
	case OPERAND_IMMEDIATE:
		word |= FIELD_IMMEDIATE << 8
	case OPERAND_MEMORY, OPERAND_LABEL:
		word |= FIELD_ADDRESS << 8
	}

	if mnemonic == MNEMONIC_IO {
		if stmt.Op1.Type == OPERAND_IMMEDIATE &&
			strings.EqualFold(stmt.Op2.Text, "in") {
			return &ImmediateInputError{asm.line}
		}

		if strings.EqualFold(stmt.Op2.Text, "in") {
			word |= PORT_IN
		} else if strings.EqualFold(stmt.Op2.Text, "out") {
			word |= PORT_OUT
		} else {
			return &InvalidPortError{asm.line, stmt.Op2.Text}
		}
	} else if count == 2 {
		switch stmt.Op2.Type {
		case OPERAND_REGISTER:
			index, _ := parseRegister(stmt.Op2.Text, registerCount)
			word |= index
		case OPERAND_IMMEDIATE:
			word |= FIELD_IMMEDIATE << 4
		case OPERAND_MEMORY, OPERAND_LABEL:
			word |= FIELD_ADDRESS << 4
		}
	}

	words := []uint16{word}

	operands := []Operand{stmt.Op1}

	if count == 2 && mnemonic != MNEMONIC_IO {
		operands = append(operands, stmt.Op2)
	}

	for _, operand := range operands {
		switch operand.Type {
		case OPERAND_IMMEDIATE, OPERAND_LABEL:
			value, err := asm.resolveValue(operand.Text)

			if err != nil {
				return err
			}

			words = append(words, uint16(value))

		case OPERAND_MEMORY:
			value, err := asm.resolveAddress(operand.Text)

			if err != nil {
				return err
			}

			words = append(words, value)
		}
	}

	return asm.emitWords(stmt.Label, words)
}

// Resolves an immediate or label operand to its signed word. Base-10
// literals are recognized before falling back to symbol lookup; lookups
// only resolve on pass 2, once every label is known.
func (asm *Assembler) resolveValue(text string) (int16, error) {
	if strings.HasPrefix(text, "-") || isDigits(text) {
		value, err := encoding.DecodeInt(text)

		if err != nil {
			return 0, &LiteralRangeError{asm.line, text}
		}

		return value, nil
	}

	if asm.pass == 1 {
		return 0, nil
	}

	address, ok := asm.symbols.Lookup(text)

	if !ok {
		return 0, &UnknownLabelError{asm.line, text}
	}

	return int16(address), nil
}

// Resolves a memory operand to its address word, base-16 literals first,
// then symbol lookup
func (asm *Assembler) resolveAddress(text string) (uint16, error) {
	if value, err := encoding.DecodeHex(text); err == nil {
		return value, nil
	}

	if asm.pass == 1 {
		return 0, nil
	}

	address, ok := asm.symbols.Lookup(text)

	if !ok {
		return 0, &UnknownLabelError{asm.line, text}
	}

	return address, nil
}

func isDigits(text string) bool {
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}

	return text != ""
}

func (asm *Assembler) emitWords(label string, words []uint16) error {
	return asm.emit(label, encoding.WordsToBytes(words))
}

// Records the statement's label on pass 1 and writes its bytes on pass 2.
// Both passes advance the location counter by the emitted word count.
func (asm *Assembler) emit(label string, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	if asm.pass == 1 && label != "" {
		if !asm.symbols.Add(label, asm.origin+asm.address) {
			return &RedeclaredLabelError{asm.line, label}
		}
	}

	if asm.pass == 2 {
		asm.output.Write(data)
	}

	asm.address += uint16((len(data) + 1) / 2)

	return nil
}
