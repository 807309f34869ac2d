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
	"strings"
	"unicode"
)

func parseMnemonic(ident string) MnemonicType {
	if strings.EqualFold(ident, "mv") {
		return MNEMONIC_MV
	} else if strings.EqualFold(ident, "io") {
		return MNEMONIC_IO
	} else if strings.EqualFold(ident, "push") {
		return MNEMONIC_PUSH
	} else if strings.EqualFold(ident, "pop") {
		return MNEMONIC_POP
	} else if strings.EqualFold(ident, "add") {
		return MNEMONIC_ADD
	} else if strings.EqualFold(ident, "sub") {
		return MNEMONIC_SUB
	} else if strings.EqualFold(ident, "inc") {
		return MNEMONIC_INC
	} else if strings.EqualFold(ident, "dec") {
		return MNEMONIC_DEC
	} else if strings.EqualFold(ident, "and") {
		return MNEMONIC_AND
	} else if strings.EqualFold(ident, "or") {
		return MNEMONIC_OR
	} else if strings.EqualFold(ident, "not") {
		return MNEMONIC_NOT
	} else if strings.EqualFold(ident, "cmp") {
		return MNEMONIC_CMP
	} else if strings.EqualFold(ident, "call") {
		return MNEMONIC_CALL
	} else if strings.EqualFold(ident, "jnz") {
		return MNEMONIC_JNZ
	} else if strings.EqualFold(ident, "ret") {
		return MNEMONIC_RET
	} else if strings.EqualFold(ident, "hlt") {
		return MNEMONIC_HLT
	}

	return MNEMONIC_INVALID
}

// Opcode value stored in the top four bits of the instruction word
func (mnemonic MnemonicType) Opcode() uint16 {
	switch mnemonic {
	case MNEMONIC_MV:
		return 0x0
	case MNEMONIC_IO:
		return 0x1
	case MNEMONIC_PUSH:
		return 0x2
	case MNEMONIC_POP:
		return 0x3
	case MNEMONIC_ADD:
		return 0x4
	case MNEMONIC_SUB:
		return 0x5
	case MNEMONIC_INC:
		return 0x6
	case MNEMONIC_DEC:
		return 0x7
	case MNEMONIC_AND:
		return 0x8
	case MNEMONIC_OR:
		return 0x9
	case MNEMONIC_NOT:
		return 0xA
	case MNEMONIC_CMP:
		return 0xB
	case MNEMONIC_CALL:
		return 0xC
	case MNEMONIC_JNZ:
		return 0xD
	case MNEMONIC_RET:
		return 0xE
	case MNEMONIC_HLT:
		return 0xF
	}

	return 0x0
}

// Number of operands the mnemonic requires
func (mnemonic MnemonicType) OperandCount() int {
	switch mnemonic {
	case MNEMONIC_MV,
		MNEMONIC_IO,
		MNEMONIC_ADD,
		MNEMONIC_SUB,
		MNEMONIC_AND,
		MNEMONIC_OR,
		MNEMONIC_NOT,
		MNEMONIC_CMP:
		return 2

	case MNEMONIC_PUSH,
		MNEMONIC_POP,
		MNEMONIC_INC,
		MNEMONIC_DEC,
		MNEMONIC_CALL,
		MNEMONIC_JNZ:
		return 1
	}

	return 0
}

func parseRegister(ident string, limit int) (uint16, bool) {
	for i := 0; i < limit; i++ {
		if strings.EqualFold(ident, registers[i]) {
			return uint16(i), true
		}
	}

	return 0, false
}

// Labels are alphanumeric and may not begin with a digit
func validLabel(label string) bool {
	if label == "" {
		return false
	}

	for i, r := range label {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}

		if i == 0 && unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

// Classifies an operand by its sigil: [addr] is a memory address, #n is an
// immediate, a known register name is a register, anything else is taken as
// a label reference. Instructions address general registers only in their
// first operand, so limit differs per position.
func classifyOperand(text string, limit int) Operand {
	if text == "" {
		return Operand{}
	}

	if strings.HasPrefix(text, "[") {
		return Operand{
			Type: OPERAND_MEMORY,
			Text: strings.Trim(text, "[]"),
		}
	}

	if strings.HasPrefix(text, "#") {
		return Operand{
			Type: OPERAND_IMMEDIATE,
			Text: strings.TrimPrefix(text, "#"),
		}
	}

	if _, ok := parseRegister(text, limit); ok {
		return Operand{
			Type: OPERAND_REGISTER,
			Text: text,
		}
	}

	return Operand{
		Type: OPERAND_LABEL,
		Text: text,
	}
}

// Recognizes a .data or .string line. The directive keyword may appear
// anywhere in the line; everything after it is the argument, everything
// before the colon (if any) is the label. The .string argument keeps its
// original case.
func (asm *Assembler) parseDirective(text string) (Statement, bool, error) {
	var stmt Statement

	lowered := strings.ToLower(text)

	keyword := ".data"
	stmt.Directive = DIRECTIVE_DATA
	index := strings.Index(lowered, keyword)

	if index == -1 {
		keyword = ".string"
		stmt.Directive = DIRECTIVE_STRING
		index = strings.Index(lowered, keyword)
	}

	if index == -1 {
		return Statement{}, false, nil
	}

	stmt.Keyword = keyword
	stmt.Arg = strings.TrimSpace(text[index+len(keyword):])

	head := text[:index]

	if colon := strings.Index(head, ":"); colon != -1 {
		label := strings.TrimSpace(head[:colon])

		if !validLabel(label) {
			return Statement{}, true, &InvalidLabelError{asm.line, label}
		}

		stmt.Label = strings.ToLower(label)
	} else if head = strings.TrimSpace(head); head != "" {
		return Statement{}, true, &InvalidLabelError{asm.line, head}
	}

	return stmt, true, nil
}

// Splits one source line into its token set. Tabs are normalized to spaces
// and the comment is cut at the rightmost semicolon; the remaining fields
// are found by rightmost-delimiter splits, comma first, then space, then
// colon. A line holding a lone mnemonic parses into the operand slot and is
// moved back.
func (asm *Assembler) parseLine(line string) (Statement, error) {
	text := strings.TrimLeft(line, " \t")
	text = strings.ReplaceAll(text, "\t", " ")

	var comment string

	if i := strings.LastIndex(text, ";"); i != -1 {
		comment = strings.TrimSpace(text[i+1:])
		text = text[:i]
	}

	if stmt, ok, err := asm.parseDirective(text); ok || err != nil {
		stmt.Comment = comment
		return stmt, err
	}

	var stmt Statement
	stmt.Comment = comment

	var op1Text, op2Text string

	if i := strings.LastIndex(text, ","); i != -1 {
		op2Text = strings.TrimSpace(text[i+1:])
		text = text[:i]
	} else {
		text = strings.TrimRight(text, " ")
	}

	if i := strings.LastIndex(text, " "); i != -1 {
		op1Text = strings.TrimSpace(text[i+1:])
		text = text[:i]
	} else {
		op1Text = ""
	}

	if i := strings.LastIndex(text, ":"); i != -1 {
		stmt.Label = strings.ToLower(strings.TrimSpace(text[:i]))
		stmt.Keyword = strings.TrimSpace(text[i+1:])
	} else {
		stmt.Keyword = strings.TrimSpace(text)
	}

	if stmt.Keyword == "" && op1Text != "" && op2Text == "" {
		stmt.Keyword = op1Text
		op1Text = ""
	}

	stmt.Keyword = strings.ToLower(stmt.Keyword)

	stmt.Op1 = classifyOperand(strings.ToLower(op1Text), generalRegisterCount)
	stmt.Op2 = classifyOperand(strings.ToLower(op2Text), registerCount)

	return stmt, nil
}
