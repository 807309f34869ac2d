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
	"fmt"
	"io"
	"strings"
)

type MnemonicType uint
type DirectiveType uint
type OperandType uint

// Operand holds one classified operand. Text is the operand with its sigil
// stripped: the bracketed address for OPERAND_MEMORY, the bare number for
// OPERAND_IMMEDIATE, the register or label name otherwise.
type Operand struct {
	Type OperandType
	Text string
}

// Statement is the token set produced for one source line. Directive lines
// carry the directive argument in Arg; instruction lines carry up to two
// classified operands.
type Statement struct {
	Label     string
	Keyword   string
	Directive DirectiveType
	Op1       Operand
	Op2       Operand
	Arg       string
	Comment   string
}

// SymTable maps labels to their load addresses, preserving the order the
// labels were declared in.
type SymTable struct {
	names     []string
	addresses map[string]uint16
}

func NewSymTable() *SymTable {
	return &SymTable{addresses: make(map[string]uint16)}
}

// Records a label, returning false if the label was already declared
func (table *SymTable) Add(name string, address uint16) bool {
	if _, ok := table.addresses[name]; ok {
		return false
	}

	table.names = append(table.names, name)
	table.addresses[name] = address
	return true
}

func (table *SymTable) Lookup(name string) (uint16, bool) {
	address, ok := table.addresses[name]
	return address, ok
}

func (table *SymTable) Len() int {
	return len(table.names)
}

// Calls fn for each label in declaration order
func (table *SymTable) Each(fn func(name string, address uint16)) {
	for _, name := range table.names {
		fn(name, table.addresses[name])
	}
}

// Writes the symbol listing, one "ADDR NAME" line per label in declaration
// order. Names are upper-cased and truncated to sixteen characters.
func (table *SymTable) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, name := range table.names {
		display := name

		if len(display) > 16 {
			display = display[:16]
		}

		n, err := fmt.Fprintf(
			w, "%04X %s\n", table.addresses[name], strings.ToUpper(display),
		)

		total += int64(n)

		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// ReadSymTable parses a symbol listing previously produced by
// SymTable.WriteTo. Label names are lower-cased to match assembler output.
func ReadSymTable(r io.Reader) (*SymTable, error) {
	table := NewSymTable()
	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		if text == "" {
			continue
		}

		var address uint16
		var name string

		if _, err := fmt.Sscanf(text, "%04X %s", &address, &name); err != nil {
			return nil, fmt.Errorf("symbol file line %d: %v", line, err)
		}

		table.Add(strings.ToLower(name), address)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return table, nil
}

// LineError is implemented by every assembly error so callers can recover
// the 1-based source line the error refers to.
type LineError interface {
	GetLine() int
}

type InvalidLabelError struct {
	Line  int
	Label string
}

func (err *InvalidLabelError) GetLine() int {
	return err.Line
}

func (err *InvalidLabelError) Error() string {
	return fmt.Sprintf(
		"line %d: Invalid label '%s'", err.Line, err.Label,
	)
}

type UnlabeledDirectiveError struct {
	Line int
}

func (err *UnlabeledDirectiveError) GetLine() int {
	return err.Line
}

func (err *UnlabeledDirectiveError) Error() string {
	return fmt.Sprintf(
		"line %d: .data and .string directives must be labeled", err.Line,
	)
}

type UnknownMnemonicError struct {
	Line     int
	Received string
}

func (err *UnknownMnemonicError) GetLine() int {
	return err.Line
}

func (err *UnknownMnemonicError) Error() string {
	return fmt.Sprintf(
		"line %d: Unrecognized mnemonic '%s'", err.Line, err.Received,
	)
}

type InvalidOperandsError struct {
	Line    int
	Keyword string
}

func (err *InvalidOperandsError) GetLine() int {
	return err.Line
}

func (err *InvalidOperandsError) Error() string {
	return fmt.Sprintf(
		"line %d: Invalid operands for '%s'", err.Line, err.Keyword,
	)
}

type InvalidPortError struct {
	Line int
	Port string
}

func (err *InvalidPortError) GetLine() int {
	return err.Line
}

func (err *InvalidPortError) Error() string {
	return fmt.Sprintf(
		"line %d: Invalid io port '%s', expected 'in' or 'out'",
		err.Line,
		err.Port,
	)
}

type ImmediateInputError struct {
	Line int
}

func (err *ImmediateInputError) GetLine() int {
	return err.Line
}

func (err *ImmediateInputError) Error() string {
	return fmt.Sprintf(
		"line %d: Cannot read input into an immediate value", err.Line,
	)
}

type InvalidDataError struct {
	Line     int
	Received string
}

func (err *InvalidDataError) GetLine() int {
	return err.Line
}

func (err *InvalidDataError) Error() string {
	return fmt.Sprintf(
		"line %d: Error reading '%s', not a valid integer",
		err.Line,
		err.Received,
	)
}

type LiteralRangeError struct {
	Line     int
	Received string
}

func (err *LiteralRangeError) GetLine() int {
	return err.Line
}

func (err *LiteralRangeError) Error() string {
	return fmt.Sprintf(
		"line %d: Value '%s' exceeds 16 bits", err.Line, err.Received,
	)
}

type RedeclaredLabelError struct {
	Line  int
	Label string
}

func (err *RedeclaredLabelError) GetLine() int {
	return err.Line
}

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf(
		"line %d: Redeclaration of label '%s'", err.Line, err.Label,
	)
}

type UnknownLabelError struct {
	Line  int
	Label string
}

func (err *UnknownLabelError) GetLine() int {
	return err.Line
}

func (err *UnknownLabelError) Error() string {
	return fmt.Sprintf(
		"line %d: Unknown label '%s'", err.Line, err.Label,
	)
}
