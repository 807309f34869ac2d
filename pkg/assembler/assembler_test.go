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

package assembler_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/hwelch-fle/llama-16/pkg/assembler"
	"github.com/hwelch-fle/llama-16/pkg/encoding"
)

type testCase struct {
	Name    string
	Input   string
	Output  []uint16
	Symbols map[string]uint16
}

type failCase struct {
	Name  string
	Input string
	Error error
	Line  int
}

func testAssemblerSuccess(t *testing.T, test *testCase) {
	asm := assembler.New()

	result, err := asm.Assemble(strings.NewReader(test.Input))

	if err != nil {
		t.Fatal(err)
	}

	want := encoding.WordsToBytes(test.Output)

	if !bytes.Equal(result, want) {
		t.Fatalf(
			"Encoding mismatch\nwant:% 02X\nhave:% 02X",
			want,
			result,
		)
	}

	if test.Symbols != nil {
		if have := asm.Symbols().Len(); have != len(test.Symbols) {
			t.Fatalf(
				"Symbol count mismatch\nwant:%d\nhave:%d",
				len(test.Symbols),
				have,
			)
		}

		for name, want := range test.Symbols {
			have, exists := asm.Symbols().Lookup(name)

			if !exists {
				t.Fatalf(
					"Missing symbol\nwant:%s = %#04x\nhave:nil",
					name,
					want,
				)
			} else if have != want {
				t.Fatalf(
					"Symbol address mismatch\nwant:%s = %#04x\nhave:%#04x",
					name,
					want,
					have,
				)
			}
		}
	}
}

func testAssemblerFail(t *testing.T, test *failCase) {
	if test.Error == nil {
		panic("Fail case missing error value")
	}

	asm := assembler.New()

	_, err := asm.Assemble(strings.NewReader(test.Input))

	if err == nil {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:<nil>",
			t.Name(),
			test.Error,
		)
	}

	if reflect.TypeOf(err) != reflect.TypeOf(test.Error) {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:%T (%v)",
			t.Name(),
			test.Error,
			err,
			err,
		)
	}

	if test.Line != 0 {
		lineErr, ok := err.(assembler.LineError)

		if !ok {
			t.Fatalf("%T does not report a source line", err)
		}

		if have := lineErr.GetLine(); have != test.Line {
			t.Fatalf(
				"Error line mismatch\nwant:%d\nhave:%d",
				test.Line,
				have,
			)
		}
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerSuccess(t, &test)
			})
		}
	})
}

func testFail(t *testing.T, tests []failCase) {
	t.Run("Fail", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerFail(t, &test)
			})
		}
	})
}

// MV |0000|op1|op2| Copy src into dst
func TestMv(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "MV reg reg",
			Input:  `mv a, b`,
			Output: []uint16{0x0001},
		},
		{
			Name:   "MV reg imm",
			Input:  `mv a, #5`,
			Output: []uint16{0x00E0, 0x0005},
		},
		{
			Name:   "MV reg negative imm",
			Input:  `mv a, #-1`,
			Output: []uint16{0x00E0, 0xFFFF},
		},
		{
			Name:   "MV reg mem",
			Input:  `mv a, [9000]`,
			Output: []uint16{0x00F0, 0x9000},
		},
		{
			Name:   "MV mem reg",
			Input:  `mv [9000], a`,
			Output: []uint16{0x0F00, 0x9000},
		},
		{
			Name:   "MV reg pointer reg",
			Input:  `mv a, sp`,
			Output: []uint16{0x0005},
		},
		{
			Name:  "MV reg label",
			Input: "mv a, word\nhlt\nword: .data 7",
			Output: []uint16{
				0x00F0, 0x4003,
				0xF000,
				0x0007,
			},
			Symbols: map[string]uint16{"word": 0x4003},
		},
		{
			Name:   "MV mixed case",
			Input:  `MV A, B`,
			Output: []uint16{0x0001},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "MV missing operand",
			Input: `mv a`,
			Error: &assembler.InvalidOperandsError{},
			Line:  1,
		},
		{
			Name:  "MV pointer reg dst",
			Input: `mv sp, a`,
			Error: &assembler.UnknownLabelError{},
			Line:  1,
		},
		{
			Name:  "MV oversized imm",
			Input: `mv a, #70000`,
			Error: &assembler.LiteralRangeError{},
			Line:  1,
		},
	})
}

// IO |0001|op1|00|port| Move one byte between op1 and a device
func TestIo(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "IO reg out",
			Input:  `io a, out`,
			Output: []uint16{0x1002},
		},
		{
			Name:   "IO reg in",
			Input:  `io b, in`,
			Output: []uint16{0x1101},
		},
		{
			Name:   "IO imm out",
			Input:  `io #65, out`,
			Output: []uint16{0x1E02, 0x0041},
		},
		{
			Name:   "IO mem in",
			Input:  `io [9000], in`,
			Output: []uint16{0x1F01, 0x9000},
		},
		{
			Name:   "IO upper case port",
			Input:  `io a, OUT`,
			Output: []uint16{0x1002},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "IO bad port",
			Input: `io a, b`,
			Error: &assembler.InvalidPortError{},
			Line:  1,
		},
		{
			Name:  "IO input into imm",
			Input: `io #65, in`,
			Error: &assembler.ImmediateInputError{},
			Line:  1,
		},
		{
			Name:  "IO missing port",
			Input: `io a`,
			Error: &assembler.InvalidOperandsError{},
			Line:  1,
		},
	})
}

// PUSH |0010|op1| Push op1, POP |0011|op1| Pop into op1
func TestStack(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "PUSH reg",
			Input:  `push a`,
			Output: []uint16{0x2000},
		},
		{
			Name:   "PUSH imm",
			Input:  `push #5`,
			Output: []uint16{0x2E00, 0x0005},
		},
		{
			Name:   "PUSH mem",
			Input:  `push [9000]`,
			Output: []uint16{0x2F00, 0x9000},
		},
		{
			Name:   "POP reg",
			Input:  `pop d`,
			Output: []uint16{0x3300},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "PUSH missing operand",
			Input: `push`,
			Error: &assembler.InvalidOperandsError{},
			Line:  1,
		},
		{
			Name:  "PUSH extra operand",
			Input: `push a, b`,
			Error: &assembler.InvalidOperandsError{},
			Line:  1,
		},
	})
}

// ADD/SUB/INC/DEC |01xx|op1|op2| Signed 16-bit arithmetic
func TestArithmetic(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "ADD reg reg",
			Input:  `add a, b`,
			Output: []uint16{0x4001},
		},
		{
			Name:   "ADD reg imm",
			Input:  `add a, #10`,
			Output: []uint16{0x40E0, 0x000A},
		},
		{
			Name:   "ADD reg mem",
			Input:  `add c, [9000]`,
			Output: []uint16{0x42F0, 0x9000},
		},
		{
			Name:   "SUB reg imm",
			Input:  `sub a, #1`,
			Output: []uint16{0x50E0, 0x0001},
		},
		{
			Name:   "INC reg",
			Input:  `inc a`,
			Output: []uint16{0x6000},
		},
		{
			Name:   "INC mem",
			Input:  `inc [9000]`,
			Output: []uint16{0x6F00, 0x9000},
		},
		{
			Name:   "DEC reg",
			Input:  `dec d`,
			Output: []uint16{0x7300},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "ADD missing operand",
			Input: `add a`,
			Error: &assembler.InvalidOperandsError{},
			Line:  1,
		},
		{
			Name:  "INC extra operand",
			Input: `inc a, b`,
			Error: &assembler.InvalidOperandsError{},
			Line:  1,
		},
	})
}

// AND/OR/NOT/CMP |10xx|op1|op2| Bitwise logic and comparison
func TestLogic(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "AND reg reg",
			Input:  `and a, b`,
			Output: []uint16{0x8001},
		},
		{
			Name:   "OR reg reg",
			Input:  `or b, c`,
			Output: []uint16{0x9102},
		},
		{
			Name:   "NOT reg reg",
			Input:  `not a, b`,
			Output: []uint16{0xA001},
		},
		{
			Name:   "CMP reg imm",
			Input:  `cmp a, #0`,
			Output: []uint16{0xB0E0, 0x0000},
		},
	})
}

// CALL/JNZ/RET/HLT |11xx| Control flow
func TestControlFlow(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "CALL forward label",
			Input: "call fn\nhlt\nfn: ret",
			Output: []uint16{
				0xCF00, 0x4003,
				0xF000,
				0xE000,
			},
			Symbols: map[string]uint16{"fn": 0x4003},
		},
		{
			Name:  "JNZ backward label",
			Input: "loop: dec a\njnz loop\nhlt",
			Output: []uint16{
				0x7000,
				0xDF00, 0x4000,
				0xF000,
			},
			Symbols: map[string]uint16{"loop": 0x4000},
		},
		{
			Name:   "RET",
			Input:  `ret`,
			Output: []uint16{0xE000},
		},
		{
			Name:   "HLT",
			Input:  `hlt`,
			Output: []uint16{0xF000},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "JNZ unknown label",
			Input: `jnz nowhere`,
			Error: &assembler.UnknownLabelError{},
			Line:  1,
		},
		{
			Name:  "RET with operand",
			Input: `ret a`,
			Error: &assembler.InvalidOperandsError{},
			Line:  1,
		},
	})
}

// .data stores one signed word, .string a NUL-terminated byte string
func TestDirectives(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:    ".data positive",
			Input:   `five: .data 5`,
			Output:  []uint16{0x0005},
			Symbols: map[string]uint16{"five": 0x4000},
		},
		{
			Name:    ".data negative",
			Input:   `neg: .data -1`,
			Output:  []uint16{0xFFFF},
			Symbols: map[string]uint16{"neg": 0x4000},
		},
		{
			Name:    ".string even length",
			Input:   `msg: .string "AB"`,
			Output:  []uint16{0x4241, 0x0000},
			Symbols: map[string]uint16{"msg": 0x4000},
		},
		{
			Name:    ".string odd length",
			Input:   `msg: .string "ABC"`,
			Output:  []uint16{0x4241, 0x0043},
			Symbols: map[string]uint16{"msg": 0x4000},
		},
		{
			Name:    ".string single quotes",
			Input:   `msg: .string 'hi'`,
			Output:  []uint16{0x6968, 0x0000},
			Symbols: map[string]uint16{"msg": 0x4000},
		},
		{
			Name:    ".data mixed case",
			Input:   `Five: .DATA 5`,
			Output:  []uint16{0x0005},
			Symbols: map[string]uint16{"five": 0x4000},
		},
		{
			Name:  ".data addressed by instruction",
			Input: "mv a, [count]\nhlt\ncount: .data 3",
			Output: []uint16{
				0x00F0, 0x4003,
				0xF000,
				0x0003,
			},
			Symbols: map[string]uint16{"count": 0x4003},
		},
	})

	testFail(t, []failCase{
		{
			Name:  ".data unlabeled",
			Input: `.data 5`,
			Error: &assembler.UnlabeledDirectiveError{},
			Line:  1,
		},
		{
			Name:  ".data non-integer",
			Input: `x: .data foo`,
			Error: &assembler.InvalidDataError{},
			Line:  1,
		},
		{
			Name:  ".data missing argument",
			Input: `x: .data`,
			Error: &assembler.InvalidOperandsError{},
			Line:  1,
		},
		{
			Name:  ".data digit-leading label",
			Input: `1x: .data 5`,
			Error: &assembler.InvalidLabelError{},
			Line:  1,
		},
		{
			Name:  ".string unlabeled",
			Input: `.string "foo"`,
			Error: &assembler.UnlabeledDirectiveError{},
			Line:  1,
		},
	})
}

// Comment, label, and whitespace handling
func TestTokenizer(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "Empty input",
			Input:  ``,
			Output: nil,
		},
		{
			Name:   "Comment only",
			Input:  `; just a comment`,
			Output: nil,
		},
		{
			Name:   "Blank lines",
			Input:  "\n\n\n",
			Output: nil,
		},
		{
			Name:   "Trailing comment",
			Input:  `mv a, b ; copy b`,
			Output: []uint16{0x0001},
		},
		{
			Name:    "Labeled instruction",
			Input:   `start: hlt`,
			Output:  []uint16{0xF000},
			Symbols: map[string]uint16{"start": 0x4000},
		},
		{
			Name:   "Leading whitespace",
			Input:  "\t  mv a, b",
			Output: []uint16{0x0001},
		},
		{
			Name:   "Tab separated operands",
			Input:  "mv\ta,\tb",
			Output: []uint16{0x0001},
		},
		{
			Name:    "Upper case label lowered",
			Input:   "START: hlt\njnz start",
			Output:  []uint16{0xF000, 0xDF00, 0x4000},
			Symbols: map[string]uint16{"start": 0x4000},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Unknown mnemonic",
			Input: `frob a, b`,
			Error: &assembler.UnknownMnemonicError{},
			Line:  1,
		},
		{
			Name:  "Redeclared label",
			Input: "x: .data 1\nx: .data 2",
			Error: &assembler.RedeclaredLabelError{},
			Line:  2,
		},
		{
			Name:  "Error reports later line",
			Input: "mv a, b\nmv a, b\njnz nowhere",
			Error: &assembler.UnknownLabelError{},
			Line:  3,
		},
	})
}

const countdownSource = `
; count to zero then print a done marker
start:	mv a, #3
loop:	dec a
	jnz loop
	io #33, out	; '!'
	hlt
`

// Two fresh sessions over the same source produce identical images
func TestDeterminism(t *testing.T) {
	first := assembler.New()
	second := assembler.New()

	a, err := first.Assemble(strings.NewReader(countdownSource))

	if err != nil {
		t.Fatal(err)
	}

	b, err := second.Assemble(strings.NewReader(countdownSource))

	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(a, b) {
		t.Fatalf("Images differ\nfirst:% 02X\nsecond:% 02X", a, b)
	}
}

func TestSymbolListing(t *testing.T) {
	asm := assembler.New()

	input := "start: mv a, #1\n" +
		"averyveryverylonglabelname: .data 9\n" +
		"hlt"

	if _, err := asm.Assemble(strings.NewReader(input)); err != nil {
		t.Fatal(err)
	}

	var listing bytes.Buffer

	if _, err := asm.Symbols().WriteTo(&listing); err != nil {
		t.Fatal(err)
	}

	want := "4000 START\n" +
		"4002 AVERYVERYVERYLON\n"

	if listing.String() != want {
		t.Fatalf(
			"Listing mismatch\nwant:%q\nhave:%q",
			want,
			listing.String(),
		)
	}
}

func TestReadSymTable(t *testing.T) {
	listing := "4000 START\n4002 LOOP\n"

	table, err := assembler.ReadSymTable(strings.NewReader(listing))

	if err != nil {
		t.Fatal(err)
	}

	if table.Len() != 2 {
		t.Fatalf("Symbol count mismatch\nwant:2\nhave:%d", table.Len())
	}

	address, exists := table.Lookup("loop")

	if !exists || address != 0x4002 {
		t.Fatalf("Lookup mismatch\nwant:0x4002\nhave:%#04x (%v)",
			address, exists)
	}
}
