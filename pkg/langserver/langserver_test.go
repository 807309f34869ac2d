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
	"strings"
	"testing"
)

func TestDiagnoseCleanDocument(t *testing.T) {
	source := "start:\tmv a, #5\n\thlt\n"

	diagnostics := diagnose(source)

	if len(diagnostics) != 0 {
		t.Fatalf("Unexpected diagnostics: %v", diagnostics)
	}
}

func TestDiagnoseBadMnemonic(t *testing.T) {
	source := "\tmv a, #5\n\tfoo a, b\n\thlt\n"

	diagnostics := diagnose(source)

	if len(diagnostics) != 1 {
		t.Fatalf("Expected one diagnostic, have %d", len(diagnostics))
	}

	diagnostic := diagnostics[0]

	if diagnostic.Range.Start.Line != 1 {
		t.Errorf(
			"Diagnostic on wrong line\nwant:%d\nhave:%d",
			1,
			diagnostic.Range.Start.Line,
		)
	}

	if diagnostic.Severity != 1 {
		t.Errorf("Expected error severity, have %d", diagnostic.Severity)
	}

	if !strings.Contains(diagnostic.Message, "foo") {
		t.Errorf("Message does not name the mnemonic: %q", diagnostic.Message)
	}
}

func TestDiagnoseUnknownLabel(t *testing.T) {
	source := "\tjnz missing\n\thlt\n"

	diagnostics := diagnose(source)

	if len(diagnostics) != 1 {
		t.Fatalf("Expected one diagnostic, have %d", len(diagnostics))
	}

	if diagnostics[0].Range.Start.Line != 0 {
		t.Errorf(
			"Diagnostic on wrong line\nwant:%d\nhave:%d",
			0,
			diagnostics[0].Range.Start.Line,
		)
	}
}

func TestWordAt(t *testing.T) {
	cases := []struct {
		Name string
		Text string
		Pos  Position
		Word string
	}{
		{
			Name: "mnemonic",
			Text: "\tmv a, #5",
			Pos:  Position{Line: 0, Character: 2},
			Word: "mv",
		},
		{
			Name: "register",
			Text: "\tmv a, #5",
			Pos:  Position{Line: 0, Character: 4},
			Word: "a",
		},
		{
			Name: "directive",
			Text: "msg:\t.string \"hi\"",
			Pos:  Position{Line: 0, Character: 7},
			Word: ".string",
		},
		{
			Name: "second line",
			Text: "start:\tmv a, #5\n\thlt",
			Pos:  Position{Line: 1, Character: 2},
			Word: "hlt",
		},
		{
			Name: "uppercase",
			Text: "\tPUSH a",
			Pos:  Position{Line: 0, Character: 3},
			Word: "push",
		},
		{
			Name: "whitespace",
			Text: "\tmv a, #5",
			Pos:  Position{Line: 0, Character: 0},
			Word: "",
		},
		{
			Name: "past line end",
			Text: "hlt",
			Pos:  Position{Line: 0, Character: 10},
			Word: "",
		},
		{
			Name: "past document end",
			Text: "hlt",
			Pos:  Position{Line: 3, Character: 0},
			Word: "",
		},
	}

	for _, test := range cases {
		t.Run(test.Name, func(t *testing.T) {
			word := wordAt(test.Text, test.Pos)

			if word != test.Word {
				t.Fatalf("want:%q\nhave:%q", test.Word, word)
			}
		})
	}
}

func TestHoverReferenceCoversKeywords(t *testing.T) {
	keywords := []string{
		"mv", "io", "push", "pop", "add", "sub", "inc", "dec",
		"and", "or", "not", "cmp", "call", "jnz", "ret", "hlt",
		".data", ".string",
		"a", "b", "c", "d", "ip", "sp", "bp",
	}

	for _, keyword := range keywords {
		if _, ok := hoverReference[keyword]; !ok {
			t.Errorf("No hover text for %q", keyword)
		}
	}
}
