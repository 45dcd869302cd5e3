package physcalc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dnswlt/physcalc/token"
	"github.com/google/go-cmp/cmp"
)

func compareTokenTypes(t *testing.T, actual, expected []token.TokenType) {
	t.Helper()
	if len(actual) != len(expected) {
		t.Fatalf("Unexpected number of tokens: got %d (%v), expected %d", len(actual), actual, len(expected))
	}
	for i := range expected {
		if actual[i] != expected[i] {
			t.Fatalf("Expected token %s at index %d, got %s", expected[i], i, actual[i])
		}
	}
}

func scanTypes(t *testing.T, input string) []token.TokenType {
	t.Helper()
	s := NewScanner(input)
	ts, err := s.ScanAll()
	if err != nil {
		t.Fatalf("Error scanning %q: %s", input, err)
	}
	types := make([]token.TokenType, len(ts))
	for i, tok := range ts {
		types[i] = tok.Typ
	}
	return types
}

func TestScanOperators(t *testing.T) {
	tests := []struct {
		op   string
		want token.TokenType
	}{
		{op: "+", want: token.Plus},
		{op: "-", want: token.Minus},
		{op: "*", want: token.Times},
		{op: "·", want: token.Times},
		{op: "×", want: token.Times},
		{op: "/", want: token.Div},
		{op: "÷", want: token.Div},
		{op: "**", want: token.Power},
		{op: "^", want: token.Power},
		{op: ":=", want: token.Assign},
		{op: "=", want: token.Assign},
		{op: "(", want: token.LeftParen},
		{op: ")", want: token.RightParen},
		{op: "²", want: token.Superscript},
		{op: "⁻¹", want: token.Superscript},
	}
	for _, test := range tests {
		s := NewScanner(test.op)
		got, err := s.NextToken()
		if err != nil {
			t.Fatalf("Error scanning symbol %q: %s", test.op, err)
		}
		if got.Typ != test.want {
			t.Errorf("%q: want token %s, got %s", test.op, test.want, got.Typ)
		}
	}
}

func TestScanExpr(t *testing.T) {
	got := scanTypes(t, "2 * (3 + 4)")
	compareTokenTypes(t, got, []token.TokenType{token.IntLiteral, token.Times, token.LeftParen,
		token.IntLiteral, token.Plus, token.IntLiteral, token.RightParen, token.EndOfInput})
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		input   string
		wantTyp token.TokenType
		wantVal string
	}{
		{"0", token.IntLiteral, "0"},
		{"123", token.IntLiteral, "123"},
		{"1.5", token.DecimalLiteral, "1.5"},
		{".5", token.DecimalLiteral, ".5"},
		{"1.", token.DecimalLiteral, "1."},
		{"1e3", token.DecimalLiteral, "1e3"},
		{"1.2e-4", token.DecimalLiteral, "1.2e-4"},
		{"1/16", token.FracLiteral, "1/16"},
		{"3j", token.IntLiteral, "3j"},
		{"2J", token.IntLiteral, "2J"},
		{".5j", token.DecimalLiteral, ".5j"},
		{"1/2j", token.FracLiteral, "1/2j"},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			s := NewScanner(test.input)
			got, err := s.NextToken()
			if err != nil {
				t.Fatalf("Unexpected error: %s", err)
			}
			if got.Typ != test.wantTyp || got.Val != test.wantVal {
				t.Errorf("Got %s(%q), want %s(%q)", got.Typ, got.Val, test.wantTyp, test.wantVal)
			}
			if !s.AtEnd() {
				t.Errorf("Scanner did not consume all input")
			}
		})
	}
}

func TestScanNumberBoundaries(t *testing.T) {
	tests := []struct {
		input string
		want  []token.TokenType
	}{
		{"1 / 16", []token.TokenType{token.IntLiteral, token.Div, token.IntLiteral, token.EndOfInput}},
		{"2 J", []token.TokenType{token.IntLiteral, token.Ident, token.EndOfInput}},
		{"2jx", []token.TokenType{token.IntLiteral, token.Ident, token.EndOfInput}},
		{"15 km/h", []token.TokenType{token.IntLiteral, token.Ident, token.Div, token.Ident, token.EndOfInput}},
		{"m²", []token.TokenType{token.Ident, token.Superscript, token.EndOfInput}},
		{"[12] + 1", []token.TokenType{token.Backref, token.Plus, token.IntLiteral, token.EndOfInput}},
		{"6/2.5", []token.TokenType{token.IntLiteral, token.Div, token.DecimalLiteral, token.EndOfInput}},
		{"1/2e3", []token.TokenType{token.IntLiteral, token.Div, token.DecimalLiteral, token.EndOfInput}},
		{"1/2E-3", []token.TokenType{token.IntLiteral, token.Div, token.DecimalLiteral, token.EndOfInput}},
		{"3/4.", []token.TokenType{token.IntLiteral, token.Div, token.DecimalLiteral, token.EndOfInput}},
		{"1/2em", []token.TokenType{token.FracLiteral, token.Ident, token.EndOfInput}},
		{"1/2e", []token.TokenType{token.FracLiteral, token.Ident, token.EndOfInput}},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			compareTokenTypes(t, scanTypes(t, test.input), test.want)
		})
	}
}

func TestScanFractionFallback(t *testing.T) {
	s := NewScanner("6/2.5")
	got, err := s.ScanAll()
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	want := []token.Token{
		{Typ: token.IntLiteral, Pos: 0, End: 1, Val: "6"},
		{Typ: token.Div, Pos: 1, End: 2, Val: "/"},
		{Typ: token.DecimalLiteral, Pos: 2, End: 5, Val: "2.5"},
		{Typ: token.EndOfInput, Pos: 5, End: 5, Val: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Token mismatch (-want +got):\n%s", diff)
	}
}

func TestScanIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x", "x"},
		{"m_e", "m_e"},
		{"c_0", "c_0"},
		{`\a`, "α"},
		{`t_\a`, "t_α"},
		{`\O`, "Ω"},
		{`2k\O`, "kΩ"},
		{"µ", "μ"},
		{"kΩ", "kΩ"},
		{"αβ", "αβ"},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			s := NewScanner(test.input)
			ts, err := s.ScanAll()
			if err != nil {
				t.Fatalf("Unexpected error: %s", err)
			}
			var got string
			for _, tok := range ts {
				if tok.Typ == token.Ident {
					got = tok.Val
				}
			}
			if got != test.want {
				t.Errorf("Got identifier %q, want %q", got, test.want)
			}
		})
	}
}

func TestScanBackref(t *testing.T) {
	s := NewScanner("[42]")
	got, err := s.NextToken()
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	want := token.Token{Typ: token.Backref, Pos: 0, End: 4, Val: "42"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Backref token mismatch (-want +got):\n%s", diff)
	}
}

func TestScanPositions(t *testing.T) {
	s := NewScanner("x := 3")
	got, err := s.ScanAll()
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	want := []token.Token{
		{Typ: token.Ident, Pos: 0, End: 1, Val: "x"},
		{Typ: token.Assign, Pos: 2, End: 4, Val: ":="},
		{Typ: token.IntLiteral, Pos: 5, End: 6, Val: "3"},
		{Typ: token.EndOfInput, Pos: 6, End: 6, Val: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Token mismatch (-want +got):\n%s", diff)
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantPos token.Pos
	}{
		{"$", 0},
		{"1 + ?", 4},
		{`\w`, 0},
		{`x\y`, 1},
		{"x_", 0},
		{"[]", 0},
		{"[1", 0},
		{"a := :", 5},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			s := NewScanner(test.input)
			_, err := s.ScanAll()
			if err == nil {
				t.Fatalf("Expected error for %q", test.input)
			}
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("Expected *SyntaxError, got %T", err)
			}
			if serr.Pos() != test.wantPos {
				t.Errorf("Got error position %d, want %d", serr.Pos(), test.wantPos)
			}
		})
	}
}
