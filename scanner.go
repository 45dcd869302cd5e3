package physcalc

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dnswlt/physcalc/token"
	"github.com/dnswlt/physcalc/unit"
)

// Scanner contains the full input and current scanning state.
type Scanner struct {
	input string
	mark  int
	pos   int
}

// Creates a new scanner from the given input.
func NewScanner(input string) Scanner {
	return Scanner{input: input, pos: 0}
}

var (
	// Group 1 matches fractions, group 2 plain integers. Everything else is a decimal.
	numberRegexp = regexp.MustCompile(`^(?:(\d+/\d+)|\d+[eE][+-]?\d+|\d*\.\d+(?:[eE][+-]?\d+)?|\d+\.\d*(?:[eE][+-]?\d+)?|(\d+))`)

	// Greek letters typed as \x. A '-' marks letters without a Greek counterpart.
	latinLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	greekLetters = []rune("αβγδεφγχιηκλμνωπψρστυθ-ξ-ζΑΒΓΔΕΦΓΧΙΗΚΛΜΝΩΠΨΡΣΤΥΘ-Ξ-Ζ")

	// Look-alike code points that are folded into their Greek letter.
	identReplacer = strings.NewReplacer("\u00b5", "\u03bc", "\u2126", "\u03a9")
)

// GreekLetter returns the Greek letter that the escape \c stands for.
func GreekLetter(c rune) (rune, bool) {
	i := strings.IndexRune(latinLetters, c)
	if i < 0 || greekLetters[i] == '-' {
		return 0, false
	}
	return greekLetters[i], true
}

// AtEnd returns true if the scanner has processed its input entirely.
func (s *Scanner) AtEnd() bool {
	return s.pos >= len(s.input)
}

func (s *Scanner) setMark() {
	s.mark = s.pos
}

func (s *Scanner) advance() rune {
	if s.AtEnd() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(s.input[s.pos:])
	s.pos += size
	return r
}

func (s *Scanner) peek() rune {
	if s.AtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.pos:])
	return r
}

func (s *Scanner) match(expected rune) bool {
	if s.peek() == expected {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) val() string {
	return s.input[s.mark:s.pos]
}

func (s *Scanner) token(typ token.TokenType) (token.Token, error) {
	return s.tokenVal(typ, s.val())
}

func (s *Scanner) tokenVal(typ token.TokenType, val string) (token.Token, error) {
	return token.Token{Typ: typ, Pos: token.Pos(s.mark), End: token.Pos(s.pos), Val: val}, nil
}

func (s *Scanner) errorf(pos int, format string, a ...any) (token.Token, error) {
	return token.Token{}, &SyntaxError{pos: token.Pos(pos), msg: fmt.Sprintf(format, a...)}
}

// NextToken scans the next token in the input and advances the scanner state.
//
// If the scanner has reached the end of the input, it returns [token.EndOfInput].
func (s *Scanner) NextToken() (token.Token, error) {
	for !s.AtEnd() {
		s.setMark()
		r := s.advance()
		if r == utf8.RuneError {
			return s.errorf(s.mark, "invalid UTF-8 code point")
		}
		if r == '\\' || unicode.IsLetter(r) {
			return s.ident()
		}
		if unit.IsSuperscript(r) {
			return s.superscript()
		}
		switch r {
		case '(':
			return s.token(token.LeftParen)
		case ')':
			return s.token(token.RightParen)
		case '+':
			return s.token(token.Plus)
		case '-':
			return s.token(token.Minus)
		case '*':
			if s.match('*') {
				return s.token(token.Power)
			}
			return s.token(token.Times)
		case '·', '×':
			return s.token(token.Times)
		case '/', '÷':
			return s.token(token.Div)
		case '^':
			return s.token(token.Power)
		case ':':
			if s.match('=') {
				return s.token(token.Assign)
			}
		case '=':
			return s.token(token.Assign)
		case '[':
			return s.backref()
		case '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return s.number()
		case ' ', '\t', '\n', '\r':
			continue
		}
		return s.errorf(s.mark, "invalid character %q", r)
	}
	s.setMark()
	return s.token(token.EndOfInput)
}

// Scans all tokens in the scanner's remaining input.
// If the scan is successful, the last token
// will always be [token.EndOfInput]. If any errors occur during the scan,
// all tokens scanned so far are returned, together with an error.
func (s *Scanner) ScanAll() ([]token.Token, error) {
	r := []token.Token{}
	for {
		t, err := s.NextToken()
		if err != nil {
			return r, err
		}
		r = append(r, t)
		if t.Typ == token.EndOfInput {
			break
		}
	}
	return r, nil
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\\'
}

// ident scans an identifier. The token value is the normalized name,
// with escapes like \a replaced by their Greek letter.
func (s *Scanner) ident() (token.Token, error) {
	var b strings.Builder
	s.pos = s.mark
	for !s.AtEnd() {
		r := s.peek()
		if !isIdentRune(r) || s.pos == s.mark && (r == '_' || unicode.IsDigit(r)) {
			break
		}
		s.advance()
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		escPos := s.pos - 1
		c := s.advance()
		g, ok := GreekLetter(c)
		if !ok {
			return s.errorf(escPos, "invalid escape %q", s.input[escPos:s.pos])
		}
		b.WriteRune(g)
	}
	name := b.String()
	if strings.HasSuffix(name, "_") {
		return s.errorf(s.mark, "empty subscript in %q", s.val())
	}
	return s.tokenVal(token.Ident, identReplacer.Replace(name))
}

// Parses integer, decimal and fraction literals. A directly attached j or J
// turns the literal into an imaginary number and is kept in the token value.
func (s *Scanner) number() (token.Token, error) {
	ix := numberRegexp.FindStringSubmatchIndex(s.input[s.mark:])
	if ix == nil {
		return s.errorf(s.mark, "invalid number literal")
	}
	s.pos = s.mark + ix[1]
	typ := token.DecimalLiteral
	if ix[2] >= 0 && continuesNumber(s.input[s.pos:]) {
		// 6/2.5 or 1/2e3: the denominator is not an integer.
		s.pos = s.mark + strings.IndexByte(s.input[s.mark:], '/')
		typ = token.IntLiteral
	} else if ix[2] >= 0 {
		typ = token.FracLiteral
	} else if ix[4] >= 0 {
		typ = token.IntLiteral
	}
	if r := s.peek(); r == 'j' || r == 'J' {
		next, size := utf8.DecodeRuneInString(s.input[s.pos+1:])
		if size == 0 || !isIdentRune(next) {
			s.advance()
		}
	}
	return s.token(typ)
}

// continuesNumber reports whether rest starts with a decimal point or an exponent.
func continuesNumber(rest string) bool {
	if strings.HasPrefix(rest, ".") {
		return true
	}
	if rest == "" || (rest[0] != 'e' && rest[0] != 'E') {
		return false
	}
	rest = rest[1:]
	if strings.HasPrefix(rest, "+") || strings.HasPrefix(rest, "-") {
		rest = rest[1:]
	}
	return rest != "" && rest[0] >= '0' && rest[0] <= '9'
}

func (s *Scanner) superscript() (token.Token, error) {
	for unit.IsSuperscript(s.peek()) {
		s.advance()
	}
	if _, ok := unit.ParseSuperscript(s.val()); !ok {
		return s.errorf(s.mark, "invalid exponent %q", s.val())
	}
	return s.token(token.Superscript)
}

// backref scans [n]. The token value holds only the digits.
func (s *Scanner) backref() (token.Token, error) {
	start := s.pos
	for r := s.peek(); r >= '0' && r <= '9'; r = s.peek() {
		s.advance()
	}
	digits := s.input[start:s.pos]
	if digits == "" || !s.match(']') {
		return s.errorf(s.mark, "invalid backreference, want [n]")
	}
	return s.tokenVal(token.Backref, digits)
}
