package token

//go:generate stringer -type=TokenType
type TokenType int32

const (
	Unspecified TokenType = iota
	// Literals
	IntLiteral     // 0 1 2 3j
	DecimalLiteral // 0. 1.2 3e-4 .5j
	FracLiteral    // 1/16
	// Operators
	Plus        // +
	Minus       // -
	Times       // * · ×
	Div         // / ÷
	Power       // ** ^
	Superscript // ² ³ ⁻¹
	Assign      // :=
	// Separators
	LeftParen  // (
	RightParen // )
	Backref    // [12]
	// Identifiers
	Ident
	// Don't treat end of input as an error, but use a special token.
	EndOfInput
)

type Token struct {
	Typ TokenType
	Pos Pos
	End Pos
	Val string
}

// IsNumber reports whether t is one of the numeric literal tokens.
func (t Token) IsNumber() bool {
	return t.Typ == IntLiteral || t.Typ == DecimalLiteral || t.Typ == FracLiteral
}

// Pos is a byte offset into the scanned line.
type Pos int

type Poser interface {
	Pos() Pos
}
