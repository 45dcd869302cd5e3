package physcalc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dnswlt/physcalc/token"
	"github.com/dnswlt/physcalc/unit"
)

// Parser turns the tokens of one input line into an Expr.
// Identifiers directly following a number are taken as its unit
// if they resolve in units.
type Parser struct {
	tokens  []token.Token
	current int
	units   *unit.Table
}

func NewParser(tokens []token.Token, units *unit.Table) Parser {
	return Parser{tokens: tokens, current: 0, units: units}
}

type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// Expr is an immutable expression tree. Exprs are stored in History
// and may be evaluated any number of times.
type Expr interface {
	Node
	fmt.Stringer
	exprNode()
}

type BinaryExpr struct {
	X     Expr
	OpPos token.Pos
	Op    token.TokenType
	Y     Expr
}

type UnaryExpr struct {
	X     Expr
	OpPos token.Pos
	Op    token.TokenType
}

type VarExpr struct {
	Name    string
	NamePos token.Pos
	NameEnd token.Pos
}

// AssignExpr binds the value of X to Name.
type AssignExpr struct {
	Name    string
	NamePos token.Pos
	X       Expr
}

// BackrefExpr refers to the expression stored at Index in the History.
type BackrefExpr struct {
	Index  int
	RefPos token.Pos
	RefEnd token.Pos
}

type ParenExpr struct {
	X      Expr
	Lparen token.Pos
	Rparen token.Pos
}

type LiteralPos struct {
	ValPos token.Pos
	ValEnd token.Pos
}

// NumberLit is a numeric literal with an optional unit suffix.
// Text holds the literal as written, without the imaginary marker.
type NumberLit struct {
	Text string
	Typ  token.TokenType // IntLiteral, DecimalLiteral or FracLiteral.
	Imag bool
	Unit []unit.Factor
	LiteralPos
}

// Implementations of Expr.

func (e *BinaryExpr) Pos() token.Pos {
	return e.X.Pos()
}
func (e *BinaryExpr) End() token.Pos {
	return e.Y.End()
}
func (e *BinaryExpr) exprNode() {}

func (e *UnaryExpr) Pos() token.Pos {
	return e.OpPos
}
func (e *UnaryExpr) End() token.Pos {
	return e.X.End()
}
func (e *UnaryExpr) exprNode() {}

func (e *VarExpr) Pos() token.Pos {
	return e.NamePos
}
func (e *VarExpr) End() token.Pos {
	return e.NameEnd
}
func (e *VarExpr) exprNode() {}

func (e *AssignExpr) Pos() token.Pos {
	return e.NamePos
}
func (e *AssignExpr) End() token.Pos {
	return e.X.End()
}
func (e *AssignExpr) exprNode() {}

func (e *BackrefExpr) Pos() token.Pos {
	return e.RefPos
}
func (e *BackrefExpr) End() token.Pos {
	return e.RefEnd
}
func (e *BackrefExpr) exprNode() {}

func (e *ParenExpr) Pos() token.Pos {
	return e.Lparen
}
func (e *ParenExpr) End() token.Pos {
	return e.Rparen
}
func (e *ParenExpr) exprNode() {}

func (e *NumberLit) Pos() token.Pos {
	return e.ValPos
}
func (e *NumberLit) End() token.Pos {
	return e.ValEnd
}
func (e *NumberLit) exprNode() {}

// String representations. Binary and unary expressions are fully parenthesized.

var opStrings = map[token.TokenType]string{
	token.Plus:  "+",
	token.Minus: "-",
	token.Times: "*",
	token.Div:   "/",
	token.Power: "^",
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.X, opStrings[e.Op], e.Y)
}

func (e *UnaryExpr) String() string {
	return fmt.Sprintf("(%s%s)", opStrings[e.Op], e.X)
}

func (e *VarExpr) String() string {
	return e.Name
}

func (e *AssignExpr) String() string {
	return fmt.Sprintf("%s := %s", e.Name, e.X)
}

func (e *BackrefExpr) String() string {
	return fmt.Sprintf("[%d]", e.Index)
}

func (e *ParenExpr) String() string {
	return e.X.String()
}

func (e *NumberLit) String() string {
	var sb strings.Builder
	sb.WriteString(e.Text)
	if e.Imag {
		sb.WriteString("j")
	}
	if len(e.Unit) > 0 {
		sb.WriteString(" ")
		sb.WriteString(unit.FormatFactors(e.Unit))
	}
	return sb.String()
}

// Parse scans and parses a single input line.
func Parse(line string, units *unit.Table) (Expr, error) {
	s := NewScanner(line)
	ts, err := s.ScanAll()
	if err != nil {
		return nil, err
	}
	p := NewParser(ts, units)
	return p.Line()
}

// Parser methods.

func (p *Parser) advance() token.Token {
	if !p.AtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

// peekN returns the token n positions ahead, or the final EndOfInput token.
func (p *Parser) peekN(n int) token.Token {
	if i := p.current + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) match(tokenTypes ...token.TokenType) bool {
	t := p.peek()
	for _, typ := range tokenTypes {
		if t.Typ == typ {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) AtEnd() bool {
	return p.current >= len(p.tokens)-1
}

func (p *Parser) errorf(t token.Token, format string, a ...any) error {
	return &SyntaxError{pos: t.Pos, msg: fmt.Sprintf(format, a...)}
}

func describe(t token.Token) string {
	if t.Typ == token.EndOfInput {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Val)
}

// Line parses a complete input line.
//
// line           -> ( IDENT ":=" )* expression EOF ;
func (p *Parser) Line() (Expr, error) {
	if p.peek().Typ == token.Ident && p.peekN(1).Typ == token.Assign {
		name := p.advance()
		p.advance()
		x, err := p.Line()
		if err != nil {
			return nil, err
		}
		return &AssignExpr{Name: name.Val, NamePos: name.Pos, X: x}, nil
	}
	x, err := p.Expression()
	if err != nil {
		return nil, err
	}
	if !p.AtEnd() {
		t := p.peek()
		if t.Typ == token.Assign {
			return nil, p.errorf(t, "assignment is only allowed at the start of a line")
		}
		return nil, p.errorf(t, "unexpected %s", describe(t))
	}
	return x, nil
}

// Parses an expression.
func (p *Parser) Expression() (Expr, error) {
	return p.additive()
}

// additive       -> multiplicative ( ( "-" | "+" ) multiplicative )* ;
func (p *Parser) additive() (Expr, error) {
	x, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.match(token.Minus, token.Plus) {
		t := p.previous()
		y, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{X: x, OpPos: t.Pos, Op: t.Typ, Y: y}
	}
	return x, nil
}

// multiplicative -> unary ( ( "/" | "*" )? unary )* ;
//
// The operator may only be omitted between a number, identifier, backreference,
// ")" or superscript and a following identifier or "(".
func (p *Parser) multiplicative() (Expr, error) {
	x, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		var t token.Token
		switch {
		case p.match(token.Div, token.Times):
			t = p.previous()
		case p.implicitTimes():
			t = token.Token{Typ: token.Times, Pos: p.peek().Pos}
		default:
			return x, nil
		}
		y, err := p.unary()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{X: x, OpPos: t.Pos, Op: t.Typ, Y: y}
	}
}

func (p *Parser) implicitTimes() bool {
	if p.current == 0 {
		return false
	}
	switch p.peek().Typ {
	case token.Ident, token.LeftParen:
	default:
		return false
	}
	prev := p.previous()
	switch prev.Typ {
	case token.Ident, token.RightParen, token.Backref, token.Superscript:
		return true
	}
	return prev.IsNumber()
}

// unary          -> ( "-" | "+" ) unary
//
//	| power ;
func (p *Parser) unary() (Expr, error) {
	if p.match(token.Minus, token.Plus) {
		t := p.previous()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{X: x, OpPos: t.Pos, Op: t.Typ}, nil
	}
	return p.power()
}

// power          -> postfix ( ( "**" | "^" ) unary )? ;
func (p *Parser) power() (Expr, error) {
	x, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if p.match(token.Power) {
		t := p.previous()
		y, err := p.unary()
		if err != nil {
			return nil, err
		}
		x = &BinaryExpr{X: x, OpPos: t.Pos, Op: token.Power, Y: y}
	}
	return x, nil
}

// postfix        -> primary SUPERSCRIPT* ;
func (p *Parser) postfix() (Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.match(token.Superscript) {
		t := p.previous()
		n, ok := unit.ParseSuperscript(t.Val)
		if !ok {
			return nil, p.errorf(t, "invalid exponent %q", t.Val)
		}
		y := &NumberLit{
			Text:       strconv.FormatInt(n, 10),
			Typ:        token.IntLiteral,
			LiteralPos: LiteralPos{t.Pos, t.End},
		}
		x = &BinaryExpr{X: x, OpPos: t.Pos, Op: token.Power, Y: y}
	}
	return x, nil
}

// primary        -> NUMBER unitsuffix? | IDENT | "[" INT "]" | "(" expression ")" ;
func (p *Parser) primary() (Expr, error) {
	switch {
	case p.match(token.LeftParen):
		lparen := p.previous()
		x, err := p.Expression()
		if err != nil {
			return nil, err
		}
		if !p.match(token.RightParen) {
			return nil, p.errorf(p.peek(), "expected ')', got %s", describe(p.peek()))
		}
		return &ParenExpr{X: x, Lparen: lparen.Pos, Rparen: p.previous().End}, nil
	case p.match(token.IntLiteral, token.DecimalLiteral, token.FracLiteral):
		return p.number()
	case p.match(token.Ident):
		t := p.previous()
		return &VarExpr{Name: t.Val, NamePos: t.Pos, NameEnd: t.End}, nil
	case p.match(token.Backref):
		t := p.previous()
		n, err := strconv.Atoi(t.Val)
		if err != nil {
			return nil, p.errorf(t, "invalid backreference [%s]", t.Val)
		}
		return &BackrefExpr{Index: n, RefPos: t.Pos, RefEnd: t.End}, nil
	}
	t := p.peek()
	if t.Typ == token.RightParen {
		return nil, p.errorf(t, "unmatched ')'")
	}
	return nil, p.errorf(t, "unexpected %s", describe(t))
}

func (p *Parser) number() (Expr, error) {
	t := p.previous()
	lit := &NumberLit{Text: t.Val, Typ: t.Typ, LiteralPos: LiteralPos{t.Pos, t.End}}
	if strings.HasSuffix(t.Val, "j") || strings.HasSuffix(t.Val, "J") {
		lit.Text = t.Val[:len(t.Val)-1]
		lit.Imag = true
	}
	fs, err := p.unitSuffix()
	if err != nil {
		return nil, err
	}
	if len(fs) > 0 {
		lit.Unit = fs
		lit.ValEnd = p.previous().End
	}
	return lit, nil
}

func (p *Parser) isUnit(t token.Token) bool {
	return t.Typ == token.Ident && p.units != nil && p.units.Has(t.Val)
}

// unitsuffix     -> unitpowers ( "/" unitpowers )? ;
func (p *Parser) unitSuffix() ([]unit.Factor, error) {
	if !p.isUnit(p.peek()) {
		return nil, nil
	}
	fs, err := p.unitPowers()
	if err != nil {
		return nil, err
	}
	if p.peek().Typ == token.Div && p.isUnit(p.peekN(1)) {
		p.advance()
		ds, err := p.unitPowers()
		if err != nil {
			return nil, err
		}
		for _, d := range ds {
			fs = append(fs, unit.Factor{Name: d.Name, Pow: d.Pow.Neg()})
		}
	}
	return fs, nil
}

// unitpowers     -> unitpower ( "*"? unitpower )* ;
func (p *Parser) unitPowers() ([]unit.Factor, error) {
	var fs []unit.Factor
	for {
		f, err := p.unitPower()
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
		switch {
		case p.isUnit(p.peek()):
		case p.peek().Typ == token.Times && p.isUnit(p.peekN(1)):
			p.advance()
		default:
			return fs, nil
		}
	}
}

// unitpower      -> UNIT ( "^" "-"? INT | SUPERSCRIPT )? ;
func (p *Parser) unitPower() (unit.Factor, error) {
	t := p.advance()
	f := unit.Factor{Name: t.Val, Pow: unit.Int(1)}
	switch {
	case p.match(token.Superscript):
		s := p.previous()
		n, ok := unit.ParseSuperscript(s.Val)
		if !ok {
			return f, p.errorf(s, "invalid exponent %q", s.Val)
		}
		f.Pow = unit.Int(n)
	case p.peek().Typ == token.Power && p.peekN(1).Typ == token.FracLiteral:
		p.splitFraction(p.current + 1)
		return p.unitPowerExp(f)
	case p.peek().Typ == token.Power && p.peekN(1).Typ == token.Minus && p.peekN(2).Typ == token.FracLiteral:
		p.splitFraction(p.current + 2)
		return p.unitPowerExp(f)
	case p.peek().Typ == token.Power && p.peekN(1).Typ == token.IntLiteral,
		p.peek().Typ == token.Power && p.peekN(1).Typ == token.Minus && p.peekN(2).Typ == token.IntLiteral:
		return p.unitPowerExp(f)
	}
	return f, nil
}

// unitPowerExp parses the "^" "-"? INT exponent of f.
func (p *Parser) unitPowerExp(f unit.Factor) (unit.Factor, error) {
	p.advance()
	neg := p.match(token.Minus)
	e := p.advance()
	n, err := strconv.ParseInt(e.Val, 10, 64)
	if err != nil {
		return f, p.errorf(e, "invalid unit exponent %q", e.Val)
	}
	if neg {
		n = -n
	}
	f.Pow = unit.Int(n)
	return f, nil
}

// splitFraction replaces the fraction literal at index i by its numerator,
// a division and its denominator. In m^2/3 the exponent of a unit is 2.
func (p *Parser) splitFraction(i int) {
	t := p.tokens[i]
	k := strings.IndexByte(t.Val, '/')
	slash := t.Pos + token.Pos(k)
	split := []token.Token{
		{Typ: token.IntLiteral, Pos: t.Pos, End: slash, Val: t.Val[:k]},
		{Typ: token.Div, Pos: slash, End: slash + 1, Val: "/"},
		{Typ: token.IntLiteral, Pos: slash + 1, End: t.End, Val: t.Val[k+1:]},
	}
	ts := make([]token.Token, 0, len(p.tokens)+2)
	ts = append(ts, p.tokens[:i]...)
	ts = append(ts, split...)
	p.tokens = append(ts, p.tokens[i+1:]...)
}
