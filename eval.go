package physcalc

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/dnswlt/physcalc/token"
	"github.com/dnswlt/physcalc/unit"
)

// Ctx holds the state that expressions are evaluated against.
// It is not safe for concurrent use.
type Ctx struct {
	Env     *Env
	History *History
	Units   *unit.Table
	Exact   bool // Evaluate decimal literals as exact fractions.
}

// NewCtx returns a context with the default unit table
// and the builtin constants e, pi and j.
func NewCtx() *Ctx {
	env := NewEnv()
	defineBuiltins(env)
	return &Ctx{
		Env:     env,
		History: &History{},
		Units:   unit.Default(),
	}
}

// Operators.

func plus(x, y Val) (Val, error) {
	switch {
	case isSymbolic(x) || isSymbolic(y):
		return symAdd(asSymbolic(x), asSymbolic(y))
	case isQuantity(x) || isQuantity(y):
		return addQuantity(asQuantity(x), asQuantity(y), token.Plus)
	}
	return numOp(x, y, token.Plus)
}

func minus(x, y Val) (Val, error) {
	switch {
	case isSymbolic(x) || isSymbolic(y):
		n, err := negate(y)
		if err != nil {
			return nil, err
		}
		return symAdd(asSymbolic(x), asSymbolic(n))
	case isQuantity(x) || isQuantity(y):
		return addQuantity(asQuantity(x), asQuantity(y), token.Minus)
	}
	return numOp(x, y, token.Minus)
}

func times(x, y Val) (Val, error) {
	switch {
	case isSymbolic(x) || isSymbolic(y):
		return symMul(asSymbolic(x), asSymbolic(y))
	case isQuantity(x) || isQuantity(y):
		return mulQuantity(x, y, token.Times)
	}
	return numOp(x, y, token.Times)
}

func div(x, y Val) (Val, error) {
	switch {
	case isSymbolic(x) || isSymbolic(y):
		return symDiv(x, y)
	case isQuantity(x) || isQuantity(y):
		return mulQuantity(x, y, token.Div)
	}
	return numOp(x, y, token.Div)
}

func power(x, y Val) (Val, error) {
	switch {
	case isSymbolic(y):
		return nil, arithmeticError("symbolic exponent %s", y)
	case isQuantity(y):
		return nil, &DimensionMismatchError{Op: opStrings[token.Power], X: y.(QuantityVal).U.Dim}
	case isSymbolic(x):
		return symPow(x.(SymbolicVal), y)
	case isQuantity(x):
		return quantityPow(x.(QuantityVal), y)
	}
	return numPow(x, y)
}

func unaryOp(x Val, op token.TokenType) (Val, error) {
	switch op {
	case token.Minus:
		return negate(x)
	case token.Plus:
		return x, nil
	}
	return nil, fmt.Errorf("invalid unary operator '%v'", op)
}

func binaryOp(x, y Val, op token.TokenType) (Val, error) {
	switch op {
	case token.Plus:
		return plus(x, y)
	case token.Minus:
		return minus(x, y)
	case token.Times:
		return times(x, y)
	case token.Div:
		return div(x, y)
	case token.Power:
		return power(x, y)
	}
	return nil, fmt.Errorf("invalid binary operator '%v'", op)
}

// normalizeDecimal makes decimal literals like ".5", "1." or "1.e3"
// acceptable to big.Rat.SetString.
func normalizeDecimal(s string) string {
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	s = strings.Replace(s, ".e", ".0e", 1)
	return strings.Replace(s, ".E", ".0E", 1)
}

func evalNumber(e *NumberLit, ctx *Ctx) (Val, error) {
	var v Val
	switch e.Typ {
	case token.IntLiteral:
		r, ok := new(big.Rat).SetString(e.Text)
		if !ok {
			return nil, &EvalError{pos: e.Pos(), msg: fmt.Sprintf("invalid integer literal %s", e.Text)}
		}
		v = ExactVal{R: r}
	case token.FracLiteral:
		num, den, _ := strings.Cut(e.Text, "/")
		n, ok1 := new(big.Int).SetString(num, 10)
		d, ok2 := new(big.Int).SetString(den, 10)
		if !ok1 || !ok2 {
			return nil, &EvalError{pos: e.Pos(), msg: fmt.Sprintf("invalid fraction literal %s", e.Text)}
		}
		if d.Sign() == 0 {
			return nil, &EvalError{pos: e.Pos(), msg: fmt.Sprintf("invalid fraction literal %s", e.Text), cause: arithmeticError("division by zero")}
		}
		v = ExactVal{R: new(big.Rat).SetFrac(n, d)}
	case token.DecimalLiteral:
		if ctx.Exact {
			r, ok := new(big.Rat).SetString(normalizeDecimal(e.Text))
			if !ok {
				return nil, &EvalError{pos: e.Pos(), msg: fmt.Sprintf("invalid decimal literal %s", e.Text)}
			}
			v = ExactVal{R: r}
			break
		}
		f, err := strconv.ParseFloat(e.Text, 64)
		if err != nil {
			return nil, &EvalError{pos: e.Pos(), msg: fmt.Sprintf("invalid decimal literal %s", e.Text), cause: arithmeticError("value out of range")}
		}
		v = FloatVal(f)
	default:
		return nil, &EvalError{pos: e.Pos(), msg: fmt.Sprintf("invalid literal type %v", e.Typ)}
	}
	if e.Imag {
		v = ComplexVal{Re: zeroLike(v), Im: v}
	}
	if len(e.Unit) == 0 {
		return v, nil
	}
	u, err := ctx.Units.Compose(e.Unit)
	if err != nil {
		return nil, &EvalError{pos: e.Pos(), msg: "invalid unit", cause: err}
	}
	return normalize(QuantityVal{V: v, U: u})
}

// stripAssign returns the expression that an assignment evaluates.
func stripAssign(e Expr) Expr {
	for {
		a, ok := e.(*AssignExpr)
		if !ok {
			return e
		}
		e = a.X
	}
}

// Eval evaluates expr in ctx. Assignments update ctx.Env only if the whole
// expression evaluates successfully. Backreferences re-evaluate the stored
// expression against the current environment.
func Eval(expr Expr, ctx *Ctx) (Val, error) {
	switch e := expr.(type) {
	case *NumberLit:
		return evalNumber(e, ctx)
	case *ParenExpr:
		return Eval(e.X, ctx)
	case *UnaryExpr:
		x, err := Eval(e.X, ctx)
		if err != nil {
			return nil, err
		}
		r, err := unaryOp(x, e.Op)
		if err != nil {
			return nil, &EvalError{pos: e.OpPos, msg: fmt.Sprintf("cannot evaluate unary '%s'", opStrings[e.Op]), cause: err}
		}
		return r, nil
	case *BinaryExpr:
		x, err := Eval(e.X, ctx)
		if err != nil {
			return nil, err
		}
		y, err := Eval(e.Y, ctx)
		if err != nil {
			return nil, err
		}
		r, err := binaryOp(x, y, e.Op)
		if err != nil {
			return nil, &EvalError{pos: e.OpPos, msg: fmt.Sprintf("cannot evaluate '%s'", opStrings[e.Op]), cause: err}
		}
		return r, nil
	case *VarExpr:
		if v, ok := ctx.Env.Get(e.Name); ok {
			return v, nil
		}
		return symVar(e.Name), nil
	case *AssignExpr:
		v, err := Eval(e.X, ctx)
		if err != nil {
			return nil, err
		}
		ctx.Env.Set(e.Name, v)
		return v, nil
	case *BackrefExpr:
		x, ok := ctx.History.Get(e.Index)
		if !ok {
			return nil, &EvalError{pos: e.RefPos, msg: "invalid backreference",
				cause: &ReferenceError{Index: e.Index, Len: ctx.History.Len()}}
		}
		// Re-evaluating [n] must not repeat the assignments of line n.
		v, err := Eval(stripAssign(x), ctx)
		if err != nil {
			return nil, &EvalError{pos: e.RefPos, msg: fmt.Sprintf("failed to evaluate [%d]", e.Index), cause: err}
		}
		return v, nil
	}
	return nil, &EvalError{pos: expr.Pos(), msg: fmt.Sprintf("Eval: not implemented: %T", expr)}
}
