package physcalc

import (
	"math"
	"math/big"
	"strings"

	"github.com/dnswlt/physcalc/token"
	"github.com/dnswlt/physcalc/unit"
)

// addQuantity adds or subtracts two quantities of the same dimension.
// The result is expressed in the smaller of the two units:
// 5 km + 3 m ==> 5003 m.
func addQuantity(x, y QuantityVal, op token.TokenType) (Val, error) {
	if x.U.Dim != y.U.Dim {
		return nil, &DimensionMismatchError{Op: opStrings[op], X: x.U.Dim, Y: y.U.Dim}
	}
	u := x.U
	if y.U.Scale.Cmp(u.Scale) < 0 {
		u = y.U
	}
	a, err := x.rescale(u)
	if err != nil {
		return nil, err
	}
	b, err := y.rescale(u)
	if err != nil {
		return nil, err
	}
	v, err := numOp(a, b, op)
	if err != nil {
		return nil, err
	}
	return normalize(QuantityVal{V: v, U: u})
}

// mulQuantity multiplies or divides values at least one of which is a quantity.
// Scaling a quantity by a number keeps its unit, everything else yields SI units.
func mulQuantity(x, y Val, op token.TokenType) (Val, error) {
	qx, xq := x.(QuantityVal)
	qy, yq := y.(QuantityVal)
	switch {
	case xq && !yq:
		v, err := numOp(qx.V, y, op)
		if err != nil {
			return nil, err
		}
		return QuantityVal{V: v, U: qx.U}, nil
	case !xq && yq && op == token.Times:
		v, err := numOp(x, qy.V, op)
		if err != nil {
			return nil, err
		}
		return QuantityVal{V: v, U: qy.U}, nil
	}
	qx, qy = asQuantity(x), asQuantity(y)
	a, err := qx.siValue()
	if err != nil {
		return nil, err
	}
	b, err := qy.siValue()
	if err != nil {
		return nil, err
	}
	v, err := numOp(a, b, op)
	if err != nil {
		return nil, err
	}
	d := qx.U.Dim.Mul(qy.U.Dim)
	if op == token.Div {
		d = qx.U.Dim.Div(qy.U.Dim)
	}
	return normalize(QuantityVal{V: v, U: unit.SI(d)})
}

// isSimpleUnit reports whether u is a single, possibly prefixed, unit like "km".
func isSimpleUnit(u unit.Unit) bool {
	return u.Name != "" && !strings.ContainsAny(u.Name, " /^")
}

// quantityPow raises q to a rational power. Exponent dimensions are scaled accordingly.
func quantityPow(q QuantityVal, y Val) (Val, error) {
	var r *big.Rat
	switch e := y.(type) {
	case ExactVal:
		r = e.R
	case FloatVal:
		if f := float64(e); f != math.Trunc(f) || math.Abs(f) > maxExactPow {
			return nil, arithmeticError("quantity %s raised to non-integral power %s", q, e)
		}
		r = new(big.Rat).SetInt64(int64(e))
	default:
		return nil, arithmeticError("quantity %s raised to power %s", q, y)
	}
	p, ok := unit.ExponentOf(r)
	if !ok {
		return nil, arithmeticError("exponent %s out of range", r.RatString())
	}
	d := q.U.Dim.Pow(p)
	if p.IsInt() && abs64(p.N) <= maxExactPow && isSimpleUnit(q.U) {
		v, err := numPow(q.V, y)
		if err != nil {
			return nil, err
		}
		u := unit.Unit{
			Name:  unit.FormatFactors([]unit.Factor{{Name: q.U.Name, Pow: p}}),
			Scale: unit.RatPowInt(q.U.Scale, p.N),
			Dim:   d,
		}
		return normalize(QuantityVal{V: v, U: u})
	}
	s, err := q.siValue()
	if err != nil {
		return nil, err
	}
	v, err := numPow(s, y)
	if err != nil {
		return nil, err
	}
	return normalize(QuantityVal{V: v, U: unit.SI(d)})
}
