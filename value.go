package physcalc

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/dnswlt/physcalc/token"
	"github.com/dnswlt/physcalc/unit"
)

// Val is the result of evaluating an expression. The set of implementations is closed:
// ExactVal, FloatVal, ComplexVal, QuantityVal and SymbolicVal.
type Val interface {
	fmt.Stringer
	valImpl()
}

// ExactVal is an arbitrary precision fraction. big.Rat keeps it in lowest terms
// with a positive denominator. R must not be modified once wrapped.
type ExactVal struct {
	R *big.Rat
}

// FloatVal is a finite double precision real.
type FloatVal float64

// ComplexVal has two components that are either both ExactVal or both FloatVal.
type ComplexVal struct {
	Re, Im Val
}

// A QuantityVal is a numeric payload V measured in multiples of U.
// For example, V == 5 and U == km represents 5000 m.
// U.Dim is never zero for quantities produced by arithmetic.
type QuantityVal struct {
	V Val
	U unit.Unit
}

func (v ExactVal) valImpl()    {}
func (v FloatVal) valImpl()    {}
func (v ComplexVal) valImpl()  {}
func (v QuantityVal) valImpl() {}
func (v SymbolicVal) valImpl() {}

// NewExact returns the fraction a/b. b must not be zero.
func NewExact(a, b int64) ExactVal {
	return ExactVal{R: big.NewRat(a, b)}
}

func exactInt(n int64) ExactVal {
	return ExactVal{R: big.NewRat(n, 1)}
}

func (v ExactVal) String() string {
	return v.R.RatString()
}

func (v FloatVal) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

func (v ComplexVal) String() string {
	return formatComplex(v, func(x Val) string { return x.String() })
}

func (v QuantityVal) String() string {
	return v.V.String() + " " + v.U.String()
}

func formatComplex(v ComplexVal, num func(Val) string) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(num(v.Re))
	im := v.Im
	if sign(im) < 0 {
		sb.WriteString("-")
		im, _ = negate(im)
	} else {
		sb.WriteString("+")
	}
	sb.WriteString(num(im))
	sb.WriteString("j)")
	return sb.String()
}

// Type predicates and conversions between numeric variants.

func isSymbolic(v Val) bool {
	_, ok := v.(SymbolicVal)
	return ok
}

func isQuantity(v Val) bool {
	_, ok := v.(QuantityVal)
	return ok
}

// isNumeric reports whether v is an ExactVal, FloatVal or ComplexVal.
func isNumeric(v Val) bool {
	switch v.(type) {
	case ExactVal, FloatVal, ComplexVal:
		return true
	}
	return false
}

func isZero(v Val) bool {
	switch x := v.(type) {
	case ExactVal:
		return x.R.Sign() == 0
	case FloatVal:
		return x == 0
	case ComplexVal:
		return isZero(x.Re) && isZero(x.Im)
	case QuantityVal:
		return isZero(x.V)
	}
	return false
}

// sign returns the sign of a real payload, and 0 for values without one.
func sign(v Val) int {
	switch x := v.(type) {
	case ExactVal:
		return x.R.Sign()
	case FloatVal:
		switch {
		case x < 0:
			return -1
		case x > 0:
			return 1
		}
	case QuantityVal:
		return sign(x.V)
	}
	return 0
}

func toFloat64(v Val) float64 {
	switch x := v.(type) {
	case ExactVal:
		f, _ := x.R.Float64()
		return f
	case FloatVal:
		return float64(x)
	}
	panic(fmt.Sprintf("toFloat64: not a real number: %T", v))
}

func toComplex128(v Val) complex128 {
	if c, ok := v.(ComplexVal); ok {
		return complex(toFloat64(c.Re), toFloat64(c.Im))
	}
	return complex(toFloat64(v), 0)
}

// zeroLike returns 0 in the numeric domain of v.
func zeroLike(v Val) Val {
	if _, ok := v.(FloatVal); ok {
		return FloatVal(0)
	}
	return exactInt(0)
}

func oneLike(v Val) Val {
	if _, ok := v.(FloatVal); ok {
		return FloatVal(1)
	}
	return exactInt(1)
}

// asComplex widens a real to a complex number with zero imaginary part.
func asComplex(v Val) ComplexVal {
	if c, ok := v.(ComplexVal); ok {
		return c
	}
	return ComplexVal{Re: v, Im: zeroLike(v)}
}

// makeComplex builds a ComplexVal, widening both parts to Float if either is one.
func makeComplex(re, im Val) ComplexVal {
	_, fre := re.(FloatVal)
	_, fim := im.(FloatVal)
	if fre != fim {
		return ComplexVal{Re: FloatVal(toFloat64(re)), Im: FloatVal(toFloat64(im))}
	}
	return ComplexVal{Re: re, Im: im}
}

// ratBits is the size above which unit scales are lifted into FloatVals.
// Scales derived from π would otherwise turn every result into a huge fraction.
const ratBits = 128

// ratVal lifts a rational constant such as a unit scale into a Val.
func ratVal(r *big.Rat) Val {
	if r.Num().BitLen() > ratBits || r.Denom().BitLen() > ratBits {
		f, _ := r.Float64()
		return FloatVal(f)
	}
	return ExactVal{R: r}
}

func asQuantity(v Val) QuantityVal {
	if q, ok := v.(QuantityVal); ok {
		return q
	}
	return QuantityVal{V: v, U: unit.SI(unit.Dimension{})}
}

// siValue returns the payload of q expressed in SI base units.
func (q QuantityVal) siValue() (Val, error) {
	if q.U.IsSI() {
		return q.V, nil
	}
	return numOp(q.V, ratVal(q.U.Scale), token.Times)
}

// rescale returns the payload of q in multiples of u, which must have q's dimension.
func (q QuantityVal) rescale(u unit.Unit) (Val, error) {
	if q.U.Scale.Cmp(u.Scale) == 0 {
		return q.V, nil
	}
	return numOp(q.V, ratVal(new(big.Rat).Quo(q.U.Scale, u.Scale)), token.Times)
}

// normalize collapses a dimensionless quantity into its plain payload.
func normalize(q QuantityVal) (Val, error) {
	if !q.U.Dim.IsZero() {
		return q, nil
	}
	return q.siValue()
}
