package physcalc

import (
	"math"
	"math/big"
	"math/cmplx"

	"github.com/dnswlt/physcalc/token"
	"github.com/zephyrtronium/bigfloat"
)

const (
	// Integer exponents up to this magnitude are applied exactly.
	maxExactPow = 4096
	// Exact powers whose result would exceed this many bits are computed in float64.
	maxExactBits = 1 << 20
	// Precision in bits of non-integer powers of exact bases.
	powPrec = 128
)

func checkFloat(f float64) (Val, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, arithmeticError("result is not a finite number")
	}
	return FloatVal(f), nil
}

func checkComplex(c complex128) (Val, error) {
	if cmplx.IsNaN(c) || cmplx.IsInf(c) {
		return nil, arithmeticError("result is not a finite number")
	}
	return ComplexVal{Re: FloatVal(real(c)), Im: FloatVal(imag(c))}, nil
}

// numOp applies a field operation to two ExactVal, FloatVal or ComplexVal operands.
func numOp(x, y Val, op token.TokenType) (Val, error) {
	_, cx := x.(ComplexVal)
	_, cy := y.(ComplexVal)
	if cx || cy {
		return complexOp(asComplex(x), asComplex(y), op)
	}
	return realOp(x, y, op)
}

// realOp is numOp for ExactVal and FloatVal. Mixed operands widen to Float.
func realOp(x, y Val, op token.TokenType) (Val, error) {
	if a, ok := x.(ExactVal); ok {
		if b, ok := y.(ExactVal); ok {
			r := new(big.Rat)
			switch op {
			case token.Plus:
				r.Add(a.R, b.R)
			case token.Minus:
				r.Sub(a.R, b.R)
			case token.Times:
				r.Mul(a.R, b.R)
			case token.Div:
				if b.R.Sign() == 0 {
					return nil, arithmeticError("division by zero")
				}
				r.Quo(a.R, b.R)
			}
			return ExactVal{R: r}, nil
		}
	}
	a, b := toFloat64(x), toFloat64(y)
	switch op {
	case token.Plus:
		return checkFloat(a + b)
	case token.Minus:
		return checkFloat(a - b)
	case token.Times:
		return checkFloat(a * b)
	case token.Div:
		if b == 0 {
			return nil, arithmeticError("division by zero")
		}
		return checkFloat(a / b)
	}
	return nil, arithmeticError("invalid operator %s", op)
}

// realCalc chains realOp calls and remembers the first error.
type realCalc struct {
	err error
}

func (c *realCalc) op(x Val, op token.TokenType, y Val) Val {
	if c.err != nil {
		return x
	}
	v, err := realOp(x, y, op)
	if err != nil {
		c.err = err
		return x
	}
	return v
}

func complexOp(x, y ComplexVal, op token.TokenType) (Val, error) {
	x = makeComplex(x.Re, x.Im)
	y = makeComplex(y.Re, y.Im)
	a, b, c, d := x.Re, x.Im, y.Re, y.Im
	var k realCalc
	var re, im Val
	switch op {
	case token.Plus, token.Minus:
		re = k.op(a, op, c)
		im = k.op(b, op, d)
	case token.Times:
		re = k.op(k.op(a, token.Times, c), token.Minus, k.op(b, token.Times, d))
		im = k.op(k.op(a, token.Times, d), token.Plus, k.op(b, token.Times, c))
	case token.Div:
		// (a+bj)/(c+dj) = (a+bj)(c-dj) / (c²+d²)
		den := k.op(k.op(c, token.Times, c), token.Plus, k.op(d, token.Times, d))
		if k.err == nil && isZero(den) {
			return nil, arithmeticError("division by zero")
		}
		re = k.op(k.op(k.op(a, token.Times, c), token.Plus, k.op(b, token.Times, d)), token.Div, den)
		im = k.op(k.op(k.op(b, token.Times, c), token.Minus, k.op(a, token.Times, d)), token.Div, den)
	default:
		return nil, arithmeticError("invalid operator %s", op)
	}
	if k.err != nil {
		return nil, k.err
	}
	return makeComplex(re, im), nil
}

// negate returns -x for every kind of value.
func negate(x Val) (Val, error) {
	switch v := x.(type) {
	case ExactVal:
		return ExactVal{R: new(big.Rat).Neg(v.R)}, nil
	case FloatVal:
		return -v, nil
	case ComplexVal:
		re, _ := negate(v.Re)
		im, _ := negate(v.Im)
		return ComplexVal{Re: re, Im: im}, nil
	case QuantityVal:
		p, err := negate(v.V)
		if err != nil {
			return nil, err
		}
		return QuantityVal{V: p, U: v.U}, nil
	case SymbolicVal:
		return v.negate()
	}
	return nil, arithmeticError("cannot negate %T", x)
}

// numPow raises a numeric base to a numeric exponent.
//
// Integer exponents on exact bases stay exact. Non-integer exponents widen
// to Float, and to Complex if the base is negative.
func numPow(x, y Val) (Val, error) {
	switch e := y.(type) {
	case ExactVal:
		if e.R.IsInt() {
			if n := e.R.Num(); n.IsInt64() && n.Int64() >= -maxExactPow && n.Int64() <= maxExactPow {
				return intPow(x, n.Int64())
			}
			break
		}
		if b, ok := x.(ExactVal); ok && b.R.Sign() >= 0 {
			return exactBasePow(b.R, e.R)
		}
	case ComplexVal:
		return complexPow(x, y)
	}
	if _, ok := x.(ComplexVal); ok {
		return complexPow(x, y)
	}
	b, p := toFloat64(x), toFloat64(y)
	if b < 0 && p != math.Trunc(p) {
		return complexPow(x, y)
	}
	if b == 0 && p < 0 {
		return nil, arithmeticError("division by zero")
	}
	return checkFloat(math.Pow(b, p))
}

// exactBits returns the bit length of the largest exact numerator or
// denominator in x.
func exactBits(x Val) int64 {
	switch v := x.(type) {
	case ExactVal:
		b := v.R.Num().BitLen()
		if d := v.R.Denom().BitLen(); d > b {
			b = d
		}
		return int64(b)
	case ComplexVal:
		b := exactBits(v.Re)
		if i := exactBits(v.Im); i > b {
			b = i
		}
		return b
	}
	return 0
}

func intPow(x Val, n int64) (Val, error) {
	if exactBits(x)*abs64(n) > maxExactBits {
		if c, ok := x.(ComplexVal); ok {
			return checkComplex(cmplx.Pow(toComplex128(c), complex(float64(n), 0)))
		}
		return checkFloat(math.Pow(toFloat64(x), float64(n)))
	}
	switch v := x.(type) {
	case ExactVal:
		if v.R.Sign() == 0 && n < 0 {
			return nil, arithmeticError("division by zero")
		}
		num := new(big.Int).Exp(v.R.Num(), big.NewInt(abs64(n)), nil)
		den := new(big.Int).Exp(v.R.Denom(), big.NewInt(abs64(n)), nil)
		if n < 0 {
			num, den = den, num
		}
		return ExactVal{R: new(big.Rat).SetFrac(num, den)}, nil
	case FloatVal:
		if v == 0 && n < 0 {
			return nil, arithmeticError("division by zero")
		}
		return checkFloat(math.Pow(float64(v), float64(n)))
	case ComplexVal:
		// Square and multiply.
		var r Val = ComplexVal{Re: oneLike(v.Re), Im: zeroLike(v.Re)}
		var b Val = v
		var err error
		for k := abs64(n); k > 0; k >>= 1 {
			if k&1 == 1 {
				if r, err = numOp(r, b, token.Times); err != nil {
					return nil, err
				}
			}
			if k > 1 {
				if b, err = numOp(b, b, token.Times); err != nil {
					return nil, err
				}
			}
		}
		if n < 0 {
			return numOp(ComplexVal{Re: oneLike(v.Re), Im: zeroLike(v.Re)}, r, token.Div)
		}
		return r, nil
	}
	return nil, arithmeticError("invalid base %T", x)
}

// exactBasePow computes b**e for a non-negative b and a non-integer e
// with powPrec bits of precision and rounds the result to a FloatVal.
func exactBasePow(b, e *big.Rat) (Val, error) {
	if b.Sign() == 0 {
		if e.Sign() < 0 {
			return nil, arithmeticError("division by zero")
		}
		return FloatVal(0), nil
	}
	bf := new(big.Float).SetPrec(powPrec).SetRat(b)
	ef := new(big.Float).SetPrec(powPrec).SetRat(e)
	z := bigfloat.Pow(new(big.Float).SetPrec(powPrec), bf, ef)
	f, _ := z.Float64()
	return checkFloat(f)
}

// complexPow returns the principal value of x**y.
func complexPow(x, y Val) (Val, error) {
	b, p := toComplex128(x), toComplex128(y)
	if b == 0 && real(p) < 0 {
		return nil, arithmeticError("division by zero")
	}
	return checkComplex(cmplx.Pow(b, p))
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
