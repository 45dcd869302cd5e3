package unit

import (
	"fmt"
	"math/big"
	"strings"
)

// Indices of the base dimensions in a Dimension vector.
const (
	Length = iota
	Mass
	Time
	Current
	Temperature
	Amount
	Luminosity
	Currency
	NumBase
)

var baseSymbols = [NumBase]string{"L", "M", "T", "I", "Θ", "N", "J", "¤"}

// Exponent is a reduced rational number N/D with D > 0.
// The zero value represents 0, so that zero Dimensions compare equal with ==.
type Exponent struct {
	N, D int64
}

// Int returns the integer exponent n.
func Int(n int64) Exponent {
	if n == 0 {
		return Exponent{}
	}
	return Exponent{N: n, D: 1}
}

// Frac returns the reduced exponent n/d. d must not be zero.
func Frac(n, d int64) Exponent {
	if d == 0 {
		panic("unit: zero denominator in exponent")
	}
	if n == 0 {
		return Exponent{}
	}
	if d < 0 {
		n, d = -n, -d
	}
	g := gcd(abs(n), d)
	return Exponent{N: n / g, D: d / g}
}

// ExponentOf converts r into an Exponent if numerator and denominator fit into an int64.
func ExponentOf(r *big.Rat) (Exponent, bool) {
	if !r.Num().IsInt64() || !r.Denom().IsInt64() {
		return Exponent{}, false
	}
	return Frac(r.Num().Int64(), r.Denom().Int64()), true
}

func (e Exponent) den() int64 {
	if e.D == 0 {
		return 1
	}
	return e.D
}

func (e Exponent) IsZero() bool {
	return e.N == 0
}

func (e Exponent) IsInt() bool {
	return e.den() == 1
}

func (e Exponent) Add(f Exponent) Exponent {
	return Frac(e.N*f.den()+f.N*e.den(), e.den()*f.den())
}

func (e Exponent) Sub(f Exponent) Exponent {
	return e.Add(f.Neg())
}

func (e Exponent) Mul(f Exponent) Exponent {
	return Frac(e.N*f.N, e.den()*f.den())
}

func (e Exponent) Neg() Exponent {
	return Exponent{N: -e.N, D: e.D}
}

// Cmp compares e and f and returns -1, 0, or +1.
func (e Exponent) Cmp(f Exponent) int {
	l, r := e.N*f.den(), f.N*e.den()
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func (e Exponent) Rat() *big.Rat {
	return big.NewRat(e.N, e.den())
}

func (e Exponent) String() string {
	if e.IsInt() {
		return fmt.Sprintf("%d", e.N)
	}
	return fmt.Sprintf("%d/%d", e.N, e.D)
}

// Dimension is a vector of rational exponents over the base dimensions.
// Two Dimensions are equal iff they compare equal with ==.
type Dimension [NumBase]Exponent

// Base returns the Dimension of base dimension i (e.g. Length).
func Base(i int) Dimension {
	var d Dimension
	d[i] = Int(1)
	return d
}

// Dims builds a Dimension from (base index, integer exponent) pairs.
func Dims(pairs ...int) Dimension {
	var d Dimension
	for i := 0; i+1 < len(pairs); i += 2 {
		d[pairs[i]] = d[pairs[i]].Add(Int(int64(pairs[i+1])))
	}
	return d
}

func (d Dimension) IsZero() bool {
	return d == Dimension{}
}

// Mul returns the Dimension of a product, adding exponents.
func (d Dimension) Mul(o Dimension) Dimension {
	var r Dimension
	for i := range d {
		r[i] = d[i].Add(o[i])
	}
	return r
}

// Div returns the Dimension of a quotient, subtracting exponents.
func (d Dimension) Div(o Dimension) Dimension {
	var r Dimension
	for i := range d {
		r[i] = d[i].Sub(o[i])
	}
	return r
}

// Pow scales every exponent by e.
func (d Dimension) Pow(e Exponent) Dimension {
	var r Dimension
	for i := range d {
		r[i] = d[i].Mul(e)
	}
	return r
}

// String renders the raw exponent vector, e.g. "L T^-2".
func (d Dimension) String() string {
	if d.IsZero() {
		return "1"
	}
	var parts []string
	for i, e := range d {
		if e.IsZero() {
			continue
		}
		parts = append(parts, baseSymbols[i]+powerSuffix(e))
	}
	return strings.Join(parts, " ")
}

// powerSuffix returns "" for 1, "^2" for integers and "^(1/2)" for fractions.
func powerSuffix(e Exponent) string {
	switch {
	case e == Int(1):
		return ""
	case e.IsInt():
		return "^" + e.String()
	}
	return "^(" + e.String() + ")"
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}
