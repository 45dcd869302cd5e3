package unit

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// A Factor is one unit token raised to a power inside a compound unit.
type Factor struct {
	Name string
	Pow  Exponent
}

const superscriptDigits = "⁰¹²³⁴⁵⁶⁷⁸⁹"

// IsSuperscript reports whether r can appear in a superscript exponent.
func IsSuperscript(r rune) bool {
	return r == '⁻' || strings.ContainsRune(superscriptDigits, r)
}

// ParseSuperscript decodes a superscript integer such as "²" or "⁻¹".
func ParseSuperscript(s string) (int64, bool) {
	var b strings.Builder
	for i, r := range s {
		if r == '⁻' && i == 0 {
			b.WriteByte('-')
			continue
		}
		d := strings.IndexRune(superscriptDigits, r)
		if d < 0 {
			return 0, false
		}
		// Superscript digits are multi-byte, IndexRune returns a byte offset.
		b.WriteRune('0' + rune(len([]rune(superscriptDigits[:d]))))
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Compose multiplies the given factors into a single Unit.
// The composed unit is named by FormatFactors unless it is a single
// factor with power 1.
func (t *Table) Compose(factors []Factor) (Unit, error) {
	scale := big.NewRat(1, 1)
	var dim Dimension
	for _, f := range factors {
		u, err := t.Lookup(f.Name)
		if err != nil {
			return Unit{}, err
		}
		s, err := ratPow(u.Scale, f.Pow)
		if err != nil {
			return Unit{}, fmt.Errorf("unit %s: %w", f.Name, err)
		}
		scale.Mul(scale, s)
		dim = dim.Mul(u.Dim.Pow(f.Pow))
	}
	return Unit{Name: FormatFactors(factors), Scale: scale, Dim: dim}, nil
}

// Parse resolves compound unit text like "km/h", "N*m", "kg m/s^2" or "m²".
// Everything after the (single) "/" belongs to the denominator.
func (t *Table) Parse(text string) (Unit, error) {
	factors, err := ParseFactors(text)
	if err != nil {
		return Unit{}, err
	}
	return t.Compose(factors)
}

// ParseFactors splits compound unit text into its factors without resolving them.
func ParseFactors(text string) ([]Factor, error) {
	num, denom, hasDenom := strings.Cut(text, "/")
	if strings.Contains(denom, "/") {
		return nil, fmt.Errorf("invalid unit %q: more than one '/'", text)
	}
	fs, err := parseFactorList(num, false)
	if err != nil {
		return nil, err
	}
	if hasDenom {
		ds, err := parseFactorList(denom, true)
		if err != nil {
			return nil, err
		}
		if len(ds) == 0 {
			return nil, fmt.Errorf("invalid unit %q: empty denominator", text)
		}
		fs = append(fs, ds...)
	}
	if len(fs) == 0 {
		return nil, fmt.Errorf("invalid unit %q", text)
	}
	return fs, nil
}

func parseFactorList(s string, negate bool) ([]Factor, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '*' || r == '·' || r == '×'
	})
	var fs []Factor
	for _, p := range parts {
		if p == "1" {
			continue
		}
		f, err := parseFactor(p)
		if err != nil {
			return nil, err
		}
		if negate {
			f.Pow = f.Pow.Neg()
		}
		fs = append(fs, f)
	}
	return fs, nil
}

func parseFactor(p string) (Factor, error) {
	if name, exp, ok := strings.Cut(p, "^"); ok {
		exp = strings.Trim(exp, "()")
		r, ok := new(big.Rat).SetString(exp)
		if !ok || name == "" {
			return Factor{}, fmt.Errorf("invalid unit power %q", p)
		}
		e, ok := ExponentOf(r)
		if !ok {
			return Factor{}, fmt.Errorf("unit power out of range: %q", p)
		}
		return Factor{Name: name, Pow: e}, nil
	}
	i := strings.IndexFunc(p, IsSuperscript)
	if i < 0 {
		return Factor{Name: p, Pow: Int(1)}, nil
	}
	n, ok := ParseSuperscript(p[i:])
	if !ok || i == 0 {
		return Factor{}, fmt.Errorf("invalid unit power %q", p)
	}
	return Factor{Name: p[:i], Pow: Int(n)}, nil
}

// FormatFactors renders factors as compound unit text, e.g. "kg m/s^2".
func FormatFactors(factors []Factor) string {
	var num, denom []string
	for _, f := range factors {
		switch {
		case f.Pow.IsZero():
			continue
		case f.Pow.Cmp(Exponent{}) > 0:
			num = append(num, f.Name+powerSuffix(f.Pow))
		default:
			denom = append(denom, f.Name+powerSuffix(f.Pow.Neg()))
		}
	}
	s := strings.Join(num, " ")
	if len(denom) > 0 {
		if s == "" {
			s = "1"
		}
		s += "/" + strings.Join(denom, " ")
	}
	return s
}

// ratPow raises r to the power e. Fractional powers are only supported
// if the result is again rational.
func ratPow(r *big.Rat, e Exponent) (*big.Rat, error) {
	if e.IsInt() {
		return RatPowInt(r, e.N), nil
	}
	num, ok1 := intRoot(r.Num(), e.den())
	den, ok2 := intRoot(r.Denom(), e.den())
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("scale %s has no exact root of degree %d", r.RatString(), e.den())
	}
	return RatPowInt(new(big.Rat).SetFrac(num, den), e.N), nil
}

// RatPowInt returns r**n. r must not be zero if n < 0.
func RatPowInt(r *big.Rat, n int64) *big.Rat {
	neg := n < 0
	if neg {
		n = -n
	}
	e := big.NewInt(n)
	num := new(big.Int).Exp(r.Num(), e, nil)
	den := new(big.Int).Exp(r.Denom(), e, nil)
	if neg {
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den)
}

// intRoot returns the exact non-negative k-th root of x, if it exists.
func intRoot(x *big.Int, k int64) (*big.Int, bool) {
	if x.Sign() < 0 {
		return nil, false
	}
	if x.Sign() == 0 || k == 1 {
		return new(big.Int).Set(x), true
	}
	// Newton iteration on integers, starting above the root.
	kk := big.NewInt(k)
	k1 := big.NewInt(k - 1)
	y := new(big.Int).Lsh(big.NewInt(1), uint(x.BitLen()/int(k)+1))
	for {
		// z = ((k-1)*y + x / y^(k-1)) / k
		t := new(big.Int).Exp(y, k1, nil)
		t.Quo(x, t)
		z := new(big.Int).Mul(k1, y)
		z.Add(z, t)
		z.Quo(z, kk)
		if z.Cmp(y) >= 0 {
			break
		}
		y = z
	}
	if new(big.Int).Exp(y, kk, nil).Cmp(x) != 0 {
		return nil, false
	}
	return y, true
}
