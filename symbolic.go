package physcalc

import (
	"sort"
	"strings"

	"github.com/dnswlt/physcalc/unit"
)

// Upper bound for the integer power of a symbolic sum that gets expanded.
const maxSymPow = 64

// SymbolicVal is a canonical sum of terms over unresolved identifiers.
// It always has at least one term with factors; sums that lose all their
// factors collapse into plain values.
type SymbolicVal struct {
	Terms []Term
}

// Term is a coefficient times a product of identifier powers.
// Coef is never symbolic. Factors are ordered by descending power, then name.
type Term struct {
	Coef    Val
	Factors []Factor
}

// Factor is an identifier raised to a non-zero rational power.
type Factor struct {
	Name string
	Pow  unit.Exponent
}

func symVar(name string) SymbolicVal {
	return SymbolicVal{Terms: []Term{{Coef: exactInt(1), Factors: []Factor{{Name: name, Pow: unit.Int(1)}}}}}
}

// asSymbolic returns v as a sum. Non-symbolic values become a constant term.
func asSymbolic(v Val) SymbolicVal {
	if s, ok := v.(SymbolicVal); ok {
		return s
	}
	return SymbolicVal{Terms: []Term{{Coef: v}}}
}

func compareFactors(a, b []Factor) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i].Name, b[i].Name); c != 0 {
			return c
		}
		if c := a[i].Pow.Cmp(b[i].Pow); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// sortFactors brings fs into canonical order in place.
func sortFactors(fs []Factor) {
	sort.SliceStable(fs, func(i, j int) bool {
		if c := fs[i].Pow.Cmp(fs[j].Pow); c != 0 {
			return c > 0
		}
		return fs[i].Name < fs[j].Name
	})
}

// collect merges like terms, drops zero terms and puts the rest in canonical order.
func collect(terms []Term) (Val, error) {
	var out []Term
	index := make(map[string]int)
	for _, t := range terms {
		k := factorKey(t.Factors)
		i, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, t)
			continue
		}
		c, err := plus(out[i].Coef, t.Coef)
		if err != nil {
			return nil, err
		}
		out[i].Coef = c
	}
	var zero Val = exactInt(0)
	nonZero := out[:0]
	for _, t := range out {
		if isZero(t.Coef) {
			zero = t.Coef
			continue
		}
		nonZero = append(nonZero, t)
	}
	if len(nonZero) == 0 {
		return zero, nil
	}
	sort.SliceStable(nonZero, func(i, j int) bool {
		return compareFactors(nonZero[i].Factors, nonZero[j].Factors) < 0
	})
	if len(nonZero) == 1 && len(nonZero[0].Factors) == 0 {
		return nonZero[0].Coef, nil
	}
	return SymbolicVal{Terms: nonZero}, nil
}

func factorKey(fs []Factor) string {
	var sb strings.Builder
	for _, f := range fs {
		sb.WriteString(f.Name)
		sb.WriteString("^")
		sb.WriteString(f.Pow.String())
		sb.WriteString(" ")
	}
	return sb.String()
}

func symAdd(x, y SymbolicVal) (Val, error) {
	terms := make([]Term, 0, len(x.Terms)+len(y.Terms))
	terms = append(terms, x.Terms...)
	terms = append(terms, y.Terms...)
	return collect(terms)
}

func (x SymbolicVal) negate() (Val, error) {
	terms := make([]Term, len(x.Terms))
	for i, t := range x.Terms {
		c, err := negate(t.Coef)
		if err != nil {
			return nil, err
		}
		terms[i] = Term{Coef: c, Factors: t.Factors}
	}
	return SymbolicVal{Terms: terms}, nil
}

func mulTerms(a, b Term) (Term, error) {
	c, err := times(a.Coef, b.Coef)
	if err != nil {
		return Term{}, err
	}
	pows := make(map[string]unit.Exponent)
	var names []string
	for _, f := range append(append([]Factor{}, a.Factors...), b.Factors...) {
		if _, ok := pows[f.Name]; !ok {
			names = append(names, f.Name)
		}
		pows[f.Name] = pows[f.Name].Add(f.Pow)
	}
	var fs []Factor
	for _, n := range names {
		if p := pows[n]; !p.IsZero() {
			fs = append(fs, Factor{Name: n, Pow: p})
		}
	}
	sortFactors(fs)
	return Term{Coef: c, Factors: fs}, nil
}

// symMul multiplies out both sums term by term.
func symMul(x, y SymbolicVal) (Val, error) {
	terms := make([]Term, 0, len(x.Terms)*len(y.Terms))
	for _, a := range x.Terms {
		for _, b := range y.Terms {
			t, err := mulTerms(a, b)
			if err != nil {
				return nil, err
			}
			terms = append(terms, t)
		}
	}
	return collect(terms)
}

// symDiv divides x by y, at least one of which is symbolic.
// Sums in the denominator are kept as an opaque factor.
func symDiv(x, y Val) (Val, error) {
	d, ok := y.(SymbolicVal)
	if !ok {
		s := x.(SymbolicVal)
		terms := make([]Term, len(s.Terms))
		for i, t := range s.Terms {
			c, err := div(t.Coef, y)
			if err != nil {
				return nil, err
			}
			terms[i] = Term{Coef: c, Factors: t.Factors}
		}
		return collect(terms)
	}
	var inv Term
	if len(d.Terms) == 1 {
		t := d.Terms[0]
		c, err := div(exactInt(1), t.Coef)
		if err != nil {
			return nil, err
		}
		fs := make([]Factor, len(t.Factors))
		for i, f := range t.Factors {
			fs[i] = Factor{Name: f.Name, Pow: f.Pow.Neg()}
		}
		sortFactors(fs)
		inv = Term{Coef: c, Factors: fs}
	} else {
		inv = Term{Coef: exactInt(1), Factors: []Factor{{Name: "(" + d.String() + ")", Pow: unit.Int(-1)}}}
	}
	return symMul(asSymbolic(x), SymbolicVal{Terms: []Term{inv}})
}

// symPow raises x to a rational power if x is a single term,
// and expands small non-negative integer powers of sums.
func symPow(x SymbolicVal, y Val) (Val, error) {
	e, ok := y.(ExactVal)
	if !ok {
		if f, isFloat := y.(FloatVal); isFloat && float64(f) == float64(int64(f)) {
			e = exactInt(int64(f))
		} else {
			return nil, arithmeticError("symbolic power with exponent %s", y)
		}
	}
	p, ok := unit.ExponentOf(e.R)
	if !ok {
		return nil, arithmeticError("exponent %s out of range", e)
	}
	if len(x.Terms) == 1 {
		t := x.Terms[0]
		c := t.Coef
		if !isOne(c) {
			var err error
			if c, err = power(c, e); err != nil {
				return nil, err
			}
		}
		var fs []Factor
		for _, f := range t.Factors {
			if q := f.Pow.Mul(p); !q.IsZero() {
				fs = append(fs, Factor{Name: f.Name, Pow: q})
			}
		}
		return collect([]Term{{Coef: c, Factors: fs}})
	}
	if !p.IsInt() || p.N < 0 || p.N > maxSymPow {
		return nil, arithmeticError("cannot raise sum %s to the power %s", x, e)
	}
	var r Val = exactInt(1)
	for i := int64(0); i < p.N; i++ {
		var err error
		if r, err = symMul(asSymbolic(r), x); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func isOne(v Val) bool {
	switch x := v.(type) {
	case ExactVal:
		return x.R.IsInt() && x.R.Num().IsInt64() && x.R.Num().Int64() == 1
	case FloatVal:
		return x == 1
	}
	return false
}

func (x SymbolicVal) String() string {
	return x.format(func(v Val) string { return v.String() })
}

// format renders x with coefficients formatted by coef, e.g. "1 + 2 x^2 - (5 m) y".
func (x SymbolicVal) format(coef func(Val) string) string {
	var sb strings.Builder
	for i, t := range x.Terms {
		if i > 0 {
			if sign(t.Coef) < 0 {
				sb.WriteString(" - ")
				c, _ := negate(t.Coef)
				t = Term{Coef: c, Factors: t.Factors}
			} else {
				sb.WriteString(" + ")
			}
		}
		sb.WriteString(t.format(coef))
	}
	return sb.String()
}

func (t Term) format(coef func(Val) string) string {
	if len(t.Factors) == 0 {
		return coef(t.Coef)
	}
	var parts []string
	for _, f := range t.Factors {
		s := f.Name
		switch {
		case f.Pow == unit.Int(1):
		case f.Pow.IsInt():
			s += "^" + f.Pow.String()
		default:
			s += "^(" + f.Pow.String() + ")"
		}
		parts = append(parts, s)
	}
	fs := strings.Join(parts, " ")
	switch {
	case isOne(t.Coef):
		return fs
	case sign(t.Coef) < 0 && isOne(mustNegate(t.Coef)):
		return "-" + fs
	case isQuantity(t.Coef):
		return "(" + coef(t.Coef) + ") " + fs
	}
	return coef(t.Coef) + " " + fs
}

func mustNegate(v Val) Val {
	n, err := negate(v)
	if err != nil {
		return v
	}
	return n
}
