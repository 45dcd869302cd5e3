package physcalc

import (
	"math"
	"strconv"
	"strings"

	"github.com/dnswlt/physcalc/unit"
)

type FormatOptions struct {
	Frac bool // Show exact values as fractions instead of decimals.
}

// Formatted is the display form of a value.
type Formatted struct {
	Magnitude string `json:"magnitude" yaml:"magnitude"`
	Unit      string `json:"unit,omitempty" yaml:"unit,omitempty"`
	Category  string `json:"category" yaml:"category"`
}

// String returns the output line form, e.g. "3.6 km/h (speed)".
func (f Formatted) String() string {
	var sb strings.Builder
	sb.WriteString(f.Magnitude)
	if f.Unit != "" {
		sb.WriteString(" ")
		sb.WriteString(f.Unit)
	}
	sb.WriteString(" (")
	sb.WriteString(f.Category)
	sb.WriteString(")")
	return sb.String()
}

const symbolicCategory = "expression"

// Format splits v into magnitude, unit and category texts. Quantities in
// unnamed SI units are shown with the simplest matching derived unit name.
func Format(v Val, units *unit.Table, opts FormatOptions) Formatted {
	switch x := v.(type) {
	case QuantityVal:
		return Formatted{
			Magnitude: formatNumber(x.V, opts),
			Unit:      unitName(x.U, units),
			Category:  units.CategoryName(x.U.Dim),
		}
	case SymbolicVal:
		return Formatted{
			Magnitude: x.format(func(c Val) string {
				if q, ok := c.(QuantityVal); ok {
					return formatNumber(q.V, opts) + " " + unitName(q.U, units)
				}
				return formatNumber(c, opts)
			}),
			Category: symbolicCategory,
		}
	}
	return Formatted{
		Magnitude: formatNumber(v, opts),
		Category:  units.CategoryName(unit.Dimension{}),
	}
}

func unitName(u unit.Unit, units *unit.Table) string {
	if u.Name != "" {
		return u.Name
	}
	return units.DisplayName(u.Dim)
}

func formatNumber(v Val, opts FormatOptions) string {
	switch x := v.(type) {
	case ExactVal:
		if x.R.IsInt() {
			return x.R.Num().String()
		}
		if opts.Frac {
			return x.R.RatString()
		}
		f, _ := x.R.Float64()
		return formatFloat(f)
	case FloatVal:
		return formatFloat(float64(x))
	case ComplexVal:
		return formatComplex(x, func(c Val) string { return formatNumber(c, opts) })
	}
	return v.String()
}

// formatFloat uses positional notation for moderate magnitudes and
// exponent notation otherwise. Integral values keep a ".0" suffix
// so that they can be told apart from exact integers.
func formatFloat(f float64) string {
	a := math.Abs(f)
	if a != 0 && (a < 1e-4 || a >= 1e15) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
