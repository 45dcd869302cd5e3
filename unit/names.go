package unit

import "strings"

// Order in which base units appear in rendered unit names.
var baseOrder = []struct {
	index int
	name  string
}{
	{Mass, "kg"},
	{Length, "m"},
	{Time, "s"},
	{Current, "A"},
	{Temperature, "K"},
	{Amount, "mol"},
	{Luminosity, "cd"},
	{Currency, "EUR"},
}

// CategoryName returns the human readable name of the quantity with
// dimension d, e.g. "energy". Dimensions without a name are rendered
// as their raw exponent vector.
func (t *Table) CategoryName(d Dimension) string {
	if c, ok := t.categories[d]; ok {
		return c.name
	}
	return d.String()
}

type candidate struct {
	name   string
	weight int
}

// DisplayName picks the simplest rendering of d in terms of base units or
// combinations of at most two named units ("J / K", "N m", "1 / Ω").
func (t *Table) DisplayName(d Dimension) string {
	if d.IsZero() {
		return ""
	}
	best := baseName(d)
	consider := func(c candidate) {
		if c.weight < best.weight {
			best = c
		}
	}
	for _, u := range t.display {
		if u.dim == d {
			consider(candidate{u.name, u.weight})
		}
		if u.dim.Pow(Int(-1)) == d {
			consider(candidate{"1 / " + u.name, u.weight * 2})
		}
	}
	for i, u := range t.display {
		for _, v := range t.display[i+1:] {
			if u.dim.Mul(v.dim) == d {
				consider(candidate{u.name + " " + v.name, u.weight * v.weight})
			}
		}
	}
	for _, u := range t.display {
		for _, v := range t.display {
			if u.name != v.name && u.dim.Div(v.dim) == d {
				consider(candidate{u.name + " / " + v.name, u.weight * v.weight})
			}
		}
	}
	return best.name
}

// baseName renders d in base units, e.g. "kg m^2 / s^2".
func baseName(d Dimension) candidate {
	var num, denom []string
	for _, b := range baseOrder {
		e := d[b.index]
		switch {
		case e.IsZero():
		case e.Cmp(Exponent{}) > 0:
			num = append(num, b.name+powerSuffix(e))
		default:
			denom = append(denom, b.name+powerSuffix(e.Neg()))
		}
	}
	name, weight := "1", 1
	if len(num) > 0 {
		name, weight = strings.Join(num, " "), 1<<len(num)
	}
	if len(denom) > 0 {
		name += " / " + strings.Join(denom, " ")
		weight *= 1 << len(denom)
	}
	return candidate{name, weight}
}
