// Package unit implements dimension vectors, the table of named units and
// the conversion factors between them.
package unit

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// A Unit maps a unit name to its size in SI base units and its Dimension.
// Units are values; Scale must not be modified after construction.
type Unit struct {
	Name  string   // Display name, empty for unnamed SI base combinations.
	Scale *big.Rat // Size of one Name in SI base units. Always positive.
	Dim   Dimension
}

// SI returns the unnamed SI base unit of dimension d.
func SI(d Dimension) Unit {
	return Unit{Scale: big.NewRat(1, 1), Dim: d}
}

// IsSI reports whether u has scale 1.
func (u Unit) IsSI() bool {
	return u.Scale.Cmp(big.NewRat(1, 1)) == 0
}

func (u Unit) String() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Dim.String()
}

// UnknownUnitError is returned when a unit token is not in the Table.
type UnknownUnitError struct {
	Name string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q", e.Name)
}

type prefix struct {
	name  string
	scale *big.Rat
}

func pow10(n int) *big.Rat {
	r := new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(int64(n)))), nil))
	if n < 0 {
		r.Inv(r)
	}
	return r
}

// SI prefixes, in lookup order. "da" must come before "d".
var prefixes = []prefix{
	{"da", pow10(1)},
	{"h", pow10(2)},
	{"k", pow10(3)},
	{"M", pow10(6)},
	{"G", pow10(9)},
	{"T", pow10(12)},
	{"P", pow10(15)},
	{"E", pow10(18)},
	{"Z", pow10(21)},
	{"Y", pow10(24)},
	{"d", pow10(-1)},
	{"c", pow10(-2)},
	{"m", pow10(-3)},
	{"u", pow10(-6)},
	{"μ", pow10(-6)},
	{"n", pow10(-9)},
	{"p", pow10(-12)},
	{"f", pow10(-15)},
	{"a", pow10(-18)},
	{"z", pow10(-21)},
	{"y", pow10(-24)},
}

// A displayUnit is a named unit that may be used when rendering
// the unit of an unnamed Dimension. Lower weights are preferred.
type displayUnit struct {
	name   string
	weight int
	dim    Dimension
}

type category struct {
	name   string
	weight int
}

// Table is the set of known units. The zero value is not usable, use NewTable or Default.
type Table struct {
	units      map[string]Unit
	display    []displayUnit
	categories map[Dimension]category
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		units:      make(map[string]Unit),
		categories: make(map[Dimension]category),
	}
}

// Clone returns a copy of t that can be modified independently.
func (t *Table) Clone() *Table {
	c := NewTable()
	for k, u := range t.units {
		c.units[k] = u
	}
	c.display = append(c.display, t.display...)
	for k, cat := range t.categories {
		c.categories[k] = cat
	}
	return c
}

// Register adds (or replaces) the unit name with the given scale and Dimension.
func (t *Table) Register(name string, scale *big.Rat, dim Dimension) error {
	if name == "" || strings.ContainsAny(name, " \t/*^") {
		return fmt.Errorf("invalid unit name %q", name)
	}
	if scale == nil || scale.Sign() <= 0 {
		return fmt.Errorf("unit %s: scale must be positive", name)
	}
	t.units[name] = Unit{Name: name, Scale: new(big.Rat).Set(scale), Dim: dim}
	for i, d := range t.display {
		if d.name == name {
			t.display = append(t.display[:i], t.display[i+1:]...)
			break
		}
	}
	return nil
}

// registerDisplay registers name as an SI unit that may show up in rendered output.
func (t *Table) registerDisplay(name string, weight int, categoryName string, dim Dimension) {
	t.units[name] = Unit{Name: name, Scale: big.NewRat(1, 1), Dim: dim}
	t.display = append(t.display, displayUnit{name: name, weight: weight, dim: dim})
	t.registerCategory(categoryName, weight, dim)
}

func (t *Table) registerCategory(name string, weight int, dim Dimension) {
	if _, ok := t.categories[dim]; ok {
		return
	}
	t.categories[dim] = category{name: name, weight: weight}
}

// registerMultiple registers name as scale times the existing unit base.
func (t *Table) registerMultiple(name string, scale *big.Rat, base string) {
	b, ok := t.units[base]
	if !ok {
		panic(fmt.Sprintf("unit: base unit %s of %s is not registered", base, name))
	}
	t.units[name] = Unit{Name: name, Scale: new(big.Rat).Mul(scale, b.Scale), Dim: b.Dim}
}

// Lookup resolves a single unit token, trying an exact match first and then
// every SI prefix in turn.
func (t *Table) Lookup(name string) (Unit, error) {
	if u, ok := t.units[name]; ok {
		return u, nil
	}
	for _, p := range prefixes {
		if !strings.HasPrefix(name, p.name) || len(name) == len(p.name) {
			continue
		}
		if u, ok := t.units[name[len(p.name):]]; ok {
			return Unit{Name: name, Scale: new(big.Rat).Mul(p.scale, u.Scale), Dim: u.Dim}, nil
		}
	}
	return Unit{}, &UnknownUnitError{Name: name}
}

// Has reports whether name resolves to a unit.
func (t *Table) Has(name string) bool {
	_, err := t.Lookup(name)
	return err == nil
}

// Names returns the registered (unprefixed) unit names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.units))
	for n := range t.units {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
