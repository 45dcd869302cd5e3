package physcalc

import "sort"

// Env maps identifiers to their values. Names installed with Define are
// constants: they are kept out of Names unless requested.
type Env struct {
	vars   map[string]Val
	consts map[string]bool
}

func NewEnv() *Env {
	return &Env{
		vars:   make(map[string]Val),
		consts: make(map[string]bool),
	}
}

// Set binds name to v, overwriting any previous binding including constants.
func (e *Env) Set(name string, v Val) {
	e.vars[name] = v
	delete(e.consts, name)
}

func (e *Env) Get(name string) (Val, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Define binds name to the constant v.
func (e *Env) Define(name string, v Val) {
	e.vars[name] = v
	e.consts[name] = true
}

func (e *Env) IsConstant(name string) bool {
	return e.consts[name]
}

func (e *Env) Delete(name string) {
	delete(e.vars, name)
	delete(e.consts, name)
}

// Names returns the bound names in sorted order.
// Constants are only included if withConstants is true.
func (e *Env) Names(withConstants bool) []string {
	names := make([]string, 0, len(e.vars))
	for n := range e.vars {
		if !withConstants && e.consts[n] {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (e *Env) Clear() {
	e.vars = make(map[string]Val)
	e.consts = make(map[string]bool)
}

// History stores the expressions of successfully evaluated lines.
// Indices start at 1.
type History struct {
	entries []Expr
}

// Append stores x and returns its index.
func (h *History) Append(x Expr) int {
	h.entries = append(h.entries, x)
	return len(h.entries)
}

func (h *History) Get(index int) (Expr, bool) {
	if index < 1 || index > len(h.entries) {
		return nil, false
	}
	return h.entries[index-1], true
}

func (h *History) Len() int {
	return len(h.entries)
}

// Clear removes all entries. Numbering restarts at 1.
func (h *History) Clear() {
	h.entries = nil
}
