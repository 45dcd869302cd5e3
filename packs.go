package physcalc

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/dnswlt/physcalc/unit"
	"gopkg.in/yaml.v3"
)

const (
	packFileExtension = ".yaml"
	physcalcPathEnv   = "PHYSCALC_PATH"
)

//go:embed packs/*.yaml
var embeddedPacks embed.FS

// A Pack is a named set of units and constants that can be loaded into a session.
// Values are written in the calculator's own syntax, e.g. "9.80665 m/s^2".
type Pack struct {
	Name      string         `json:"name" yaml:"name"`
	Doc       string         `json:"doc,omitempty" yaml:"doc,omitempty"`
	Units     []PackUnit     `json:"units,omitempty" yaml:"units,omitempty"`
	Constants []PackConstant `json:"constants,omitempty" yaml:"constants,omitempty"`
}

type PackUnit struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Doc   string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

type PackConstant struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Doc   string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// PackNames returns the names of the built-in packs.
func PackNames() []string {
	es, err := fs.ReadDir(embeddedPacks, "packs")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range es {
		names = append(names, strings.TrimSuffix(e.Name(), packFileExtension))
	}
	sort.Strings(names)
	return names
}

// ReadPack finds and decodes the pack called name.
//
// Built-in packs take precedence. Other names are resolved to a .yaml or .json
// file in the current working directory or one of the directories listed
// in the PHYSCALC_PATH environment variable.
func ReadPack(name string) (*Pack, error) {
	data, err := embeddedPacks.ReadFile("packs/" + name + packFileExtension)
	filename := name + packFileExtension
	if err != nil {
		var ok bool
		filename, ok = fileForPack(name)
		if !ok {
			return nil, fmt.Errorf("pack %q not found in built-in packs, %q or %s", name, ".", physcalcPathEnv)
		}
		data, err = os.ReadFile(filename)
		if err != nil {
			return nil, chainError(err, "error reading pack file")
		}
	}
	var p Pack
	if path.Ext(filename) == ".json" {
		err = json.Unmarshal(data, &p)
	} else {
		err = yaml.Unmarshal(data, &p)
	}
	if err != nil {
		return nil, chainError(err, "invalid pack file %s", filename)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	}
	return &p, nil
}

// LoadPack reads the pack called name and installs it in ctx.
// Units are registered first, so that constants can use them.
func LoadPack(name string, ctx *Ctx) (*Pack, error) {
	p, err := ReadPack(name)
	if err != nil {
		return nil, err
	}
	if err := p.Install(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Install evaluates the pack's definitions in ctx. Nothing is registered
// or defined unless all units and constants evaluate. Constants may refer
// to the pack's own units.
func (p *Pack) Install(ctx *Ctx) error {
	type unitDef struct {
		name  string
		scale *big.Rat
		dim   unit.Dimension
	}
	var units []unitDef
	for _, u := range p.Units {
		v, err := evalDefinition(u.Value, ctx)
		if err != nil {
			return chainError(err, "pack %s: unit %s", p.Name, u.Name)
		}
		q := asQuantity(v)
		s, err := q.siValue()
		if err != nil {
			return chainError(err, "pack %s: unit %s", p.Name, u.Name)
		}
		scale, ok := toRat(s)
		if !ok || scale.Sign() <= 0 {
			return &PhyscalcError{msg: fmt.Sprintf("pack %s: unit %s: scale must be a positive real number, got %s", p.Name, u.Name, s)}
		}
		units = append(units, unitDef{u.Name, scale, q.U.Dim})
	}
	scratch := &Ctx{Env: ctx.Env, History: ctx.History, Units: ctx.Units.Clone(), Exact: ctx.Exact}
	for _, u := range units {
		if err := scratch.Units.Register(u.name, u.scale, u.dim); err != nil {
			return chainError(err, "pack %s", p.Name)
		}
	}
	vals := make([]Val, len(p.Constants))
	for i, c := range p.Constants {
		v, err := evalDefinition(c.Value, scratch)
		if err != nil {
			return chainError(err, "pack %s: constant %s", p.Name, c.Name)
		}
		vals[i] = v
	}
	for _, u := range units {
		// The names were checked on scratch.
		_ = ctx.Units.Register(u.name, u.scale, u.dim)
	}
	for i, c := range p.Constants {
		ctx.Env.Define(c.Name, vals[i])
	}
	return nil
}

// evalDefinition evaluates the value text of a pack entry. Decimals are read
// exactly, so that unit scales like 1e-10 m stay exact. Definitions must not
// refer to unknown variables or to the history.
func evalDefinition(text string, ctx *Ctx) (Val, error) {
	x, err := Parse(text, ctx.Units)
	if err != nil {
		return nil, FormattedError(text, err)
	}
	v, err := Eval(x, &Ctx{Env: ctx.Env, History: &History{}, Units: ctx.Units, Exact: true})
	if err != nil {
		return nil, FormattedError(text, err)
	}
	if isSymbolic(v) {
		return nil, &PhyscalcError{msg: fmt.Sprintf("definition %q contains unknown variables", text)}
	}
	return v, nil
}

func toRat(v Val) (*big.Rat, bool) {
	switch x := v.(type) {
	case ExactVal:
		return x.R, true
	case FloatVal:
		return new(big.Rat).SetFloat64(float64(x)), true
	}
	return nil, false
}

func fileForPack(name string) (string, bool) {
	candidates := []string{name}
	if ext := path.Ext(name); ext != packFileExtension && ext != ".json" {
		candidates = []string{name + packFileExtension, name + ".json"}
	}
	if path.IsAbs(name) {
		for _, c := range candidates {
			if s, err := os.Stat(c); err == nil && !s.IsDir() {
				return c, true
			}
		}
		return "", false
	}
	// Relative path or pack name: check in all configured directories.
	ppath, ok := os.LookupEnv(physcalcPathEnv)
	dirs := []string{"."}
	if ok {
		dirs = append(strings.Split(ppath, ":"), dirs...)
	}
	for i := len(dirs) - 1; i >= 0; i-- {
		for _, c := range candidates {
			p := path.Join(dirs[i], c)
			if s, err := os.Stat(p); err == nil && !s.IsDir() {
				return p, true
			}
		}
	}
	return "", false
}
