package physcalc

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/dnswlt/physcalc/token"
	"github.com/dnswlt/physcalc/unit"
)

// Features that can be switched on and off with Toggle.
const (
	FeatureDebug = "debug" // Log the parsed expression of each line.
	FeatureFrac  = "frac"  // Exact mode: decimals are parsed and shown as fractions.
	FeatureCont  = "cont"  // A line starting with an operator continues the last result.
)

var defaultFeatures = map[string]bool{
	FeatureDebug: false,
	FeatureFrac:  false,
	FeatureCont:  true,
}

// Session is an interactive calculator session: an evaluation context plus
// the features and packs that were enabled by the user.
type Session struct {
	ctx      *Ctx
	features map[string]bool
	packs    []string
	write    ResultWriter
}

// Result is the outcome of evaluating one line.
type Result struct {
	Index     int    `json:"index" yaml:"index"` // History index, 0 for lines that were not stored.
	Expr      string `json:"expr" yaml:"expr"`
	Value     Val    `json:"value" yaml:"value"`
	Formatted `yaml:",inline"`
}

// String returns the output line of r, e.g. "[3] 9 m (distance)".
func (r Result) String() string {
	return fmt.Sprintf("[%d] %s", r.Index, r.Formatted)
}

func NewSession() *Session {
	s := &Session{
		ctx:      NewCtx(),
		features: make(map[string]bool),
		write:    writeText,
	}
	for f, on := range defaultFeatures {
		s.features[f] = on
	}
	return s
}

// SetResultWriter sets how RunScript writes results. The default is text.
func (s *Session) SetResultWriter(w ResultWriter) {
	s.write = w
}

// Ctx returns the evaluation context of the session.
func (s *Session) Ctx() *Ctx {
	return s.ctx
}

func (s *Session) formatOptions() FormatOptions {
	return FormatOptions{Frac: s.features[FeatureFrac]}
}

func (s *Session) result(index int, x Expr, v Val) Result {
	return Result{
		Index:     index,
		Expr:      x.String(),
		Value:     v,
		Formatted: Format(v, s.ctx.Units, s.formatOptions()),
	}
}

// continues reports whether ts should continue the previous result.
func (s *Session) continues(ts []token.Token) bool {
	if !s.features[FeatureCont] || s.ctx.History.Len() == 0 {
		return false
	}
	switch ts[0].Typ {
	case token.Plus, token.Times, token.Div, token.Power:
		return true
	}
	return false
}

// EvalLine parses and evaluates line and appends it to the history.
// Failed lines leave the history and the environment unchanged.
func (s *Session) EvalLine(line string) (Result, error) {
	sc := NewScanner(line)
	ts, err := sc.ScanAll()
	if err != nil {
		return Result{}, err
	}
	if s.continues(ts) {
		ref := token.Token{Typ: token.Backref, Val: strconv.Itoa(s.ctx.History.Len())}
		ts = append([]token.Token{ref}, ts...)
	}
	p := NewParser(ts, s.ctx.Units)
	x, err := p.Line()
	if err != nil {
		return Result{}, err
	}
	if s.features[FeatureDebug] {
		log.Printf("(%d) %s", s.ctx.History.Len()+1, x)
	}
	v, err := Eval(x, s.ctx)
	if err != nil {
		return Result{}, err
	}
	i := s.ctx.History.Append(x)
	return s.result(i, x, v), nil
}

// Convert re-evaluates history entry index, or the last entry if index is 0,
// and expresses it in the target unit. The result is not stored.
func (s *Session) Convert(target string, index int) (Result, error) {
	if index == 0 {
		index = s.ctx.History.Len()
	}
	ref := &BackrefExpr{Index: index}
	v, err := Eval(ref, s.ctx)
	if err != nil {
		return Result{}, err
	}
	c, err := Convert(v, target, s.ctx.Units)
	if err != nil {
		return Result{}, err
	}
	x, _ := s.ctx.History.Get(index)
	return s.result(index, x, c), nil
}

// Var is a variable binding as listed by Vars.
type Var struct {
	Name      string `json:"name" yaml:"name"`
	Formatted `yaml:",inline"`
}

func (v Var) String() string {
	return fmt.Sprintf("%s = %s", v.Name, v.Formatted)
}

// Vars lists the variables of the session in name order.
func (s *Session) Vars(withConstants bool) []Var {
	var vs []Var
	for _, n := range s.ctx.Env.Names(withConstants) {
		v, _ := s.ctx.Env.Get(n)
		vs = append(vs, Var{Name: n, Formatted: Format(v, s.ctx.Units, s.formatOptions())})
	}
	return vs
}

// Reset drops all variables, results and loaded packs.
func (s *Session) Reset() {
	s.ctx.Env.Clear()
	defineBuiltins(s.ctx.Env)
	s.ctx.History.Clear()
	s.ctx.Units = unit.Default()
	s.packs = nil
}

// ClearHistory drops all results but keeps the variables.
func (s *Session) ClearHistory() {
	s.ctx.History.Clear()
}

// Features returns the names of all features in sorted order.
func Features() []string {
	fs := make([]string, 0, len(defaultFeatures))
	for f := range defaultFeatures {
		fs = append(fs, f)
	}
	sort.Strings(fs)
	return fs
}

// Toggle switches feature on or off and returns its new state.
func (s *Session) Toggle(feature string) (bool, error) {
	if _, ok := defaultFeatures[feature]; !ok {
		return false, fmt.Errorf("unknown feature %q, want one of %s", feature, strings.Join(Features(), ", "))
	}
	on := !s.features[feature]
	s.features[feature] = on
	if feature == FeatureFrac {
		s.ctx.Exact = on
	}
	return on, nil
}

func (s *Session) Enabled(feature string) bool {
	return s.features[feature]
}

// LoadPack installs the pack called name into the session.
func (s *Session) LoadPack(name string) (*Pack, error) {
	p, err := LoadPack(name, s.ctx)
	if err != nil {
		return nil, err
	}
	s.packs = append(s.packs, p.Name)
	return p, nil
}

// Packs returns the names of the packs loaded so far.
func (s *Session) Packs() []string {
	return s.packs
}

// RunScript evaluates the lines read from r and writes their results to out.
// Empty lines and lines starting with # are skipped, lines starting with !
// are commands. It stops at the first failing line.
func (s *Session) RunScript(name string, r io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "!") {
			if err := s.Command(line, out); err != nil {
				if err == ErrExit {
					return nil
				}
				return chainError(err, "%s:%d", name, n)
			}
			continue
		}
		res, err := s.EvalLine(line)
		if err != nil {
			return chainError(FormattedError(line, err), "%s:%d", name, n)
		}
		if err := s.write(out, res); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return chainError(err, "%s", name)
	}
	return nil
}
