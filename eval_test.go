package physcalc

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"testing"

	"github.com/dnswlt/physcalc/unit"
	"github.com/google/go-cmp/cmp"
)

func evalInput(t *testing.T, input string, ctx *Ctx) (Val, error) {
	t.Helper()
	x, err := Parse(input, ctx.Units)
	if err != nil {
		t.Fatalf("Cannot parse expression %q: %s", input, err)
	}
	return Eval(x, ctx)
}

func mustEval(t *testing.T, input string, ctx *Ctx) Val {
	t.Helper()
	v, err := evalInput(t, input, ctx)
	if err != nil {
		t.Fatalf("Failed to evaluate %q: %s", input, err)
	}
	return v
}

// evalLine evaluates input and appends it to the history, like a session does.
func evalLine(t *testing.T, input string, ctx *Ctx) Val {
	t.Helper()
	x, err := Parse(input, ctx.Units)
	if err != nil {
		t.Fatalf("Cannot parse expression %q: %s", input, err)
	}
	v, err := Eval(x, ctx)
	if err != nil {
		t.Fatalf("Failed to evaluate %q: %s", input, err)
	}
	ctx.History.Append(x)
	return v
}

func TestEvalArithmeticExpr(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "1", want: "1"},
		{input: "3 * 10 + 1", want: "31"},
		{input: "3 * (10 + 1)", want: "33"},
		{input: "5 - 4 - 1", want: "0"},
		{input: "1/3 + 1/6", want: "1/2"},
		{input: "2 * 3 / 4", want: "3/2"},
		{input: "6/4", want: "3/2"},
		{input: "-6 / 4", want: "-3/2"},
		{input: "1.5 + 1/2", want: "2"},
		{input: "10. / -4", want: "-2.5"},
		{input: "2^10", want: "1024"},
		{input: "2^-2", want: "1/4"},
		{input: "(2/3)^2", want: "4/9"},
		{input: "(-1)^3", want: "-1"},
		{input: "2²", want: "4"},
		{input: "2^0.5", want: "1.4142135623730951"},
		{input: "+3", want: "3"},
		{input: "--3", want: "3"},
		{input: "6/2.5", want: "2.4"},
		{input: "1/2e3", want: "0.0005"},
		{input: "1/2e-1", want: "5"},
		{input: "3/4.", want: "0.75"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			got := mustEval(t, test.input, NewCtx())
			if got.String() != test.want {
				t.Errorf("%s: got %v, want %v", test.input, got, test.want)
			}
		})
	}
}

var ratComparer = cmp.Comparer(func(x, y *big.Rat) bool {
	return x.Cmp(y) == 0
})

func TestEvalValues(t *testing.T) {
	tests := []struct {
		input string
		want  Val
	}{
		{input: "3/4", want: NewExact(3, 4)},
		{input: "2.5", want: FloatVal(2.5)},
		{input: "2j", want: ComplexVal{Re: exactInt(0), Im: exactInt(2)}},
		{input: "1.5j", want: ComplexVal{Re: FloatVal(0), Im: FloatVal(1.5)}},
		{input: "2 * 0.5j", want: ComplexVal{Re: FloatVal(0), Im: FloatVal(1)}},
		{input: "3 m + 6 m", want: QuantityVal{V: exactInt(9), U: unit.Unit{Name: "m", Scale: big.NewRat(1, 1), Dim: unit.Base(unit.Length)}}},
		{input: "3 m * 2 s", want: QuantityVal{V: exactInt(6), U: unit.SI(unit.Dims(unit.Length, 1, unit.Time, 1))}},
		{input: "2 x", want: SymbolicVal{Terms: []Term{{Coef: exactInt(2), Factors: []Factor{{Name: "x", Pow: unit.Int(1)}}}}}},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			got := mustEval(t, test.input, NewCtx())
			if diff := cmp.Diff(test.want, got, ratComparer); diff != "" {
				t.Errorf("%s: value mismatch (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

func TestEvalExactReduced(t *testing.T) {
	v := mustEval(t, "12/8 - 2/4", NewCtx())
	e, ok := v.(ExactVal)
	if !ok {
		t.Fatalf("Expected ExactVal, got %T", v)
	}
	if e.R.Num().Int64() != 1 || e.R.Denom().Int64() != 1 {
		t.Errorf("Got %s, want 1/1 in lowest terms", e.R)
	}
	v = mustEval(t, "3 / -6", NewCtx())
	if e := v.(ExactVal); e.R.Denom().Sign() <= 0 || e.R.RatString() != "-1/2" {
		t.Errorf("Got %s, want -1/2 with positive denominator", e.R)
	}
}

func TestEvalExactMode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "1.5", want: "3/2"},
		{input: "0.1 + 0.2", want: "3/10"},
		{input: "1.5e-3", want: "3/2000"},
		{input: ".5", want: "1/2"},
		{input: "2.", want: "2"},
		{input: "1/16 W", want: "1/16 W"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			ctx := NewCtx()
			ctx.Exact = true
			got := mustEval(t, test.input, ctx)
			if got.String() != test.want {
				t.Errorf("%s: got %v, want %v", test.input, got, test.want)
			}
		})
	}
}

func TestEvalExactFractionWithUnit(t *testing.T) {
	ctx := NewCtx()
	ctx.Exact = true
	v := mustEval(t, "1/16 W", ctx)
	q, ok := v.(QuantityVal)
	if !ok {
		t.Fatalf("Expected QuantityVal, got %T", v)
	}
	if _, ok := q.V.(ExactVal); !ok {
		t.Errorf("Expected exact payload, got %T", q.V)
	}
	if got := ctx.Units.CategoryName(q.U.Dim); got != "power" {
		t.Errorf("Got category %q, want power", got)
	}
}

func TestEvalFloat(t *testing.T) {
	a, b := 0.1, 0.2
	v := mustEval(t, "0.1 + 0.2", NewCtx())
	if got, ok := v.(FloatVal); !ok || float64(got) != a+b {
		t.Errorf("Got %v (%T), want FloatVal %v", v, v, a+b)
	}
	v = mustEval(t, "4^(1/2)", NewCtx())
	if got, ok := v.(FloatVal); !ok || math.Abs(float64(got)-2) > 1e-12 {
		t.Errorf("Got %v (%T), want FloatVal 2", v, v)
	}
}

func complexApprox(t *testing.T, v Val, want complex128) {
	t.Helper()
	c, ok := v.(ComplexVal)
	if !ok {
		t.Fatalf("Expected ComplexVal, got %T (%v)", v, v)
	}
	if got := toComplex128(c); cmplx.Abs(got-want) > 1e-4 {
		t.Errorf("Got %v, want %v", got, want)
	}
}

func TestEvalComplex(t *testing.T) {
	ctx := NewCtx()
	v := mustEval(t, "(3 + 4*j) / (5 - 2*j)", ctx)
	complexApprox(t, v, complex(0.2414, 0.8966))
	if got, want := v.String(), "(7/29+26/29j)"; got != want {
		t.Errorf("Got %s, want %s", got, want)
	}
	// Imaginary parts that cancel do not turn the value into a real.
	if got, want := mustEval(t, "j*j", ctx).String(), "(-1+0j)"; got != want {
		t.Errorf("Got %s, want %s", got, want)
	}
	complexApprox(t, mustEval(t, "2j * 1.5", ctx), complex(0, 3))
	complexApprox(t, mustEval(t, "(1 + j)^2", ctx), complex(0, 2))
	complexApprox(t, mustEval(t, "1 / j", ctx), complex(0, -1))
	complexApprox(t, mustEval(t, "(-8)^(1/3)", ctx), complex(1, math.Sqrt(3)))
	complexApprox(t, mustEval(t, "(-4)^0.5", ctx), complex(0, 2))
}

func TestEvalQuantities(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "3 m + 6 m", want: "9 m"},
		{input: "5 km + 3 m", want: "5003 m"},
		{input: "3 m - 5 km", want: "-4997 m"},
		{input: "3 m * 2", want: "6 m"},
		{input: "2 * 3 m", want: "6 m"},
		{input: "6 m / 4", want: "3/2 m"},
		{input: "-(2 s)", want: "-2 s"},
		{input: "1 / (2 s)", want: "1/2 T^-1"},
		{input: "3 m * 2 m", want: "6 L^2"},
		{input: "10 m / 2 s", want: "5 L T^-1"},
		{input: "3 km / 1 m", want: "3000"},
		{input: "(2 m)^2", want: "4 m^2"},
		{input: "(2 km)^-1", want: "1/2 1/km"},
		{input: "(3 km/h)^2", want: "25/36 L^2 T^-2"},
		{input: "(3 m^2)^-1", want: "1/3 L^-2"},
		{input: "(2 m)^0", want: "1"},
		{input: "1/16 W", want: "1/16 W"},
		{input: "2 kg m/s^2", want: "2 kg m/s^2"},
		{input: "3 m^2/2", want: "3/2 m^2"},
		{input: "3 m^-2/2", want: "3/2 1/m^2"},
		{input: "3 m^2 / 2", want: "3/2 m^2"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			got := mustEval(t, test.input, NewCtx())
			if got.String() != test.want {
				t.Errorf("%s: got %v, want %v", test.input, got, test.want)
			}
		})
	}
}

func TestEvalDimensionlessUnits(t *testing.T) {
	v := mustEval(t, "90 deg", NewCtx())
	f, ok := v.(FloatVal)
	if !ok {
		t.Fatalf("Expected FloatVal, got %T (%v)", v, v)
	}
	if math.Abs(float64(f)-math.Pi/2) > 1e-12 {
		t.Errorf("Got %v, want π/2", f)
	}
}

func TestEvalDimensionMismatch(t *testing.T) {
	tests := []struct {
		input string
		want  DimensionMismatchError
	}{
		{input: "3 m + 6 kg", want: DimensionMismatchError{Op: "+", X: unit.Base(unit.Length), Y: unit.Base(unit.Mass)}},
		{input: "3 m - 2 s", want: DimensionMismatchError{Op: "-", X: unit.Base(unit.Length), Y: unit.Base(unit.Time)}},
		{input: "3 m + 1", want: DimensionMismatchError{Op: "+", X: unit.Base(unit.Length)}},
		{input: "2^(3 m)", want: DimensionMismatchError{Op: "^", X: unit.Base(unit.Length)}},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			_, err := evalInput(t, test.input, NewCtx())
			var got *DimensionMismatchError
			if !errors.As(err, &got) {
				t.Fatalf("Expected *DimensionMismatchError, got %T: %v", err, err)
			}
			if diff := cmp.Diff(test.want, *got); diff != "" {
				t.Errorf("Error mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvalArithmeticErrors(t *testing.T) {
	tests := []string{
		"1/0",
		"1 / (2 - 2)",
		"1.0 / 0",
		"0^-1",
		"(0 m)^-1",
		"10^400.0",
		"2^5000",
		"2^x",
		"(x + 1)^(1/2)",
		"(x + 1)^-1",
		"(2 m)^j",
		"(2 m)^0.5",
		"1 / (0 * j)",
		"(10^4096)^4096",
		"((10^4096)^4096)^4096",
		"(10^4096 + 10^4096 j)^4096",
	}
	for i, input := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			_, err := evalInput(t, input, NewCtx())
			var aerr *ArithmeticError
			if !errors.As(err, &aerr) {
				t.Fatalf("%s: expected *ArithmeticError, got %T: %v", input, err, err)
			}
		})
	}
}

func TestEvalLargeExactPower(t *testing.T) {
	v := mustEval(t, "(1 + 1/10^300)^4096", NewCtx())
	if _, ok := v.(FloatVal); !ok {
		t.Errorf("Got %T (%v), want FloatVal", v, v)
	}
	v = mustEval(t, "(2/3)^4096", NewCtx())
	if _, ok := v.(ExactVal); !ok {
		t.Errorf("Got %T, want ExactVal", v)
	}
}

func TestEvalErrorPosition(t *testing.T) {
	tests := []struct {
		input   string
		wantPos int
	}{
		{"1 / (2 - 2)", 2},
		{"1 + 2/0", 4},
		{"3 m + 6 kg", 4},
		{"2 * (1 s + 1)", 9},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			_, err := evalInput(t, test.input, NewCtx())
			var eerr *EvalError
			if !errors.As(err, &eerr) {
				t.Fatalf("Expected *EvalError, got %T: %v", err, err)
			}
			if int(eerr.Pos()) != test.wantPos {
				t.Errorf("Got position %d, want %d", eerr.Pos(), test.wantPos)
			}
		})
	}
}

func TestEvalSymbolic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "x", want: "x"},
		{input: "a + b", want: "a + b"},
		{input: "b + a", want: "a + b"},
		{input: "x + x", want: "2 x"},
		{input: "x - x", want: "0"},
		{input: "1 + x - 1", want: "x"},
		{input: "2 x * 3 x", want: "6 x^2"},
		{input: "x y - y x", want: "0"},
		{input: "(x + 1)^2", want: "1 + 2 x + x^2"},
		{input: "(x + 1)(x - 1)", want: "-1 + x^2"},
		{input: "x / 2", want: "1/2 x"},
		{input: "2 / x", want: "2 x^-1"},
		{input: "x^2 / x", want: "x"},
		{input: "x / x", want: "1"},
		{input: "x / (x + 1)", want: "x (1 + x)^-1"},
		{input: "-(x - y)", want: "-x + y"},
		{input: "y x^2", want: "x^2 y"},
		{input: "(x^2)^(1/2)", want: "x"},
		{input: "x^(1/2) x^(1/2)", want: "x"},
		{input: "x + 3 m", want: "3 m + x"},
		{input: "2 m x", want: "(2 m) x"},
		{input: "2 m x - 2 m x", want: "0 m"},
		{input: "x * j", want: "(0+1j) x"},
		{input: "x^0", want: "1"},
		{input: "(x*y)^0", want: "1"},
		{input: "(2 x)^0", want: "1"},
		{input: "x^0 + 1", want: "2"},
		{input: "(x y)^2 / (x^2 y)", want: "y"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			got := mustEval(t, test.input, NewCtx())
			if got.String() != test.want {
				t.Errorf("%s: got %v, want %v", test.input, got, test.want)
			}
		})
	}
}

func TestEvalSymbolicCanonicalOrder(t *testing.T) {
	a := mustEval(t, "c + a*b + b^2 + 1", NewCtx())
	b := mustEval(t, "1 + b^2 + b*a + c", NewCtx())
	if diff := cmp.Diff(a.String(), b.String()); diff != "" {
		t.Errorf("Canonical forms differ (-a +b):\n%s", diff)
	}
}

func TestEvalAssign(t *testing.T) {
	ctx := NewCtx()
	mustEval(t, "a := b := 3 m", ctx)
	for _, name := range []string{"a", "b"} {
		v, ok := ctx.Env.Get(name)
		if !ok || v.String() != "3 m" {
			t.Errorf("%s: got %v, want 3 m", name, v)
		}
	}
	if got := mustEval(t, "a + b", ctx).String(); got != "6 m" {
		t.Errorf("Got %s, want 6 m", got)
	}
}

func TestEvalAssignIsAtomic(t *testing.T) {
	ctx := NewCtx()
	if _, err := evalInput(t, "a := b := 1 / (3 - 3)", ctx); err == nil {
		t.Fatal("Expected an error")
	}
	if _, ok := ctx.Env.Get("a"); ok {
		t.Error("a was assigned by a failed evaluation")
	}
	if _, ok := ctx.Env.Get("b"); ok {
		t.Error("b was assigned by a failed evaluation")
	}
}

func TestEvalBuiltins(t *testing.T) {
	ctx := NewCtx()
	if got := mustEval(t, "2 pi", ctx); got != FloatVal(2*math.Pi) {
		t.Errorf("Got %v, want 2π", got)
	}
	if got := mustEval(t, "π", ctx); got != FloatVal(math.Pi) {
		t.Errorf("Got %v, want π", got)
	}
	if got := mustEval(t, "e", ctx); got != FloatVal(math.E) {
		t.Errorf("Got %v, want e", got)
	}
}

func TestEvalBackref(t *testing.T) {
	ctx := NewCtx()
	evalLine(t, "3 m", ctx)
	evalLine(t, "[1] * 2", ctx)
	if got := mustEval(t, "[2] + [1]", ctx).String(); got != "9 m" {
		t.Errorf("Got %s, want 9 m", got)
	}
	// Idempotence.
	first := mustEval(t, "[2]", ctx).String()
	second := mustEval(t, "[2]", ctx).String()
	if first != second {
		t.Errorf("Backref not idempotent: %s vs. %s", first, second)
	}
}

func TestEvalBackrefRetroactive(t *testing.T) {
	ctx := NewCtx()
	evalLine(t, "y := 5 m", ctx)
	v := evalLine(t, "x + y", ctx)
	if got, want := v.String(), "5 m + x"; got != want {
		t.Fatalf("Got %s, want %s", got, want)
	}
	evalLine(t, "x := 2 km", ctx)
	if got, want := mustEval(t, "[2]", ctx).String(), "2005 m"; got != want {
		t.Errorf("Got %s, want %s", got, want)
	}
}

func TestEvalBackrefDoesNotReassign(t *testing.T) {
	ctx := NewCtx()
	evalLine(t, "a := 2", ctx)
	evalLine(t, "a := 5", ctx)
	if got := mustEval(t, "[1]", ctx).String(); got != "2" {
		t.Errorf("Got %s, want 2", got)
	}
	if v, _ := ctx.Env.Get("a"); v.String() != "5" {
		t.Errorf("a = %v, want 5", v)
	}
}

func TestEvalBackrefOutOfRange(t *testing.T) {
	tests := []struct {
		setup []string
		input string
		want  ReferenceError
	}{
		{input: "[999]", want: ReferenceError{Index: 999, Len: 0}},
		{setup: []string{"1", "2"}, input: "[3]", want: ReferenceError{Index: 3, Len: 2}},
		{setup: []string{"1"}, input: "[0]", want: ReferenceError{Index: 0, Len: 1}},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			ctx := NewCtx()
			for _, s := range test.setup {
				evalLine(t, s, ctx)
			}
			_, err := evalInput(t, test.input, ctx)
			var rerr *ReferenceError
			if !errors.As(err, &rerr) {
				t.Fatalf("Expected *ReferenceError, got %T: %v", err, err)
			}
			if diff := cmp.Diff(test.want, *rerr); diff != "" {
				t.Errorf("Error mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvalBackrefErrorCause(t *testing.T) {
	ctx := NewCtx()
	evalLine(t, "x := 0", ctx)
	evalLine(t, "1 / (x + 1)", ctx)
	evalLine(t, "x := -1", ctx)
	_, err := evalInput(t, "2 * [2]", ctx)
	var eerr *EvalError
	if !errors.As(err, &eerr) {
		t.Fatalf("Expected *EvalError, got %T: %v", err, err)
	}
	if eerr.Pos() != 4 {
		t.Errorf("Got position %d, want 4", eerr.Pos())
	}
	var aerr *ArithmeticError
	if !errors.As(err, &aerr) {
		t.Errorf("Expected *ArithmeticError in chain, got %v", err)
	}
}
