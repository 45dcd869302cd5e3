package physcalc

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/dnswlt/physcalc/unit"
	"github.com/google/go-cmp/cmp"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		f    float64
		want string
	}{
		{0, "0.0"},
		{2, "2.0"},
		{-2.5, "-2.5"},
		{12345.678, "12345.678"},
		{0.001, "0.001"},
		{1e-5, "1e-05"},
		{1e15, "1e+15"},
		{6.02214076e23, "6.02214076e+23"},
		{123456789012345, "123456789012345.0"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			if got := formatFloat(test.f); got != test.want {
				t.Errorf("Got %s, want %s", got, test.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		v    Val
		frac bool
		want string
	}{
		{v: exactInt(3), want: "3"},
		{v: exactInt(-3), frac: true, want: "-3"},
		{v: NewExact(3, 2), want: "1.5"},
		{v: NewExact(3, 2), frac: true, want: "3/2"},
		{v: NewExact(1, 3), want: "0.3333333333333333"},
		{v: FloatVal(4), frac: true, want: "4.0"},
		{v: ComplexVal{Re: exactInt(1), Im: NewExact(-1, 2)}, frac: true, want: "(1-1/2j)"},
		{v: ComplexVal{Re: exactInt(1), Im: NewExact(-1, 2)}, want: "(1-0.5j)"},
		{v: ComplexVal{Re: FloatVal(0), Im: FloatVal(2)}, want: "(0.0+2.0j)"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			if got := formatNumber(test.v, FormatOptions{Frac: test.frac}); got != test.want {
				t.Errorf("Got %s, want %s", got, test.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	units := unit.Default()
	tests := []struct {
		input string
		frac  bool
		want  Formatted
	}{
		{input: "3 m + 6 m", want: Formatted{Magnitude: "9", Unit: "m", Category: "distance"}},
		{input: "1/16 W", want: Formatted{Magnitude: "0.0625", Unit: "W", Category: "power"}},
		{input: "1/16 W", frac: true, want: Formatted{Magnitude: "1/16", Unit: "W", Category: "power"}},
		{input: "2 * 3", want: Formatted{Magnitude: "6", Category: "number"}},
		{input: "1.5 * 2", want: Formatted{Magnitude: "3.0", Category: "number"}},
		{input: "2 kg * 3 kg", want: Formatted{Magnitude: "6", Unit: "kg^2", Category: "M^2"}},
		{input: "x / 2", want: Formatted{Magnitude: "0.5 x", Category: "expression"}},
		{input: "x / 2", frac: true, want: Formatted{Magnitude: "1/2 x", Category: "expression"}},
		{input: "x + 1/2 m", want: Formatted{Magnitude: "0.5 m + x", Category: "expression"}},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			v := mustEval(t, test.input, NewCtx())
			got := Format(v, units, FormatOptions{Frac: test.frac})
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Format(%s) mismatch (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

func TestFormattedString(t *testing.T) {
	f := Formatted{Magnitude: "3.6", Unit: "km/h", Category: "speed"}
	if got, want := f.String(), "3.6 km/h (speed)"; got != want {
		t.Errorf("Got %q, want %q", got, want)
	}
	f = Formatted{Magnitude: "42", Category: "number"}
	if got, want := f.String(), "42 (number)"; got != want {
		t.Errorf("Got %q, want %q", got, want)
	}
}

func TestFormatUsesDisplayName(t *testing.T) {
	units := unit.Default()
	q := QuantityVal{V: exactInt(5), U: unit.Unit{Scale: big.NewRat(1, 1), Dim: unit.Base(unit.Mass)}}
	got := Format(q, units, FormatOptions{})
	want := Formatted{Magnitude: "5", Unit: "kg", Category: "mass"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Format mismatch (-want +got):\n%s", diff)
	}
}
