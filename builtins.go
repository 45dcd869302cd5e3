package physcalc

import "math"

// Constants that are available in every session.
var builtinConstants = []struct {
	Name string
	V    Val
}{
	{"e", FloatVal(math.E)},
	{"pi", FloatVal(math.Pi)},
	{"π", FloatVal(math.Pi)},
	{"j", ComplexVal{Re: exactInt(0), Im: exactInt(1)}},
}

func defineBuiltins(env *Env) {
	for _, c := range builtinConstants {
		env.Define(c.Name, c.V)
	}
}
