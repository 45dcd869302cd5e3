package unit

import (
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// piPrec is the precision in bits used to approximate π for angle units.
const piPrec = 256

func rat(s string) *big.Rat {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		panic("unit: invalid rational literal " + s)
	}
	return r
}

// Pi returns a rational approximation of π good to piPrec bits.
func Pi() *big.Rat {
	pi := bigfloat.Pi(new(big.Float).SetPrec(piPrec))
	r, _ := pi.Rat(nil)
	return r
}

// Default returns a new Table holding the SI base and derived units,
// common multiples, and US customary units.
func Default() *Table {
	t := NewTable()

	t.registerCategory("number", 0, Dimension{})
	t.registerDisplay("A", 2, "electric current", Base(Current))
	t.registerDisplay("kg", 2, "mass", Base(Mass))
	t.registerDisplay("m", 2, "distance", Base(Length))
	t.registerDisplay("s", 2, "time", Base(Time))
	t.registerDisplay("K", 2, "temperature", Base(Temperature))
	t.registerDisplay("mol", 2, "amount of substance", Base(Amount))
	t.registerDisplay("cd", 2, "luminous intensity", Base(Luminosity))
	t.registerDisplay("EUR", 2, "currency", Base(Currency))

	t.registerDisplay("N", 3, "force", Dims(Mass, 1, Length, 1, Time, -2))
	t.registerDisplay("J", 3, "energy", Dims(Mass, 1, Length, 2, Time, -2))
	t.registerDisplay("Pa", 4, "pressure", Dims(Mass, 1, Length, -1, Time, -2))
	t.registerDisplay("W", 4, "power", Dims(Mass, 1, Length, 2, Time, -3))
	t.registerDisplay("C", 3, "electric charge", Dims(Current, 1, Time, 1))
	t.registerDisplay("V", 3, "voltage", Dims(Mass, 1, Length, 2, Time, -3, Current, -1))
	t.registerDisplay("F", 4, "capacitance", Dims(Mass, -1, Length, -2, Time, 4, Current, 2))
	t.registerDisplay("Ω", 4, "resistance", Dims(Mass, 1, Length, 2, Time, -3, Current, -2))
	t.registerDisplay("S", 5, "conductance", Dims(Mass, -1, Length, -2, Time, 3, Current, 2))
	t.registerDisplay("Wb", 4, "magnetic flux", Dims(Mass, 1, Length, 2, Time, -2, Current, -1))
	t.registerDisplay("T", 4, "magnetic flux density", Dims(Mass, 1, Time, -2, Current, -1))
	t.registerDisplay("H", 4, "inductance", Dims(Mass, 1, Length, 2, Time, -2, Current, -2))
	t.registerDisplay("Hz", 4, "frequency", Dims(Time, -1))
	t.registerDisplay("lux", 3, "illuminance", Dims(Luminosity, 1, Length, -2))
	t.registerDisplay("Gy", 5, "radiation dose", Dims(Length, 2, Time, -2))
	t.registerDisplay("kat", 5, "katalytic activity", Dims(Amount, 1, Time, -1))

	one := big.NewRat(1, 1)
	t.registerMultiple("lm", one, "cd")
	t.registerMultiple("Bq", one, "Hz")
	t.registerMultiple("Sv", one, "Gy")

	for _, c := range []struct {
		name   string
		weight int
		dim    Dimension
	}{
		{"area", 3, Dims(Length, 2)},
		{"volume", 4, Dims(Length, 3)},
		{"speed", 3, Dims(Length, 1, Time, -1)},
		{"acceleration", 4, Dims(Length, 1, Time, -2)},
		{"momentum", 4, Dims(Mass, 1, Length, 1, Time, -1)},
		{"angular momentum", 5, Dims(Mass, 1, Length, 2, Time, -1)},
		{"moment of inertia", 5, Dims(Mass, 1, Length, 2)},
		{"electric field strength", 4, Dims(Mass, 1, Length, 1, Time, -3, Current, -1)},
		{"magnetic field strength", 4, Dims(Current, 1, Length, -1)},
		{"electric charge density", 5, Dims(Current, 1, Time, 1, Length, -3)},
		{"resistivity", 5, Dims(Mass, 1, Length, 3, Time, -3, Current, -2)},
		{"conductivity", 5, Dims(Mass, -1, Length, -3, Time, 3, Current, 2)},
		{"permittivity", 5, Dims(Mass, -1, Length, -3, Time, 4, Current, 2)},
		{"magnetic permeability", 5, Dims(Mass, 1, Length, 1, Time, -2, Current, -2)},
		{"thermal conductivity", 5, Dims(Mass, 1, Length, 1, Time, -3, Temperature, -1)},
		{"thermal capacity", 5, Dims(Mass, 1, Length, 2, Time, -2, Temperature, -1)},
		{"specific thermal capacity", 5, Dims(Length, 2, Time, -2, Temperature, -1)},
		{"molar thermal capacity", 5, Dims(Mass, 1, Length, 2, Time, -2, Temperature, -1, Amount, -1)},
		{"molar mass", 5, Dims(Mass, 1, Amount, -1)},
		{"concentration", 5, Dims(Amount, 1, Length, -3)},
		{"luminous energy", 5, Dims(Luminosity, 1, Time, 1)},
		{"luminous exposure", 5, Dims(Luminosity, 1, Time, 1, Length, -2)},
		{"luminous efficacy", 5, Dims(Luminosity, 1, Time, 3, Mass, -1, Length, -2)},
		{"radioactive exposure", 5, Dims(Current, 1, Time, 1, Mass, -1)},
	} {
		t.registerCategory(c.name, c.weight, c.dim)
	}

	// Multiples of SI units.
	t.registerMultiple("g", rat("1/1000"), "kg")
	t.registerMultiple("erg", rat("1e-7"), "J")
	t.units["l"] = Unit{Name: "l", Scale: rat("1/1000"), Dim: Dims(Length, 3)}
	t.units["ha"] = Unit{Name: "ha", Scale: rat("10000"), Dim: Dims(Length, 2)}
	t.registerMultiple("bar", rat("100000"), "Pa")
	t.registerMultiple("atm", rat("101325"), "Pa")
	t.registerMultiple("mmHg", rat("133.322387415"), "Pa")
	t.registerMultiple("inHg", rat("3386.389"), "Pa")
	t.registerMultiple("Torr", rat("101325/760"), "Pa")
	t.registerMultiple("min", rat("60"), "s")
	t.registerMultiple("h", rat("60"), "min")
	t.registerMultiple("d", rat("24"), "h")
	t.units["kph"] = Unit{Name: "kph", Scale: rat("1000/3600"), Dim: Dims(Length, 1, Time, -1)}
	t.units["deg"] = Unit{Name: "deg", Scale: new(big.Rat).Quo(Pi(), big.NewRat(180, 1)), Dim: Dimension{}}
	t.registerMultiple("arcmin", rat("1/60"), "deg")
	t.registerMultiple("arcsec", rat("1/60"), "arcmin")
	t.registerMultiple("cal", rat("4.184"), "J")
	t.registerMultiple("eV", rat("1.602176634e-19"), "J")
	t.registerMultiple("Ci", rat("3.7e10"), "Bq")
	t.registerMultiple("rad", rat("1/100"), "Gy")
	t.units["R"] = Unit{Name: "R", Scale: rat("2.58e-4"), Dim: Dims(Current, 1, Time, 1, Mass, -1)}

	// US customary units.
	t.registerMultiple("in", rat("0.0254"), "m")
	t.registerMultiple("ft", rat("12"), "in")
	t.registerMultiple("yd", rat("3"), "ft")
	t.registerMultiple("mi", rat("1760"), "yd")
	t.registerMultiple("NM", rat("1852"), "m")
	t.units["mph"] = Unit{Name: "mph", Scale: new(big.Rat).Quo(t.units["mi"].Scale, t.units["h"].Scale), Dim: Dims(Length, 1, Time, -1)}
	ft := t.units["ft"].Scale
	t.units["ac"] = Unit{Name: "ac", Scale: new(big.Rat).Mul(rat("43560"), new(big.Rat).Mul(ft, ft)), Dim: Dims(Length, 2)}
	t.registerMultiple("lb", rat("0.45359237"), "kg")
	t.units["lbf"] = Unit{Name: "lbf", Scale: new(big.Rat).Mul(t.units["lb"].Scale, rat("9.80665")), Dim: t.units["N"].Dim}
	t.units["ftlb"] = Unit{Name: "ftlb", Scale: new(big.Rat).Mul(t.units["lbf"].Scale, ft), Dim: t.units["J"].Dim}
	in := t.units["in"].Scale
	in2 := new(big.Rat).Mul(in, in)
	t.units["psi"] = Unit{Name: "psi", Scale: new(big.Rat).Quo(t.units["lbf"].Scale, in2), Dim: t.units["Pa"].Dim}
	t.units["gal"] = Unit{Name: "gal", Scale: new(big.Rat).Mul(rat("231"), new(big.Rat).Mul(in2, in)), Dim: Dims(Length, 3)}
	t.registerMultiple("floz", rat("1/128"), "gal")

	return t
}
