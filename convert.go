package physcalc

import (
	"fmt"

	"github.com/dnswlt/physcalc/token"
	"github.com/dnswlt/physcalc/unit"
)

// Convert expresses v in the unit given by target, e.g. "km/h".
func Convert(v Val, target string, units *unit.Table) (Val, error) {
	u, err := units.Parse(target)
	if err != nil {
		return nil, chainError(err, "cannot convert to %s", target)
	}
	return ConvertTo(v, u)
}

// ConvertTo rescales the payload of v to multiples of u. The result is
// labelled with u even if u is dimensionless, so that 0.5 pi can be shown in deg.
func ConvertTo(v Val, u unit.Unit) (Val, error) {
	switch x := v.(type) {
	case SymbolicVal:
		return nil, &PhyscalcError{msg: fmt.Sprintf("cannot convert unresolved expression %s to %s", x, u)}
	case QuantityVal:
		if x.U.Dim != u.Dim {
			return nil, &DimensionMismatchError{Op: "conversion", X: x.U.Dim, Y: u.Dim}
		}
		p, err := x.rescale(u)
		if err != nil {
			return nil, err
		}
		return QuantityVal{V: p, U: u}, nil
	}
	if !u.Dim.IsZero() {
		return nil, &DimensionMismatchError{Op: "conversion", X: unit.Dimension{}, Y: u.Dim}
	}
	p, err := numOp(v, ratVal(u.Scale), token.Div)
	if err != nil {
		return nil, err
	}
	return QuantityVal{V: p, U: u}, nil
}
