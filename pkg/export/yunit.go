package export

import (
	"github.com/aperiosoftware/aas-timeseries/pkg/figure"
	"github.com/aperiosoftware/aas-timeseries/pkg/layer"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

// ResolveYUnit returns the unit the y axis is drawn in. An explicit figure
// unit wins. Otherwise the unit of the first y column found on the figure's
// layers, then on each view's layers, is used. Figures without y columns
// are dimensionless.
func ResolveYUnit(fig *figure.Figure) units.Unit {
	if u, ok := fig.YUnit(); ok {
		return u
	}
	for _, layers := range scanOrder(fig) {
		for _, l := range layers {
			if refs := l.RequiredYData(); len(refs) > 0 {
				return refs[0].Data.Unit(refs[0].Column)
			}
		}
	}
	return units.Dimensionless
}

// scanOrder returns the layer lists of the figure and each view, in the
// order unit resolution visits them.
func scanOrder(fig *figure.Figure) [][]*layer.Layer {
	out := [][]*layer.Layer{fig.Layers()}
	for _, v := range fig.Views() {
		out = append(out, v.Layers())
	}
	return out
}

// checkUnits returns the first layer whose y values cannot be expressed
// in yunit.
func checkUnits(layers []*layer.Layer, yunit units.Unit) error {
	for _, l := range layers {
		if err := l.CheckYUnit(yunit); err != nil {
			return err
		}
	}
	return nil
}
