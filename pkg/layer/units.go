package layer

import (
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

// CheckYUnit returns an error if any y column or literal y value of the
// layer cannot be expressed in yunit.
func (l *Layer) CheckYUnit(yunit units.Unit) error {
	for _, r := range l.RequiredYData() {
		if err := r.Data.CheckUnit(r.Column, yunit); err != nil {
			return err
		}
	}
	for _, q := range l.YQuantities() {
		if _, err := literalValue(q, yunit); err != nil {
			return err
		}
	}
	return nil
}

// YValues returns the literal y values converted to yunit.
func (l *Layer) YValues(yunit units.Unit) ([]float64, error) {
	qs := l.YQuantities()
	out := make([]float64, 0, len(qs))
	for _, q := range qs {
		v, err := literalValue(q, yunit)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// literalValue converts a literal y value. Plain numbers are already in
// the figure's y unit.
func literalValue(q units.Quantity, yunit units.Unit) (float64, error) {
	if q.Unit.IsDimensionless() && q.Unit.String() == "" {
		return q.Value, nil
	}
	v, err := q.To(yunit)
	if err != nil {
		return 0, errors.New(errors.ErrCodeUnitsMismatch,
			"Cannot convert the units '%s' of value %s to the required units of '%s'",
			q.Unit, q, yunit)
	}
	return v, nil
}
