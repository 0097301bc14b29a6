// Package data wraps time series tables for use by figure layers and keeps
// a per-figure registry of them keyed by table identifier.
package data

import (
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/timeseries"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

// Data is a time series shared by one or more layers.
type Data struct {
	ts *timeseries.TimeSeries
}

// New wraps ts.
func New(ts *timeseries.TimeSeries) *Data {
	return &Data{ts: ts}
}

// ID returns the identifier of the underlying table.
func (d *Data) ID() string { return d.ts.ID() }

// TimeSeries returns the wrapped table.
func (d *Data) TimeSeries() *timeseries.TimeSeries { return d.ts }

// TimeColumn returns the default time column name.
func (d *Data) TimeColumn() string { return d.ts.TimeColumn() }

// HasColumn reports whether the table has the named column.
func (d *Data) HasColumn(name string) bool { return d.ts.HasColumn(name) }

// IsNumeric reports whether the named column holds numbers.
func (d *Data) IsNumeric(name string) bool {
	c, ok := d.ts.Column(name)
	return ok && c.Kind == timeseries.KindFloat
}

// Unit returns the unit of a column. Columns without a unit are
// dimensionless.
func (d *Data) Unit(column string) units.Unit { return d.ts.Unit(column) }

// CheckUnit returns an error if column cannot be expressed in unit.
func (d *Data) CheckUnit(column string, unit units.Unit) error {
	if !d.ts.HasColumn(column) {
		return errors.New(errors.ErrCodeColumnNotFound, "%s is not a valid column name", column)
	}
	cu := d.ts.Unit(column)
	if !cu.Convertible(unit) {
		return errors.New(errors.ErrCodeUnitsMismatch,
			"Cannot convert the units '%s' of column '%s' to the required units of '%s'",
			cu, column, unit)
	}
	return nil
}

// Floats returns a numeric column converted to unit.
func (d *Data) Floats(column string, unit units.Unit) ([]float64, error) {
	if err := d.CheckUnit(column, unit); err != nil {
		return nil, err
	}
	return d.ts.Floats(column, unit)
}

// Registry holds the Data wrappers of a figure in registration order. A
// table is registered once no matter how many layers reference it.
type Registry struct {
	order []*Data
	byID  map[string]*Data
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Data)}
}

// Register returns the Data for ts, creating it on first use. Registering
// a different table under an identifier already in use is an error.
func (r *Registry) Register(ts *timeseries.TimeSeries) (*Data, error) {
	if ts == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "time series cannot be nil")
	}
	if d, ok := r.byID[ts.ID()]; ok {
		if d.ts != ts {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"a different time series with id '%s' is already registered", ts.ID())
		}
		return d, nil
	}
	d := New(ts)
	r.byID[ts.ID()] = d
	r.order = append(r.order, d)
	return d, nil
}

// Get looks up a Data by table identifier.
func (r *Registry) Get(id string) (*Data, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// All returns the registered Data in registration order.
func (r *Registry) All() []*Data {
	return r.order
}

// Len returns the number of registered tables.
func (r *Registry) Len() int {
	return len(r.order)
}
