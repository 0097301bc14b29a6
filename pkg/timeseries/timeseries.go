// Package timeseries holds in-memory tabular time series: one time column
// plus any number of named float, string, bool or time columns of the same
// length. Float columns carry a physical unit.
package timeseries

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

// DefaultTimeColumn is the time column name used when none is given.
const DefaultTimeColumn = "time"

// ColumnKind identifies the element type of a column.
type ColumnKind int

const (
	KindFloat ColumnKind = iota
	KindString
	KindBool
	KindTime
)

func (k ColumnKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	}
	return fmt.Sprintf("ColumnKind(%d)", int(k))
}

// Column is one named column. Exactly one of the value slices is populated,
// matching Kind.
type Column struct {
	Name    string
	Kind    ColumnKind
	Unit    units.Unit
	Floats  []float64
	Strings []string
	Bools   []bool
	Times   []time.Time
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case KindFloat:
		return len(c.Floats)
	case KindString:
		return len(c.Strings)
	case KindBool:
		return len(c.Bools)
	default:
		return len(c.Times)
	}
}

// TimeSeries is a table indexed by time. Columns keep insertion order.
type TimeSeries struct {
	id         string
	timeColumn string
	times      []time.Time
	columns    []*Column
	index      map[string]int
}

// New creates a time series with the given time column. An empty id is
// replaced by a random UUID and an empty timeColumn by DefaultTimeColumn.
// Times are stored in UTC.
func New(id, timeColumn string, times []time.Time) *TimeSeries {
	if id == "" {
		id = uuid.NewString()
	}
	if timeColumn == "" {
		timeColumn = DefaultTimeColumn
	}
	utc := make([]time.Time, len(times))
	for i, t := range times {
		utc[i] = t.UTC()
	}
	return &TimeSeries{
		id:         id,
		timeColumn: timeColumn,
		times:      utc,
		index:      make(map[string]int),
	}
}

// ID returns the stable identifier of the table.
func (ts *TimeSeries) ID() string { return ts.id }

// TimeColumn returns the name of the time column.
func (ts *TimeSeries) TimeColumn() string { return ts.timeColumn }

// Times returns the time column values.
func (ts *TimeSeries) Times() []time.Time { return ts.times }

// Len returns the number of rows.
func (ts *TimeSeries) Len() int { return len(ts.times) }

// ColumnNames returns all column names, time column first.
func (ts *TimeSeries) ColumnNames() []string {
	names := make([]string, 0, len(ts.columns)+1)
	names = append(names, ts.timeColumn)
	for _, c := range ts.columns {
		names = append(names, c.Name)
	}
	return names
}

// HasColumn reports whether name is the time column or a data column.
func (ts *TimeSeries) HasColumn(name string) bool {
	if name == ts.timeColumn {
		return true
	}
	_, ok := ts.index[name]
	return ok
}

// Column returns the named column. The time column is returned as a
// KindTime column.
func (ts *TimeSeries) Column(name string) (*Column, bool) {
	if name == ts.timeColumn {
		return &Column{Name: name, Kind: KindTime, Times: ts.times}, true
	}
	i, ok := ts.index[name]
	if !ok {
		return nil, false
	}
	return ts.columns[i], true
}

// Columns returns the data columns in insertion order, excluding the time
// column.
func (ts *TimeSeries) Columns() []*Column {
	return ts.columns
}

// Unit returns the unit of the named column. Non-float columns and unknown
// names are dimensionless.
func (ts *TimeSeries) Unit(name string) units.Unit {
	if c, ok := ts.Column(name); ok && c.Kind == KindFloat {
		return c.Unit
	}
	return units.Dimensionless
}

// Floats returns the named float column converted to unit to.
func (ts *TimeSeries) Floats(name string, to units.Unit) ([]float64, error) {
	c, ok := ts.Column(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeColumnNotFound, "%s is not a valid column name", name)
	}
	if c.Kind != KindFloat {
		return nil, errors.New(errors.ErrCodeInvalidInput, "column '%s' is not numeric", name)
	}
	return c.Unit.ConvertAll(c.Floats, to)
}

func (ts *TimeSeries) add(c *Column) error {
	if c.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "column name cannot be empty")
	}
	if ts.HasColumn(c.Name) {
		return errors.New(errors.ErrCodeInvalidInput, "column '%s' already exists", c.Name)
	}
	if c.Len() != len(ts.times) {
		return errors.New(errors.ErrCodeInvalidInput,
			"column '%s' has %d rows, expected %d", c.Name, c.Len(), len(ts.times))
	}
	ts.index[c.Name] = len(ts.columns)
	ts.columns = append(ts.columns, c)
	return nil
}

// AddFloat appends a numeric column with the given unit.
func (ts *TimeSeries) AddFloat(name string, values []float64, unit units.Unit) error {
	return ts.add(&Column{Name: name, Kind: KindFloat, Unit: unit, Floats: values})
}

// AddString appends a text column.
func (ts *TimeSeries) AddString(name string, values []string) error {
	return ts.add(&Column{Name: name, Kind: KindString, Strings: values})
}

// AddBool appends a boolean column.
func (ts *TimeSeries) AddBool(name string, values []bool) error {
	return ts.add(&Column{Name: name, Kind: KindBool, Bools: values})
}

// AddTime appends a secondary time column.
func (ts *TimeSeries) AddTime(name string, values []time.Time) error {
	utc := make([]time.Time, len(values))
	for i, t := range values {
		utc[i] = t.UTC()
	}
	return ts.add(&Column{Name: name, Kind: KindTime, Times: utc})
}
