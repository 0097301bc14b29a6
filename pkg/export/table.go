package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/aperiosoftware/aas-timeseries/pkg/data"
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/layer"
	"github.com/aperiosoftware/aas-timeseries/pkg/timeseries"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

// Seconds is the unit of numeric x columns carrying a time dimension.
var Seconds = units.MustParse("s")

// Table is a data source converted to strings, ready to be written as CSV.
type Table struct {
	// Name is the data source identifier, used as the Vega data name.
	Name string
	// TimeColumn is the name of the source's time column.
	TimeColumn string
	// Columns lists the exported columns, time column first.
	Columns []string
	// Types maps each column to "date", "number", "boolean" or "string".
	Types map[string]string
	// Units maps numeric columns to the unit their values are written in.
	Units map[string]string
	// Rows holds the formatted cells.
	Rows [][]string
}

// FileName returns the name of the side file holding the table.
func (t *Table) FileName() string { return "data_" + t.Name + ".csv" }

// WriteCSV writes the table with a header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write csv header")
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write csv rows")
	}
	return nil
}

// CSV returns the table as a CSV string.
func (t *Table) CSV() (string, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// requirement collects the columns of one data source read by any layer.
type requirement struct {
	data *data.Data
	x    map[string]bool
	y    map[string]bool
	tip  map[string]bool
}

func (r *requirement) any(col string) bool {
	return r.x[col] || r.y[col] || r.tip[col]
}

// requirements returns, in first-reference order, the columns each data
// source must provide for the given layers.
func requirements(layers []*layer.Layer) []*requirement {
	var out []*requirement
	byID := make(map[string]*requirement)
	get := func(d *data.Data) *requirement {
		if r, ok := byID[d.ID()]; ok {
			return r
		}
		r := &requirement{data: d, x: map[string]bool{}, y: map[string]bool{}, tip: map[string]bool{}}
		byID[d.ID()] = r
		out = append(out, r)
		return r
	}
	for _, l := range layers {
		if l.Data() == nil {
			continue
		}
		r := get(l.Data())
		for _, ref := range l.RequiredXData() {
			r.x[ref.Column] = true
		}
		for _, ref := range l.RequiredYData() {
			r.y[ref.Column] = true
		}
		for _, ref := range l.RequiredTooltipData() {
			r.tip[ref.Column] = true
		}
	}
	return out
}

// buildTable converts one data source. The time column is always written.
// With minimize set, other columns are written only when some layer reads
// them. Required y columns are converted to yunit and numeric x columns
// to seconds, or left as is when dimensionless.
func buildTable(req *requirement, yunit units.Unit, minimize bool) (*Table, error) {
	if err := errors.ValidateIdentifier(req.data.ID()); err != nil {
		return nil, err
	}
	ts := req.data.TimeSeries()
	t := &Table{
		Name:       ts.ID(),
		TimeColumn: ts.TimeColumn(),
		Types:      make(map[string]string),
		Units:      make(map[string]string),
	}

	for _, ref := range sortedKeys(req.x, req.y, req.tip) {
		if !ts.HasColumn(ref) {
			return nil, errors.New(errors.ErrCodeColumnNotFound, "%s is not a valid column name", ref)
		}
	}

	var cells [][]string
	for _, name := range ts.ColumnNames() {
		if minimize && name != ts.TimeColumn() && !req.any(name) {
			continue
		}
		col, ok := ts.Column(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeColumnNotFound, "%s is not a valid column name", name)
		}
		values, typ, err := formatColumn(req, col, yunit)
		if err != nil {
			return nil, err
		}
		t.Columns = append(t.Columns, name)
		t.Types[name] = typ
		if col.Kind == timeseries.KindFloat {
			t.Units[name] = exportedUnit(req, col, yunit).String()
		}
		cells = append(cells, values)
	}

	t.Rows = make([][]string, ts.Len())
	for i := range t.Rows {
		row := make([]string, len(cells))
		for j := range cells {
			row[j] = cells[j][i]
		}
		t.Rows[i] = row
	}
	return t, nil
}

func formatColumn(req *requirement, col *timeseries.Column, yunit units.Unit) ([]string, string, error) {
	switch col.Kind {
	case timeseries.KindTime:
		out := make([]string, len(col.Times))
		for i, v := range col.Times {
			out[i] = timeseries.FormatTime(v)
		}
		return out, timeseries.TypeDate, nil
	case timeseries.KindBool:
		out := make([]string, len(col.Bools))
		for i, v := range col.Bools {
			out[i] = strconv.FormatBool(v)
		}
		return out, timeseries.TypeBoolean, nil
	case timeseries.KindString:
		return col.Strings, timeseries.TypeString, nil
	}

	values := col.Floats
	switch {
	case req.y[col.Name]:
		v, err := req.data.Floats(col.Name, yunit)
		if err != nil {
			return nil, "", err
		}
		values = v
	case req.x[col.Name]:
		v, err := xFloats(req.data, col.Name)
		if err != nil {
			return nil, "", err
		}
		values = v
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = formatFloat(v)
	}
	return out, timeseries.TypeNumber, nil
}

func exportedUnit(req *requirement, col *timeseries.Column, yunit units.Unit) units.Unit {
	switch {
	case req.y[col.Name]:
		return yunit
	case req.x[col.Name] && col.Unit.Convertible(Seconds):
		return Seconds
	case req.x[col.Name]:
		return units.Dimensionless
	}
	return col.Unit
}

// xFloats returns a numeric x column in seconds when it measures time,
// or unchanged when it is dimensionless.
func xFloats(d *data.Data, column string) ([]float64, error) {
	if d.Unit(column).Convertible(Seconds) {
		return d.Floats(column, Seconds)
	}
	return d.Floats(column, units.Dimensionless)
}

// formatFloat writes NaN as an empty cell, which Vega reads as null.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func sortedKeys(sets ...map[string]bool) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range sets {
		for k := range s {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	slices.Sort(out)
	return out
}
