package timeseries

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

// CSV column types. They match the Vega csv parse directives.
const (
	TypeDate    = "date"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeString  = "string"
)

// CSVOptions configures ReadCSV.
type CSVOptions struct {
	// ID is the table identifier. Empty means a random UUID.
	ID string
	// TimeColumn names the time column. Defaults to DefaultTimeColumn.
	TimeColumn string
	// Units maps column names to unit expressions. They override units
	// given in the header as "name [unit]".
	Units map[string]string
	// Types forces the type of named columns (TypeDate, TypeNumber,
	// TypeBoolean or TypeString). Other columns are detected from their
	// values.
	Types map[string]string
}

// ReadCSV reads a comma-separated table with a header row. Header cells
// may carry a unit in brackets, e.g. "flux [mJy]".
func ReadCSV(r io.Reader, opts CSVOptions) (*TimeSeries, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "csv has no header row")
	}

	timeColumn := opts.TimeColumn
	if timeColumn == "" {
		timeColumn = DefaultTimeColumn
	}

	header := records[0]
	rows := records[1:]
	names := make([]string, len(header))
	headerUnits := make([]string, len(header))
	timeIdx := -1
	for i, cell := range header {
		names[i], headerUnits[i] = splitHeader(cell)
		if names[i] == timeColumn {
			timeIdx = i
		}
	}
	if timeIdx < 0 {
		return nil, errors.New(errors.ErrCodeColumnNotFound, "time column '%s' not found in csv", timeColumn)
	}

	cells := func(i int) []string {
		out := make([]string, len(rows))
		for r, row := range rows {
			out[r] = strings.TrimSpace(row[i])
		}
		return out
	}

	times, err := parseTimes(cells(timeIdx))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "column '%s'", timeColumn)
	}
	ts := New(opts.ID, timeColumn, times)

	for i, name := range names {
		if i == timeIdx {
			continue
		}
		values := cells(i)
		kind, ok := opts.Types[name]
		if !ok {
			kind = detectType(values)
		}
		switch kind {
		case TypeNumber:
			floats, err := parseFloats(values)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "column '%s'", name)
			}
			expr := headerUnits[i]
			if u, ok := opts.Units[name]; ok {
				expr = u
			}
			unit, err := units.Parse(expr)
			if err != nil {
				return nil, err
			}
			if err := ts.AddFloat(name, floats, unit); err != nil {
				return nil, err
			}
		case TypeBoolean:
			bools, err := parseBools(values)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "column '%s'", name)
			}
			if err := ts.AddBool(name, bools); err != nil {
				return nil, err
			}
		case TypeDate:
			stamps, err := parseTimes(values)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "column '%s'", name)
			}
			if err := ts.AddTime(name, stamps); err != nil {
				return nil, err
			}
		case TypeString:
			if err := ts.AddString(name, values); err != nil {
				return nil, err
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown column type %q for '%s'", kind, name)
		}
	}
	return ts, nil
}

func splitHeader(cell string) (name, unit string) {
	cell = strings.TrimSpace(cell)
	if open := strings.LastIndexByte(cell, '['); open > 0 && strings.HasSuffix(cell, "]") {
		return strings.TrimSpace(cell[:open]), strings.TrimSpace(cell[open+1 : len(cell)-1])
	}
	return cell, ""
}

// detectType picks the narrowest type that parses every non-empty value.
// An all-empty column is numeric.
func detectType(values []string) string {
	if _, err := parseFloats(values); err == nil {
		return TypeNumber
	}
	if _, err := parseBools(values); err == nil {
		return TypeBoolean
	}
	if _, err := parseTimes(values); err == nil {
		return TypeDate
	}
	return TypeString
}

func parseFloats(values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		if v == "" {
			out[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func parseBools(values []string) ([]bool, error) {
	out := make([]bool, len(values))
	for i, v := range values {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func parseTimes(values []string) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	for i, v := range values {
		t, err := ParseTime(v)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
