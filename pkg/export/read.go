package export

import (
	"io"

	"github.com/aperiosoftware/aas-timeseries/pkg/timeseries"
)

// ReadCSV parses an exported table back into a time series, using the
// column types recorded in the document's parse directives. Numeric
// columns are read as dimensionless unless units names them.
func ReadCSV(r io.Reader, id, timeColumn string, parse map[string]string, units map[string]string) (*timeseries.TimeSeries, error) {
	types := make(map[string]string, len(parse))
	for name, typ := range parse {
		if name != timeColumn {
			types[name] = typ
		}
	}
	return timeseries.ReadCSV(r, timeseries.CSVOptions{
		ID:         id,
		TimeColumn: timeColumn,
		Units:      units,
		Types:      types,
	})
}
