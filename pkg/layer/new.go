package layer

import (
	"github.com/aperiosoftware/aas-timeseries/pkg/data"
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
)

type assign struct {
	name  string
	value any
}

// build applies style attributes, then geometry in order. Geometry is
// assigned after the data source is bound so column checks can run.
func build(kind Kind, d *data.Data, attrs Attrs, geometry ...assign) (*Layer, error) {
	l := newLayer(kind, d)
	if err := l.Apply(attrs); err != nil {
		return nil, err
	}
	for _, g := range geometry {
		if s, ok := g.value.(string); ok && s == "" && kind.DataBound() {
			return nil, errors.Attribute(g.name, "a column name is required")
		}
		if err := l.Set(g.name, g.value); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func requireData(kind Kind, d *data.Data) error {
	if d == nil {
		return errors.New(errors.ErrCodeInvalidInput, "%s layers require a data source", kind)
	}
	return nil
}

// NewMarkers creates a markers layer reading column from d.
func NewMarkers(d *data.Data, column string, attrs Attrs) (*Layer, error) {
	if err := requireData(Markers, d); err != nil {
		return nil, err
	}
	return build(Markers, d, attrs, assign{"column", column})
}

// NewLine creates a line layer reading column from d.
func NewLine(d *data.Data, column string, attrs Attrs) (*Layer, error) {
	if err := requireData(Line, d); err != nil {
		return nil, err
	}
	return build(Line, d, attrs, assign{"column", column})
}

// NewRange creates a band between two columns of d.
func NewRange(d *data.Data, lower, upper string, attrs Attrs) (*Layer, error) {
	if err := requireData(Range, d); err != nil {
		return nil, err
	}
	return build(Range, d, attrs, assign{"column_lower", lower}, assign{"column_upper", upper})
}

// NewVerticalLine creates a vertical rule at time t, given as a time.Time
// or an ISO-8601 string.
func NewVerticalLine(t any, attrs Attrs) (*Layer, error) {
	return build(VerticalLine, nil, attrs, assign{"time", t})
}

// NewVerticalRange creates a shaded interval between two times.
func NewVerticalRange(lower, upper any, attrs Attrs) (*Layer, error) {
	return build(VerticalRange, nil, attrs, assign{"time_lower", lower}, assign{"time_upper", upper})
}

// NewHorizontalLine creates a horizontal rule at value, given as a plain
// number in figure units or as a units.Quantity.
func NewHorizontalLine(value any, attrs Attrs) (*Layer, error) {
	return build(HorizontalLine, nil, attrs, assign{"value", value})
}

// NewHorizontalRange creates a shaded band between two y values.
func NewHorizontalRange(lower, upper any, attrs Attrs) (*Layer, error) {
	return build(HorizontalRange, nil, attrs, assign{"value_lower", lower}, assign{"value_upper", upper})
}

// NewText creates a text label at (t, value).
func NewText(t, value any, text string, attrs Attrs) (*Layer, error) {
	return build(Text, nil, attrs, assign{"time", t}, assign{"value", value}, assign{"text", text})
}
