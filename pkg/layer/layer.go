package layer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aperiosoftware/aas-timeseries/pkg/attr"
	"github.com/aperiosoftware/aas-timeseries/pkg/data"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

// Kind is the closed set of layer variants.
type Kind int

const (
	Markers Kind = iota
	Line
	Range
	VerticalLine
	VerticalRange
	HorizontalLine
	HorizontalRange
	Text
)

// Kinds lists every layer kind in declaration order.
var Kinds = []Kind{Markers, Line, Range, VerticalLine, VerticalRange, HorizontalLine, HorizontalRange, Text}

var kindNames = [...]string{
	Markers:         "markers",
	Line:            "line",
	Range:           "range",
	VerticalLine:    "vertical_line",
	VerticalRange:   "vertical_range",
	HorizontalLine:  "horizontal_line",
	HorizontalRange: "horizontal_range",
	Text:            "text",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the kind with the given name, as printed by String.
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// DataBound reports whether layers of this kind read a data source.
func (k Kind) DataBound() bool {
	return k == Markers || k == Line || k == Range
}

// Attrs are attribute assignments passed to constructors.
type Attrs map[string]any

// Ref names one column of one data source.
type Ref struct {
	Data   *data.Data
	Column string
}

// Layer is one drawable element of a figure.
type Layer struct {
	id    string
	kind  Kind
	data  *data.Data
	attrs *attr.Set
}

func newLayer(kind Kind, d *data.Data) *Layer {
	l := &Layer{
		id:    uuid.NewString(),
		kind:  kind,
		data:  d,
		attrs: attr.NewSet(Schema(kind)),
	}
	if d != nil {
		l.attrs.Bind(d)
	}
	return l
}

// ID returns the layer's identifier. It is also the name of its first
// Vega mark.
func (l *Layer) ID() string { return l.id }

// IDs returns the names of every Vega mark the layer emits. Markers with
// error bars emit a second mark.
func (l *Layer) IDs() []string {
	if l.kind == Markers && l.attrs.IsSet("error") {
		return []string{l.id, l.id + "_error"}
	}
	return []string{l.id}
}

// Kind returns the layer variant.
func (l *Layer) Kind() Kind { return l.kind }

// Label returns the legend label.
func (l *Layer) Label() string { return l.attrs.String("label") }

// Data returns the bound data source, or nil for literal layers.
func (l *Layer) Data() *data.Data { return l.data }

// Attrs returns the layer's attribute set.
func (l *Layer) Attrs() *attr.Set { return l.attrs }

// Set validates and assigns one attribute.
func (l *Layer) Set(name string, v any) error { return l.attrs.Set(name, v) }

// Apply validates and assigns several attributes.
func (l *Layer) Apply(a Attrs) error { return l.attrs.Apply(a) }

// Color returns the explicitly set color, or "" when unset.
func (l *Layer) Color() string { return l.attrs.String("color") }

// String describes the layer for error messages and logs.
func (l *Layer) String() string {
	if label := l.Label(); label != "" {
		return fmt.Sprintf("%s '%s'", l.kind, label)
	}
	return fmt.Sprintf("%s %s", l.kind, l.id)
}

// TimeColumn returns the column providing x values: the time_column
// override if set, otherwise the table's time column.
func (l *Layer) TimeColumn() string {
	if l.data == nil {
		return ""
	}
	if c := l.attrs.String("time_column"); c != "" {
		return c
	}
	return l.data.TimeColumn()
}

// RequiredXData returns the columns read for x geometry.
func (l *Layer) RequiredXData() []Ref {
	if !l.kind.DataBound() {
		return nil
	}
	return []Ref{{l.data, l.TimeColumn()}}
}

// RequiredYData returns the columns read for y geometry. They must be
// convertible to the figure's y unit.
func (l *Layer) RequiredYData() []Ref {
	var cols []string
	switch l.kind {
	case Markers:
		cols = []string{l.attrs.String("column"), l.attrs.String("error")}
	case Line:
		cols = []string{l.attrs.String("column")}
	case Range:
		cols = []string{l.attrs.String("column_lower"), l.attrs.String("column_upper")}
	default:
		return nil
	}
	var refs []Ref
	for _, c := range cols {
		if c != "" {
			refs = append(refs, Ref{l.data, c})
		}
	}
	return refs
}

// RequiredTooltipData returns the columns shown in the tooltip.
func (l *Layer) RequiredTooltipData() []Ref {
	if !l.kind.DataBound() {
		return nil
	}
	var refs []Ref
	for _, c := range l.tooltipColumns() {
		refs = append(refs, Ref{l.data, c})
	}
	return refs
}

func (l *Layer) tooltipColumns() []string {
	tip := l.attrs.Tooltip("tooltip")
	if !tip.Enabled {
		return nil
	}
	if len(tip.Columns) > 0 {
		return tip.Columns
	}
	cols := []string{l.TimeColumn()}
	for _, r := range l.RequiredYData() {
		cols = append(cols, r.Column)
	}
	return cols
}

// YQuantities returns the literal y values of the layer.
func (l *Layer) YQuantities() []units.Quantity {
	switch l.kind {
	case HorizontalLine, Text:
		return []units.Quantity{l.attrs.Quantity("value")}
	case HorizontalRange:
		return []units.Quantity{l.attrs.Quantity("value_lower"), l.attrs.Quantity("value_upper")}
	}
	return nil
}
