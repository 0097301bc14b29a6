package layer

import "github.com/aperiosoftware/aas-timeseries/pkg/attr"

// MarkerShapes are the symbol shapes accepted by markers.
var MarkerShapes = []string{"circle", "square", "cross", "diamond", "triangle-up",
	"triangle-down", "triangle-right", "triangle-left"}

const opacityHelp = " from 0 (transparent) to 1 (opaque)."

var (
	labelField = attr.Field{Name: "label", Kind: attr.String,
		Help: "The label to use to designate the layer in the legend."}

	timeColumnField = attr.Field{Name: "time_column", Kind: attr.Column,
		Help: "The field in the time series containing the x values, if not the default time column."}

	tooltipField = attr.Field{Name: "tooltip", Kind: attr.Tooltip, Default: true,
		Help: "Whether to show a tooltip, optionally a list of columns or a map of columns to labels."}

	widthField = attr.Field{Name: "width", Kind: attr.NonNegative, Default: 1,
		Help: "The width of the line, in pixels."}

	edgeColorField = attr.Field{Name: "edge_color", Kind: attr.Color, Help: "The edge color."}

	edgeOpacityField = attr.Field{Name: "edge_opacity", Kind: attr.Opacity, Default: 0.2,
		Help: "The opacity of the edge color" + opacityHelp}

	edgeWidthField = attr.Field{Name: "edge_width", Kind: attr.NonNegative, Default: 0,
		Help: "The thickness of the edge, in pixels."}
)

func color(help string) attr.Field {
	return attr.Field{Name: "color", Kind: attr.Color, Help: help}
}

func opacity(def float64, what string) attr.Field {
	return attr.Field{Name: "opacity", Kind: attr.Opacity, Default: def,
		Help: "The opacity of the " + what + opacityHelp}
}

// column declares a field naming a numeric column of the layer's data.
func column(name, help string) attr.Field {
	return attr.Field{Name: name, Kind: attr.NumericColumn, Help: help}
}

func timeField(name, help string) attr.Field {
	return attr.Field{Name: name, Kind: attr.Time, Help: help}
}

func quantity(name, help string) attr.Field {
	return attr.Field{Name: name, Kind: attr.Quantity, Help: help}
}

var schemas = [...]*attr.Schema{
	Markers: attr.NewSchema(
		labelField,
		column("column", "The field in the time series containing the data."),
		column("error", "The field in the time series containing the data uncertainties."),
		timeColumnField,
		attr.Field{Name: "shape", Kind: attr.Choice, Default: "circle", Choices: MarkerShapes,
			Help: "The symbol shape."},
		attr.Field{Name: "size", Kind: attr.NonNegative, Default: 20,
			Help: "The area in pixels of the bounding box of the symbols. The side lengths grow with the square root of this value."},
		color("The fill color of the symbols."),
		opacity(1, "fill color"),
		edgeColorField,
		edgeOpacityField,
		edgeWidthField,
		tooltipField,
	),
	Line: attr.NewSchema(
		labelField,
		column("column", "The field in the time series containing the data."),
		timeColumnField,
		widthField,
		color("The color of the line."),
		opacity(1, "line"),
		tooltipField,
	),
	Range: attr.NewSchema(
		labelField,
		column("column_lower", "The field in the time series containing the lower value of the data range."),
		column("column_upper", "The field in the time series containing the upper value of the data range."),
		timeColumnField,
		color("The fill color of the range."),
		opacity(0.2, "fill color"),
		edgeColorField,
		edgeOpacityField,
		edgeWidthField,
		tooltipField,
	),
	VerticalLine: attr.NewSchema(
		labelField,
		timeField("time", "The date/time at which the vertical line is shown."),
		widthField,
		color("The color of the line."),
		opacity(1, "line"),
	),
	VerticalRange: attr.NewSchema(
		labelField,
		timeField("time_lower", "The date/time at which the range starts."),
		timeField("time_upper", "The date/time at which the range ends."),
		color("The fill color of the range."),
		opacity(0.2, "fill color"),
		edgeColorField,
		edgeOpacityField,
		edgeWidthField,
	),
	HorizontalLine: attr.NewSchema(
		labelField,
		quantity("value", "The y value at which the horizontal line is shown."),
		widthField,
		color("The color of the line."),
		opacity(1, "line"),
	),
	HorizontalRange: attr.NewSchema(
		labelField,
		quantity("value_lower", "The value at which the range starts."),
		quantity("value_upper", "The value at which the range ends."),
		color("The fill color of the range."),
		opacity(0.2, "fill color"),
		edgeColorField,
		edgeOpacityField,
		edgeWidthField,
	),
	Text: attr.NewSchema(
		labelField,
		attr.Field{Name: "text", Kind: attr.String, Help: "The text label to show."},
		timeField("time", "The date/time at which the text is shown."),
		quantity("value", "The y value at which the text is shown."),
		attr.Field{Name: "weight", Kind: attr.Choice, Default: "normal", Choices: []string{"normal", "bold"},
			Help: "The weight of the text."},
		attr.Field{Name: "baseline", Kind: attr.Choice, Default: "alphabetic",
			Choices: []string{"alphabetic", "top", "middle", "bottom"}, Help: "The vertical text baseline."},
		attr.Field{Name: "align", Kind: attr.Choice, Default: "left", Choices: []string{"left", "center", "right"},
			Help: "The horizontal text alignment."},
		attr.Field{Name: "angle", Kind: attr.Float, Default: 0, Help: "The rotation angle of the text in degrees."},
		color("The color of the text."),
		opacity(1, "text"),
	),
}

// Schema returns the attribute schema of a layer kind.
func Schema(k Kind) *attr.Schema {
	return schemas[k]
}
