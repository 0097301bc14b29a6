package layer

import (
	"fmt"
	"strings"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
	"github.com/aperiosoftware/aas-timeseries/pkg/vega"
)

// DefaultColor is used when a layer has no color and none was assigned.
const DefaultColor = "#000000"

// RenderContext carries figure-level state needed to encode a layer.
type RenderContext struct {
	// YUnit is the resolved unit of the y axis.
	YUnit units.Unit
	// Color is the resolved color of the layer. Empty means DefaultColor.
	Color string
	// AbsoluteTime is true when the x axis shows absolute instants. Layers
	// positioned at literal times can only be drawn on such axes.
	AbsoluteTime bool
	// TimeFormat is the d3 time format used for times in tooltips.
	TimeFormat string
}

func (c RenderContext) color() string {
	if c.Color == "" {
		return DefaultColor
	}
	return c.Color
}

// VisualSpec returns the Vega marks drawing the layer.
func (l *Layer) VisualSpec(ctx RenderContext) ([]vega.Mark, error) {
	if err := l.CheckYUnit(ctx.YUnit); err != nil {
		return nil, err
	}
	if !l.kind.DataBound() && l.kind != HorizontalLine && l.kind != HorizontalRange && !ctx.AbsoluteTime {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s layers need an absolute time axis", l.kind)
	}

	a := l.attrs
	color := ctx.color()
	edge := a.String("edge_color")
	if edge == "" {
		edge = DefaultColor
	}

	switch l.kind {
	case Markers:
		x := vega.Field(vega.XScale, l.TimeColumn())
		column := a.String("column")
		marks := []vega.Mark{l.mark("symbol", vega.Encode{
			Enter: vega.Props{
				"x":     x,
				"y":     vega.Field(vega.YScale, column),
				"shape": vega.Lit(a.String("shape")),
			},
			Update: vega.Props{
				"shape":         vega.Lit(a.String("shape")),
				"size":          vega.Lit(a.Float("size")),
				"fill":          vega.Lit(color),
				"fillOpacity":   vega.Lit(a.Float("opacity")),
				"stroke":        vega.Lit(edge),
				"strokeOpacity": vega.Lit(a.Float("edge_opacity")),
				"strokeWidth":   vega.Lit(a.Float("edge_width")),
			},
			Hover: l.hover(ctx),
		})}
		if errCol := a.String("error"); errCol != "" {
			m := l.mark("rect", vega.Encode{
				Enter: vega.Props{
					"x":  x,
					"y":  vega.Signal(vega.YScale, fmt.Sprintf("datum[%s] - datum[%s]", quote(column), quote(errCol))),
					"y2": vega.Signal(vega.YScale, fmt.Sprintf("datum[%s] + datum[%s]", quote(column), quote(errCol))),
				},
				Update: vega.Props{
					"width":       vega.Lit(1),
					"fill":        vega.Lit(color),
					"fillOpacity": vega.Lit(a.Float("opacity")),
				},
			})
			m.Name = l.id + "_error"
			marks = append(marks, m)
		}
		return marks, nil

	case Line:
		return []vega.Mark{l.mark("line", vega.Encode{
			Enter: vega.Props{
				"x":             vega.Field(vega.XScale, l.TimeColumn()),
				"y":             vega.Field(vega.YScale, a.String("column")),
				"stroke":        vega.Lit(color),
				"strokeOpacity": vega.Lit(a.Float("opacity")),
				"strokeWidth":   vega.Lit(a.Float("width")),
			},
			Hover: l.hover(ctx),
		})}, nil

	case Range:
		return []vega.Mark{l.mark("area", vega.Encode{
			Enter: fill(vega.Props{
				"x":  vega.Field(vega.XScale, l.TimeColumn()),
				"y":  vega.Field(vega.YScale, a.String("column_lower")),
				"y2": vega.Field(vega.YScale, a.String("column_upper")),
			}, a.Float("opacity"), color, edge, a.Float("edge_opacity"), a.Float("edge_width")),
			Hover: l.hover(ctx),
		})}, nil

	case VerticalLine:
		return []vega.Mark{l.mark("rule", vega.Encode{Enter: vega.Props{
			"x":             vega.Signal(vega.XScale, vega.TimeToVega(a.Time("time"))),
			"y":             vega.Lit(0),
			"y2":            vega.GroupField("height"),
			"strokeWidth":   vega.Lit(a.Float("width")),
			"stroke":        vega.Lit(color),
			"strokeOpacity": vega.Lit(a.Float("opacity")),
		}})}, nil

	case VerticalRange:
		return []vega.Mark{l.mark("rect", vega.Encode{Enter: fill(vega.Props{
			"x":  vega.Signal(vega.XScale, vega.TimeToVega(a.Time("time_lower"))),
			"x2": vega.Signal(vega.XScale, vega.TimeToVega(a.Time("time_upper"))),
			"y":  vega.Lit(0),
			"y2": vega.GroupField("height"),
		}, a.Float("opacity"), color, edge, a.Float("edge_opacity"), a.Float("edge_width"))})}, nil

	case HorizontalLine:
		ys, err := l.YValues(ctx.YUnit)
		if err != nil {
			return nil, err
		}
		return []vega.Mark{l.mark("rule", vega.Encode{Enter: vega.Props{
			"x":             vega.Lit(0),
			"x2":            vega.GroupField("width"),
			"y":             vega.Scaled(vega.YScale, ys[0]),
			"strokeWidth":   vega.Lit(a.Float("width")),
			"stroke":        vega.Lit(color),
			"strokeOpacity": vega.Lit(a.Float("opacity")),
		}})}, nil

	case HorizontalRange:
		ys, err := l.YValues(ctx.YUnit)
		if err != nil {
			return nil, err
		}
		return []vega.Mark{l.mark("rect", vega.Encode{Enter: fill(vega.Props{
			"x":  vega.Lit(0),
			"x2": vega.GroupField("width"),
			"y":  vega.Scaled(vega.YScale, ys[0]),
			"y2": vega.Scaled(vega.YScale, ys[1]),
		}, a.Float("opacity"), color, edge, a.Float("edge_opacity"), a.Float("edge_width"))})}, nil

	case Text:
		ys, err := l.YValues(ctx.YUnit)
		if err != nil {
			return nil, err
		}
		return []vega.Mark{l.mark("text", vega.Encode{Enter: vega.Props{
			"x":           vega.Signal(vega.XScale, vega.TimeToVega(a.Time("time"))),
			"y":           vega.Scaled(vega.YScale, ys[0]),
			"text":        vega.Lit(a.String("text")),
			"fill":        vega.Lit(color),
			"fillOpacity": vega.Lit(a.Float("opacity")),
			"fontWeight":  vega.Lit(a.String("weight")),
			"baseline":    vega.Lit(a.String("baseline")),
			"align":       vega.Lit(a.String("align")),
			"angle":       vega.Lit(a.Float("angle")),
		}})}, nil
	}
	return nil, errors.New(errors.ErrCodeInternal, "unknown layer kind %v", l.kind)
}

func (l *Layer) mark(typ string, enc vega.Encode) vega.Mark {
	m := vega.Mark{
		Type:        typ,
		Name:        l.id,
		Description: l.Label(),
		Clip:        true,
		Encode:      enc,
	}
	if l.data != nil {
		m.From = &vega.From{Data: l.data.ID()}
	}
	return m
}

func fill(p vega.Props, opacity float64, color, edge string, edgeOpacity, edgeWidth float64) vega.Props {
	p["fill"] = vega.Lit(color)
	p["fillOpacity"] = vega.Lit(opacity)
	p["stroke"] = vega.Lit(edge)
	p["strokeOpacity"] = vega.Lit(edgeOpacity)
	p["strokeWidth"] = vega.Lit(edgeWidth)
	return p
}

// hover builds the tooltip signal, e.g.
// {'time': timeFormat(datum['time'], '%Y-%m-%d'), 'Flux': datum['flux']}.
func (l *Layer) hover(ctx RenderContext) vega.Props {
	cols := l.tooltipColumns()
	if len(cols) == 0 {
		return nil
	}
	tip := l.attrs.Tooltip("tooltip")
	entries := make([]string, len(cols))
	for i, c := range cols {
		value := "datum[" + quote(c) + "]"
		if c == l.data.TimeColumn() && ctx.AbsoluteTime {
			format := ctx.TimeFormat
			if format == "" {
				format = "%Y-%m-%dT%H:%M:%S"
			}
			value = "timeFormat(" + value + ", " + quote(format) + ")"
		}
		entries[i] = quote(tip.Label(c)) + ": " + value
	}
	return vega.Props{"tooltip": vega.Signal("", "{"+strings.Join(entries, ", ")+"}")}
}

// quote renders s as a single-quoted Vega expression string.
func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}
