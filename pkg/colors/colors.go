// Package colors assigns default colors to figure layers.
//
// Layers without an explicit color get one from a qualitative palette when
// the figure is serialized. Text is always black, and so is a markers,
// line, vertical line or horizontal line layer that is the only one of its
// kind, since a lone series needs no color to tell it apart. Everything
// else cycles through the palette in insertion order.
package colors

import (
	"github.com/aclements/go-gg/palette/brewer"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/aperiosoftware/aas-timeseries/pkg/layer"
)

// Black is the neutral default color.
const Black = "#000000"

// Palette is the cycle of automatic colors: the first four ColorBrewer
// "Paired" colors, as lowercase hex.
var Palette = func() []string {
	var hex []string
	for _, c := range brewer.Paired_5 {
		cf, _ := colorful.MakeColor(c)
		hex = append(hex, cf.Hex())
	}
	return hex[:4]
}()

// Assign returns the color of every layer. Explicit colors are kept unless
// override is set. The cycle position depends on the whole population, so
// layers must be passed in insertion order.
func Assign(layers []*layer.Layer, override bool) map[*layer.Layer]string {
	byKind := make(map[layer.Kind][]*layer.Layer)
	for _, l := range layers {
		byKind[l.Kind()] = append(byKind[l.Kind()], l)
	}

	out := make(map[*layer.Layer]string, len(layers))
	offset := 0
	for _, l := range layers {
		var auto string
		switch l.Kind() {
		case layer.Text:
			auto = Black
		case layer.Markers, layer.Line, layer.VerticalLine, layer.HorizontalLine:
			if len(byKind[l.Kind()]) == 1 {
				auto = Black
				break
			}
			fallthrough
		default:
			current := (offset + indexOf(byKind[l.Kind()], l)) % len(Palette)
			auto = Palette[current]
			offset = current + 1
		}

		if c := l.Color(); c != "" && !override {
			out[l] = c
		} else {
			out[l] = auto
		}
	}
	return out
}

func indexOf(ls []*layer.Layer, l *layer.Layer) int {
	for i, x := range ls {
		if x == l {
			return i
		}
	}
	return -1
}
