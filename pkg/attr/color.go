package attr

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// NormalizeColor converts a color name or code to lowercase "#rrggbb".
// Accepted forms are CSS/SVG color names, "#rgb" and "#rrggbb" hex strings,
// any color.Color, and RGB or RGBA tuples of floats in [0, 1] given as
// [3]float64, [4]float64 or a []float64 of length 3 or 4. Alpha is checked
// and then dropped.
func NormalizeColor(v any) (string, error) {
	switch c := v.(type) {
	case string:
		s := strings.ToLower(strings.TrimSpace(c))
		if named, ok := colornames.Map[s]; ok {
			return hexOf(named), nil
		}
		if strings.HasPrefix(s, "#") {
			parsed, err := colorful.Hex(expandHex(s))
			if err == nil {
				return parsed.Hex(), nil
			}
		}
		return "", fmt.Errorf("%q is not a valid color", c)
	case color.Color:
		return hexOf(c), nil
	case [3]float64:
		return rgbTuple(c[:])
	case [4]float64:
		return rgbTuple(c[:])
	case []float64:
		if len(c) == 3 || len(c) == 4 {
			return rgbTuple(c)
		}
	}
	return "", fmt.Errorf("color must be a string or a tuple of 3 or 4 floats")
}

func hexOf(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

func expandHex(s string) string {
	if len(s) != 4 {
		return s
	}
	return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
}

func rgbTuple(rgb []float64) (string, error) {
	for _, x := range rgb {
		if !(x >= 0 && x <= 1) {
			return "", fmt.Errorf("color components must be in the range [0:1]")
		}
	}
	return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}.Hex(), nil
}
