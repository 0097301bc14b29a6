package attr

import (
	"fmt"
	"maps"
	"slices"
)

// TooltipSpec describes which columns a hover tooltip shows.
type TooltipSpec struct {
	// Enabled is false when no tooltip is shown.
	Enabled bool
	// Columns lists the columns to show, in order. Empty with Enabled set
	// means the layer's default columns.
	Columns []string
	// Labels maps a column to the label shown for it. Columns without a
	// label are shown under their own name.
	Labels map[string]string
}

// Label returns the label for column.
func (t TooltipSpec) Label(column string) string {
	if l, ok := t.Labels[column]; ok {
		return l
	}
	return column
}

// asTooltip normalizes the accepted tooltip forms. Maps have no order, so
// their columns are listed alphabetically; [][2]string keeps the caller's
// order.
func asTooltip(v any) (TooltipSpec, error) {
	switch t := v.(type) {
	case TooltipSpec:
		t.Columns = slices.Clone(t.Columns)
		t.Labels = maps.Clone(t.Labels)
		return t, nil
	case bool:
		return TooltipSpec{Enabled: t}, nil
	case []string:
		return TooltipSpec{Enabled: true, Columns: slices.Clone(t)}, nil
	case []any:
		cols := make([]string, len(t))
		for i, c := range t {
			s, ok := c.(string)
			if !ok {
				return TooltipSpec{}, fmt.Errorf("tooltip columns should be strings")
			}
			cols[i] = s
		}
		return TooltipSpec{Enabled: true, Columns: cols}, nil
	case [][2]string:
		spec := TooltipSpec{Enabled: true, Labels: make(map[string]string, len(t))}
		for _, pair := range t {
			spec.Columns = append(spec.Columns, pair[0])
			spec.Labels[pair[0]] = pair[1]
		}
		return spec, nil
	case map[string]string:
		return TooltipSpec{
			Enabled: true,
			Columns: slices.Sorted(maps.Keys(t)),
			Labels:  maps.Clone(t),
		}, nil
	case map[string]any:
		labels := make(map[string]string, len(t))
		for k, l := range t {
			s, ok := l.(string)
			if !ok {
				return TooltipSpec{}, fmt.Errorf("tooltip labels should be strings")
			}
			labels[k] = s
		}
		return TooltipSpec{Enabled: true, Columns: slices.Sorted(maps.Keys(labels)), Labels: labels}, nil
	}
	return TooltipSpec{}, fmt.Errorf("value should be a boolean, tuple, list, or dictionary")
}
