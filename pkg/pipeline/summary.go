package pipeline

import (
	"github.com/aperiosoftware/aas-timeseries/pkg/export"
	"github.com/aperiosoftware/aas-timeseries/pkg/figure"
)

// Summary describes a loaded figure for display.
type Summary struct {
	Title  string         `json:"title,omitempty"`
	YUnit  string         `json:"y_unit"`
	Layers []LayerSummary `json:"layers"`
	Views  []ViewSummary  `json:"views,omitempty"`
}

// LayerSummary describes one layer.
type LayerSummary struct {
	Kind    string `json:"kind"`
	Label   string `json:"label,omitempty"`
	Data    string `json:"data,omitempty"`
	Visible bool   `json:"visible"`
}

// ViewSummary describes one view.
type ViewSummary struct {
	Title  string         `json:"title"`
	Layers []LayerSummary `json:"layers"`
}

// Summarize lists the layers and views of fig.
func Summarize(fig *figure.Figure) Summary {
	s := Summary{
		Title:  fig.Title(),
		YUnit:  export.ResolveYUnit(fig).String(),
		Layers: summarizeEntries(fig.Entries()),
	}
	if s.YUnit == "" {
		s.YUnit = "dimensionless"
	}
	for _, v := range fig.Views() {
		s.Views = append(s.Views, ViewSummary{Title: v.Title(), Layers: summarizeEntries(v.Entries())})
	}
	return s
}

func summarizeEntries(entries []figure.Entry) []LayerSummary {
	out := make([]LayerSummary, 0, len(entries))
	for _, e := range entries {
		ls := LayerSummary{Kind: e.Layer.Kind().String(), Label: e.Layer.Label(), Visible: e.Visible}
		if d := e.Layer.Data(); d != nil {
			ls.Data = d.ID()
		}
		out = append(out, ls)
	}
	return out
}
