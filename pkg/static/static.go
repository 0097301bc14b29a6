// Package static draws a non-interactive SVG rendition of a figure.
//
// The rendition is a fallback for places where the Vega document cannot be
// loaded, such as papers and plain image viewers. It draws the figure's
// visible layers with go-gg using the same y unit and colors as the
// interactive export. Tooltips, marker shapes and error bars are not drawn,
// and log axes are drawn linear.
//
// On absolute time axes x values are days since the earliest instant
// drawn; relative and phase axes plot the numeric x column as exported.
package static

import (
	"io"
	"math"
	"time"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/aperiosoftware/aas-timeseries/pkg/colors"
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/export"
	"github.com/aperiosoftware/aas-timeseries/pkg/figure"
	"github.com/aperiosoftware/aas-timeseries/pkg/layer"
	"github.com/aperiosoftware/aas-timeseries/pkg/timeseries"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

const day = 24 * time.Hour

// WriteSVG draws fig to w. Zero width or height uses the figure size.
func WriteSVG(fig *figure.Figure, w io.Writer, width, height int) error {
	if width <= 0 || height <= 0 {
		width, height = fig.Size()
	}
	yunit := export.ResolveYUnit(fig)
	population := fig.Population()
	for _, l := range population {
		if err := l.CheckYUnit(yunit); err != nil {
			return err
		}
	}

	var visible []*layer.Layer
	for _, e := range fig.Entries() {
		if e.Visible {
			visible = append(visible, e.Layer)
		}
	}

	d := &drawing{
		absolute: fig.TimeMode() == figure.Absolute,
		yunit:    yunit,
		palette:  colors.Assign(population, false),
	}
	if err := d.collect(visible); err != nil {
		return err
	}
	if lim := fig.YLim(); lim != nil {
		lo, hi, err := lim.In(yunit)
		if err != nil {
			return err
		}
		d.ylo, d.yhi = lo, hi
	}

	p := gg.NewPlot(new(table.Builder).Done())
	if lim := fig.YLim(); lim != nil {
		p.SetScale("y", gg.NewLinearScaler().SetMin(d.ylo).SetMax(d.yhi))
	}
	for _, s := range d.series {
		s.add(p, d)
	}

	if title := fig.Title(); title != "" {
		p.Add(gg.Title(title))
	}
	p.Add(gg.AxisLabel("x", d.xlabel(fig)), gg.AxisLabel("y", d.ylabel(fig)))
	if err := p.WriteSVG(w, width, height); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write svg")
	}
	return nil
}

// drawing holds the resolved geometry of every visible layer.
type drawing struct {
	absolute bool
	yunit    units.Unit
	palette  map[*layer.Layer]string
	epoch    time.Time
	series   []*series

	// Extents of the data, used to span literal lines and ranges.
	xlo, xhi float64
	ylo, yhi float64
}

// series is one layer converted to plot columns. Instants are kept until
// the epoch is known.
type series struct {
	layer  *layer.Layer
	times  []time.Time
	xs     []float64
	ys     []float64
	lower  []float64
	upper  []float64
	labels []string
}

func (d *drawing) collect(layers []*layer.Layer) error {
	var xs, ys []float64
	for _, l := range layers {
		s, err := d.convert(l)
		if err != nil {
			return err
		}
		d.series = append(d.series, s)
		for _, t := range s.times {
			if d.epoch.IsZero() || t.Before(d.epoch) {
				d.epoch = t
			}
		}
		if l.Kind().DataBound() {
			ys = append(ys, s.ys...)
			ys = append(ys, s.lower...)
			ys = append(ys, s.upper...)
		}
	}
	for _, s := range d.series {
		if s.times != nil {
			s.xs = make([]float64, len(s.times))
			for i, t := range s.times {
				s.xs[i] = float64(t.Sub(d.epoch)) / float64(day)
			}
		}
		if s.layer.Kind().DataBound() {
			xs = append(xs, s.xs...)
		}
	}
	d.xlo, d.xhi = bounds(xs, 0, 1)
	d.ylo, d.yhi = bounds(ys, 0, 1)
	return nil
}

func (d *drawing) convert(l *layer.Layer) (*series, error) {
	s := &series{layer: l}
	a := l.Attrs()
	switch l.Kind() {
	case layer.Markers, layer.Line, layer.Range:
		if err := d.xValues(l, s); err != nil {
			return nil, err
		}
		var err error
		if l.Kind() == layer.Range {
			if s.lower, err = l.Data().Floats(a.String("column_lower"), d.yunit); err != nil {
				return nil, err
			}
			s.upper, err = l.Data().Floats(a.String("column_upper"), d.yunit)
		} else {
			s.ys, err = l.Data().Floats(a.String("column"), d.yunit)
		}
		return s, err

	case layer.VerticalLine:
		s.times = []time.Time{a.Time("time")}
	case layer.VerticalRange:
		s.times = []time.Time{a.Time("time_lower"), a.Time("time_upper")}
	case layer.Text:
		s.times = []time.Time{a.Time("time")}
		s.labels = []string{a.String("text")}
	}
	if s.times != nil && !d.absolute {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s layers need an absolute time axis", l.Kind())
	}
	ys, err := l.YValues(d.yunit)
	if err != nil {
		return nil, err
	}
	s.ys = ys
	return s, nil
}

func (d *drawing) xValues(l *layer.Layer, s *series) error {
	col, ok := l.Data().TimeSeries().Column(l.TimeColumn())
	if !ok {
		return errors.New(errors.ErrCodeColumnNotFound, "%s is not a valid column name", l.TimeColumn())
	}
	if d.absolute {
		if col.Kind != timeseries.KindTime {
			return errors.New(errors.ErrCodeInvalidInput,
				"column '%s' holds %s values and cannot be drawn on an absolute time axis", col.Name, col.Kind)
		}
		s.times = col.Times
		return nil
	}
	target := units.Dimensionless
	if col.Unit.Convertible(export.Seconds) {
		target = export.Seconds
	}
	xs, err := l.Data().Floats(col.Name, target)
	s.xs = xs
	return err
}

// add draws the series onto p.
func (s *series) add(p *gg.Plot, d *drawing) {
	hex := d.palette[s.layer]
	if hex == "" {
		hex = colors.Black
	}
	// An invalid hex string yields black.
	c, _ := colorful.Hex(hex)

	defer p.Save().Restore()
	b := new(table.Builder)
	switch s.layer.Kind() {
	case layer.Markers:
		p.SetData(b.Add("x", s.xs).Add("y", s.ys).Done())
		p.Add(gg.LayerPoints{X: "x", Y: "y", Color: p.Const(c)})
	case layer.Line:
		p.SetData(b.Add("x", s.xs).Add("y", s.ys).Done())
		p.Add(gg.LayerLines{X: "x", Y: "y", Color: p.Const(c)})
	case layer.Range:
		p.SetData(b.Add("x", s.xs).Add("lower", s.lower).Add("upper", s.upper).Done())
		p.Add(gg.LayerArea{X: "x", Lower: "lower", Upper: "upper", Fill: p.Const(c)})
	case layer.VerticalLine:
		x := s.xs[0]
		p.SetData(b.Add("x", []float64{x, x}).Add("y", []float64{d.ylo, d.yhi}).Done())
		p.Add(gg.LayerPaths{X: "x", Y: "y", Color: p.Const(c)})
	case layer.VerticalRange:
		p.SetData(b.Add("x", s.xs).
			Add("lower", []float64{d.ylo, d.ylo}).
			Add("upper", []float64{d.yhi, d.yhi}).Done())
		p.Add(gg.LayerArea{X: "x", Lower: "lower", Upper: "upper", Fill: p.Const(c)})
	case layer.HorizontalLine:
		y := s.ys[0]
		p.SetData(b.Add("x", []float64{d.xlo, d.xhi}).Add("y", []float64{y, y}).Done())
		p.Add(gg.LayerPaths{X: "x", Y: "y", Color: p.Const(c)})
	case layer.HorizontalRange:
		p.SetData(b.Add("x", []float64{d.xlo, d.xhi}).
			Add("lower", []float64{s.ys[0], s.ys[0]}).
			Add("upper", []float64{s.ys[1], s.ys[1]}).Done())
		p.Add(gg.LayerArea{X: "x", Lower: "lower", Upper: "upper", Fill: p.Const(c)})
	case layer.Text:
		p.SetData(b.Add("x", s.xs).Add("y", s.ys).Add("label", s.labels).Done())
		p.Add(gg.LayerTags{X: "x", Y: "y", Label: "label"})
	}
}

func (d *drawing) xlabel(fig *figure.Figure) string {
	if label := fig.XLabel(); label != "" {
		return label
	}
	switch {
	case d.absolute && !d.epoch.IsZero():
		return "Days since " + timeseries.FormatTime(d.epoch)
	case fig.TimeMode() == figure.Relative:
		return "Relative Time (s)"
	case fig.TimeMode() == figure.Phase:
		return "Phase"
	}
	return "Time"
}

func (d *drawing) ylabel(fig *figure.Figure) string {
	if label := fig.YLabel(); label != "" {
		return label
	}
	return d.yunit.String()
}

// bounds returns the finite extent of xs, or the fallback range when xs
// holds no finite value.
func bounds(xs []float64, lo, hi float64) (float64, float64) {
	var finite []float64
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			finite = append(finite, x)
		}
	}
	if len(finite) == 0 {
		return lo, hi
	}
	return stats.Bounds(finite)
}
