package export

import (
	"math"
	"slices"
	"time"

	"github.com/aclements/go-moremath/stats"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/figure"
	"github.com/aperiosoftware/aas-timeseries/pkg/layer"
	"github.com/aperiosoftware/aas-timeseries/pkg/timeseries"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
	"github.com/aperiosoftware/aas-timeseries/pkg/vega"
)

// axisState is the axis configuration shared by figures and views.
type axisState interface {
	XLim() *figure.XLim
	YLim() *figure.YLim
	YLog() bool
	XLabel() string
	YLabel() string
	TimeMode() figure.TimeMode
	TimeFormat() string
}

// yTiers lists the layer kinds consulted for the automatic y domain, most
// preferred first. The first tier with any finite value decides.
var yTiers = [][]layer.Kind{
	{layer.Markers},
	{layer.Line, layer.Range},
	{layer.HorizontalLine, layer.HorizontalRange, layer.Text},
}

func xScale(axes axisState, layers []*layer.Layer) (vega.Scale, error) {
	mode := axes.TimeMode()
	absolute := mode == figure.Absolute
	s := vega.Scale{Name: vega.XScale, Type: "time", Range: "width"}
	if !absolute {
		s.Type = "linear"
		s.Zero = ptr(false)
	}

	if lim := axes.XLim(); lim != nil {
		switch {
		case absolute && !lim.Absolute:
			return s, errors.New(errors.ErrCodeInvalidLimits,
				"xlim should be a tuple of two Time instances for absolute time axes")
		case !absolute && lim.Absolute:
			return s, errors.New(errors.ErrCodeInvalidLimits,
				"xlim should be a tuple of two numbers for %s time axes", mode)
		case absolute:
			s.Domain = timeDomain(lim.Start, lim.End)
		default:
			s.Domain = []float64{lim.Lower, lim.Upper}
		}
		return s, nil
	}

	xs, err := xExtent(mode, layers)
	if err != nil {
		return s, err
	}
	if len(xs) == 0 {
		return s, nil
	}
	lo, hi := stats.Bounds(xs)
	if absolute {
		s.Domain = timeDomain(time.UnixMilli(int64(lo)), time.UnixMilli(int64(hi)))
	} else {
		s.Domain = []float64{lo, hi}
	}
	return s, nil
}

// xExtent returns the finite x values of the layers. Absolute axes use
// milliseconds since the epoch. Literal times are only consulted when no
// data-bound layer contributes.
func xExtent(mode figure.TimeMode, layers []*layer.Layer) ([]float64, error) {
	var xs []float64
	for _, l := range layers {
		if !l.Kind().DataBound() {
			continue
		}
		vals, err := xValues(mode, l)
		if err != nil {
			return nil, err
		}
		xs = append(xs, vals...)
	}
	xs = finite(xs, false)
	if len(xs) > 0 || mode != figure.Absolute {
		return xs, nil
	}

	for _, l := range layers {
		a := l.Attrs()
		var ts []time.Time
		switch l.Kind() {
		case layer.VerticalLine, layer.Text:
			ts = []time.Time{a.Time("time")}
		case layer.VerticalRange:
			ts = []time.Time{a.Time("time_lower"), a.Time("time_upper")}
		}
		for _, t := range ts {
			xs = append(xs, float64(t.UnixMilli()))
		}
	}
	return xs, nil
}

func xValues(mode figure.TimeMode, l *layer.Layer) ([]float64, error) {
	d := l.Data()
	name := l.TimeColumn()
	col, ok := d.TimeSeries().Column(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeColumnNotFound, "%s is not a valid column name", name)
	}
	switch mode {
	case figure.Absolute:
		if col.Kind != timeseries.KindTime {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"column '%s' holds %s values and cannot be drawn on an absolute time axis", name, col.Kind)
		}
		out := make([]float64, len(col.Times))
		for i, t := range col.Times {
			out[i] = float64(t.UnixMilli())
		}
		return out, nil
	case figure.Relative:
		if col.Kind != timeseries.KindFloat {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"column '%s' holds %s values and cannot be drawn on a relative time axis", name, col.Kind)
		}
		return d.Floats(name, Seconds)
	default:
		if col.Kind != timeseries.KindFloat {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"column '%s' holds %s values and cannot be drawn on a phase axis", name, col.Kind)
		}
		return d.Floats(name, units.Dimensionless)
	}
}

func yScale(axes axisState, layers []*layer.Layer, yunit units.Unit) (vega.Scale, error) {
	s := vega.Scale{Name: vega.YScale, Type: "linear", Range: "height", Zero: ptr(false)}
	if axes.YLog() {
		s.Type = "log"
		s.Zero = nil
	}

	if lim := axes.YLim(); lim != nil {
		lo, hi, err := lim.In(yunit)
		if err != nil {
			return s, err
		}
		s.Domain = []float64{lo, hi}
		return s, nil
	}

	for _, tier := range yTiers {
		var ys []float64
		for _, l := range layers {
			if !slices.Contains(tier, l.Kind()) {
				continue
			}
			vals, err := yValues(l, yunit)
			if err != nil {
				return s, err
			}
			ys = append(ys, vals...)
		}
		if ys = finite(ys, axes.YLog()); len(ys) > 0 {
			lo, hi := stats.Bounds(ys)
			s.Domain = []float64{lo, hi}
			return s, nil
		}
	}
	return s, nil
}

// yValues returns every y value a layer draws, in yunit. Markers with
// error bars contribute the ends of the bars.
func yValues(l *layer.Layer, yunit units.Unit) ([]float64, error) {
	a := l.Attrs()
	d := l.Data()
	switch l.Kind() {
	case layer.Markers:
		ys, err := d.Floats(a.String("column"), yunit)
		if err != nil {
			return nil, err
		}
		errCol := a.String("error")
		if errCol == "" {
			return ys, nil
		}
		es, err := d.Floats(errCol, yunit)
		if err != nil {
			return nil, err
		}
		out := make([]float64, 0, 2*len(ys))
		for i, y := range ys {
			out = append(out, y-es[i], y+es[i])
		}
		return out, nil
	case layer.Line:
		return d.Floats(a.String("column"), yunit)
	case layer.Range:
		lo, err := d.Floats(a.String("column_lower"), yunit)
		if err != nil {
			return nil, err
		}
		hi, err := d.Floats(a.String("column_upper"), yunit)
		if err != nil {
			return nil, err
		}
		return append(lo, hi...), nil
	}
	return l.YValues(yunit)
}

// finite drops NaN and infinite values, and non-positive ones when
// positive is set.
func finite(xs []float64, positive bool) []float64 {
	var out []float64
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) || (positive && x <= 0) {
			continue
		}
		out = append(out, x)
	}
	return out
}

func timeDomain(start, end time.Time) vega.SignalDomain {
	return vega.SignalDomain{Signal: "[" + vega.TimeToVega(start) + ", " + vega.TimeToVega(end) + "]"}
}

func ptr[T any](v T) *T { return &v }
