package figure

import (
	"math"
	"time"

	"github.com/aperiosoftware/aas-timeseries/pkg/attr"
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/timeseries"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

// TimeMode selects how the x axis is interpreted.
type TimeMode string

const (
	// Absolute plots calendar instants.
	Absolute TimeMode = "absolute"
	// Relative plots elapsed time, in seconds, read from a numeric column.
	Relative TimeMode = "relative"
	// Phase plots a dimensionless phase read from a numeric column.
	Phase TimeMode = "phase"
)

// XLim holds x axis limits. Absolute limits are instants, otherwise they
// are plain numbers for relative or phase axes.
type XLim struct {
	Absolute bool
	Start    time.Time
	End      time.Time
	Lower    float64
	Upper    float64
}

// YLim holds y axis limits. Plain limits are in the figure's y unit.
type YLim struct {
	Plain bool
	Lower units.Quantity
	Upper units.Quantity
}

// In returns the limits expressed in yunit.
func (y YLim) In(yunit units.Unit) (float64, float64, error) {
	if y.Plain {
		return y.Lower.Value, y.Upper.Value, nil
	}
	lo, err := y.Lower.To(yunit)
	if err == nil {
		var hi float64
		hi, err = y.Upper.To(yunit)
		if err == nil {
			return lo, hi, nil
		}
	}
	if y.Lower.Unit.IsDimensionless() {
		return 0, 0, errors.Wrap(errors.ErrCodeUnitsMismatch, err,
			"Limits for y axis are dimensionless but expected units of %s", yunit)
	}
	return 0, 0, errors.Wrap(errors.ErrCodeUnitsMismatch, err,
		"Limits for y axis are in units of %s but expected units of %s", y.Lower.Unit, yunit)
}

func parseXLim(lim []any) (*XLim, error) {
	if len(lim) != 2 {
		return nil, errors.New(errors.ErrCodeInvalidLimits, "xlim should be a tuple of two elements")
	}
	t0, ok0 := asTime(lim[0])
	t1, ok1 := asTime(lim[1])
	if ok0 && ok1 {
		return &XLim{Absolute: true, Start: t0, End: t1}, nil
	}
	x0, ok0 := asNumber(lim[0])
	x1, ok1 := asNumber(lim[1])
	if ok0 && ok1 {
		return &XLim{Lower: x0, Upper: x1}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidLimits,
		"xlim should be a tuple of two Time instances or two numbers")
}

func parseYLim(lim []any) (*YLim, error) {
	if len(lim) != 2 {
		return nil, errors.New(errors.ErrCodeInvalidLimits, "ylim should be a tuple of two elements")
	}
	q0, isQ0 := lim[0].(units.Quantity)
	q1, isQ1 := lim[1].(units.Quantity)
	if isQ0 && isQ1 {
		if !finite(q0.Value) || !finite(q1.Value) {
			return nil, errors.New(errors.ErrCodeInvalidLimits, "ylim values should be finite")
		}
		if !q0.Unit.Convertible(q1.Unit) {
			return nil, errors.New(errors.ErrCodeInvalidLimits,
				"ylim should be a tuple of two quantities with compatible units, got '%s' and '%s'",
				q0.Unit, q1.Unit)
		}
		return &YLim{Lower: q0, Upper: q1}, nil
	}
	x0, ok0 := asNumber(lim[0])
	x1, ok1 := asNumber(lim[1])
	if ok0 && ok1 {
		return &YLim{Plain: true, Lower: units.Quantity{Value: x0}, Upper: units.Quantity{Value: x1}}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidLimits,
		"ylim should be a tuple of two numbers or two quantities")
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case string:
		parsed, err := timeseries.ParseTime(t)
		return parsed, err == nil
	}
	return time.Time{}, false
}

// asNumber accepts any finite Go number.
func asNumber(v any) (float64, bool) {
	x, ok := attr.AsFloat(v)
	return x, ok && finite(x)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
