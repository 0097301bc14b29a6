package attr

import (
	"math"
	"slices"
	"strings"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/timeseries"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

// Number is any Go numeric type accepted by float-valued fields.
type Number interface {
	constraints.Float | constraints.Integer
}

func toFloat[T Number](x T) float64 {
	return float64(x)
}

// AsFloat converts any Go numeric value to float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return toFloat(x), true
	case int:
		return toFloat(x), true
	case int8:
		return toFloat(x), true
	case int16:
		return toFloat(x), true
	case int32:
		return toFloat(x), true
	case int64:
		return toFloat(x), true
	case uint:
		return toFloat(x), true
	case uint8:
		return toFloat(x), true
	case uint16:
		return toFloat(x), true
	case uint32:
		return toFloat(x), true
	case uint64:
		return toFloat(x), true
	}
	return 0, false
}

// validate checks v against the field and returns the normalized value.
// cols is only consulted for Column fields.
func (f Field) validate(v any, cols ColumnChecker) (any, error) {
	switch f.Kind {
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, errors.Attribute(f.Name, "value should be a string")
		}
		return s, nil

	case Float, NonNegative, Opacity:
		x, ok := AsFloat(v)
		if !ok {
			return nil, errors.Attribute(f.Name, "value should be a number")
		}
		if !finite(x) {
			return nil, errors.Attribute(f.Name, "value should be a finite number")
		}
		if f.Kind == NonNegative && x < 0 {
			return nil, errors.Attribute(f.Name, "value should be positive")
		}
		if f.Kind == Opacity && (x < 0 || x > 1) {
			return nil, errors.Attribute(f.Name, "opacity must be a value in the range [0:1]")
		}
		return x, nil

	case Color:
		if v == nil {
			return "", nil
		}
		hex, err := NormalizeColor(v)
		if err != nil {
			return nil, errors.Attribute(f.Name, "%s", err.Error())
		}
		return hex, nil

	case Time:
		switch t := v.(type) {
		case time.Time:
			return t.UTC(), nil
		case string:
			parsed, err := timeseries.ParseTime(t)
			if err != nil {
				return nil, errors.Attribute(f.Name, "value should be a Time instance")
			}
			return parsed, nil
		}
		return nil, errors.Attribute(f.Name, "value should be a Time instance")

	case Quantity:
		q, err := asQuantity(v)
		if err != nil {
			return nil, errors.Attribute(f.Name, "%s", errors.UserMessage(err))
		}
		return q, nil

	case Column, NumericColumn:
		if v == nil {
			return "", nil
		}
		name, ok := v.(string)
		if !ok {
			return nil, errors.Attribute(f.Name, "value should be a column name")
		}
		if name == "" {
			return "", nil
		}
		if cols == nil {
			return nil, errors.Attribute(f.Name, "data should be set before column")
		}
		if !cols.HasColumn(name) {
			return nil, errors.Attribute(f.Name, "%s is not a valid column name", name)
		}
		if f.Kind == NumericColumn && !cols.IsNumeric(name) {
			return nil, errors.Attribute(f.Name, "%s is not a numeric column", name)
		}
		return name, nil

	case Choice:
		s, ok := v.(string)
		if !ok || !slices.Contains(f.Choices, s) {
			quoted := make([]string, len(f.Choices))
			for i, c := range f.Choices {
				quoted[i] = "'" + c + "'"
			}
			return nil, errors.Attribute(f.Name, "value should be one of %s", strings.Join(quoted, ", "))
		}
		return s, nil

	case Tooltip:
		tip, err := asTooltip(v)
		if err != nil {
			return nil, errors.Attribute(f.Name, "%s", err.Error())
		}
		for _, c := range tip.Columns {
			if cols == nil {
				return nil, errors.Attribute(f.Name, "data should be set before column")
			}
			if !cols.HasColumn(c) {
				return nil, errors.Attribute(f.Name, "%s is not a valid column name", c)
			}
		}
		return tip, nil
	}
	return nil, errors.New(errors.ErrCodeInternal, "unknown attribute kind %v", f.Kind)
}

func asQuantity(v any) (units.Quantity, error) {
	switch q := v.(type) {
	case units.Quantity:
		if !finite(q.Value) {
			return units.Quantity{}, errors.New(errors.ErrCodeInvalidAttribute, "value should be a finite number")
		}
		return q, nil
	case string:
		qty, err := units.ParseQuantity(q)
		if errors.Is(err, errors.ErrCodeInvalidUnit) {
			return units.Quantity{}, err
		}
		if err == nil && finite(qty.Value) {
			return qty, nil
		}
	default:
		if x, ok := AsFloat(v); ok {
			if !finite(x) {
				return units.Quantity{}, errors.New(errors.ErrCodeInvalidAttribute, "value should be a finite number")
			}
			return units.Quantity{Value: x}, nil
		}
	}
	return units.Quantity{}, errors.New(errors.ErrCodeInvalidAttribute, "value should be a number or a quantity")
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
