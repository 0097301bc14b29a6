package attr

import (
	"time"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

// ColumnChecker reports whether a table has a column and whether it holds
// numbers. Column fields validate against it.
type ColumnChecker interface {
	HasColumn(name string) bool
	IsNumeric(name string) bool
}

// Set holds validated attribute values for one layer.
type Set struct {
	schema *Schema
	values map[string]any
	cols   ColumnChecker
}

// NewSet returns a Set populated with the schema defaults.
func NewSet(schema *Schema) *Set {
	s := &Set{schema: schema, values: make(map[string]any, len(schema.fields))}
	for _, f := range schema.fields {
		if f.Default == nil {
			continue
		}
		v, err := f.validate(f.Default, nil)
		if err != nil {
			continue
		}
		s.values[f.Name] = v
	}
	return s
}

// Schema returns the schema the set validates against.
func (s *Set) Schema() *Schema { return s.schema }

// Bind sets the table that column fields are checked against.
func (s *Set) Bind(cols ColumnChecker) {
	s.cols = cols
}

// Set validates v and assigns it to the named field.
func (s *Set) Set(name string, v any) error {
	f, ok := s.schema.Field(name)
	if !ok {
		return errors.Attribute(name, "unknown attribute")
	}
	norm, err := f.validate(v, s.cols)
	if err != nil {
		return err
	}
	s.values[name] = norm
	return nil
}

// Apply assigns several fields. Fields are assigned in schema order, not
// map order, so errors are deterministic. Nothing is assigned if any value
// is invalid.
func (s *Set) Apply(values map[string]any) error {
	for name := range values {
		if _, ok := s.schema.Field(name); !ok {
			return errors.Attribute(name, "unknown attribute")
		}
	}
	staged := make(map[string]any, len(values))
	for _, f := range s.schema.fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		norm, err := f.validate(v, s.cols)
		if err != nil {
			return err
		}
		staged[f.Name] = norm
	}
	for k, v := range staged {
		s.values[k] = v
	}
	return nil
}

// Get returns the raw value of a field, or nil if unset.
func (s *Set) Get(name string) any {
	return s.values[name]
}

// IsSet reports whether a field holds a non-empty value.
func (s *Set) IsSet(name string) bool {
	v, ok := s.values[name]
	if !ok {
		return false
	}
	if str, ok := v.(string); ok {
		return str != ""
	}
	return true
}

// String returns a String, Choice, Color or Column field. Unset fields
// return "".
func (s *Set) String(name string) string {
	v, _ := s.values[name].(string)
	return v
}

// Float returns a numeric field, or 0 if unset.
func (s *Set) Float(name string) float64 {
	v, _ := s.values[name].(float64)
	return v
}

// Time returns a Time field, or the zero time if unset.
func (s *Set) Time(name string) time.Time {
	v, _ := s.values[name].(time.Time)
	return v
}

// Quantity returns a Quantity field, or a dimensionless zero if unset.
func (s *Set) Quantity(name string) units.Quantity {
	v, _ := s.values[name].(units.Quantity)
	return v
}

// Tooltip returns a Tooltip field.
func (s *Set) Tooltip(name string) TooltipSpec {
	v, _ := s.values[name].(TooltipSpec)
	return v
}
