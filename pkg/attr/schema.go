// Package attr implements typed, self-validating layer attributes.
//
// A Schema declares the fields a layer kind accepts: a semantic Kind, a
// default value and help text. A Set holds the current values for one
// layer. Every assignment goes through the field's validator, so invalid
// values are rejected at the point of assignment with an error naming the
// attribute and the violated constraint:
//
//	schema := attr.NewSchema(
//	    attr.Field{Name: "opacity", Kind: attr.Opacity, Default: 1.0, Help: "The opacity."},
//	)
//	set := attr.NewSet(schema)
//	err := set.Set("opacity", 2) // "opacity: opacity must be a value in the range [0:1]"
//
// Column fields and tooltip column lists validate against the Set's bound
// ColumnChecker, which must be bound before any column is assigned.
package attr

import (
	"fmt"
	"strings"
)

// Kind is the semantic type of a field.
type Kind int

const (
	// String accepts any string.
	String Kind = iota
	// Float accepts any finite Go integer or floating-point number.
	Float
	// NonNegative is a Float that must be >= 0.
	NonNegative
	// Opacity is a Float in [0, 1].
	Opacity
	// Color accepts a color name, a hex string, a color.Color or an RGB(A)
	// tuple of floats in [0, 1], and stores lowercase "#rrggbb". Alpha is
	// dropped; transparency is the opacity field's job. nil unsets the
	// color.
	Color
	// Time accepts a time.Time or an ISO-8601 string.
	Time
	// Quantity accepts a units.Quantity, a plain number (dimensionless) or
	// a "<value> <unit>" string.
	Quantity
	// Column names a column of the bound table. "" or nil unsets it.
	Column
	// NumericColumn is a Column whose values must be numbers.
	NumericColumn
	// Choice accepts one of the field's Choices.
	Choice
	// Tooltip accepts a bool, a list of column names, a map of column
	// names to labels or an ordered list of [column, label] pairs. Listed
	// columns must exist in the bound table.
	Tooltip
)

var kindNames = [...]string{
	String:        "string",
	Float:         "float",
	NonNegative:   "non-negative float",
	Opacity:       "opacity",
	Color:         "color",
	Time:          "time",
	Quantity:      "quantity",
	Column:        "column",
	NumericColumn: "numeric column",
	Choice:        "choice",
	Tooltip:       "tooltip",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field declares one attribute.
type Field struct {
	Name    string
	Kind    Kind
	Default any
	Help    string
	Choices []string
}

// Schema is an ordered set of fields.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema. It panics on duplicate names or on a default
// that fails its own validator, since both are programming errors.
func NewSchema(fields ...Field) *Schema {
	s := &Schema{fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic("attr: duplicate field " + f.Name)
		}
		s.index[f.Name] = i
		if f.Kind == Column || f.Kind == NumericColumn || f.Default == nil {
			continue
		}
		if _, err := f.validate(f.Default, nil); err != nil {
			panic(fmt.Sprintf("attr: invalid default for %s: %v", f.Name, err))
		}
	}
	return s
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	return s.fields
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Doc renders the help text of every field, one paragraph per field.
// Choice fields list their choices with the default marked.
func (s *Schema) Doc() string {
	var b strings.Builder
	for i, f := range s.fields {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s : %s\n", f.Name, f.Kind)
		if f.Help != "" {
			b.WriteString("    " + f.Help + "\n")
		}
		if f.Kind == Choice {
			opts := make([]string, len(f.Choices))
			for j, c := range f.Choices {
				opts[j] = "'" + c + "'"
				if c == f.Default {
					opts[j] += " (default)"
				}
			}
			b.WriteString("    One of " + strings.Join(opts, ", ") + ".\n")
		} else if f.Default != nil {
			fmt.Fprintf(&b, "    Default: %v\n", f.Default)
		}
	}
	return b.String()
}
