// Package vega defines the subset of the Vega v4 visualization grammar
// written by the exporter: data sources, marks, scales and axes, plus the
// "_views" and "_extramarks" extensions used to describe alternate views of
// the same figure.
//
// The types marshal directly with encoding/json. Map-valued encodings
// marshal with sorted keys, so output is deterministic.
package vega

import (
	"fmt"
	"time"
)

// SchemaURL identifies the Vega version the documents target.
const SchemaURL = "https://vega.github.io/schema/vega/v4.json"

// Scale and axis names shared by every mark.
const (
	XScale = "xscale"
	YScale = "yscale"
)

// Spec is a complete Vega document.
type Spec struct {
	Schema     string    `json:"$schema"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Padding    int       `json:"padding"`
	Autosize   *Autosize `json:"autosize,omitempty"`
	Title      *Title    `json:"title,omitempty"`
	Data       []Data    `json:"data"`
	Marks      []Mark    `json:"marks"`
	Scales     []Scale   `json:"scales"`
	Axes       []Axis    `json:"axes"`
	Views      []View    `json:"_views,omitempty"`
	ExtraMarks []Mark    `json:"_extramarks,omitempty"`
}

// Autosize controls how the chart fits its container.
type Autosize struct {
	Type   string `json:"type"`
	Resize bool   `json:"resize"`
}

// Title is the chart title.
type Title struct {
	Text string `json:"text"`
}

// Data is a named data source, either inline CSV in Values or a URL.
type Data struct {
	Name   string  `json:"name"`
	URL    string  `json:"url,omitempty"`
	Values string  `json:"values,omitempty"`
	Format *Format `json:"format,omitempty"`
}

// Format describes how a data source is parsed. Parse maps column names to
// "date", "number", "boolean" or "string".
type Format struct {
	Type  string            `json:"type"`
	Parse map[string]string `json:"parse,omitempty"`
}

// Mark is one visual primitive: symbol, rect, line, area, rule or text.
type Mark struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Clip        bool   `json:"clip"`
	From        *From  `json:"from,omitempty"`
	Encode      Encode `json:"encode"`
}

// From binds a mark to a data source.
type From struct {
	Data string `json:"data"`
}

// Encode holds the property sets of a mark.
type Encode struct {
	Enter  Props `json:"enter,omitempty"`
	Update Props `json:"update,omitempty"`
	Hover  Props `json:"hover,omitempty"`
}

// Props maps visual channels (x, y, fill, ...) to values.
type Props map[string]Value

// Value is one channel encoding. Field may be a column name or a group
// reference such as {"group": "height"}. Value holds a literal; a literal
// 0 is kept, only a nil Value is omitted.
type Value struct {
	Scale  string `json:"scale,omitempty"`
	Field  any    `json:"field,omitempty"`
	Signal string `json:"signal,omitempty"`
	Value  any    `json:"value,omitempty"`
}

// Lit is a literal value encoding.
func Lit(v any) Value { return Value{Value: v} }

// Field encodes a column through a scale.
func Field(scale, column string) Value { return Value{Scale: scale, Field: column} }

// GroupField references a property of the enclosing group, e.g. "width".
func GroupField(name string) Value {
	return Value{Field: map[string]string{"group": name}}
}

// Signal encodes an expression, optionally through a scale.
func Signal(scale, expr string) Value { return Value{Scale: scale, Signal: expr} }

// Scaled encodes a literal through a scale.
func Scaled(scale string, v any) Value { return Value{Scale: scale, Value: v} }

// Scale maps data values to visual values.
type Scale struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Domain any    `json:"domain,omitempty"`
	Range  string `json:"range"`
	Zero   *bool  `json:"zero,omitempty"`
	Nice   *bool  `json:"nice,omitempty"`
}

// SignalDomain is a domain computed from an expression.
type SignalDomain struct {
	Signal string `json:"signal"`
}

// Axis draws a scale.
type Axis struct {
	Orient string `json:"orient"`
	Scale  string `json:"scale"`
	Title  string `json:"title,omitempty"`
	Format string `json:"format,omitempty"`
}

// View is an alternate presentation of the figure. Markers lists the marks
// it shows, by name, in drawing order.
type View struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Scales      []Scale    `json:"scales"`
	Axes        []Axis     `json:"axes"`
	Markers     []ViewMark `json:"markers"`
}

// ViewMark references a mark by name.
type ViewMark struct {
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
}

// TimeToVega formats t as a Vega datetime() expression in UTC. Months are
// zero-based in Vega. Milliseconds are included only when non-zero.
func TimeToVega(t time.Time) string {
	t = t.UTC()
	ms := t.Nanosecond() / int(time.Millisecond)
	if ms != 0 {
		return fmt.Sprintf("datetime(%d, %d, %d, %d, %d, %d, %d)",
			t.Year(), int(t.Month())-1, t.Day(), t.Hour(), t.Minute(), t.Second(), ms)
	}
	return fmt.Sprintf("datetime(%d, %d, %d, %d, %d, %d)",
		t.Year(), int(t.Month())-1, t.Day(), t.Hour(), t.Minute(), t.Second())
}
