package layer

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/aperiosoftware/aas-timeseries/pkg/data"
	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/timeseries"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
	"github.com/aperiosoftware/aas-timeseries/pkg/vega"
)

var t0 = time.Date(2018, 6, 1, 12, 0, 0, 0, time.UTC)

func testData(t *testing.T) *data.Data {
	t.Helper()
	ts := timeseries.New("lc", "time", []time.Time{t0, t0.Add(time.Hour), t0.Add(2 * time.Hour)})
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(ts.AddFloat("flux", []float64{1, 2, 3}, units.MustParse("mJy")))
	must(ts.AddFloat("err", []float64{0.1, 0.1, 0.2}, units.MustParse("mJy")))
	must(ts.AddFloat("ratio", []float64{0.5, 0.6, 0.7}, units.Dimensionless))
	must(ts.AddFloat("phase", []float64{0, 0.5, 1}, units.Dimensionless))
	must(ts.AddString("band", []string{"g", "r", "i"}))
	return data.New(ts)
}

func absolute() RenderContext {
	return RenderContext{YUnit: units.MustParse("Jy"), AbsoluteTime: true}
}

func TestKindNames(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("bubbles"); ok {
		t.Error("ParseKind(bubbles) should fail")
	}
}

func TestConstructorErrors(t *testing.T) {
	d := testData(t)
	tests := []struct {
		name string
		fn   func() (*Layer, error)
		want string
	}{
		{"missing column", func() (*Layer, error) { return NewMarkers(d, "flux2", nil) }, "column: flux2 is not a valid column name"},
		{"empty column", func() (*Layer, error) { return NewLine(d, "", nil) }, "column: a column name is required"},
		{"bad error column", func() (*Layer, error) { return NewMarkers(d, "flux", Attrs{"error": "nope"}) }, "error: nope is not a valid column name"},
		{"bad shape", func() (*Layer, error) { return NewMarkers(d, "flux", Attrs{"shape": "star"}) }, "shape: value should be one of"},
		{"bad opacity", func() (*Layer, error) { return NewRange(d, "flux", "err", Attrs{"opacity": -0.1}) }, "opacity: opacity must be a value in the range [0:1]"},
		{"bad time", func() (*Layer, error) { return NewVerticalLine("soon", nil) }, "time: value should be a Time instance"},
		{"unknown attr", func() (*Layer, error) { return NewHorizontalLine(1, Attrs{"radius": 3}) }, "radius: unknown attribute"},
		{"string column", func() (*Layer, error) { return NewMarkers(d, "band", nil) }, "column: band is not a numeric column"},
		{"time as value", func() (*Layer, error) { return NewLine(d, "time", nil) }, "column: time is not a numeric column"},
		{"string error column", func() (*Layer, error) { return NewMarkers(d, "flux", Attrs{"error": "band"}) }, "error: band is not a numeric column"},
		{"string range bound", func() (*Layer, error) { return NewRange(d, "flux", "band", nil) }, "column_upper: band is not a numeric column"},
		{"nan opacity", func() (*Layer, error) { return NewLine(d, "flux", Attrs{"opacity": math.NaN()}) }, "opacity: value should be a finite number"},
		{"infinite width", func() (*Layer, error) { return NewLine(d, "flux", Attrs{"width": math.Inf(1)}) }, "width: value should be a finite number"},
		{"infinite value", func() (*Layer, error) { return NewHorizontalLine(math.Inf(-1), nil) }, "value: value should be a finite number"},
		{"unknown tooltip column", func() (*Layer, error) {
			return NewMarkers(d, "flux", Attrs{"tooltip": []string{"nonexistent"}})
		}, "tooltip: nonexistent is not a valid column name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(errors.UserMessage(err), tt.want) {
				t.Errorf("error = %q, want substring %q", errors.UserMessage(err), tt.want)
			}
		})
	}

	if _, err := NewMarkers(nil, "flux", nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil data error = %v", err)
	}
}

func TestSetTooltipChecksColumns(t *testing.T) {
	d := testData(t)
	m, err := NewMarkers(d, "flux", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Set("tooltip", map[string]string{"bogus": "B"}); !errors.Is(err, errors.ErrCodeInvalidAttribute) {
		t.Errorf("error = %v, want INVALID_ATTRIBUTE", err)
	}
	if err := m.Set("tooltip", [][2]string{{"band", "Band"}, {"flux", "Flux"}}); err != nil {
		t.Fatal(err)
	}
	refs := m.RequiredTooltipData()
	if len(refs) != 2 || refs[0].Column != "band" || refs[1].Column != "flux" {
		t.Errorf("RequiredTooltipData = %+v, want band then flux", refs)
	}
}

func TestRequiredData(t *testing.T) {
	d := testData(t)
	m, err := NewMarkers(d, "flux", Attrs{"error": "err", "time_column": "phase"})
	if err != nil {
		t.Fatal(err)
	}
	cols := func(refs []Ref) string {
		var names []string
		for _, r := range refs {
			names = append(names, r.Column)
		}
		return strings.Join(names, ",")
	}
	if got := cols(m.RequiredXData()); got != "phase" {
		t.Errorf("RequiredXData = %s, want phase", got)
	}
	if got := cols(m.RequiredYData()); got != "flux,err" {
		t.Errorf("RequiredYData = %s, want flux,err", got)
	}
	if got := cols(m.RequiredTooltipData()); got != "phase,flux,err" {
		t.Errorf("RequiredTooltipData = %s, want phase,flux,err", got)
	}
	if len(m.IDs()) != 2 || m.IDs()[1] != m.ID()+"_error" {
		t.Errorf("IDs = %v", m.IDs())
	}

	_ = m.Set("tooltip", false)
	if len(m.RequiredTooltipData()) != 0 {
		t.Error("disabled tooltip should not require data")
	}

	v, _ := NewVerticalLine(t0, nil)
	if v.RequiredXData() != nil || v.RequiredYData() != nil {
		t.Error("literal layers require no data")
	}
}

func TestCheckYUnit(t *testing.T) {
	d := testData(t)
	m, _ := NewMarkers(d, "ratio", nil)
	err := m.CheckYUnit(units.MustParse("Jy"))
	want := "Cannot convert the units '' of column 'ratio' to the required units of 'Jy'"
	if !errors.Is(err, errors.ErrCodeUnitsMismatch) || errors.UserMessage(err) != want {
		t.Errorf("CheckYUnit = %v, want %q", err, want)
	}

	h, _ := NewHorizontalLine(units.Q(2, "s"), nil)
	if err := h.CheckYUnit(units.MustParse("Jy")); !errors.Is(err, errors.ErrCodeUnitsMismatch) {
		t.Errorf("literal mismatch = %v", err)
	}
	plain, _ := NewHorizontalLine(2, nil)
	if err := plain.CheckYUnit(units.MustParse("Jy")); err != nil {
		t.Errorf("plain numbers are in figure units: %v", err)
	}
}

func TestVisualSpecMarkers(t *testing.T) {
	d := testData(t)
	m, _ := NewMarkers(d, "flux", Attrs{"error": "err", "label": "Flux", "tooltip": map[string]string{"flux": "Flux"}})
	ctx := absolute()
	ctx.Color = "#1f78b4"
	marks, err := m.VisualSpec(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(marks) != 2 {
		t.Fatalf("len(marks) = %d, want 2", len(marks))
	}
	sym, rect := marks[0], marks[1]
	if sym.Type != "symbol" || rect.Type != "rect" {
		t.Errorf("types = %s, %s", sym.Type, rect.Type)
	}
	if sym.Name != m.ID() || rect.Name != m.ID()+"_error" {
		t.Errorf("names = %s, %s", sym.Name, rect.Name)
	}
	if sym.From == nil || sym.From.Data != "lc" || !sym.Clip || sym.Description != "Flux" {
		t.Errorf("symbol header = %+v", sym)
	}
	if got := sym.Encode.Update["fill"].Value; got != "#1f78b4" {
		t.Errorf("fill = %v", got)
	}
	if got := sym.Encode.Update["stroke"].Value; got != DefaultColor {
		t.Errorf("stroke = %v, want black", got)
	}
	if got := sym.Encode.Enter["x"]; got.Field != "time" || got.Scale != vega.XScale {
		t.Errorf("x = %+v", got)
	}
	if got := rect.Encode.Enter["y"].Signal; got != "datum['flux'] - datum['err']" {
		t.Errorf("error y = %q", got)
	}
	if got := sym.Encode.Hover["tooltip"].Signal; got != "{'Flux': datum['flux']}" {
		t.Errorf("tooltip = %q", got)
	}
}

func TestVisualSpecDefaultTooltip(t *testing.T) {
	d := testData(t)
	l, _ := NewLine(d, "flux", nil)
	marks, err := l.VisualSpec(absolute())
	if err != nil {
		t.Fatal(err)
	}
	want := "{'time': timeFormat(datum['time'], '%Y-%m-%dT%H:%M:%S'), 'flux': datum['flux']}"
	if got := marks[0].Encode.Hover["tooltip"].Signal; got != want {
		t.Errorf("tooltip = %q, want %q", got, want)
	}
	if got := marks[0].Encode.Enter["stroke"].Value; got != DefaultColor {
		t.Errorf("stroke = %v", got)
	}
}

func TestVisualSpecLiterals(t *testing.T) {
	ctx := absolute()
	v, _ := NewVerticalLine("2018-06-01T12:00:00", nil)
	marks, err := v.VisualSpec(ctx)
	if err != nil {
		t.Fatal(err)
	}
	enc := marks[0].Encode.Enter
	if marks[0].Type != "rule" || enc["x"].Signal != "datetime(2018, 5, 1, 12, 0, 0)" || marks[0].From != nil {
		t.Errorf("vertical line = %+v", marks[0])
	}
	if enc["y"].Value != 0 {
		t.Errorf("y = %v, want 0", enc["y"].Value)
	}

	h, _ := NewHorizontalRange(units.Q(1, "mJy"), units.Q(2, "mJy"), nil)
	marks, err = h.VisualSpec(ctx)
	if err != nil {
		t.Fatal(err)
	}
	y := marks[0].Encode.Enter["y"].Value.(float64)
	if y < 0.00099 || y > 0.00101 {
		t.Errorf("y = %v, want 0.001", y)
	}

	txt, _ := NewText(t0, 3, "flare", Attrs{"weight": "bold"})
	marks, err = txt.VisualSpec(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if marks[0].Encode.Enter["text"].Value != "flare" || marks[0].Encode.Enter["fontWeight"].Value != "bold" {
		t.Errorf("text = %+v", marks[0].Encode.Enter)
	}

	ctx.AbsoluteTime = false
	if _, err := txt.VisualSpec(ctx); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("relative axis error = %v", err)
	}
	if _, err := h.VisualSpec(ctx); err != nil {
		t.Errorf("horizontal range on relative axis: %v", err)
	}
}

func TestSchemaDocs(t *testing.T) {
	doc := Schema(Markers).Doc()
	if !strings.Contains(doc, "'circle' (default)") {
		t.Errorf("markers doc missing shape choices:\n%s", doc)
	}
	for _, k := range Kinds {
		if Schema(k) == nil {
			t.Errorf("no schema for %v", k)
		}
	}
}
