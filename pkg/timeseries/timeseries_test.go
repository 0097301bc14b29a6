package timeseries

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
	"github.com/aperiosoftware/aas-timeseries/pkg/units"
)

func sampleTimes(n int) []time.Time {
	start := time.Date(2018, 6, 1, 12, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return out
}

func TestNewDefaults(t *testing.T) {
	ts := New("", "", sampleTimes(3))
	if ts.ID() == "" {
		t.Error("ID should be generated")
	}
	if ts.TimeColumn() != DefaultTimeColumn {
		t.Errorf("TimeColumn = %q, want %q", ts.TimeColumn(), DefaultTimeColumn)
	}
	if ts.Len() != 3 {
		t.Errorf("Len = %d, want 3", ts.Len())
	}
}

func TestAddColumns(t *testing.T) {
	ts := New("lc", "time", sampleTimes(2))
	if err := ts.AddFloat("flux", []float64{1, 2}, units.MustParse("mJy")); err != nil {
		t.Fatal(err)
	}
	if err := ts.AddString("band", []string{"r", "g"}); err != nil {
		t.Fatal(err)
	}
	if err := ts.AddBool("flag", []bool{true, false}); err != nil {
		t.Fatal(err)
	}

	want := []string{"time", "flux", "band", "flag"}
	got := ts.ColumnNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ColumnNames = %v, want %v", got, want)
	}

	tests := []struct {
		name   string
		column string
		values any
	}{
		{"duplicate", "flux", []float64{1, 2}},
		{"time column", "time", []float64{1, 2}},
		{"wrong length", "other", []float64{1}},
		{"empty name", "", []float64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ts.AddFloat(tt.column, tt.values.([]float64), units.Dimensionless)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("AddFloat error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestFloatsConversion(t *testing.T) {
	ts := New("lc", "time", sampleTimes(2))
	_ = ts.AddFloat("flux", []float64{1, 2}, units.MustParse("mJy"))
	_ = ts.AddString("band", []string{"r", "g"})

	got, err := ts.Floats("flux", units.MustParse("Jy"))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got[1]-0.002) > 1e-12 {
		t.Errorf("Floats[1] = %g, want 0.002", got[1])
	}

	if _, err := ts.Floats("flux", units.Dimensionless); !errors.Is(err, errors.ErrCodeUnitsMismatch) {
		t.Errorf("Floats to dimensionless error = %v, want UNITS_MISMATCH", err)
	}
	if _, err := ts.Floats("band", units.Dimensionless); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Floats on string column error = %v, want INVALID_INPUT", err)
	}
	if _, err := ts.Floats("flux2", units.Dimensionless); !errors.Is(err, errors.ErrCodeColumnNotFound) {
		t.Errorf("Floats on missing column error = %v, want COLUMN_NOT_FOUND", err)
	}
	if !ts.Unit("band").IsDimensionless() {
		t.Error("string column unit should be dimensionless")
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2018, 6, 1, 12, 30, 0, 0, time.UTC)
	for _, s := range []string{
		"2018-06-01T12:30:00",
		"2018-06-01T12:30:00.000",
		"2018-06-01 12:30:00",
		"2018-06-01T12:30",
		"2018-06-01T14:30:00+02:00",
	} {
		got, err := ParseTime(s)
		if err != nil {
			t.Errorf("ParseTime(%q) error: %v", s, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseTime(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := ParseTime("yesterday"); err == nil {
		t.Error("expected error for invalid time")
	}
	if got := FormatTime(want); got != "2018-06-01T12:30:00.000" {
		t.Errorf("FormatTime = %q", got)
	}
}

func TestReadCSV(t *testing.T) {
	in := `time,flux [mJy],err,band,flag
2018-06-01T12:00:00.000,1.5,0.1,r,true
2018-06-01T13:00:00.000,2.5,,g,false
`
	ts, err := ReadCSV(strings.NewReader(in), CSVOptions{ID: "lc", Units: map[string]string{"err": "mJy"}})
	if err != nil {
		t.Fatal(err)
	}
	if ts.ID() != "lc" || ts.Len() != 2 {
		t.Fatalf("ID/Len = %q/%d", ts.ID(), ts.Len())
	}

	kinds := map[string]ColumnKind{"flux": KindFloat, "err": KindFloat, "band": KindString, "flag": KindBool}
	for name, want := range kinds {
		c, ok := ts.Column(name)
		if !ok {
			t.Fatalf("missing column %q", name)
		}
		if c.Kind != want {
			t.Errorf("%s kind = %v, want %v", name, c.Kind, want)
		}
	}
	if ts.Unit("flux").String() != "mJy" || ts.Unit("err").String() != "mJy" {
		t.Errorf("units = %q, %q", ts.Unit("flux"), ts.Unit("err"))
	}
	errCol, _ := ts.Column("err")
	if !math.IsNaN(errCol.Floats[1]) {
		t.Errorf("empty cell = %g, want NaN", errCol.Floats[1])
	}
}

func TestReadCSVForcedTypes(t *testing.T) {
	in := "t,code\n2018-06-01,1\n2018-06-02,2\n"
	ts, err := ReadCSV(strings.NewReader(in), CSVOptions{
		TimeColumn: "t",
		Types:      map[string]string{"code": TypeString},
	})
	if err != nil {
		t.Fatal(err)
	}
	c, _ := ts.Column("code")
	if c.Kind != KindString || c.Strings[1] != "2" {
		t.Errorf("code column = %+v", c)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts CSVOptions
		code errors.Code
	}{
		{"empty", "", CSVOptions{}, errors.ErrCodeInvalidFormat},
		{"no time column", "a,b\n1,2\n", CSVOptions{}, errors.ErrCodeColumnNotFound},
		{"bad time", "time,a\nnope,2\n", CSVOptions{}, errors.ErrCodeInvalidFormat},
		{"bad unit", "time,a [furlong]\n2018-06-01,2\n", CSVOptions{}, errors.ErrCodeInvalidUnit},
		{"bad type", "time,a\n2018-06-01,2\n", CSVOptions{Types: map[string]string{"a": "blob"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadCSV error = %v, want %s", err, tt.code)
			}
		})
	}
}
