package units

import (
	"math"
	"testing"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
)

func approx(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func TestParseDimensionless(t *testing.T) {
	for _, expr := range []string{"", "  ", "one", "dimensionless"} {
		u, err := Parse(expr)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", expr, err)
		}
		if !u.IsDimensionless() || !u.Equal(Dimensionless) {
			t.Errorf("Parse(%q) = %v, want dimensionless", expr, u)
		}
		if u.String() != "" {
			t.Errorf("Parse(%q).String() = %q, want empty", expr, u.String())
		}
	}
}

func TestFactor(t *testing.T) {
	tests := []struct {
		from, to string
		want     float64
	}{
		{"Jy", "mJy", 1000},
		{"mJy", "Jy", 1e-3},
		{"km", "m", 1000},
		{"cm2", "m^2", 1e-4},
		{"erg s-1 cm-2", "W/m2", 1e-3},
		{"erg/s/cm**2", "W m-2", 1e-3},
		{"Jy", "W m-2 Hz-1", 1e-26},
		{"h", "min", 60},
		{"d", "s", 86400},
		{"%", "", 0.01},
		{"ct/s", "ct s-1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			got, err := MustParse(tt.from).Factor(MustParse(tt.to))
			if err != nil {
				t.Fatalf("Factor error: %v", err)
			}
			if !approx(got, tt.want) {
				t.Errorf("Factor = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestNotConvertible(t *testing.T) {
	_, err := MustParse("mJy").Factor(Dimensionless)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeUnitsMismatch) {
		t.Errorf("code = %v, want UNITS_MISMATCH", errors.GetCode(err))
	}
	want := "'mJy' (spectral flux density) and '' (dimensionless) are not convertible"
	if got := errors.UserMessage(err); got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{"furlong", "m^x", "Jy/", "/s", "qJy"} {
		if _, err := Parse(expr); err == nil {
			t.Errorf("Parse(%q) expected error", expr)
		} else if !errors.Is(err, errors.ErrCodeInvalidUnit) {
			t.Errorf("Parse(%q) code = %v, want INVALID_UNIT", expr, errors.GetCode(err))
		}
	}
}

func TestExactSymbolsWinOverPrefixes(t *testing.T) {
	tests := []struct {
		expr string
		kind string
	}{
		{"min", "time"},
		{"mag", "magnitude"},
		{"Pa", "pressure"},
		{"cd", "luminous intensity"},
		{"mmag", "magnitude"},
		{"dam", "length"},
	}
	for _, tt := range tests {
		if got := MustParse(tt.expr).PhysicalType(); got != tt.kind {
			t.Errorf("PhysicalType(%q) = %q, want %q", tt.expr, got, tt.kind)
		}
	}
}

func TestEqual(t *testing.T) {
	if !MustParse("W/m2").Equal(MustParse("W m-2")) {
		t.Error("W/m2 should equal W m-2")
	}
	if MustParse("Jy").Equal(MustParse("mJy")) {
		t.Error("Jy should not equal mJy")
	}
	var zero Unit
	if !zero.Equal(MustParse("one")) {
		t.Error("zero Unit should equal one")
	}
}

func TestConvertAll(t *testing.T) {
	in := []float64{1, 2, 3}
	out, err := MustParse("mJy").ConvertAll(in, MustParse("Jy"))
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1e-3, 2e-3, 3e-3}
	for i := range want {
		if !approx(out[i], want[i]) {
			t.Errorf("out[%d] = %g, want %g", i, out[i], want[i])
		}
	}
	if in[0] != 1 {
		t.Error("input was modified")
	}
}

func TestQuantity(t *testing.T) {
	q := Q(3, "mJy")
	v, err := q.To(MustParse("Jy"))
	if err != nil {
		t.Fatal(err)
	}
	if !approx(v, 0.003) {
		t.Errorf("To = %g, want 0.003", v)
	}
	if q.String() != "3 mJy" {
		t.Errorf("String = %q, want %q", q.String(), "3 mJy")
	}
	if Q(2, "").String() != "2" {
		t.Errorf("String = %q, want %q", Q(2, "").String(), "2")
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		value   float64
		unit    string
		wantErr errors.Code
	}{
		{"3 mJy", 3, "mJy", ""},
		{"1.5e-3 erg s-1 cm-2", 1.5e-3, "erg s-1 cm-2", ""},
		{"42", 42, "", ""},
		{"", 0, "", errors.ErrCodeInvalidInput},
		{"three mJy", 0, "", errors.ErrCodeInvalidInput},
		{"3 furlong", 0, "", errors.ErrCodeInvalidUnit},
	}
	for _, tt := range tests {
		q, err := ParseQuantity(tt.in)
		if tt.wantErr != "" {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseQuantity(%q) err = %v, want %s", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseQuantity(%q): %v", tt.in, err)
			continue
		}
		if q.Value != tt.value || q.Unit.String() != tt.unit {
			t.Errorf("ParseQuantity(%q) = %v, want %v %s", tt.in, q, tt.value, tt.unit)
		}
	}
}
