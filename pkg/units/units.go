// Package units parses physical unit expressions and converts values
// between compatible units.
//
// A Unit is a scale factor applied to a product of base dimensions. Two
// units are convertible when their dimensions agree; the conversion factor
// is the ratio of their scales. The zero Unit is dimensionless.
//
// Expressions combine an optional SI prefix with a base symbol, integer
// powers and products/quotients:
//
//	units.MustParse("mJy")
//	units.MustParse("erg s-1 cm-2")
//	units.MustParse("W/m^2/Hz")
//
// Parentheses are not supported.
//
// The empty string, "one" and "dimensionless" all parse to [Dimensionless].
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aperiosoftware/aas-timeseries/pkg/errors"
)

// Base dimensions. Angle, count and magnitude are kept as their own
// dimensions so that they never silently convert to a pure number.
const (
	dimLength = iota
	dimMass
	dimTime
	dimCurrent
	dimTemperature
	dimAmount
	dimLuminous
	dimAngle
	dimCount
	dimMagnitude
	numDims
)

// Dimension holds the exponent of each base dimension.
type Dimension [numDims]int8

// Unit is a physical unit. The zero value is dimensionless.
type Unit struct {
	symbol string
	scale  float64
	dims   Dimension
}

// Dimensionless is the unit of plain numbers.
var Dimensionless = Unit{}

func (u Unit) factor() float64 {
	if u.scale == 0 {
		return 1
	}
	return u.scale
}

// String returns the expression the unit was parsed from, or "" for
// dimensionless units.
func (u Unit) String() string {
	return u.symbol
}

// Dimensions returns the unit's base-dimension exponents.
func (u Unit) Dimensions() Dimension {
	return u.dims
}

// IsDimensionless reports whether u has no dimensions. Scaled dimensionless
// units such as "%" are dimensionless too.
func (u Unit) IsDimensionless() bool {
	return u.dims == Dimension{}
}

// Equal reports whether u and other are the same unit, irrespective of how
// they were spelled.
func (u Unit) Equal(other Unit) bool {
	return u.dims == other.dims && u.factor() == other.factor()
}

// Convertible reports whether values in u can be expressed in other.
func (u Unit) Convertible(other Unit) bool {
	return u.dims == other.dims
}

// Factor returns the multiplier converting values in u to values in other.
func (u Unit) Factor(other Unit) (float64, error) {
	if !u.Convertible(other) {
		return 0, errors.New(errors.ErrCodeUnitsMismatch,
			"'%s' (%s) and '%s' (%s) are not convertible",
			u.symbol, u.PhysicalType(), other.symbol, other.PhysicalType())
	}
	return u.factor() / other.factor(), nil
}

// Convert converts x from u to other.
func (u Unit) Convert(x float64, other Unit) (float64, error) {
	f, err := u.Factor(other)
	if err != nil {
		return 0, err
	}
	return x * f, nil
}

// ConvertAll converts every value of xs from u to other, returning a new
// slice. xs is not modified.
func (u Unit) ConvertAll(xs []float64, other Unit) ([]float64, error) {
	f, err := u.Factor(other)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x * f
	}
	return out, nil
}

// PhysicalType names the quantity measured by u, e.g. "length" or
// "spectral flux density". Unknown combinations return "unknown".
func (u Unit) PhysicalType() string {
	if name, ok := physicalTypes[u.dims]; ok {
		return name
	}
	return "unknown"
}

func dims(pairs ...int) Dimension {
	var d Dimension
	for i := 0; i+1 < len(pairs); i += 2 {
		d[pairs[i]] = int8(pairs[i+1])
	}
	return d
}

var physicalTypes = map[Dimension]string{
	{}:                      "dimensionless",
	dims(dimLength, 1):      "length",
	dims(dimMass, 1):        "mass",
	dims(dimTime, 1):        "time",
	dims(dimTime, -1):       "frequency",
	dims(dimCurrent, 1):     "electrical current",
	dims(dimTemperature, 1): "temperature",
	dims(dimAmount, 1):      "amount of substance",
	dims(dimLuminous, 1):    "luminous intensity",
	dims(dimAngle, 1):       "angle",
	dims(dimCount, 1):       "count",
	dims(dimMagnitude, 1):   "magnitude",

	dims(dimLength, 1, dimTime, -1):              "speed",
	dims(dimMass, 1, dimLength, 2, dimTime, -2):  "energy",
	dims(dimMass, 1, dimLength, 2, dimTime, -3):  "power",
	dims(dimMass, 1, dimLength, 1, dimTime, -2):  "force",
	dims(dimMass, 1, dimLength, -1, dimTime, -2): "pressure",
	dims(dimMass, 1, dimTime, -3):                "energy flux",
	dims(dimMass, 1, dimTime, -2):                "spectral flux density",
	dims(dimCount, 1, dimTime, -1):               "count rate",
	dims(dimMass, 1, dimLength, -1, dimTime, -3): "spectral flux density wav",

	dims(dimMass, 1, dimLength, 2, dimTime, -3, dimCurrent, -1): "electrical potential",
}

// Parse parses a unit expression.
func Parse(expr string) (Unit, error) {
	s := strings.TrimSpace(expr)
	switch strings.ToLower(s) {
	case "", "one", "dimensionless":
		return Dimensionless, nil
	}

	u := Unit{symbol: s, scale: 1}
	normalized := strings.ReplaceAll(s, "**", "^")
	for i, part := range strings.Split(normalized, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Unit{}, errors.New(errors.ErrCodeInvalidUnit, "invalid unit expression %q", expr)
		}
		sign := 1
		if i > 0 {
			sign = -1
		}
		for _, term := range splitTerms(part) {
			t, power, err := parseTerm(term)
			if err != nil {
				return Unit{}, errors.Wrap(errors.ErrCodeInvalidUnit, err, "invalid unit expression %q", expr)
			}
			power *= sign
			u.scale *= math.Pow(t.factor(), float64(power))
			for d := range u.dims {
				u.dims[d] += t.dims[d] * int8(power)
			}
		}
	}
	return u, nil
}

// MustParse is like Parse but panics on error. It is intended for
// package-level variables and tests.
func MustParse(expr string) Unit {
	u, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return u
}

func splitTerms(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '.' || r == '*' || r == '·'
	})
}

// parseTerm parses one factor such as "cm2", "s^-1" or "mJy".
func parseTerm(term string) (Unit, int, error) {
	symbol, exp := term, ""
	if i := strings.IndexByte(term, '^'); i >= 0 {
		symbol, exp = term[:i], term[i+1:]
	} else {
		i := len(term)
		for i > 0 && (term[i-1] >= '0' && term[i-1] <= '9' || term[i-1] == '-' || term[i-1] == '+') {
			i--
		}
		symbol, exp = term[:i], term[i:]
	}

	power := 1
	if exp != "" {
		p, err := strconv.Atoi(exp)
		if err != nil {
			return Unit{}, 0, fmt.Errorf("invalid power %q", exp)
		}
		power = p
	}

	u, ok := lookup(symbol)
	if !ok {
		return Unit{}, 0, fmt.Errorf("unknown unit %q", symbol)
	}
	return u, power, nil
}

func lookup(symbol string) (Unit, bool) {
	if u, ok := baseUnits[symbol]; ok {
		return u, true
	}
	for _, p := range prefixes {
		rest, ok := strings.CutPrefix(symbol, p.symbol)
		if !ok || rest == "" {
			continue
		}
		if b, ok := baseUnits[rest]; ok && prefixable[rest] {
			return Unit{scale: b.factor() * p.scale, dims: b.dims}, true
		}
	}
	return Unit{}, false
}

type prefix struct {
	symbol string
	scale  float64
}

// prefixes lists "da" before "d" so that the longest match wins.
var prefixes = []prefix{
	{"Y", 1e24}, {"Z", 1e21}, {"E", 1e18}, {"P", 1e15}, {"T", 1e12},
	{"G", 1e9}, {"M", 1e6}, {"k", 1e3}, {"h", 1e2}, {"da", 1e1},
	{"d", 1e-1}, {"c", 1e-2}, {"m", 1e-3}, {"u", 1e-6}, {"µ", 1e-6},
	{"n", 1e-9}, {"p", 1e-12}, {"f", 1e-15}, {"a", 1e-18}, {"z", 1e-21},
	{"y", 1e-24},
}

func base(scale float64, pairs ...int) Unit {
	return Unit{scale: scale, dims: dims(pairs...)}
}

var baseUnits = map[string]Unit{
	"m":        base(1, dimLength, 1),
	"g":        base(1e-3, dimMass, 1),
	"s":        base(1, dimTime, 1),
	"min":      base(60, dimTime, 1),
	"h":        base(3600, dimTime, 1),
	"d":        base(86400, dimTime, 1),
	"yr":       base(31557600, dimTime, 1),
	"A":        base(1, dimCurrent, 1),
	"K":        base(1, dimTemperature, 1),
	"mol":      base(1, dimAmount, 1),
	"cd":       base(1, dimLuminous, 1),
	"rad":      base(1, dimAngle, 1),
	"deg":      base(math.Pi/180, dimAngle, 1),
	"arcmin":   base(math.Pi/180/60, dimAngle, 1),
	"arcsec":   base(math.Pi/180/3600, dimAngle, 1),
	"Hz":       base(1, dimTime, -1),
	"N":        base(1, dimMass, 1, dimLength, 1, dimTime, -2),
	"J":        base(1, dimMass, 1, dimLength, 2, dimTime, -2),
	"erg":      base(1e-7, dimMass, 1, dimLength, 2, dimTime, -2),
	"eV":       base(1.602176634e-19, dimMass, 1, dimLength, 2, dimTime, -2),
	"W":        base(1, dimMass, 1, dimLength, 2, dimTime, -3),
	"Pa":       base(1, dimMass, 1, dimLength, -1, dimTime, -2),
	"V":        base(1, dimMass, 1, dimLength, 2, dimTime, -3, dimCurrent, -1),
	"ohm":      base(1, dimMass, 1, dimLength, 2, dimTime, -3, dimCurrent, -2),
	"Jy":       base(1e-26, dimMass, 1, dimTime, -2),
	"AU":       base(1.495978707e11, dimLength, 1),
	"pc":       base(3.0856775814913673e16, dimLength, 1),
	"Angstrom": base(1e-10, dimLength, 1),
	"ct":       base(1, dimCount, 1),
	"count":    base(1, dimCount, 1),
	"electron": base(1, dimCount, 1),
	"adu":      base(1, dimCount, 1),
	"mag":      base(1, dimMagnitude, 1),
	"%":        base(1e-2),
	"ppm":      base(1e-6),
}

// prefixable lists the base units that accept SI prefixes.
var prefixable = map[string]bool{
	"m": true, "g": true, "s": true, "A": true, "K": true, "mol": true,
	"cd": true, "rad": true, "Hz": true, "N": true, "J": true, "eV": true,
	"W": true, "Pa": true, "V": true, "ohm": true, "Jy": true, "pc": true, "yr": true,
	"mag": true, "arcsec": true,
}

// Quantity is a value carrying a unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// Q builds a quantity from a value and a unit expression. It panics if the
// expression does not parse.
func Q(value float64, expr string) Quantity {
	return Quantity{Value: value, Unit: MustParse(expr)}
}

// ParseQuantity parses "<value> <unit>", e.g. "3 mJy". A bare number is
// dimensionless.
func ParseQuantity(s string) (Quantity, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Quantity{}, errors.New(errors.ErrCodeInvalidInput, "invalid quantity %q", s)
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Quantity{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid quantity %q", s)
	}
	u, err := Parse(strings.Join(fields[1:], " "))
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: x, Unit: u}, nil
}

// To returns the quantity's value expressed in u.
func (q Quantity) To(u Unit) (float64, error) {
	return q.Unit.Convert(q.Value, u)
}

// String formats the quantity as "<value> <unit>".
func (q Quantity) String() string {
	if q.Unit.symbol == "" {
		return strconv.FormatFloat(q.Value, 'g', -1, 64)
	}
	return strconv.FormatFloat(q.Value, 'g', -1, 64) + " " + q.Unit.symbol
}
