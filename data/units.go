package data

import "fmt"

// Dimensionless is the zero value for Units: no physical unit attached.
const Dimensionless = ""

// Units identifies a physical unit by its canonical string form (e.g.
// "m/s", "km/h", "degC", "K"). The core is deliberately not a full
// dimensional-analysis engine; it ships a minimal affine
// conversion table sufficient for the Input-side automatic conversion
// and the sum-over-time adapter's unit rewrite.
type Units string

// conversion is an affine map value_in_to = value_in_from*Scale + Offset.
type conversion struct {
	Scale  float64
	Offset float64
}

// table holds known from->to conversions. Entries are added in both
// directions by Register.
var table = map[Units]map[Units]conversion{}

func init() {
	Register("m/s", "km/h", 3.6, 0)
	Register("degC", "K", 1, 273.15)
	Register("mm/day", "m/s", 1.0/(1000*86400), 0)
}

// Register installs a conversion from unit `from` to unit `to`, and its
// inverse, so that Convert and Convertible work both ways.
func Register(from, to Units, scale, offset float64) {
	ensure(from)[to] = conversion{Scale: scale, Offset: offset}
	if scale == 0 {
		return
	}
	ensure(to)[from] = conversion{Scale: 1 / scale, Offset: -offset / scale}
}

func ensure(u Units) map[Units]conversion {
	m, ok := table[u]
	if !ok {
		m = map[Units]conversion{}
		table[u] = m
	}
	return m
}

// Convertible reports whether values in `from` can be converted to `to`:
// identical units, both dimensionless, or a registered conversion.
func Convertible(from, to Units) bool {
	if from == to {
		return true
	}
	if from == Dimensionless || to == Dimensionless {
		return from == to
	}
	_, ok := table[from][to]
	return ok
}

// Convert converts a single value from `from` units to `to` units. The
// identity conversion (from == to) is detected and skipped.
func Convert(value float64, from, to Units) (float64, error) {
	if from == to {
		return value, nil
	}
	c, ok := table[from][to]
	if !ok {
		return 0, fmt.Errorf("no conversion registered from %q to %q", from, to)
	}
	return value*c.Scale + c.Offset, nil
}

// ConvertSlice converts every element of values into a new slice
// (Envelope payloads are treated as immutable once emitted); the identity
// conversion returns values itself.
func ConvertSlice(values []float64, from, to Units) ([]float64, error) {
	if from == to {
		return values, nil
	}
	c, ok := table[from][to]
	if !ok {
		return nil, fmt.Errorf("no conversion registered from %q to %q", from, to)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v*c.Scale + c.Offset
	}
	return out, nil
}
