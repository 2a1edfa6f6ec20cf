// Package data defines the Envelope value that crosses every link in a
// FINAM composition, along with the Grid and Units metadata it carries.
package data

import (
	"fmt"
	"unsafe"

	"github.com/sarchlab/finam/fint"
)

// Envelope is the immutable bundle of payload, grid, units and timestamp
// that Outputs push and Inputs pull. Once emitted it must not be
// mutated; Outputs additionally verify that consecutive pushes never
// share backing memory.
type Envelope struct {
	payload []float64
	grid    Grid
	units   Units
	mask    Mask
	time    fint.Time
}

// Prepare wraps raw numeric data with grid/units/mask metadata and a
// timestamp, validating the payload shape against the grid's declared
// data location. The caller (info.Prepare) supplies already-resolved
// Grid/Units/Mask values; this function owns only the shape check and
// struct assembly so that the data package never needs to import info.
func Prepare(value []float64, grid Grid, units Units, mask Mask, t fint.Time) (Envelope, error) {
	if grid.Kind != KindNoGrid || len(grid.DataShape) > 0 {
		if want := grid.Size(); want != len(value) {
			return Envelope{}, fmt.Errorf("prepare: payload has %d elements, grid expects %d: %w", len(value), want, errShapeMismatch)
		}
	}

	return Envelope{
		payload: value,
		grid:    grid,
		units:   units,
		mask:    mask,
		time:    t,
	}, nil
}

// Time returns the single instant this envelope is valid at.
func (e Envelope) Time() fint.Time { return e.time }

// Grid returns the envelope's grid specification.
func (e Envelope) Grid() Grid { return e.grid }

// Units returns the envelope's units.
func (e Envelope) Units() Units { return e.units }

// Mask returns the envelope's mask.
func (e Envelope) Mask() Mask { return e.mask }

// Payload returns the raw numeric data. Callers must not mutate the
// returned slice; envelopes are treated as immutable after emission.
func (e Envelope) Payload() []float64 { return e.payload }

// WithPayload returns a copy of e with a new payload and time, used by
// adapters that transform data without changing grid/units (e.g. a
// scaling adapter).
func (e Envelope) WithPayload(payload []float64, t fint.Time) Envelope {
	e.payload = payload
	e.time = t
	return e
}

// WithUnits returns a copy of e carrying different units, used by
// adapters that rewrite units (e.g. SumOverTime turning a rate into an
// amount).
func (e Envelope) WithUnits(u Units) Envelope {
	e.units = u
	return e
}

// WithGrid returns a copy of e carrying a different grid, used by the
// automatic axis-order transform on Input.pull.
func (e Envelope) WithGrid(g Grid) Envelope {
	e.grid = g
	return e
}

// ConvertUnits returns a copy of e converted to target units. It is pure:
// e is left untouched. The identity conversion is detected and skipped,
// returning e's own payload slice unchanged (no copy).
func (e Envelope) ConvertUnits(target Units) (Envelope, error) {
	if e.units == target {
		return e, nil
	}

	converted, err := ConvertSlice(e.payload, e.units, target)
	if err != nil {
		return Envelope{}, fmt.Errorf("convert units: %w", err)
	}

	out := e
	out.payload = converted
	out.units = target
	return out, nil
}

// StripTime returns the payload without the time axis. An Envelope
// carries a single timestamp and so a single time slice; the returned
// error is always nil.
func (e Envelope) StripTime() ([]float64, error) {
	return e.payload, nil
}

// AliasesWith reports whether e and other share backing array memory for
// their payload, used by Output.push to detect AliasedBuffer violations.
func (e Envelope) AliasesWith(other Envelope) bool {
	if len(e.payload) == 0 || len(other.payload) == 0 {
		return false
	}
	return unsafe.SliceData(e.payload) == unsafe.SliceData(other.payload)
}

var errShapeMismatch = fmt.Errorf("shape mismatch")

// ErrShapeMismatch is exposed so callers can errors.Is against it without
// importing finamerr from this low-level package (finamerr wraps this
// sentinel again at the Output/Input boundary with component/slot
// context).
var ErrShapeMismatch = errShapeMismatch
