// Package info implements the per-port metadata descriptor negotiated
// during a Composition's Connect phase.
package info

import (
	"fmt"

	"github.com/sarchlab/finam/data"
	"github.com/sarchlab/finam/fint"
)

// Reason explains why Accepts rejected a peer Info.
type Reason string

const (
	ReasonOK           Reason = ""
	ReasonGridMismatch Reason = "grid specifications are not compatible"
	ReasonMaskMismatch Reason = "mask policies are not compatible"
	ReasonUnits        Reason = "units are not convertible"
)

// Info is a port's metadata descriptor: time, grid, units, mask and a
// bag of extra entries, each of which may be unset. Unset fields are
// resolved from the peer during Connect; Info values are never mutated
// in place once a port has published one — every mutating operation
// returns a new value.
type Info struct {
	time     fint.Time
	timeSet  bool
	grid     data.Grid
	gridSet  bool
	units    data.Units
	unitsSet bool
	mask     data.Mask
	maskSet  bool
	extra    map[string]any
}

// New returns an Info with time, grid and units unset and the mask
// policy FLEX, to be filled in via the With* helpers, CopyWith or Merge
// during Connect.
func New() Info {
	return Info{mask: data.Mask{Policy: data.MaskFlex}, maskSet: true}
}

// WithTime returns a copy of i with time set.
func (i Info) WithTime(t fint.Time) Info {
	i.time, i.timeSet = t, true
	return i
}

// WithGrid returns a copy of i with grid set.
func (i Info) WithGrid(g data.Grid) Info {
	i.grid, i.gridSet = g, true
	return i
}

// WithUnits returns a copy of i with units set.
func (i Info) WithUnits(u data.Units) Info {
	i.units, i.unitsSet = u, true
	return i
}

// WithMask returns a copy of i with an explicit mask policy set.
func (i Info) WithMask(m data.Mask) Info {
	i.mask, i.maskSet = m, true
	return i
}

// ClearGrid returns a copy of i with the grid field unset, used by
// adapters (e.g. regridders) that must not forward a downstream-desired
// grid upstream unchanged.
func (i Info) ClearGrid() Info {
	i.gridSet = false
	i.grid = data.Grid{}
	return i
}

// ClearUnits returns a copy of i with the units field unset, used by
// adapters (e.g. SumOverTime) whose downstream units differ from the
// upstream ones and that must not forward the downstream-desired units
// upstream unchanged.
func (i Info) ClearUnits() Info {
	i.unitsSet = false
	i.units = data.Dimensionless
	return i
}

// WithExtra returns a copy of i with one extra entry set.
func (i Info) WithExtra(key string, value any) Info {
	cp := make(map[string]any, len(i.extra)+1)
	for k, v := range i.extra {
		cp[k] = v
	}
	cp[key] = value
	i.extra = cp
	return i
}

// CopyWith returns a new Info with the supplied overrides layered onto
// i; each override function is applied in order. This is the generic
// form of the With* helpers, useful for bulk overrides.
func (i Info) CopyWith(overrides ...func(Info) Info) Info {
	out := i
	for _, f := range overrides {
		out = f(out)
	}
	return out
}

// Time returns the time field and whether it is set.
func (i Info) Time() (fint.Time, bool) { return i.time, i.timeSet }

// Grid returns the grid field and whether it is set.
func (i Info) Grid() (data.Grid, bool) { return i.grid, i.gridSet }

// Units returns the units field and whether it is set.
func (i Info) Units() (data.Units, bool) { return i.units, i.unitsSet }

// Mask returns the mask field and whether it is set.
func (i Info) Mask() (data.Mask, bool) { return i.mask, i.maskSet }

// Extra returns one extra entry and whether it is present.
func (i Info) Extra(key string) (any, bool) {
	v, ok := i.extra[key]
	return v, ok
}

// Merge absorbs unset fields of i from other, returning a new Info.
// Merge is idempotent: merging the same other twice yields the same
// result as merging it once, which is what lets the Connect loop run
// Merge every pass without regressing previously-resolved fields. A
// field already set on i is never overwritten, except that a FLEX mask
// takes other's mask policy.
func (i Info) Merge(other Info) Info {
	out := i
	if !out.timeSet && other.timeSet {
		out.time, out.timeSet = other.time, true
	}
	if !out.gridSet && other.gridSet {
		out.grid, out.gridSet = other.grid, true
	}
	if !out.unitsSet && other.unitsSet {
		out.units, out.unitsSet = other.units, true
	}
	if other.maskSet && (!out.maskSet || out.mask.Policy == data.MaskFlex) {
		out.mask, out.maskSet = other.mask, true
	}
	if len(other.extra) > 0 {
		cp := make(map[string]any, len(out.extra)+len(other.extra))
		for k, v := range out.extra {
			cp[k] = v
		}
		for k, v := range other.extra {
			if _, exists := cp[k]; !exists {
				cp[k] = v
			}
		}
		out.extra = cp
	}
	return out
}

// Resolved reports whether every field this Info's owner cares about
// (time, grid, units) has been set. Mask always has a value (FLEX by
// default) so it is not included.
func (i Info) Resolved() bool {
	return i.timeSet && i.gridSet && i.unitsSet
}

// Accepts checks grid, mask and units compatibility between incoming
// and i (the receiver is the accepting side). fromDownstream indicates
// the incoming Info originated from a downstream exchangeInfo request,
// which matters only for logging/diagnostics, not for the compatibility
// rule itself.
func (i Info) Accepts(incoming Info, fromDownstream bool) Reason {
	_ = fromDownstream

	if i.gridSet && incoming.gridSet && !i.grid.CompatibleByTransform(incoming.grid) {
		return ReasonGridMismatch
	}
	if !i.mask.Compatible(incoming.mask) {
		return ReasonMaskMismatch
	}
	if i.unitsSet && incoming.unitsSet && !data.Convertible(incoming.units, i.units) {
		return ReasonUnits
	}
	return ReasonOK
}

// Prepare wraps raw numeric data into a data.Envelope using i's
// currently-resolved grid/units/mask. Grid and units
// must be resolved (Connect must have completed) before Prepare is
// called; an unset grid is treated as NoGrid of the payload's own
// length.
func (i Info) Prepare(value []float64, t fint.Time) (data.Envelope, error) {
	grid := i.grid
	if !i.gridSet {
		grid = data.NewNoGrid(1, []int{len(value)})
	}
	units := i.units
	mask := i.mask

	env, err := data.Prepare(value, grid, units, mask, t)
	if err != nil {
		return data.Envelope{}, fmt.Errorf("info.Prepare: %w", err)
	}
	return env, nil
}
