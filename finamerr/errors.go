// Package finamerr defines FINAM's error taxonomy. Every fallible
// operation in the framework returns an error that wraps one of the
// sentinel kinds declared here, so callers branch with errors.Is
// rather than matching ad-hoc strings.
package finamerr

import "errors"

// Sentinel error kinds. Use errors.Is against these after wrapping a
// more specific cause with fmt.Errorf("...: %w", ...).
var (
	// ErrSetup covers cycle-without-delay, dead links, branching on a
	// no-branch adapter, and slot reconfiguration after Connect begins.
	ErrSetup = errors.New("setup error")

	// ErrMetadata covers incompatible grid/units/mask and missing
	// metadata once the Connect fixpoint has stalled.
	ErrMetadata = errors.New("metadata error")

	// ErrConnectStalled is raised when every non-CONNECTED component
	// reports CONNECTING_IDLE in the same Connect pass.
	ErrConnectStalled = errors.New("connect fixpoint stalled")

	// ErrData covers shape mismatch, time regression, aliased buffers,
	// and unit incompatibility discovered at push time.
	ErrData = errors.New("data error")

	// ErrNoData is raised when a pull finds no entry at or before the
	// requested time. Fatal during a run; absorbed during Connect.
	ErrNoData = errors.New("no data")

	// ErrComponent wraps any failure raised out of a hosted component's
	// or adapter's own code.
	ErrComponent = errors.New("component error")
)

// More specific causes, each wrapping one of the sentinels above so that
// errors.Is(err, ErrSetup) still succeeds after unwrapping.
var (
	ErrCycle             = wrap(ErrSetup, "dependency cycle without a delay edge")
	ErrDeadLink          = wrap(ErrSetup, "dead link: push-only downstream fed by pull-only upstream")
	ErrBranching         = wrap(ErrSetup, "branching not supported on this adapter")
	ErrReconfigured      = wrap(ErrSetup, "slot reconfigured after connect began")
	ErrStaticWithCache   = wrap(ErrSetup, "static output may not feed a time-caching adapter")
	ErrAlreadyBound      = wrap(ErrSetup, "input already bound to a source")
	ErrAlreadyConnecting = wrap(ErrSetup, "output already connecting, cannot chain new target")

	ErrShapeMismatch       = wrap(ErrData, "payload shape does not match grid data shape")
	ErrUnitsIncompatible   = wrap(ErrData, "units are not convertible")
	ErrTimeRegress         = wrap(ErrData, "push time did not strictly increase")
	ErrAliasedBuffer       = wrap(ErrData, "pushed payload shares backing memory with the previous push")
	ErrOutOfRange          = wrap(ErrData, "memory limit exceeded and spill could not be honored")
	ErrMultipleTimeSlices  = wrap(ErrData, "envelope carries more than one time slice")
	ErrNonMonotoneNextTime = wrap(ErrComponent, "nextTime went backwards")
)

func wrap(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// SetupError carries the structured detail every user-visible failure
// includes: component name, slot name, phase, and cause.
type SetupError struct {
	Component string
	Slot      string
	Phase     string
	Cause     error
}

func (e *SetupError) Error() string {
	return formatDetail("setup error", e.Component, e.Slot, e.Phase, e.Cause)
}

func (e *SetupError) Unwrap() error { return e.Cause }

// DataError carries component/slot/phase detail for ErrData-kind
// failures (shape mismatch, time regression, aliasing, units).
type DataError struct {
	Component string
	Slot      string
	Phase     string
	Cause     error
}

func (e *DataError) Error() string {
	return formatDetail("data error", e.Component, e.Slot, e.Phase, e.Cause)
}

func (e *DataError) Unwrap() error { return e.Cause }

// ComponentError wraps a failure raised out of hosted component or
// adapter code during any lifecycle hook.
type ComponentError struct {
	Component string
	Phase     string
	Cause     error
}

func (e *ComponentError) Error() string {
	return formatDetail("component error", e.Component, "", e.Phase, e.Cause)
}

func (e *ComponentError) Unwrap() error {
	return errors.Join(ErrComponent, e.Cause)
}

func formatDetail(kind, component, slot, phase string, cause error) string {
	s := kind
	if component != "" {
		s += " in component " + component
	}
	if slot != "" {
		s += " slot " + slot
	}
	if phase != "" {
		s += " during " + phase
	}
	if cause != nil {
		s += ": " + cause.Error()
	}
	return s
}
