// Package component implements the lifecycle state machine every
// FINAM component runs through, and the two base types (StatelessBase,
// TimeBase) models embed to get it for free. The machine is
// Connect-fixpoint aware: a component cycles through the connecting
// states until its connector reports completion.
package component

import (
	"fmt"

	"github.com/sarchlab/finam/connector"
	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
)

// State is a position in a Component's lifecycle.
type State int

const (
	Created State = iota
	Initialized
	ConnectingState
	ConnectingIdleState
	Connected
	Validated
	Updated
	Finalized
	Failed
)

func (s State) String() string {
	switch s {
	case Created:
		return "CREATED"
	case Initialized:
		return "INITIALIZED"
	case ConnectingState:
		return "CONNECTING"
	case ConnectingIdleState:
		return "CONNECTING_IDLE"
	case Connected:
		return "CONNECTED"
	case Validated:
		return "VALIDATED"
	case Updated:
		return "UPDATED"
	case Finalized:
		return "FINALIZED"
	default:
		return "FAILED"
	}
}

// Component is the interface the Composition drives every registered
// model through. StatelessBase and TimeBase implement
// the bookkeeping (state transitions, connector wiring); model authors
// embed one of those and supply the four hooks.
type Component interface {
	Name() string
	State() State

	Initialize() error
	Connect(t fint.Time) error
	Validate() error
	Finalize() error
}

// TimeStepper is additionally implemented by time-stepping components:
// the scheduler calls Update when it selects this component, and reads
// Time/NextTime to decide which component is behind.
type TimeStepper interface {
	Component
	Time() fint.Time
	NextTime() fint.Time
	Update() error
}

// Hooks bundles the model-supplied lifecycle callbacks. Any nil hook is
// treated as a no-op. Base calls Initialize, Connect, Validate and
// Finalize; the Update field is not called by Base or TimeBase, which
// takes its update function from NewTimeBase. Initialize is expected to register slots
// on the component's own Connector (obtained via Base.Connector);
// Connect is usually left nil, since Connector.TryConnect drives it,
// but is available for components that need extra per-pass logic.
type Hooks struct {
	Initialize func() error
	Connect    func(t fint.Time) error
	Validate   func() error
	Update     func() error
	Finalize   func() error
}

// Base implements the shared lifecycle state machine. Embed it in a
// model struct and call NewBase from the model's constructor.
type Base struct {
	name  string
	state State
	hooks Hooks
	conn  *connector.Connector
}

// NewBase constructs a Base for a component named name, wiring a fresh
// Connector it exposes via Connector().
func NewBase(name string, hooks Hooks) *Base {
	return &Base{name: name, state: Created, hooks: hooks, conn: connector.New(name)}
}

// Name returns the component's registered name.
func (b *Base) Name() string { return b.name }

// State returns the component's current lifecycle state.
func (b *Base) State() State { return b.state }

// Connector returns the component's per-instance Connector, to be used
// by Initialize to register output/input slots.
func (b *Base) Connector() *connector.Connector { return b.conn }

// Initialize runs once, transitioning CREATED -> INITIALIZED. Failure
// transitions to FAILED and returns a ComponentError.
func (b *Base) Initialize() error {
	if b.state != Created {
		return b.wrap("initialize", fmt.Errorf("component %s: initialize called from state %s", b.name, b.state))
	}
	if b.hooks.Initialize != nil {
		if err := b.hooks.Initialize(); err != nil {
			return b.fail("initialize", err)
		}
	}
	b.state = Initialized
	return nil
}

// Connect runs one Connect pass via the component's Connector, updating
// state to CONNECTING, CONNECTING_IDLE or CONNECTED according to the
// pass's Status. It is called repeatedly by the Composition until the
// state reaches CONNECTED.
func (b *Base) Connect(t fint.Time) error {
	if b.state != Initialized && b.state != ConnectingState && b.state != ConnectingIdleState {
		return b.wrap("connect", fmt.Errorf("component %s: connect called from state %s", b.name, b.state))
	}

	if b.hooks.Connect != nil {
		if err := b.hooks.Connect(t); err != nil {
			return b.fail("connect", err)
		}
	}

	status, err := b.conn.TryConnect(t)
	if err != nil {
		return b.fail("connect", err)
	}

	switch status {
	case connector.Connected:
		b.state = Connected
	case connector.Connecting:
		b.state = ConnectingState
	default:
		b.state = ConnectingIdleState
	}
	return nil
}

// Validate runs once after CONNECTED, transitioning to VALIDATED.
func (b *Base) Validate() error {
	if b.state != Connected {
		return b.wrap("validate", fmt.Errorf("component %s: validate called from state %s", b.name, b.state))
	}
	if b.hooks.Validate != nil {
		if err := b.hooks.Validate(); err != nil {
			return b.fail("validate", err)
		}
	}
	b.state = Validated
	return nil
}

// markUpdated transitions a just-validated or previously-updated
// component to UPDATED, called by TimeBase.Update after
// the model's update function succeeds.
func (b *Base) markUpdated() { b.state = Updated }

// Finalize runs once at shutdown, transitioning to FINALIZED regardless
// of the state it was called from (a FAILED component is still
// finalized so it can release resources).
func (b *Base) Finalize() error {
	if b.hooks.Finalize != nil {
		if err := b.hooks.Finalize(); err != nil {
			return b.fail("finalize", err)
		}
	}
	b.state = Finalized
	return nil
}

func (b *Base) fail(phase string, cause error) error {
	b.state = Failed
	return &finamerr.ComponentError{Component: b.name, Phase: phase, Cause: cause}
}

func (b *Base) wrap(phase string, cause error) error {
	return &finamerr.ComponentError{Component: b.name, Phase: phase, Cause: cause}
}
