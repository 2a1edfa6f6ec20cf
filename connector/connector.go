// Package connector drives the iterative Connect-phase fixpoint for a
// single component: repeatedly attempting to push Info, exchange Info,
// push data and pull data on every slot until nothing is left pending
// or the whole composition has stalled. Each slot tracks its four
// completion flags independently; a flag never regresses once set.
package connector

import (
	"errors"
	"fmt"

	"github.com/sarchlab/finam/data"
	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
	"github.com/sarchlab/finam/info"
	"github.com/sarchlab/finam/port"
)

// Status is the Connector's overall report for one tryConnect pass.
type Status int

const (
	// Connected means every slot has completed every step it requires.
	Connected Status = iota
	// Connecting means at least one slot made new progress this pass.
	Connecting
	// ConnectingIdle means no slot made progress this pass; if every
	// component in the composition reports this in the same pass, the
	// fixpoint has stalled (ErrConnectStalled).
	ConnectingIdle
)

func (s Status) String() string {
	switch s {
	case Connected:
		return "CONNECTED"
	case Connecting:
		return "CONNECTING"
	default:
		return "CONNECTING_IDLE"
	}
}

// outputSlot is one output's Connect-phase bookkeeping.
type outputSlot struct {
	name       string
	out        *port.Output
	infoPushed bool
	dataPushed bool

	// pushInfo/pushData are invoked once per pass until they succeed.
	// pushInfo merges whatever Info the owning component has declared so
	// far; pushData, optional, emits the first sample a component wants
	// published before the run begins (e.g. an initial condition).
	pushInfo func() (info.Info, bool)
	pushData func() (data.Envelope, bool)
}

// inputSlot is one input's Connect-phase bookkeeping.
type inputSlot struct {
	name          string
	in            *port.Input
	desired       info.Info
	infoExchanged bool
	mustPull      bool
	dataPulled    bool

	onResolved func(info.Info)
	onPulled   func(data.Envelope)
}

// Connector drives one component's Connect fixpoint across every slot
// registered on it via RegisterOutput/RegisterInput.
type Connector struct {
	component string
	outputs   []*outputSlot
	inputs    []*inputSlot
}

// New returns a Connector for the named component.
func New(component string) *Connector {
	return &Connector{component: component}
}

// RegisterOutput adds an output slot. pushInfo is called every pass
// until it reports ok=true; pushData, if non-nil, likewise for the
// slot's first emitted sample (stateless components with no initial
// condition may pass a nil pushData).
func (c *Connector) RegisterOutput(name string, out *port.Output, pushInfo func() (info.Info, bool), pushData func() (data.Envelope, bool)) {
	c.outputs = append(c.outputs, &outputSlot{name: name, out: out, pushInfo: pushInfo, pushData: pushData})
}

// RegisterInput adds an input slot. desired is the Info the component
// already knows about this slot. mustPull marks slots that require an
// initial pull during Connect (time-stepping components pulling their
// initial condition); onResolved/onPulled are invoked the first time
// each respective step succeeds.
func (c *Connector) RegisterInput(name string, in *port.Input, desired info.Info, mustPull bool, onResolved func(info.Info), onPulled func(data.Envelope)) {
	c.inputs = append(c.inputs, &inputSlot{name: name, in: in, desired: desired, mustPull: mustPull, onResolved: onResolved, onPulled: onPulled})
}

// TryConnect performs one Connect pass, attempting in order: pushInfo
// on every pending output, exchangeInfo on every pending input, push on
// every pending output with data ready, pull on every input that must
// pull. It returns Connected once every registered slot has completed
// every step it requires, Connecting if this pass made new progress,
// and ConnectingIdle otherwise. The connector never regresses a slot
// that has already succeeded.
func (c *Connector) TryConnect(t fint.Time) (Status, error) {
	progressed := false
	allDone := true

	for _, o := range c.outputs {
		if !o.infoPushed {
			if inf, ok := o.pushInfo(); ok {
				if err := o.out.PushInfo(inf); err != nil {
					return 0, c.wrapSetup(o.name, "pushInfo", err)
				}
				o.infoPushed = true
				progressed = true
			}
		}
	}

	for _, in := range c.inputs {
		if !in.infoExchanged {
			resolved, err := in.in.ExchangeInfo(in.desired)
			if err != nil {
				if isTransientConnect(err) {
					allDone = false
					continue
				}
				return 0, c.wrapMetadata(in.name, "exchangeInfo", err)
			}
			in.infoExchanged = true
			progressed = true
			if in.onResolved != nil {
				in.onResolved(resolved)
			}
		}
	}

	for _, o := range c.outputs {
		if o.infoPushed && !o.dataPushed && o.pushData != nil {
			if env, ok := o.pushData(); ok {
				if err := o.out.Push(env); err != nil {
					return 0, c.wrapData(o.name, "push", err)
				}
				o.out.NotifyTargets(env.Time())
				o.dataPushed = true
				progressed = true
			}
		}
	}

	for _, in := range c.inputs {
		if in.infoExchanged && in.mustPull && !in.dataPulled {
			env, err := in.in.Pull(t)
			if err != nil {
				if isTransientConnect(err) {
					allDone = false
					continue
				}
				return 0, c.wrapData(in.name, "pull", err)
			}
			in.dataPulled = true
			progressed = true
			if in.onPulled != nil {
				in.onPulled(env)
			}
		}
	}

	for _, o := range c.outputs {
		if !o.infoPushed || (o.pushData != nil && !o.dataPushed) {
			allDone = false
		}
	}
	for _, in := range c.inputs {
		if !in.infoExchanged || (in.mustPull && !in.dataPulled) {
			allDone = false
		}
	}

	switch {
	case allDone:
		return Connected, nil
	case progressed:
		return Connecting, nil
	default:
		return ConnectingIdle, nil
	}
}

// isTransientConnect reports whether err represents an expected
// not-ready-yet condition during Connect (no data pushed upstream yet)
// rather than a hard failure.
func isTransientConnect(err error) bool {
	return err != nil && errors.Is(err, finamerr.ErrNoData)
}

func (c *Connector) wrapSetup(slot, phase string, cause error) error {
	return fmt.Errorf("%s: %w", c.component, &finamerr.SetupError{Component: c.component, Slot: slot, Phase: phase, Cause: cause})
}

func (c *Connector) wrapMetadata(slot, phase string, cause error) error {
	return fmt.Errorf("%s: %w", c.component, &finamerr.SetupError{Component: c.component, Slot: slot, Phase: phase, Cause: cause})
}

func (c *Connector) wrapData(slot, phase string, cause error) error {
	return fmt.Errorf("%s: %w", c.component, &finamerr.DataError{Component: c.component, Slot: slot, Phase: phase, Cause: cause})
}
