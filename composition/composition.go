// Package composition implements the Composition container: component
// and adapter registration, the `>>` chain-wiring equivalent, the
// Connect fixpoint driver, the run loop over a scheduler.Scheduler, and
// finalize. The container exclusively owns every hosted unit's
// lifecycle calls and carries the cooperative stop signal.
package composition

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/rs/xid"

	"github.com/sarchlab/finam/component"
	"github.com/sarchlab/finam/config"
	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
	"github.com/sarchlab/finam/port"
	"github.com/sarchlab/finam/scheduler"
)

// Finalizer is implemented by adapters (and any component that needs
// extra teardown beyond component.Component.Finalize): Composition
// calls Finalize on every registered adapter after every component.
type Finalizer interface {
	Finalize() error
}

// registeredComponent pairs a Component with its optional TimeStepper
// view (nil for stateless components) and its assigned short ID.
type registeredComponent struct {
	id   string
	comp component.Component
	ts   component.TimeStepper
}

// link records one wired output->target edge for the dependency graph
// and metadata reporting.
type link struct {
	id             string
	name           string
	fromComponent  string
	toComponent    string
	delay          bool
	upstreamPull   bool
	downstreamPush bool
}

// Composition is FINAM's wiring and run container.
type Composition struct {
	opts   config.Options
	logger *slog.Logger

	components []*registeredComponent
	byName     map[string]*registeredComponent
	adapters   []Finalizer
	links      []link
	outputs    []*port.Output // registered for Close() at finalize

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a Composition from opts. A background context is derived
// internally; Stop cancels it.
func New(opts config.Options) (*Composition, error) {
	logger, err := opts.Logger()
	if err != nil {
		return nil, fmt.Errorf("composition: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Composition{
		opts:   opts,
		logger: logger,
		byName: map[string]*registeredComponent{},
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Register adds a component to the composition, assigning it a short
// ID. If comp also implements component.TimeStepper it participates in
// scheduling; otherwise it is advanced only via push/pull notification.
func (c *Composition) Register(comp component.Component) {
	rc := &registeredComponent{id: xid.New().String(), comp: comp}
	if ts, ok := comp.(component.TimeStepper); ok {
		rc.ts = ts
	}
	c.components = append(c.components, rc)
	c.byName[comp.Name()] = rc
	c.logger.Debug("registered component", "name", comp.Name(), "id", rc.id)
}

// RegisterAdapter adds an adapter for Finalize-on-teardown bookkeeping.
func (c *Composition) RegisterAdapter(a Finalizer) {
	c.adapters = append(c.adapters, a)
}

// RegisterOutput tracks an Output so Close() (disk-spill cleanup) runs
// during finalize.
func (c *Composition) RegisterOutput(o *port.Output) {
	c.outputs = append(c.outputs, o)
}

// Link records the dependency-graph side of a `>>` wiring, the
// bookkeeping the scheduler needs: fromComponent
// produces data that toComponent consumes, optionally through a delay
// edge, each endpoint classified push/pull-only for dead-link detection.
// Composition does not itself call target.SourceUpdated/Chain — callers
// wire the actual port objects directly and then describe the edge here
// so the scheduler's graph and Metadata() stay accurate.
func (c *Composition) Link(name, fromComponent, toComponent string, delay, upstreamPull, downstreamPush bool) {
	c.links = append(c.links, link{
		id:             xid.New().String(),
		name:           name,
		fromComponent:  fromComponent,
		toComponent:    toComponent,
		delay:          delay,
		upstreamPull:   upstreamPull,
		downstreamPush: downstreamPush,
	})
}

// Initialize runs Initialize on every registered component, in
// registration order, aborting on the first failure.
func (c *Composition) Initialize() error {
	for _, rc := range c.components {
		if err := rc.comp.Initialize(); err != nil {
			return fmt.Errorf("composition: initialize: %w", err)
		}
	}
	return nil
}

// Connect first validates the wired dependency graph (cycles without a
// delay edge, dead links — both setup errors reported before any data
// is exchanged), then runs the Connect fixpoint to completion:
// repeatedly calling Connect on every component not yet CONNECTED until
// all are, or until every non-CONNECTED component reports
// CONNECTING_IDLE in the same pass (ErrConnectStalled).
func (c *Composition) Connect(t fint.Time) error {
	if err := c.buildGraph().Validate(); err != nil {
		return fmt.Errorf("composition: %w", err)
	}

	for {
		anyPending := false
		anyProgress := false

		for _, rc := range c.components {
			if rc.comp.State() == component.Connected {
				continue
			}
			anyPending = true

			before := rc.comp.State()
			if err := rc.comp.Connect(t); err != nil {
				return fmt.Errorf("composition: connect: %w", err)
			}
			// CONNECTING means the connector made new progress this very
			// pass, even when the state label did not change between two
			// consecutive CONNECTING passes.
			if rc.comp.State() != before || rc.comp.State() == component.ConnectingState {
				anyProgress = true
			}
		}

		if !anyPending {
			return nil
		}
		if !anyProgress {
			return c.stalledError()
		}
	}
}

func (c *Composition) stalledError() error {
	var stalled []string
	for _, rc := range c.components {
		if rc.comp.State() != component.Connected {
			stalled = append(stalled, rc.comp.Name())
		}
	}
	sort.Strings(stalled)
	return fmt.Errorf("composition: stalled components %v: %w", stalled, finamerr.ErrConnectStalled)
}

// buildGraph translates recorded links into a scheduler.Graph.
func (c *Composition) buildGraph() *scheduler.Graph {
	g := scheduler.NewGraph()
	for _, l := range c.links {
		g.AddEdge(l.fromComponent, l.toComponent, l.delay)
		g.AddLink(l.name, l.upstreamPull, l.downstreamPush)
	}
	return g
}

// Run validates every component (calling Validate once Connect has
// completed) and then drives the scheduler until endTime is reached or
// Stop is called, finally running Finalize on every component and
// adapter.
func (c *Composition) Run(endTime fint.Time) error {
	for _, rc := range c.components {
		if err := rc.comp.Validate(); err != nil {
			return c.abort(fmt.Errorf("composition: validate: %w", err))
		}
	}

	graph := c.buildGraph()

	var steppers []component.TimeStepper
	for _, rc := range c.components {
		if rc.ts != nil {
			steppers = append(steppers, rc.ts)
		}
	}

	sched := scheduler.New(steppers, graph, endTime, c.stopped)

	for {
		advanced, err := sched.Step()
		if err != nil {
			return c.abort(fmt.Errorf("composition: run: %w", err))
		}
		if advanced == "" {
			break
		}
		c.logger.Debug("advanced component", "name", advanced)
	}

	return c.finalizeAll()
}

func (c *Composition) stopped() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Stop requests a cooperative shutdown: the scheduler finishes its
// current step and then transitions to finalize.
func (c *Composition) Stop() { c.cancel() }

func (c *Composition) abort(cause error) error {
	_ = c.finalizeAll()
	return cause
}

func (c *Composition) finalizeAll() error {
	var firstErr error
	for _, rc := range c.components {
		if err := rc.comp.Finalize(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("composition: finalize: %w", err)
		}
	}
	for _, a := range c.adapters {
		if err := a.Finalize(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("composition: finalize adapter: %w", err)
		}
	}
	for _, o := range c.outputs {
		if err := o.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("composition: close output %s: %w", o.Name(), err)
		}
	}
	return firstErr
}

// Metadata returns the composition's nested metadata map with two
// sections, per-component and per-link entries; it has no simulation
// time frame section and no per-adapter section.
func (c *Composition) Metadata() map[string]any {
	meta := map[string]any{}

	components := map[string]any{}
	for _, rc := range c.components {
		entry := map[string]any{"id": rc.id, "state": rc.comp.State().String()}
		if rc.ts != nil {
			entry["time"] = rc.ts.Time().String()
			entry["nextTime"] = rc.ts.NextTime().String()
		}
		components[rc.comp.Name()] = entry
	}
	meta["components"] = components

	links := map[string]any{}
	for _, l := range c.links {
		links[l.name] = map[string]any{
			"id":    l.id,
			"from":  l.fromComponent,
			"to":    l.toComponent,
			"delay": l.delay,
		}
	}
	meta["links"] = links

	return meta
}
