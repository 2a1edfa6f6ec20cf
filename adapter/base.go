// Package adapter implements FINAM's Adapter variants: stateless
// pull-only transforms and time-caching adapters that buffer the two
// samples bracketing the last pull. An Adapter is simultaneously a
// port.Target (upstream-facing, like an Input) and a port.Source
// (downstream-facing, like an Output), so it can sit anywhere on a
// link without either endpoint knowing it is there.
package adapter

import (
	"fmt"

	"github.com/sarchlab/finam/data"
	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
	"github.com/sarchlab/finam/info"
	"github.com/sarchlab/finam/port"
)

// Base implements the plumbing shared by every Adapter: naming, the
// upstream Source binding, the downstream Target list, and Info
// negotiation forwarding. Concrete adapters supply a pullFn (answering
// GetData) and, for the time-caching family, an updateFn (answering
// SourceUpdated).
type Base struct {
	name   string
	logger port.Logger

	source   port.Source
	bound    bool
	targets  []port.Target
	noBranch bool

	connecting bool

	// transformDesired/transformResolved let a concrete adapter
	// intercept metadata exchange: on receiving a downstream
	// exchangeInfo it may transform the request before calling
	// upstream, and transform the returned Info before returning it.
	transformDesired  func(info.Info) info.Info
	transformResolved func(info.Info) info.Info

	pullFn    func(t fint.Time, requester string) (data.Envelope, error)
	updateFn  func(t fint.Time)
	isDelay   bool
	isCaching bool
}

// NewBase constructs the shared Adapter plumbing. pullFn must be set by
// every concrete adapter; updateFn may be nil for stateless/pull-only
// adapters, whose SourceUpdated stays a no-op.
func NewBase(name string, logger port.Logger) *Base {
	return &Base{name: name, logger: port.OrDiscard(logger)}
}

// Name returns the adapter's name.
func (b *Base) Name() string { return b.name }

// SetNoBranch marks this adapter so a second downstream Chain call
// fails BranchingNotSupported — used by time-caching adapters whose
// retention window is defined for exactly one consumer.
func (b *Base) SetNoBranch() { b.noBranch = true }

// SetDelay marks this adapter as a dependency-cut (delay) edge for the
// scheduler's cycle detection.
func (b *Base) SetDelay() { b.isDelay = true }

// IsDelay reports whether this adapter is a delay edge.
func (b *Base) IsDelay() bool { return b.isDelay }

// TimeCaching implements the cacheMarker interface port.Output.Chain
// checks to reject a static output feeding a time-caching adapter.
func (b *Base) TimeCaching() bool { return b.isCaching }

// SetTimeCaching marks this adapter as time-caching.
func (b *Base) SetTimeCaching() { b.isCaching = true }

// SetTransforms installs the metadata interceptors used by adapters
// that negotiate both ends (unit converters, regridders).
func (b *Base) SetTransforms(desired, resolved func(info.Info) info.Info) {
	b.transformDesired = desired
	b.transformResolved = resolved
}

// SetPull installs the function answering GetData/Pull.
func (b *Base) SetPull(fn func(t fint.Time, requester string) (data.Envelope, error)) {
	b.pullFn = fn
}

// SetOnUpdate installs the function answering SourceUpdated, used by
// time-caching adapters to eagerly pull-and-buffer.
func (b *Base) SetOnUpdate(fn func(t fint.Time)) {
	b.updateFn = fn
}

// SetSource binds the adapter's upstream source.
func (b *Base) SetSource(src port.Source) error {
	if b.bound {
		return fmt.Errorf("adapter %s: %w", b.name, finamerr.ErrAlreadyBound)
	}
	b.source = src
	b.bound = true
	return src.Chain(b)
}

// SourceUpdated invokes updateFn if set; otherwise it is a no-op,
// matching the stateless/pull-only adapter default.
func (b *Base) SourceUpdated(t fint.Time) {
	if b.updateFn != nil {
		b.updateFn(t)
	}
}

// Chain attaches a downstream target, honoring noBranch and the
// post-Connect immutability rule.
func (b *Base) Chain(target port.Target) error {
	if b.connecting {
		return fmt.Errorf("adapter %s: chain after connect began: %w", b.name, finamerr.ErrAlreadyConnecting)
	}
	if b.noBranch && len(b.targets) >= 1 {
		return fmt.Errorf("adapter %s: second target %s: %w", b.name, target.Name(), finamerr.ErrBranching)
	}
	b.targets = append(b.targets, target)
	return nil
}

// BeginConnecting closes further Chain calls, mirroring Output.
func (b *Base) BeginConnecting() { b.connecting = true }

// NotifyTargets fires SourceUpdated on every downstream target, in
// insertion order, used by time-caching adapters once they have
// buffered a newly-pulled sample.
func (b *Base) NotifyTargets(t fint.Time) {
	for _, target := range b.targets {
		target.SourceUpdated(t)
	}
}

// Negotiate forwards desired upstream (through transformDesired if
// set), then returns the resolved Info (through transformResolved if
// set) back to the caller.
func (b *Base) Negotiate(desired info.Info) (info.Info, error) {
	if b.source == nil {
		return info.Info{}, fmt.Errorf("adapter %s: no upstream source bound", b.name)
	}

	upstreamDesired := desired
	if b.transformDesired != nil {
		upstreamDesired = b.transformDesired(desired)
	}

	resolved, err := b.source.Negotiate(upstreamDesired)
	if err != nil {
		return info.Info{}, fmt.Errorf("adapter %s: %w", b.name, err)
	}

	if b.transformResolved != nil {
		resolved = b.transformResolved(resolved)
	}

	return resolved, nil
}

// GetData answers a pull by calling pullFn, which must be set by the
// concrete adapter constructor.
func (b *Base) GetData(t fint.Time, requester string) (data.Envelope, error) {
	if b.pullFn == nil {
		return data.Envelope{}, fmt.Errorf("adapter %s: no pull function configured", b.name)
	}
	return b.pullFn(t, requester)
}

// PullUpstream is the helper every concrete adapter's pullFn uses to
// fetch from the bound source.
func (b *Base) PullUpstream(t fint.Time) (data.Envelope, error) {
	if b.source == nil {
		return data.Envelope{}, fmt.Errorf("adapter %s: no upstream source bound", b.name)
	}
	return b.source.GetData(t, b.name)
}

// Finalize releases the adapter's resources. Stateless/time-caching
// adapters hold nothing beyond an in-memory buffer, so the default is a
// no-op; it exists so every Adapter satisfies composition.Finalizer
// and gets torn down alongside the components.
func (b *Base) Finalize() error { return nil }
