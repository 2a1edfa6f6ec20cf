// Package port implements FINAM's push/pull dataflow endpoints: Output
// (a push target with time-indexed history) and Input (a pull source
// with automatic unit/grid reconciliation), plus their callback
// variants. Every endpoint is owned by exactly one component; peers
// hold non-owning references established at wiring time.
package port

import (
	"fmt"
	"sync"

	"github.com/sarchlab/finam/data"
	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
	"github.com/sarchlab/finam/info"
)

// Target is the downstream-facing capability a Source notifies: both
// Input and Adapter implement it.
type Target interface {
	Name() string
	SourceUpdated(t fint.Time)
}

// Source is the upstream-facing capability an Input or Adapter pulls
// from and negotiates metadata with: both Output and Adapter implement
// it.
type Source interface {
	Name() string
	// Negotiate runs one Connect-phase exchangeInfo pass: desired fills
	// the fields the source has not resolved yet, and the result is
	// returned to the caller (an Output also keeps it as its own Info).
	Negotiate(desired info.Info) (info.Info, error)
	// GetData answers a pull at time t on behalf of requester (used to
	// track per-target watermarks for retention).
	GetData(t fint.Time, requester string) (data.Envelope, error)
	// Chain attaches a downstream Target. Fails AlreadyConnecting once
	// Connect has begun and NoBranch forbids a second target.
	Chain(target Target) error
}

// Mode classifies a link endpoint for the scheduler's dead-link
// detection.
type Mode int

const (
	ModePush Mode = iota
	ModePull
)

// entry is one time-indexed record in an Output's history.
type entry struct {
	env data.Envelope
}

func (e entry) time() fint.Time { return e.env.Time() }

// Output is the push endpoint: it accepts pushes, keeps time-indexed
// history, notifies downstream targets, and serves pulls with step-left
// semantics.
type Output struct {
	mu sync.Mutex

	name   string
	static bool

	logger Logger

	info        info.Info
	infoPushed  bool
	connectOpen bool // never set or read; the connect phase is tracked by connecting

	history []entry

	targets      []Target
	watermarks   map[string]fint.Time
	hasWatermark map[string]bool

	noBranch bool // true forbids a second target (used by some adapters' downstream side)

	connecting bool // Connect phase has begun; Chain now fails AlreadyConnecting

	spill *spiller
}

// NewOutput creates a push endpoint named name. A nil logger disables
// logging.
func NewOutput(name string, logger Logger) *Output {
	return &Output{
		name:         name,
		logger:       orDiscard(logger),
		watermarks:   map[string]fint.Time{},
		hasWatermark: map[string]bool{},
	}
}

// NewStaticOutput creates an Output variant in which only one push is
// ever legal and every pull returns that single entry regardless of the
// requested time.
func NewStaticOutput(name string, logger Logger) *Output {
	o := NewOutput(name, logger)
	o.static = true
	return o
}

// WithMemoryLimit configures a byte budget and scratch directory for
// disk spill. A zero limit means unlimited (the default).
func (o *Output) WithMemoryLimit(limitBytes int64, scratchDir string) *Output {
	if limitBytes > 0 {
		o.spill = newSpiller(o.name, limitBytes, scratchDir)
	}
	return o
}

// Name returns the output's name.
func (o *Output) Name() string { return o.name }

// IsStatic reports whether this is a static output.
func (o *Output) IsStatic() bool { return o.static }

// SetNoBranch marks this output so a second Chain call fails
// BranchingNotSupported, used by single-consumer time-caching adapters.
func (o *Output) SetNoBranch() { o.noBranch = true }

// BeginConnecting marks the Connect phase as started: further Chain
// calls fail AlreadyConnecting, since links are immutable once the
// Connect phase begins.
func (o *Output) BeginConnecting() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.connecting = true
}

// Chain attaches a downstream Target to this output.
func (o *Output) Chain(target Target) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.connecting {
		return fmt.Errorf("output %s: chain after connect began: %w", o.name, finamerr.ErrAlreadyConnecting)
	}
	if o.noBranch && len(o.targets) >= 1 {
		return fmt.Errorf("output %s: second target %s: %w", o.name, target.Name(), finamerr.ErrBranching)
	}
	if o.static {
		if _, ok := target.(cacheMarker); ok {
			return fmt.Errorf("output %s: static output feeding time-caching adapter %s: %w", o.name, target.Name(), finamerr.ErrStaticWithCache)
		}
	}

	o.targets = append(o.targets, target)
	o.logger.Debug("chained target", "output", o.name, "target", target.Name())
	return nil
}

// cacheMarker is implemented by time-caching adapters so Output.Chain
// can reject the static+cache combination: a static output has one
// value for all time, so caching it is always wasted state.
type cacheMarker interface {
	TimeCaching() bool
}

// PushInfo stores the published Info during Connect, validating it is
// consistent with the slot's own requirements. Calling PushInfo again
// with an incompatible Info fails MetadataConflict (ErrMetadata).
func (o *Output) PushInfo(inf info.Info) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.infoPushed {
		if reason := o.info.Accepts(inf, false); reason != info.ReasonOK {
			return fmt.Errorf("output %s: metadata conflict: %s: %w", o.name, reason, finamerr.ErrMetadata)
		}
	}

	o.info = o.info.Merge(inf)
	o.infoPushed = true
	return nil
}

// Info returns the output's currently published Info and whether
// PushInfo has been called yet.
func (o *Output) Info() (info.Info, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.info, o.infoPushed
}

// Negotiate implements Source: it merges the downstream's desired Info
// into the output's own and returns the resolved result. Adapters may
// wrap this to transform desired before forwarding, and the result
// after receiving it.
func (o *Output) Negotiate(desired info.Info) (info.Info, error) {
	o.mu.Lock()
	o.info = o.info.Merge(desired)
	resolved := o.info
	o.mu.Unlock()
	return resolved, nil
}

// Push appends a new envelope to the history. It fails TimeRegress if
// env.Time() does not strictly exceed the previous push's time (an equal
// time is rejected as well, including on the first push after Connect),
// AliasedBuffer if the payload shares memory with the previous push, and
// OutOfRange if the memory limit cannot be honored via spill. A static
// output accepts exactly one push; later pushes fail with ErrData.
func (o *Output) Push(env data.Envelope) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.static && len(o.history) >= 1 {
		return fmt.Errorf("static output %s: only one push is legal: %w", o.name, finamerr.ErrData)
	}

	if len(o.history) > 0 {
		last := o.history[len(o.history)-1]
		if !env.Time().After(last.time()) {
			return fmt.Errorf("output %s: push at %s does not strictly exceed previous push at %s: %w",
				o.name, env.Time(), last.time(), finamerr.ErrTimeRegress)
		}
		if env.AliasesWith(last.env) {
			return fmt.Errorf("output %s: push shares backing memory with previous push: %w", o.name, finamerr.ErrAliasedBuffer)
		}
	}

	o.history = append(o.history, entry{env: env})
	o.logger.Debug("pushed", "output", o.name, "time", env.Time().String())

	if err := o.maybeSpill(); err != nil {
		return fmt.Errorf("output %s: %w", o.name, err)
	}

	return nil
}

// NotifyTargets fires SourceUpdated(time) on every target in insertion
// order. All notifications complete, synchronously, before
// NotifyTargets returns — and therefore before the pushing component's
// call stack unwinds back to a point where it could push again.
func (o *Output) NotifyTargets(t fint.Time) {
	o.mu.Lock()
	targets := append([]Target(nil), o.targets...)
	o.mu.Unlock()

	for _, target := range targets {
		target.SourceUpdated(t)
	}
}

// GetData returns the entry at time t if held, or the entry immediately
// before t (step-left) if t falls strictly between two adjacent
// entries. A static output always returns its single entry. Fails
// NoData if no qualifying entry exists. Advances requester's watermark
// to t and evicts entries no longer required by any target.
func (o *Output) GetData(t fint.Time, requester string) (data.Envelope, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.static {
		if len(o.history) == 0 {
			return data.Envelope{}, fmt.Errorf("static output %s: no data pushed yet: %w", o.name, finamerr.ErrNoData)
		}
		return o.history[0].env, nil
	}

	env, err := o.lookup(t)
	if err != nil {
		return data.Envelope{}, fmt.Errorf("output %s: %w", o.name, err)
	}

	o.hasWatermark[requester] = true
	o.watermarks[requester] = t
	o.evict()

	return env, nil
}

// lookup finds, in memory or in spill, the latest entry with time <= t.
func (o *Output) lookup(t fint.Time) (data.Envelope, error) {
	for i := len(o.history) - 1; i >= 0; i-- {
		if !o.history[i].time().After(t) {
			return o.history[i].env, nil
		}
	}
	if o.spill != nil {
		if env, ok := o.spill.find(t); ok {
			return env, nil
		}
	}
	return data.Envelope{}, finamerr.ErrNoData
}

// evict discards in-memory entries older than the latest entry at or
// before the smallest target watermark. It does not spill; entries are
// spilled only by Push when a memory limit is configured.
func (o *Output) evict() {
	if len(o.targets) == 0 || len(o.hasWatermark) < len(o.targets) {
		return
	}

	min := o.watermarks[o.targets[0].Name()]
	allSeen := true
	for _, target := range o.targets {
		if !o.hasWatermark[target.Name()] {
			allSeen = false
			break
		}
		if o.watermarks[target.Name()].Before(min) {
			min = o.watermarks[target.Name()]
		}
	}
	if !allSeen {
		return
	}

	boundary := -1
	for i := len(o.history) - 1; i >= 0; i-- {
		if !o.history[i].time().After(min) {
			boundary = i
			break
		}
	}
	if boundary <= 0 {
		return
	}
	o.history = append([]entry(nil), o.history[boundary:]...)
}

func (o *Output) maybeSpill() error {
	if o.spill == nil {
		return nil
	}
	for o.spill.overBudget(o.history) {
		if len(o.history) <= 1 {
			return finamerr.ErrOutOfRange
		}
		oldest := o.history[0]
		if err := o.spill.write(oldest.env); err != nil {
			return fmt.Errorf("spill: %w", err)
		}
		o.history = o.history[1:]
	}
	return nil
}

// Close releases the output's spill resources, if any. Called during
// Composition finalize.
func (o *Output) Close() error {
	if o.spill == nil {
		return nil
	}
	return o.spill.close()
}
