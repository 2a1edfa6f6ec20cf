package port

import (
	"fmt"

	"github.com/sarchlab/finam/data"
	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
	"github.com/sarchlab/finam/info"
)

// Input is the pull endpoint: it binds to exactly one Source, negotiates
// metadata during Connect, and pulls data from the source applying
// automatic unit conversion and compatible-by-transform grid reshaping.
type Input struct {
	name   string
	logger Logger

	source Source
	bound  bool

	desired   info.Info
	resolved  info.Info
	exchanged bool

	onUpdate func(t fint.Time) // optional, used by CallbackInput
}

// NewInput creates a pull endpoint named name with the given desired
// Info (fields the owning component already knows, e.g. target units).
func NewInput(name string, desired info.Info, logger Logger) *Input {
	return &Input{name: name, desired: desired, logger: orDiscard(logger)}
}

// Name returns the input's name.
func (in *Input) Name() string { return in.name }

// SetSource binds this input to an upstream Source. Fails AlreadyBound
// if a source is already set.
func (in *Input) SetSource(src Source) error {
	if in.bound {
		return fmt.Errorf("input %s: %w", in.name, finamerr.ErrAlreadyBound)
	}
	in.source = src
	in.bound = true
	return src.Chain(in)
}

// ExchangeInfo sends desired upstream and receives back the Info the
// source will actually deliver, failing Incompatible on mismatch. It is
// called repeatedly during Connect until the result stabilizes
// (idempotent once resolved).
func (in *Input) ExchangeInfo(desired info.Info) (info.Info, error) {
	if in.source == nil {
		return info.Info{}, fmt.Errorf("input %s: not bound to a source", in.name)
	}

	resolved, err := in.source.Negotiate(desired)
	if err != nil {
		return info.Info{}, fmt.Errorf("input %s: %w", in.name, err)
	}

	if reason := desired.Accepts(resolved, true); reason != info.ReasonOK {
		return info.Info{}, fmt.Errorf("input %s: incompatible with source %s: %s: %w",
			in.name, in.source.Name(), reason, finamerr.ErrMetadata)
	}

	in.resolved = desired.Merge(resolved)
	in.exchanged = true
	return in.resolved, nil
}

// Resolved reports whether ExchangeInfo has produced a fully-resolved
// Info (time, grid, units all set).
func (in *Input) Resolved() (info.Info, bool) {
	return in.resolved, in.exchanged && in.resolved.Resolved()
}

// SourceUpdated is invoked by the bound source when new data becomes
// available. The default behavior is a no-op; CallbackInput overrides
// it to invoke a user callback.
func (in *Input) SourceUpdated(t fint.Time) {
	if in.onUpdate != nil {
		in.onUpdate(t)
	}
}

// Pull requests data at time t from the bound source, applying unit
// conversion (a no-op when units already match) and the automatic
// axis-order grid transform when source and target grids are
// compatible-by-transform. Fails NoData upward, unwrapped, so the
// Connector can distinguish it from a true ErrData case.
func (in *Input) Pull(t fint.Time) (data.Envelope, error) {
	if in.source == nil {
		return data.Envelope{}, fmt.Errorf("input %s: not bound to a source", in.name)
	}

	env, err := in.source.GetData(t, in.name)
	if err != nil {
		return data.Envelope{}, err
	}

	targetUnits, haveUnits := in.resolved.Units()
	if haveUnits {
		converted, cerr := env.ConvertUnits(targetUnits)
		if cerr != nil {
			return data.Envelope{}, fmt.Errorf("input %s: %w: %v", in.name, finamerr.ErrUnitsIncompatible, cerr)
		}
		env = converted
	}

	if targetGrid, haveGrid := in.resolved.Grid(); haveGrid {
		if !targetGrid.Equal(env.Grid()) && targetGrid.CompatibleByTransform(env.Grid()) {
			reindexed, terr := data.Transform(env.Payload(), env.Grid(), targetGrid)
			if terr != nil {
				return data.Envelope{}, fmt.Errorf("input %s: grid transform: %w", in.name, terr)
			}
			env = env.WithGrid(targetGrid)
			env = env.WithPayload(reindexed, env.Time())
		}
	}

	in.logger.Log(LevelTrace, "pulled", "input", in.name, "time", t.String())

	return env, nil
}
