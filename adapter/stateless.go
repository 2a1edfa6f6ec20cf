package adapter

import (
	"fmt"

	"github.com/sarchlab/finam/data"
	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
	"github.com/sarchlab/finam/info"
	"github.com/sarchlab/finam/port"
)

// Scale is a stateless adapter that multiplies every payload element by
// a constant factor. It overrides only GetData (via pullFn); it holds
// no history of its own.
type Scale struct {
	*Base
	factor float64
}

// NewScale builds a Scale adapter.
func NewScale(name string, factor float64, logger port.Logger) *Scale {
	s := &Scale{Base: NewBase(name, logger), factor: factor}
	s.SetPull(s.pull)
	return s
}

func (s *Scale) pull(t fint.Time, requester string) (data.Envelope, error) {
	env, err := s.PullUpstream(t)
	if err != nil {
		return data.Envelope{}, err
	}
	scaled := make([]float64, len(env.Payload()))
	for i, v := range env.Payload() {
		scaled[i] = v * s.factor
	}
	return env.WithPayload(scaled, env.Time()), nil
}

// CallbackMap is a stateless adapter applying an arbitrary user function
// to the upstream payload, used for ad-hoc transforms a named adapter
// type doesn't cover.
type CallbackMap struct {
	*Base
	fn func(values []float64) []float64
}

// NewCallbackMap builds a CallbackMap adapter.
func NewCallbackMap(name string, fn func([]float64) []float64, logger port.Logger) *CallbackMap {
	c := &CallbackMap{Base: NewBase(name, logger), fn: fn}
	c.SetPull(c.pull)
	return c
}

func (c *CallbackMap) pull(t fint.Time, requester string) (data.Envelope, error) {
	env, err := c.PullUpstream(t)
	if err != nil {
		return data.Envelope{}, err
	}
	return env.WithPayload(c.fn(env.Payload()), env.Time()), nil
}

// GridToScalar reduces a gridded payload to a single scalar via an
// aggregation function (e.g. mean, sum), used to feed a scalar-only
// downstream component.
type GridToScalar struct {
	*Base
	reduce func(values []float64) float64
}

// NewGridToScalar builds a GridToScalar adapter. A nil reduce defaults
// to the arithmetic mean.
func NewGridToScalar(name string, reduce func([]float64) float64, logger port.Logger) *GridToScalar {
	if reduce == nil {
		reduce = mean
	}
	g := &GridToScalar{Base: NewBase(name, logger), reduce: reduce}
	g.SetPull(g.pull)
	return g
}

func (g *GridToScalar) pull(t fint.Time, requester string) (data.Envelope, error) {
	env, err := g.PullUpstream(t)
	if err != nil {
		return data.Envelope{}, err
	}
	scalar := []float64{g.reduce(env.Payload())}
	return env.WithGrid(data.NewNoGrid(0, []int{1})).WithPayload(scalar, env.Time()), nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// ScalarToGrid broadcasts a scalar payload onto a fixed target grid,
// the inverse of GridToScalar.
type ScalarToGrid struct {
	*Base
	target data.Grid
}

// NewScalarToGrid builds a ScalarToGrid adapter broadcasting onto
// target.
func NewScalarToGrid(name string, target data.Grid, logger port.Logger) *ScalarToGrid {
	s := &ScalarToGrid{Base: NewBase(name, logger), target: target}
	s.SetPull(s.pull)
	return s
}

func (s *ScalarToGrid) pull(t fint.Time, requester string) (data.Envelope, error) {
	env, err := s.PullUpstream(t)
	if err != nil {
		return data.Envelope{}, err
	}
	if len(env.Payload()) != 1 {
		return data.Envelope{}, fmt.Errorf("scalar-to-grid %s: upstream payload is not scalar: %w", s.name, finamerr.ErrShapeMismatch)
	}
	broadcast := make([]float64, s.target.Size())
	for i := range broadcast {
		broadcast[i] = env.Payload()[0]
	}
	return env.WithGrid(s.target).WithPayload(broadcast, env.Time()), nil
}

// Regridder is the external collaborator interface FINAM's core
// consumes for concrete regridding kernels: it maps a payload shaped
// for `from` onto
// `to`. RegridNearest and RegridLinear differ only in which Regridder
// implementation they are configured with — the core ships none, since
// the actual geometry math is a model author's concern.
type Regridder interface {
	Regrid(payload []float64, from, to data.Grid) ([]float64, error)
}

// RegridAdapter backs both NewRegridNearest and NewRegridLinear, each
// driven by a caller-supplied Regridder; the two constructor names exist
// so a composition's wiring code reads as
// "nearest-neighbor regridding happens here" even though the kernel
// itself is pluggable.
type RegridAdapter struct {
	*Base
	target    data.Grid
	regridder Regridder
}

// NewRegridNearest builds a stateless adapter that regrids via
// regridder onto target, intended to be paired with a
// nearest-neighbor Regridder implementation.
func NewRegridNearest(name string, target data.Grid, regridder Regridder, logger port.Logger) *RegridAdapter {
	return newRegrid(name, target, regridder, logger)
}

// NewRegridLinear builds a stateless adapter identical in shape to
// NewRegridNearest's but intended to be paired with a linear-weights
// Regridder implementation.
func NewRegridLinear(name string, target data.Grid, regridder Regridder, logger port.Logger) *RegridAdapter {
	return newRegrid(name, target, regridder, logger)
}

func newRegrid(name string, target data.Grid, regridder Regridder, logger port.Logger) *RegridAdapter {
	r := &RegridAdapter{Base: NewBase(name, logger), target: target, regridder: regridder}
	r.SetPull(r.pull)
	r.SetTransforms(
		func(desired info.Info) info.Info { return desired.ClearGrid() },
		func(resolved info.Info) info.Info { return resolved.WithGrid(target) },
	)
	return r
}

func (r *RegridAdapter) pull(t fint.Time, requester string) (data.Envelope, error) {
	env, err := r.PullUpstream(t)
	if err != nil {
		return data.Envelope{}, err
	}
	regridded, rerr := r.regridder.Regrid(env.Payload(), env.Grid(), r.target)
	if rerr != nil {
		return data.Envelope{}, fmt.Errorf("regrid %s: %w", r.name, rerr)
	}
	return env.WithGrid(r.target).WithPayload(regridded, env.Time()), nil
}

// Reprojector is the external collaborator interface for CRS
// reprojection kernels. Reproject wraps one.
type Reprojector interface {
	Reproject(payload []float64, from, to data.Grid) ([]float64, error)
}

// Reproject is a stateless adapter delegating to a Reprojector.
type Reproject struct {
	*Base
	target      data.Grid
	reprojector Reprojector
}

// NewReproject builds a Reproject adapter targeting target via
// reprojector.
func NewReproject(name string, target data.Grid, reprojector Reprojector, logger port.Logger) *Reproject {
	p := &Reproject{Base: NewBase(name, logger), target: target, reprojector: reprojector}
	p.SetPull(p.pull)
	return p
}

func (p *Reproject) pull(t fint.Time, requester string) (data.Envelope, error) {
	env, err := p.PullUpstream(t)
	if err != nil {
		return data.Envelope{}, err
	}
	reprojected, rerr := p.reprojector.Reproject(env.Payload(), env.Grid(), p.target)
	if rerr != nil {
		return data.Envelope{}, fmt.Errorf("reproject %s: %w", p.name, rerr)
	}
	return env.WithGrid(p.target).WithPayload(reprojected, env.Time()), nil
}
