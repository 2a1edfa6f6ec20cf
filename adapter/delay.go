package adapter

import (
	"fmt"

	"github.com/sarchlab/finam/data"
	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
	"github.com/sarchlab/finam/port"
)

// FixedDelay is a stateless adapter answering a pull at time t with
// upstream's data at t-offset, used to break circular dependencies: the
// scheduler treats it as a dependency-cut edge.
type FixedDelay struct {
	*Base
	offset fint.Duration
}

// NewFixedDelay builds a FixedDelay adapter shifting every pull back by
// offset.
func NewFixedDelay(name string, offset fint.Duration, logger port.Logger) *FixedDelay {
	f := &FixedDelay{Base: NewBase(name, logger), offset: offset}
	f.SetDelay()
	f.SetPull(f.pull)
	return f
}

func (f *FixedDelay) pull(t fint.Time, requester string) (data.Envelope, error) {
	env, err := f.PullUpstream(shiftBack(t, f.offset))
	if err != nil {
		return data.Envelope{}, err
	}
	return env.WithPayload(env.Payload(), t), nil
}

// DelayToPull behaves like FixedDelay but breaks a cycle from the
// pulling side: the
// request time itself is shifted before being sent upstream.
type DelayToPull struct {
	*Base
	offset fint.Duration
}

// NewDelayToPull builds a DelayToPull adapter.
func NewDelayToPull(name string, offset fint.Duration, logger port.Logger) *DelayToPull {
	d := &DelayToPull{Base: NewBase(name, logger), offset: offset}
	d.SetDelay()
	d.SetPull(d.pull)
	return d
}

func (d *DelayToPull) pull(t fint.Time, requester string) (data.Envelope, error) {
	shiftedTime := shiftBack(t, d.offset)
	env, err := d.PullUpstream(shiftedTime)
	if err != nil {
		return data.Envelope{}, err
	}
	return env.WithPayload(env.Payload(), t), nil
}

// DelayToPush is the push-side delay variant: it buffers every sample
// as it arrives (via SourceUpdated) and answers pulls from that buffer
// shifted forward by offset, decoupling a push-based producer from a
// consumer one step ahead of it in simulated time.
type DelayToPush struct {
	*Base
	buf    sampleBuffer
	offset fint.Duration
}

// NewDelayToPush builds a DelayToPush adapter.
func NewDelayToPush(name string, offset fint.Duration, logger port.Logger) *DelayToPush {
	d := &DelayToPush{Base: NewBase(name, logger), offset: offset}
	d.SetDelay()
	d.SetTimeCaching()
	d.SetNoBranch()
	d.SetOnUpdate(d.onUpdate)
	d.SetPull(d.pull)
	return d
}

func (d *DelayToPush) onUpdate(t fint.Time) {
	env, err := d.PullUpstream(t)
	if err != nil {
		return
	}
	d.buf.push(env.WithPayload(env.Payload(), t.Add(d.offset)))
	d.NotifyTargets(t.Add(d.offset))
}

func (d *DelayToPush) pull(t fint.Time, requester string) (data.Envelope, error) {
	lower, _, haveLower, _ := d.buf.bracket(t)
	defer d.buf.evictBefore(t)
	if !haveLower {
		return data.Envelope{}, fmt.Errorf("delay to push %s: %w", d.name, finamerr.ErrNoData)
	}
	return lower, nil
}

func shiftBack(t fint.Time, d fint.Duration) fint.Time {
	neg := fint.NewDuration(-d.Std())
	return t.Add(neg)
}
