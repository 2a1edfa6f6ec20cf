package adapter

import (
	"fmt"
	"time"

	"github.com/sarchlab/finam/data"
	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
	"github.com/sarchlab/finam/info"
	"github.com/sarchlab/finam/port"
)

// LinearInterpolation is a time-caching adapter that linearly
// interpolates between the two samples bracketing the requested time.
type LinearInterpolation struct {
	*Base
	buf sampleBuffer
}

// NewLinearInterpolation builds a LinearInterpolation adapter. It
// marks itself no-branch: its retention window is defined relative to
// a single downstream consumer's pull cadence.
func NewLinearInterpolation(name string, logger port.Logger) *LinearInterpolation {
	l := &LinearInterpolation{Base: NewBase(name, logger)}
	l.SetTimeCaching()
	l.SetNoBranch()
	l.SetOnUpdate(l.onUpdate)
	l.SetPull(l.pull)
	return l
}

func (l *LinearInterpolation) onUpdate(t fint.Time) {
	env, err := l.PullUpstream(t)
	if err != nil {
		return
	}
	l.buf.push(env)
}

func (l *LinearInterpolation) pull(t fint.Time, requester string) (data.Envelope, error) {
	lower, upper, haveLower, haveUpper := l.buf.bracket(t)
	defer l.buf.evictBefore(t)

	switch {
	case haveLower && haveUpper:
		return interpolate(lower, upper, t), nil
	case haveLower:
		return lower, nil
	default:
		return data.Envelope{}, fmt.Errorf("linear interpolation %s: %w", l.name, finamerr.ErrNoData)
	}
}

func interpolate(lower, upper data.Envelope, t fint.Time) data.Envelope {
	span := upper.Time().Sub(lower.Time()).Seconds()
	frac := 0.0
	if span > 0 {
		frac = t.Sub(lower.Time()).Seconds() / span
	}

	lp, up := lower.Payload(), upper.Payload()
	out := make([]float64, len(lp))
	for i := range lp {
		out[i] = lp[i] + (up[i]-lp[i])*frac
	}
	return lower.WithPayload(out, t)
}

// StepInterpolation is a time-caching adapter returning one of the two
// bracketing samples, chosen by a configurable position p in [0,1]:
// p==0 returns the earlier sample (the step-left default), p==1 the
// later one. Intermediate p is rounded to the nearer side.
type StepInterpolation struct {
	*Base
	buf sampleBuffer
	p   float64
}

// NewStepInterpolation builds a StepInterpolation adapter at position p.
func NewStepInterpolation(name string, p float64, logger port.Logger) *StepInterpolation {
	s := &StepInterpolation{Base: NewBase(name, logger), p: p}
	s.SetTimeCaching()
	s.SetNoBranch()
	s.SetOnUpdate(s.onUpdate)
	s.SetPull(s.pull)
	return s
}

func (s *StepInterpolation) onUpdate(t fint.Time) {
	env, err := s.PullUpstream(t)
	if err != nil {
		return
	}
	s.buf.push(env)
}

func (s *StepInterpolation) pull(t fint.Time, requester string) (data.Envelope, error) {
	lower, upper, haveLower, haveUpper := s.buf.bracket(t)
	defer s.buf.evictBefore(t)

	switch {
	case haveLower && haveUpper:
		if s.p >= 0.5 {
			return upper.WithPayload(upper.Payload(), t), nil
		}
		return lower.WithPayload(lower.Payload(), t), nil
	case haveLower:
		return lower, nil
	default:
		return data.Envelope{}, fmt.Errorf("step interpolation %s: %w", s.name, finamerr.ErrNoData)
	}
}

// TimeAverage is a time-caching adapter computing the time-weighted
// mean of the upstream signal over [lastPull, currentPull], using the
// trapezoidal rule across every sample received in that window.
type TimeAverage struct {
	*Base
	buf      sampleBuffer
	lastPull fint.Time
	havePull bool
}

// NewTimeAverage builds a TimeAverage adapter.
func NewTimeAverage(name string, logger port.Logger) *TimeAverage {
	a := &TimeAverage{Base: NewBase(name, logger)}
	a.SetTimeCaching()
	a.SetNoBranch()
	a.SetOnUpdate(a.onUpdate)
	a.SetPull(a.pull)
	return a
}

func (a *TimeAverage) onUpdate(t fint.Time) {
	env, err := a.PullUpstream(t)
	if err != nil {
		return
	}
	a.buf.push(env)
}

func (a *TimeAverage) pull(t fint.Time, requester string) (data.Envelope, error) {
	from := a.lastPull
	if !a.havePull {
		earliest, haveEarliest := a.buf.earliest()
		if !haveEarliest {
			return data.Envelope{}, fmt.Errorf("time average %s: %w", a.name, finamerr.ErrNoData)
		}
		from = earliest.Time()
	}

	weighted, last, err := trapezoidal(a.buf.samples, from, t, 1)
	if err != nil {
		return data.Envelope{}, fmt.Errorf("time average %s: %w", a.name, err)
	}

	span := t.Sub(from).Seconds()
	out := make([]float64, len(weighted))
	if span > 0 {
		for i, v := range weighted {
			out[i] = v / span
		}
	} else {
		out = weighted
	}

	a.lastPull, a.havePull = t, true
	a.buf.evictBefore(t)

	return last.WithPayload(out, t), nil
}

// SumOverTime is a time-caching adapter computing the trapezoidal area
// under the upstream curve over [lastPull, currentPull] — e.g. turning
// a rate into an accumulated amount over the target step. Its Info
// rewrites units accordingly.
//
// The upstream payload is a rate denominated per perUnit (one day by
// default, matching a "/day" source unit): the integral is computed in
// units of perUnit, not seconds, so that integrating a 2.0/day rate
// over 10 days yields 20.0, not 2.0 scaled by the number of seconds in
// 10 days.
type SumOverTime struct {
	*Base
	buf      sampleBuffer
	lastPull fint.Time
	havePull bool
	outUnits data.Units
	perUnit  fint.Duration
}

// NewSumOverTime builds a SumOverTime adapter. outUnits is the unit the
// integral is expressed in (e.g. dimensionless when integrating a
// per-day rate over whole days); it is what getInfo reports downstream.
// perUnit is the time unit the upstream rate is denominated per; a zero
// Duration defaults to one day, the common case for "/day" rates.
func NewSumOverTime(name string, outUnits data.Units, perUnit fint.Duration, logger port.Logger) *SumOverTime {
	if perUnit.Std() == 0 {
		perUnit = fint.NewDuration(24 * time.Hour)
	}
	s := &SumOverTime{Base: NewBase(name, logger), outUnits: outUnits, perUnit: perUnit}
	s.SetTimeCaching()
	s.SetNoBranch()
	s.SetOnUpdate(s.onUpdate)
	s.SetPull(s.pull)
	s.SetTransforms(
		func(desired info.Info) info.Info { return desired.ClearUnits() },
		func(resolved info.Info) info.Info { return resolved.WithUnits(outUnits) },
	)
	return s
}

func (s *SumOverTime) onUpdate(t fint.Time) {
	env, err := s.PullUpstream(t)
	if err != nil {
		return
	}
	s.buf.push(env)
}

func (s *SumOverTime) pull(t fint.Time, requester string) (data.Envelope, error) {
	from := s.lastPull
	if !s.havePull {
		earliest, haveEarliest := s.buf.earliest()
		if !haveEarliest {
			return data.Envelope{}, fmt.Errorf("sum over time %s: %w", s.name, finamerr.ErrNoData)
		}
		from = earliest.Time()
	}

	integral, last, err := trapezoidal(s.buf.samples, from, t, s.perUnit.Seconds())
	if err != nil {
		return data.Envelope{}, fmt.Errorf("sum over time %s: %w", s.name, err)
	}

	s.lastPull, s.havePull = t, true
	s.buf.evictBefore(t)

	return last.WithPayload(integral, t).WithUnits(s.outUnits), nil
}

// trapezoidal integrates samples (sorted non-decreasing by time) over
// [from, to] using the trapezoidal rule over the samples inside the
// window, with each window edge anchored by a constant extrapolation of
// the nearest in-window sample. unitSeconds is the number of seconds one unit
// of the result's time axis represents (1 for a plain seconds-based
// integral; TimeAverage divides its result by the same window so the
// unit cancels and always passes 1; SumOverTime passes perUnit.Seconds()
// so its integral is expressed per perUnit, not per second). It returns
// the per-element integral and the last sample seen (used as the
// WithPayload base so grid/mask survive).
func trapezoidal(samples []data.Envelope, from, to fint.Time, unitSeconds float64) ([]float64, data.Envelope, error) {
	var windowed []data.Envelope
	for _, e := range samples {
		if !e.Time().Before(from) && !e.Time().After(to) {
			windowed = append(windowed, e)
		}
	}
	if len(windowed) == 0 {
		return nil, data.Envelope{}, finamerr.ErrNoData
	}

	// Anchor both window edges with constant extrapolation of the nearest
	// in-window sample, so every segment's width is simply b.time - a.time.
	if windowed[0].Time().After(from) {
		anchor := windowed[0].WithPayload(windowed[0].Payload(), from)
		windowed = append([]data.Envelope{anchor}, windowed...)
	}
	if last := windowed[len(windowed)-1]; last.Time().Before(to) {
		windowed = append(windowed, last.WithPayload(last.Payload(), to))
	}

	n := len(windowed[0].Payload())
	acc := make([]float64, n)
	for i := 0; i < len(windowed)-1; i++ {
		a, b := windowed[i], windowed[i+1]
		dt := b.Time().Sub(a.Time()).Seconds() / unitSeconds
		for j := 0; j < n; j++ {
			acc[j] += (a.Payload()[j] + b.Payload()[j]) / 2 * dt
		}
	}

	return acc, windowed[len(windowed)-1], nil
}
