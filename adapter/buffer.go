package adapter

import "github.com/sarchlab/finam/data"
import "github.com/sarchlab/finam/fint"

// sampleBuffer holds the samples a time-caching adapter has pulled from
// upstream, trimmed after every GetData call to the smallest window
// that can answer any future request: the latest sample at or before
// the last pull and every sample after it.
type sampleBuffer struct {
	samples []data.Envelope
}

// push appends a newly-pulled sample. Samples arrive in non-decreasing
// time order because they come from a monotone upstream Output.
func (s *sampleBuffer) push(env data.Envelope) {
	s.samples = append(s.samples, env)
}

// bracket returns the two samples bracketing t: lower is the latest
// sample with time <= t, upper is the earliest sample with time > t.
// Either may be absent.
func (s *sampleBuffer) bracket(t fint.Time) (lower, upper data.Envelope, haveLower, haveUpper bool) {
	for _, e := range s.samples {
		if !e.Time().After(t) {
			lower, haveLower = e, true
		} else if !haveUpper {
			upper, haveUpper = e, true
		}
	}
	return
}

// evictBefore drops samples no longer needed to answer any pull at or
// after t: every sample strictly before the one immediately <= t.
func (s *sampleBuffer) evictBefore(t fint.Time) {
	keepFrom := 0
	for i, e := range s.samples {
		if !e.Time().After(t) {
			keepFrom = i
		}
	}
	if keepFrom > 0 {
		s.samples = append([]data.Envelope(nil), s.samples[keepFrom:]...)
	}
}

func (s *sampleBuffer) empty() bool { return len(s.samples) == 0 }

func (s *sampleBuffer) last() (data.Envelope, bool) {
	if len(s.samples) == 0 {
		return data.Envelope{}, false
	}
	return s.samples[len(s.samples)-1], true
}

// earliest returns the oldest retained sample, used by the windowed
// adapters (TimeAverage, SumOverTime) to anchor the integration window
// on the first pull, before any lastPull has been recorded.
func (s *sampleBuffer) earliest() (data.Envelope, bool) {
	if len(s.samples) == 0 {
		return data.Envelope{}, false
	}
	return s.samples[0], true
}
