package port

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sarchlab/finam/data"
	"github.com/sarchlab/finam/fint"
)

var timeUnix = time.Unix

// spillRecord is the on-disk representation of one spilled entry. The
// format is private: only sequential restore is required, so a simple
// length-implicit gob stream is sufficient.
type spillRecord struct {
	UnixNano int64
	Payload  []float64
	Shape    []int
	Units    string
}

// spiller is the overflow log file backing one Output once its byte
// budget is exceeded. It supports only sequential append on write and
// sequential scan on read.
type spiller struct {
	mu         sync.Mutex
	name       string
	limitBytes int64
	dir        string
	path       string
	file       *os.File
	enc        *gob.Encoder
	budgetUsed int64
}

func newSpiller(name string, limitBytes int64, dir string) *spiller {
	if dir == "" {
		dir = os.TempDir()
	}
	return &spiller{name: name, limitBytes: limitBytes, dir: dir}
}

// overBudget estimates whether the in-memory history exceeds the byte
// budget (8 bytes/float64 plus a small fixed per-entry overhead).
func (s *spiller) overBudget(history []entry) bool {
	if s == nil || s.limitBytes <= 0 {
		return false
	}
	var total int64
	for _, e := range history {
		total += int64(len(e.env.Payload()))*8 + 64
	}
	return total > s.limitBytes
}

func (s *spiller) write(env data.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("spill mkdir: %w", err)
		}
		path := filepath.Join(s.dir, fmt.Sprintf("finam-spill-%s-%p.gob", sanitize(s.name), s))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("spill create: %w", err)
		}
		s.file = f
		s.path = path
		s.enc = gob.NewEncoder(f)
	}

	rec := spillRecord{
		UnixNano: env.Time().Std().UnixNano(),
		Payload:  env.Payload(),
		Shape:    env.Grid().DataShape,
		Units:    string(env.Units()),
	}
	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("spill encode: %w", err)
	}
	return nil
}

// find performs a sequential scan of the spill file, returning the
// latest spilled entry with time <= t (step-left semantics apply to
// spilled history exactly as to in-memory history).
func (s *spiller) find(t fint.Time) (data.Envelope, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return data.Envelope{}, false
	}
	if err := s.flush(); err != nil {
		return data.Envelope{}, false
	}

	f, err := os.Open(s.path)
	if err != nil {
		return data.Envelope{}, false
	}
	defer f.Close()

	dec := gob.NewDecoder(f)
	var best *spillRecord
	for {
		var rec spillRecord
		if err := dec.Decode(&rec); err != nil {
			break
		}
		candidateTime := unixNanoToTime(rec.UnixNano)
		if candidateTime.After(t) {
			continue
		}
		if best == nil || candidateTime.After(unixNanoToTime(best.UnixNano)) {
			r := rec
			best = &r
		}
	}
	if best == nil {
		return data.Envelope{}, false
	}

	grid := data.NewNoGrid(1, best.Shape)
	env, err := data.Prepare(best.Payload, grid, data.Units(best.Units), data.Mask{Policy: data.MaskFlex}, unixNanoToTime(best.UnixNano))
	if err != nil {
		return data.Envelope{}, false
	}
	return env, true
}

func (s *spiller) flush() error {
	if s.file == nil {
		return nil
	}
	return s.file.Sync()
}

func (s *spiller) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	os.Remove(s.path)
	return err
}

func unixNanoToTime(ns int64) fint.Time {
	return fint.NewTime(timeUnix(0, ns))
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	return string(out)
}
