package component

import (
	"fmt"

	"github.com/sarchlab/finam/finamerr"
	"github.com/sarchlab/finam/fint"
)

// TimeBase owns a simulated time and a nextTime predictor,
// and is the unit the Scheduler selects among. The
// model's Update hook must advance time to exactly the previously
// declared nextTime and may set a new nextTime for the following step
// (variable step size), which must never move backwards.
type TimeBase struct {
	*Base
	time     fint.Time
	nextTime fint.Time
	update   func() (newTime, newNextTime fint.Time, err error)
}

// NewTimeBase builds a TimeBase named name,
// starting at startTime with its first nextTime already known. update
// is called by Update; it returns the component's new time (must equal
// the nextTime declared before the call) and its next nextTime.
func NewTimeBase(name string, hooks Hooks, startTime, firstNextTime fint.Time, update func() (fint.Time, fint.Time, error)) *TimeBase {
	return &TimeBase{
		Base:     NewBase(name, hooks),
		time:     startTime,
		nextTime: firstNextTime,
		update:   update,
	}
}

// Time returns the component's current simulated instant.
func (t *TimeBase) Time() fint.Time { return t.time }

// NextTime returns the instant at which the component's next Update
// will complete.
func (t *TimeBase) NextTime() fint.Time { return t.nextTime }

// Update advances the component by invoking the model's update
// function, verifying the monotonicity invariants: the new time must
// equal the previously declared nextTime,
// and the new nextTime must not precede it.
func (t *TimeBase) Update() error {
	if t.State() != Validated && t.State() != Updated {
		return t.wrap("update", fmt.Errorf("component %s: update called from state %s", t.Name(), t.State()))
	}

	expected := t.nextTime
	newTime, newNextTime, err := t.update()
	if err != nil {
		return t.fail("update", err)
	}
	if !newTime.Equal(expected) {
		return t.fail("update", fmt.Errorf("component %s: update produced time %s, expected %s", t.Name(), newTime, expected))
	}
	if newNextTime.Before(newTime) {
		return t.fail("update", finamerr.ErrNonMonotoneNextTime)
	}

	t.time = newTime
	t.nextTime = newNextTime
	t.markUpdated()
	return nil
}
