package component

// StatelessBase is a Component driven entirely by push/pull
// notifications rather than a scheduler-selected update: it never
// implements TimeStepper, so the scheduler advances it only as a side
// effect of a neighbor's update.
type StatelessBase struct {
	*Base
}

// NewStatelessBase builds a StatelessBase named name.
func NewStatelessBase(name string, hooks Hooks) *StatelessBase {
	return &StatelessBase{Base: NewBase(name, hooks)}
}
