package port

import (
	"fmt"

	"github.com/sarchlab/finam/data"
	"github.com/sarchlab/finam/fint"
	"github.com/sarchlab/finam/info"
)

// CallbackInput is the push-originating Input variant: it wraps
// SourceUpdated to invoke a user callback, used by components
// that react to data as it arrives rather than pulling it on their own
// schedule.
type CallbackInput struct {
	*Input
	callback func(t fint.Time, env data.Envelope)
}

// NewCallbackInput creates a CallbackInput that, on SourceUpdated,
// pulls immediately and invokes callback with the result.
func NewCallbackInput(name string, desired info.Info, logger Logger, callback func(fint.Time, data.Envelope)) *CallbackInput {
	ci := &CallbackInput{
		Input:    NewInput(name, desired, logger),
		callback: callback,
	}
	ci.Input.onUpdate = ci.handleUpdate
	return ci
}

func (ci *CallbackInput) handleUpdate(t fint.Time) {
	env, err := ci.Pull(t)
	if err != nil {
		ci.logger.Debug("callback input pull failed", "input", ci.name, "error", err)
		return
	}
	if ci.callback != nil {
		ci.callback(t, env)
	}
}

// CallbackOutput is the pull-originating Output variant: instead of
// maintaining a push history, it computes its value on
// demand via a user-supplied function each time GetData is called.
type CallbackOutput struct {
	*Output
	compute func(t fint.Time) (data.Envelope, error)
}

// NewCallbackOutput creates a CallbackOutput whose GetData calls
// compute(t) directly, bypassing history lookups.
func NewCallbackOutput(name string, logger Logger, compute func(fint.Time) (data.Envelope, error)) *CallbackOutput {
	return &CallbackOutput{
		Output:  NewOutput(name, logger),
		compute: compute,
	}
}

// GetData overrides Output.GetData to call compute directly.
func (co *CallbackOutput) GetData(t fint.Time, requester string) (data.Envelope, error) {
	if co.compute == nil {
		return data.Envelope{}, fmt.Errorf("callback output %s: no compute function set", co.name)
	}
	return co.compute(t)
}
