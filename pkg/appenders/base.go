// Package appenders provides the delivery targets events are written to:
// console, file, NATS and an in-memory recorder. Appenders share a common
// life cycle: they are constructed INITIALIZED, acquire resources in
// Start, accept events only while STARTED, and release resources in Stop.
package appenders

import (
	"sync/atomic"

	"github.com/wayneeseguin/arbor/pkg/layouts"
	"github.com/wayneeseguin/arbor/pkg/types"
)

// Stats is a snapshot of an appender's delivery counters.
type Stats struct {
	Appends uint64
	Errors  uint64
}

// Base carries the state every appender shares. Concrete appenders embed
// it and drive transitions through its helpers.
type Base struct {
	types.LifeCycleBase
	name            string
	layout          types.Layout
	propagateErrors bool

	appendCount atomic.Uint64
	errorCount  atomic.Uint64
}

// newBase initializes the shared fields. A nil layout falls back to the
// default pattern layout.
func newBase(name string, layout types.Layout, propagateErrors bool) Base {
	if layout == nil {
		layout = layouts.Default()
	}
	return Base{name: name, layout: layout, propagateErrors: propagateErrors}
}

// Name returns the appender's unique name.
func (b *Base) Name() string { return b.name }

// Layout returns the layout events are serialized with.
func (b *Base) Layout() types.Layout { return b.layout }

// IgnoreExceptions reports whether delivery failures are swallowed after
// being reported to the diagnostic channel. When false, failures abort
// delivery and propagate to the caller.
func (b *Base) IgnoreExceptions() bool { return !b.propagateErrors }

// Stats returns the delivery counters.
func (b *Base) Stats() Stats {
	return Stats{
		Appends: b.appendCount.Load(),
		Errors:  b.errorCount.Load(),
	}
}

// startTransition begins Start. The proceed result is true when the
// appender moved to STARTING and the caller must finish with started or
// failed. Already STARTED yields (false, nil); any other state yields a
// LifeCycleError.
func (b *Base) startTransition() (proceed bool, err error) {
	if b.Transition(types.StateInitialized, types.StateStarting) {
		return true, nil
	}
	if b.State() == types.StateStarted {
		return false, nil
	}
	return false, &types.LifeCycleError{Entity: b.name, Op: "start", State: b.State()}
}

// started completes a successful Start.
func (b *Base) started() {
	b.Transition(types.StateStarting, types.StateStarted)
}

// failed marks the appender INVALID after an unrecoverable error.
func (b *Base) failed() {
	b.SetState(types.StateInvalid)
}

// stopTransition begins Stop. The proceed result is true when resources
// must be released and the caller must finish with stopped. STOPPED is
// idempotent and INITIALIZED moves straight to STOPPED, both yielding
// (false, nil). Other states yield a LifeCycleError.
func (b *Base) stopTransition() (proceed bool, err error) {
	if b.Transition(types.StateStarted, types.StateStopping) {
		return true, nil
	}
	if b.Transition(types.StateInitialized, types.StateStopped) {
		return false, nil
	}
	if b.State() == types.StateStopped {
		return false, nil
	}
	return false, &types.LifeCycleError{Entity: b.name, Op: "stop", State: b.State()}
}

// stopped completes Stop.
func (b *Base) stopped() {
	b.Transition(types.StateStopping, types.StateStopped)
}

// checkAppend returns nil while the appender accepts events.
func (b *Base) checkAppend() error {
	if s := b.State(); s != types.StateStarted {
		return &types.LifeCycleError{Entity: b.name, Op: "append", State: s}
	}
	return nil
}

// trackAppend counts one delivered event.
func (b *Base) trackAppend() {
	b.appendCount.Add(1)
}

// trackError counts one failed delivery.
func (b *Base) trackError() {
	b.errorCount.Add(1)
}

// serialize renders e with the configured layout.
func (b *Base) serialize(e types.Event) ([]byte, error) {
	return b.layout.Serialize(e)
}
