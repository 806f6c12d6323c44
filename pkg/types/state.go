package types

import (
	"fmt"
	"sync/atomic"
)

// State is the life-cycle state shared by every stateful framework entity
// (appenders, configurations, logger contexts).
type State int32

const (
	// StateInitialized is the state of a freshly constructed entity.
	StateInitialized State = iota
	// StateStarting means Start has begun but not completed.
	StateStarting
	// StateStarted means the entity is running and usable.
	StateStarted
	// StateStopping means Stop has begun but not completed.
	StateStopping
	// StateStopped means the entity has shut down and released resources.
	StateStopped
	// StateInvalid marks an entity that hit an unrecoverable error.
	StateInvalid
)

// String returns the uppercase name of the state.
func (s State) String() string {
	switch s {
	case StateInitialized:
		return "INITIALIZED"
	case StateStarting:
		return "STARTING"
	case StateStarted:
		return "STARTED"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	case StateInvalid:
		return "INVALID"
	default:
		return fmt.Sprintf("STATE(%d)", int32(s))
	}
}

// LifeCycle is implemented by every entity with a managed life cycle.
// The legal transition sequence is
// INITIALIZED -> STARTING -> STARTED -> STOPPING -> STOPPED; any state may
// transition to INVALID on unrecoverable error.
//
// Contract:
//   - Start on a STARTED entity is a no-op returning nil.
//   - Start from any state other than INITIALIZED returns a LifeCycleError
//     (entities cannot be restarted after stopping).
//   - Stop on a STOPPED entity is a no-op returning nil. Stop on an
//     INITIALIZED entity moves it straight to STOPPED without releasing
//     anything, so a never-started entity still refuses a later Start.
type LifeCycle interface {
	State() State
	Start() error
	Stop() error
}

// LifeCycleError reports an operation attempted in an illegal life-cycle
// state.
type LifeCycleError struct {
	Entity string // name of the entity the operation was attempted on
	Op     string // "start", "stop", "append" or "acquire"
	State  State  // state the entity was in
}

// Error implements the error interface.
func (e *LifeCycleError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", e.Entity, e.Op, e.State)
}

// LifeCycleBase provides an atomic State field for embedding in stateful
// entities. The zero value is StateInitialized and ready to use.
type LifeCycleBase struct {
	state atomic.Int32
}

// State returns the current life-cycle state.
func (b *LifeCycleBase) State() State {
	return State(b.state.Load())
}

// SetState unconditionally moves the entity to state s. Reserved for the
// INVALID transition and tests; regular transitions go through Transition.
func (b *LifeCycleBase) SetState(s State) {
	b.state.Store(int32(s))
}

// Transition atomically moves from state from to state to, reporting
// whether the swap happened. A false return means another goroutine moved
// the entity first, or it was not in the expected state.
func (b *LifeCycleBase) Transition(from, to State) bool {
	return b.state.CompareAndSwap(int32(from), int32(to))
}
