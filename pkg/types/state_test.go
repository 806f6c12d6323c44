package types

import (
	"sync"
	"testing"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateInitialized, "INITIALIZED"},
		{StateStarting, "STARTING"},
		{StateStarted, "STARTED"},
		{StateStopping, "STOPPING"},
		{StateStopped, "STOPPED"},
		{StateInvalid, "INVALID"},
		{State(9), "STATE(9)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestLifeCycleBaseZeroValue(t *testing.T) {
	var b LifeCycleBase
	if got := b.State(); got != StateInitialized {
		t.Fatalf("zero value state = %s, want INITIALIZED", got)
	}
}

func TestLifeCycleBaseTransition(t *testing.T) {
	var b LifeCycleBase

	if !b.Transition(StateInitialized, StateStarting) {
		t.Fatal("INITIALIZED -> STARTING should succeed")
	}
	if b.Transition(StateInitialized, StateStarting) {
		t.Fatal("second INITIALIZED -> STARTING should fail")
	}
	if got := b.State(); got != StateStarting {
		t.Fatalf("state = %s, want STARTING", got)
	}

	b.SetState(StateInvalid)
	if got := b.State(); got != StateInvalid {
		t.Fatalf("state = %s, want INVALID", got)
	}
}

func TestLifeCycleBaseTransitionConcurrent(t *testing.T) {
	var b LifeCycleBase
	var wg sync.WaitGroup
	wins := make(chan bool, 16)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- b.Transition(StateInitialized, StateStarting)
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for w := range wins {
		if w {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("%d goroutines won the transition, want exactly 1", won)
	}
}

func TestLifeCycleError(t *testing.T) {
	err := &LifeCycleError{Entity: "appender console", Op: "append", State: StateStopped}
	want := "appender console: cannot append while STOPPED"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
