package appenders

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/wayneeseguin/arbor/pkg/types"
)

// MemoryConfig configures an in-memory appender.
type MemoryConfig struct {
	// Name identifies the appender. Required.
	Name string
	// Layout serializes events; nil selects the default pattern layout.
	Layout types.Layout
	// PropagateErrors makes Append return delivery failures to the caller
	// instead of swallowing them after diagnostic reporting.
	PropagateErrors bool
}

// Memory records appended events in arrival order. It backs tests and
// in-process log inspection.
type Memory struct {
	Base
	mu       sync.Mutex
	events   []types.Event
	rendered []string
}

// NewMemory creates a memory appender in the INITIALIZED state.
func NewMemory(cfg MemoryConfig) (*Memory, error) {
	if cfg.Name == "" {
		return nil, errors.New("memory appender requires a name")
	}
	return &Memory{Base: newBase(cfg.Name, cfg.Layout, cfg.PropagateErrors)}, nil
}

// Start makes the appender ready.
func (m *Memory) Start() error {
	proceed, err := m.startTransition()
	if !proceed {
		return err
	}
	m.started()
	return nil
}

// Append records e and its rendered form.
func (m *Memory) Append(e types.Event) error {
	if err := m.checkAppend(); err != nil {
		m.trackError()
		return err
	}

	data, err := m.serialize(e)
	if err != nil {
		m.trackError()
		return errors.Wrapf(err, "memory appender %s: serialize", m.Name())
	}

	m.mu.Lock()
	m.events = append(m.events, e)
	m.rendered = append(m.rendered, string(data))
	m.mu.Unlock()

	m.trackAppend()
	return nil
}

// Stop retires the appender. Recorded events remain readable.
func (m *Memory) Stop() error {
	proceed, err := m.stopTransition()
	if !proceed {
		return err
	}
	m.stopped()
	return nil
}

// Events returns the recorded events in arrival order.
func (m *Memory) Events() []types.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Event, len(m.events))
	copy(out, m.events)
	return out
}

// Lines returns the rendered form of each recorded event in arrival order.
func (m *Memory) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.rendered))
	copy(out, m.rendered)
	return out
}

// Len returns the number of recorded events.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// Clear discards all recorded events.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.events = nil
	m.rendered = nil
	m.mu.Unlock()
}

var _ types.Appender = (*Memory)(nil)
