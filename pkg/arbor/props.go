package arbor

import (
	"sync"

	"github.com/wayneeseguin/arbor/internal/status"
	"github.com/wayneeseguin/arbor/pkg/messages"
	"github.com/wayneeseguin/arbor/pkg/types"
)

// props holds the process-wide defaults. They change only through Init
// and ResetDefaults; nothing here is read from the environment.
type props struct {
	mu             sync.RWMutex
	statusLevel    types.Level
	eventFactory   types.EventFactory
	messageFactory types.MessageFactory
	selector       ContextSelector
}

var processProps = &props{
	statusLevel:    types.LevelError,
	eventFactory:   types.DefaultEventFactory,
	messageFactory: messages.Default,
	selector:       NewSelectorRegistry(ModuleKey),
}

// InitOption adjusts one process-wide default.
type InitOption func(*props)

// WithStatusLevel sets the threshold of the framework's diagnostic
// channel. The default is ERROR.
func WithStatusLevel(level types.Level) InitOption {
	return func(p *props) { p.statusLevel = level }
}

// WithEventFactory replaces the event implementation loggers produce.
// Nil is ignored.
func WithEventFactory(f types.EventFactory) InitOption {
	return func(p *props) {
		if f != nil {
			p.eventFactory = f
		}
	}
}

// WithContextSelector replaces the process context selector, deciding
// how caller identities map to logging universes. Nil is ignored.
func WithContextSelector(s ContextSelector) InitOption {
	return func(p *props) {
		if s != nil {
			p.selector = s
		}
	}
}

// WithDefaultMessageFactory replaces the message factory loggers use
// when GetLogger is not given one. Nil is ignored.
func WithDefaultMessageFactory(f types.MessageFactory) InitOption {
	return func(p *props) {
		if f != nil {
			p.messageFactory = f
		}
	}
}

// Init applies process-wide defaults. Calling it is optional; every
// default works out of the box. Configuration arrives exclusively
// through these options, never through environment variables.
func Init(opts ...InitOption) {
	processProps.mu.Lock()
	for _, opt := range opts {
		opt(processProps)
	}
	level := processProps.statusLevel
	processProps.mu.Unlock()

	status.Default.SetLevel(level)
}

// ResetDefaults restores every process-wide default, installs a fresh
// context registry and resets the diagnostic channel. Running contexts
// are abandoned rather than stopped; call Shutdown first. Intended for
// tests.
func ResetDefaults() {
	processProps.mu.Lock()
	processProps.statusLevel = types.LevelError
	processProps.eventFactory = types.DefaultEventFactory
	processProps.messageFactory = messages.Default
	processProps.selector = NewSelectorRegistry(ModuleKey)
	processProps.mu.Unlock()

	status.Default.Reset()
}

func currentSelector() ContextSelector {
	processProps.mu.RLock()
	defer processProps.mu.RUnlock()
	return processProps.selector
}

func currentEventFactory() types.EventFactory {
	processProps.mu.RLock()
	defer processProps.mu.RUnlock()
	return processProps.eventFactory
}

func currentMessageFactory() types.MessageFactory {
	processProps.mu.RLock()
	defer processProps.mu.RUnlock()
	return processProps.messageFactory
}
