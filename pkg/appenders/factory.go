package appenders

import (
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/wayneeseguin/arbor/pkg/types"
)

// Settings is the type-neutral appender description the configuration
// loader hands to constructors. Each kind reads the fields it understands.
type Settings struct {
	Name            string
	Layout          types.Layout
	PropagateErrors bool

	// Console.
	Target string

	// File.
	Path          string
	BufferSize    int
	Buffered      bool
	FlushInterval time.Duration
	BatchCount    int

	// NATS.
	URL string
}

// Constructor builds an appender from settings.
type Constructor func(Settings) (types.Appender, error)

// Factory creates appenders by kind name. Custom kinds can be registered
// so configuration files can reference them.
type Factory struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewFactory creates a factory with the built-in kinds registered:
// console, file, memory and nats.
func NewFactory() *Factory {
	f := &Factory{constructors: make(map[string]Constructor)}

	_ = f.Register("console", func(s Settings) (types.Appender, error) {
		target := StdErr
		switch s.Target {
		case "", "stderr":
		case "stdout":
			target = StdOut
		default:
			return nil, errors.Errorf("console appender %s: unknown target %q", s.Name, s.Target)
		}
		return NewConsole(ConsoleConfig{
			Name:            s.Name,
			Layout:          s.Layout,
			Target:          target,
			PropagateErrors: s.PropagateErrors,
		})
	})

	_ = f.Register("file", func(s Settings) (types.Appender, error) {
		return NewFile(FileConfig{
			Name:            s.Name,
			Path:            s.Path,
			Layout:          s.Layout,
			PropagateErrors: s.PropagateErrors,
			BufferSize:      s.BufferSize,
			Buffered:        s.Buffered,
			FlushInterval:   s.FlushInterval,
			BatchCount:      s.BatchCount,
		})
	})

	_ = f.Register("memory", func(s Settings) (types.Appender, error) {
		return NewMemory(MemoryConfig{
			Name:            s.Name,
			Layout:          s.Layout,
			PropagateErrors: s.PropagateErrors,
		})
	})

	_ = f.Register("nats", func(s Settings) (types.Appender, error) {
		return NewNATS(NATSConfig{
			Name:            s.Name,
			URL:             s.URL,
			Layout:          s.Layout,
			PropagateErrors: s.PropagateErrors,
		})
	})

	return f
}

// Register adds a constructor for kind. Registering an existing kind
// replaces it.
func (f *Factory) Register(kind string, fn Constructor) error {
	if kind == "" {
		return errors.New("appender kind cannot be empty")
	}
	if fn == nil {
		return errors.Errorf("appender kind %s: nil constructor", kind)
	}
	f.mu.Lock()
	f.constructors[kind] = fn
	f.mu.Unlock()
	return nil
}

// Create builds an appender of the named kind.
func (f *Factory) Create(kind string, s Settings) (types.Appender, error) {
	f.mu.RLock()
	fn, ok := f.constructors[kind]
	f.mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("appender kind %q is not registered", kind)
	}
	return fn(s)
}

// Kinds returns the registered kind names, sorted.
func (f *Factory) Kinds() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	kinds := make([]string, 0, len(f.constructors))
	for kind := range f.constructors {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// DefaultFactory serves configuration loading.
var DefaultFactory = NewFactory()

// Register adds a constructor to the default factory.
func Register(kind string, fn Constructor) error {
	return DefaultFactory.Register(kind, fn)
}

// Create builds an appender with the default factory.
func Create(kind string, s Settings) (types.Appender, error) {
	return DefaultFactory.Create(kind, s)
}
