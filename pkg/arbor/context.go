package arbor

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/wayneeseguin/arbor/internal/metrics"
	"github.com/wayneeseguin/arbor/pkg/config"
	"github.com/wayneeseguin/arbor/pkg/messages"
	"github.com/wayneeseguin/arbor/pkg/types"
)

// LoggerContext is one logging universe: an active configuration, the
// loggers bound to it and a metrics collector. Contexts are created by a
// ContextSelector and keyed by caller identity.
//
// A context follows the standard life cycle. Start installs and starts a
// configuration exactly once; a second Start is a no-op, so callers
// racing to initialize the same context never re-run setup. After Stop
// the context is finished and refuses further starts.
type LoggerContext struct {
	types.LifeCycleBase
	key string

	// startMu serializes Start and Stop so concurrent initializers
	// observe either a fully started context or a clean failure.
	startMu sync.Mutex

	mu            sync.RWMutex
	configuration *config.Configuration
	loggers       map[string]*Logger

	collector *metrics.Collector
}

// NewLoggerContext creates an idle context for key.
func NewLoggerContext(key string) *LoggerContext {
	return &LoggerContext{
		key:       key,
		loggers:   make(map[string]*Logger),
		collector: metrics.NewCollector(),
	}
}

// Key returns the selector key the context is registered under.
func (c *LoggerContext) Key() string { return c.key }

// Configuration returns the active configuration, nil before Start.
func (c *LoggerContext) Configuration() *config.Configuration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.configuration
}

// Metrics returns a snapshot of the context's pipeline counters.
func (c *LoggerContext) Metrics() metrics.Metrics {
	return c.collector.Snapshot()
}

// Start installs cfg, wires the metrics collector into it and starts
// it. A nil cfg starts the fallback default configuration. Starting an
// already started context is a no-op; the configuration it runs is kept
// and cfg is ignored.
func (c *LoggerContext) Start(cfg *config.Configuration) error {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	if !c.Transition(types.StateInitialized, types.StateStarting) {
		if c.State() == types.StateStarted {
			return nil
		}
		return &types.LifeCycleError{Entity: c.key, Op: "start", State: c.State()}
	}

	if cfg == nil {
		cfg = config.NewDefault()
	}
	cfg.SetCollector(c.collector)

	if err := cfg.Start(); err != nil {
		c.SetState(types.StateInvalid)
		return errors.Wrapf(err, "context %q", c.key)
	}

	c.mu.Lock()
	c.configuration = cfg
	c.mu.Unlock()

	c.Transition(types.StateStarting, types.StateStarted)
	return nil
}

// Stop stops the active configuration and retires the context. Stopping
// an idle or already stopped context is a no-op; either way the context
// refuses to start afterwards.
func (c *LoggerContext) Stop() error {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	if !c.Transition(types.StateStarted, types.StateStopping) {
		if c.Transition(types.StateInitialized, types.StateStopped) {
			return nil
		}
		if c.State() == types.StateStopped {
			return nil
		}
		return &types.LifeCycleError{Entity: c.key, Op: "stop", State: c.State()}
	}

	c.mu.RLock()
	cfg := c.configuration
	c.mu.RUnlock()

	var err error
	if cfg != nil {
		err = cfg.Stop()
	}
	c.Transition(types.StateStopping, types.StateStopped)
	if err != nil {
		return errors.Wrapf(err, "context %q", c.key)
	}
	return nil
}

// Logger returns the context's logger for name, creating and caching it
// on first use. The first acquisition fixes the logger's identity and
// message factory; later calls with the same name return the cached
// logger unchanged. A nil factory means the parameterized default. The
// context must be STARTED.
func (c *LoggerContext) Logger(name, fqmn string, factory types.MessageFactory) (*Logger, error) {
	if state := c.State(); state != types.StateStarted {
		return nil, &types.LifeCycleError{Entity: c.key, Op: "acquire", State: state}
	}
	if factory == nil {
		factory = messages.Default
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if lg, ok := c.loggers[name]; ok {
		return lg, nil
	}

	lg := &Logger{
		name:      name,
		fqmn:      fqmn,
		config:    c.configuration.Resolve(name),
		factory:   factory,
		collector: c.collector,
	}
	c.loggers[name] = lg
	return lg, nil
}
