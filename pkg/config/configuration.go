package config

import (
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/wayneeseguin/arbor/internal/metrics"
	"github.com/wayneeseguin/arbor/pkg/types"
)

// ErrAppenderNotFound is returned when a logger references an appender
// name the configuration does not own.
var ErrAppenderNotFound = errors.New("appender not found")

// Configuration owns a set of named appenders and the logger hierarchy
// that routes events to them. Construction is two-phase: register the
// appenders first, then add loggers whose references resolve strictly
// against the appender table. Parent links are rewired on every logger
// mutation, so each node's chain always terminates at the root.
//
// A Configuration has the standard life cycle. Start brings up every
// owned appender, Stop takes them down in reverse registration order.
// A stopped Configuration cannot be restarted.
type Configuration struct {
	types.LifeCycleBase
	name string

	mu            sync.RWMutex
	source        string
	appenders     map[string]types.Appender
	appenderOrder []string
	loggers       map[string]*LoggerConfig
	root          *LoggerConfig
	collector     *metrics.Collector
	eventFactory  types.EventFactory
}

// NewConfiguration creates an empty configuration whose root logger is
// set to LevelError, the framework default.
func NewConfiguration(name string) *Configuration {
	root := NewLoggerConfig(RootLoggerName, types.LevelError)
	return &Configuration{
		name:      name,
		source:    "programmatic",
		appenders: make(map[string]types.Appender),
		loggers:   map[string]*LoggerConfig{RootLoggerName: root},
		root:      root,
	}
}

// Name returns the configuration's name.
func (c *Configuration) Name() string { return c.name }

// Source describes where the configuration came from: a file path for
// loaded configurations, "programmatic" otherwise.
func (c *Configuration) Source() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source
}

func (c *Configuration) setSource(source string) {
	c.mu.Lock()
	c.source = source
	c.mu.Unlock()
}

// Root returns the hierarchy root.
func (c *Configuration) Root() *LoggerConfig { return c.root }

// AddAppender registers app under its name. Names are unique within a
// configuration; registering a duplicate is an error.
func (c *Configuration) AddAppender(app types.Appender) error {
	if app == nil {
		return errors.New("nil appender")
	}
	name := app.Name()
	if name == "" {
		return errors.New("appender has no name")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.appenders[name]; exists {
		return errors.Errorf("appender %q already registered", name)
	}
	c.appenders[name] = app
	c.appenderOrder = append(c.appenderOrder, name)
	return nil
}

// Appender looks up a registered appender by name.
func (c *Configuration) Appender(name string) (types.Appender, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	app, ok := c.appenders[name]
	if !ok {
		return nil, errors.Wrapf(ErrAppenderNotFound, "%q", name)
	}
	return app, nil
}

// Appenders returns a copy of the appender table.
func (c *Configuration) Appenders() map[string]types.Appender {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]types.Appender, len(c.appenders))
	for name, app := range c.appenders {
		out[name] = app
	}
	return out
}

// AddLogger registers a logger node and rewires the hierarchy's parent
// links. The root slot cannot be replaced; mutate Root() instead.
func (c *Configuration) AddLogger(lc *LoggerConfig) error {
	if lc == nil {
		return errors.New("nil logger config")
	}
	if lc.Name() == RootLoggerName {
		return errors.New("root logger already exists, mutate Root() instead")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.loggers[lc.Name()]; exists {
		return errors.Errorf("logger %q already registered", lc.Name())
	}
	c.loggers[lc.Name()] = lc
	if c.collector != nil {
		lc.setCollector(c.collector)
	}
	if c.eventFactory != nil {
		lc.SetEventFactory(c.eventFactory)
	}
	c.rewireParents()
	return nil
}

// NewLogger creates, registers and returns a logger node with an
// explicit level.
func (c *Configuration) NewLogger(name string, level types.Level) (*LoggerConfig, error) {
	lc := NewLoggerConfig(name, level)
	if err := c.AddLogger(lc); err != nil {
		return nil, err
	}
	return lc, nil
}

// Logger looks up a registered node by exact name. The root is
// registered under RootLoggerName.
func (c *Configuration) Logger(name string) (*LoggerConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lc, ok := c.loggers[name]
	return lc, ok
}

// Loggers returns a copy of the logger table, root included.
func (c *Configuration) Loggers() map[string]*LoggerConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*LoggerConfig, len(c.loggers))
	for name, lc := range c.loggers {
		out[name] = lc
	}
	return out
}

// Resolve finds the configuration node a logger named name binds to: the
// exact node when registered, otherwise the longest registered dotted
// prefix, otherwise the root.
func (c *Configuration) Resolve(name string) *LoggerConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for n := name; ; {
		if lc, ok := c.loggers[n]; ok {
			return lc
		}
		i := strings.LastIndex(n, ".")
		if i < 0 {
			return c.root
		}
		n = n[:i]
	}
}

// rewireParents points every node at its nearest registered ancestor.
// Callers hold c.mu.
func (c *Configuration) rewireParents() {
	for name, lc := range c.loggers {
		if name == RootLoggerName {
			continue
		}
		lc.setParent(c.parentOf(name))
	}
}

// parentOf walks the dotted prefixes of name looking for a registered
// ancestor, falling back to the root. Callers hold c.mu.
func (c *Configuration) parentOf(name string) *LoggerConfig {
	for {
		i := strings.LastIndex(name, ".")
		if i < 0 {
			return c.root
		}
		name = name[:i]
		if p, ok := c.loggers[name]; ok {
			return p
		}
	}
}

// SetCollector installs the metrics collector on every current and
// future logger node.
func (c *Configuration) SetCollector(collector *metrics.Collector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collector = collector
	for _, lc := range c.loggers {
		lc.setCollector(collector)
	}
}

// SetEventFactory installs the event factory on every current and
// future logger node.
func (c *Configuration) SetEventFactory(f types.EventFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventFactory = f
	for _, lc := range c.loggers {
		lc.SetEventFactory(f)
	}
}

// Start brings up every owned appender in registration order. If one
// fails, the ones already started are stopped again and the
// configuration is marked INVALID.
func (c *Configuration) Start() error {
	if !c.Transition(types.StateInitialized, types.StateStarting) {
		if c.State() == types.StateStarted {
			return nil
		}
		return &types.LifeCycleError{Entity: c.name, Op: "start", State: c.State()}
	}

	c.mu.RLock()
	order := make([]string, len(c.appenderOrder))
	copy(order, c.appenderOrder)
	table := make(map[string]types.Appender, len(c.appenders))
	for name, app := range c.appenders {
		table[name] = app
	}
	c.mu.RUnlock()

	started := make([]types.Appender, 0, len(order))
	for _, name := range order {
		app := table[name]
		if err := app.Start(); err != nil {
			for i := len(started) - 1; i >= 0; i-- {
				_ = started[i].Stop()
			}
			c.SetState(types.StateInvalid)
			return errors.Wrapf(err, "configuration %q: starting appender %s", c.name, name)
		}
		started = append(started, app)
	}

	c.Transition(types.StateStarting, types.StateStarted)
	return nil
}

// Stop takes down every owned appender in reverse registration order,
// flushing buffered output. The first failure is returned but every
// appender is still stopped. Stopping a configuration that never
// started releases nothing and still prevents a later Start.
func (c *Configuration) Stop() error {
	if !c.Transition(types.StateStarted, types.StateStopping) {
		if c.Transition(types.StateInitialized, types.StateStopped) {
			return nil
		}
		if c.State() == types.StateStopped {
			return nil
		}
		return &types.LifeCycleError{Entity: c.name, Op: "stop", State: c.State()}
	}

	c.mu.RLock()
	order := make([]string, len(c.appenderOrder))
	copy(order, c.appenderOrder)
	table := make(map[string]types.Appender, len(c.appenders))
	for name, app := range c.appenders {
		table[name] = app
	}
	c.mu.RUnlock()

	var firstErr error
	for i := len(order) - 1; i >= 0; i-- {
		if err := table[order[i]].Stop(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "configuration %q: stopping appender %s", c.name, order[i])
		}
	}

	c.Transition(types.StateStopping, types.StateStopped)
	return firstErr
}
