package config

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/wayneeseguin/arbor/internal/metrics"
	"github.com/wayneeseguin/arbor/internal/status"
	"github.com/wayneeseguin/arbor/pkg/types"
)

// RootLoggerName is the name of the hierarchy root. Every other logger
// name is a dotted path beneath it.
const RootLoggerName = ""

// LoggerConfig is one node in the logger name hierarchy. It carries an
// optional explicit level, an additivity flag, and an ordered list of
// appender references. Parent links are wired by the owning Configuration
// so levels inherit and additive delivery can climb toward the root.
type LoggerConfig struct {
	name string

	mu       sync.RWMutex
	level    types.Level
	hasLevel bool
	additive bool
	parent   *LoggerConfig
	refs     []*Ref // copy-on-write; Log iterates a snapshot without the lock

	eventFactory types.EventFactory
	collector    *metrics.Collector
}

// NewLoggerConfig creates a node named name with an explicit level.
// Additivity defaults to true.
func NewLoggerConfig(name string, level types.Level) *LoggerConfig {
	return &LoggerConfig{
		name:         name,
		level:        level,
		hasLevel:     true,
		additive:     true,
		eventFactory: types.DefaultEventFactory,
	}
}

// NewInheritingLoggerConfig creates a node with no explicit level; its
// effective level comes from the nearest ancestor that has one.
func NewInheritingLoggerConfig(name string) *LoggerConfig {
	return &LoggerConfig{
		name:         name,
		additive:     true,
		eventFactory: types.DefaultEventFactory,
	}
}

// Name returns the node's logger name; empty for the root.
func (lc *LoggerConfig) Name() string { return lc.name }

// Level returns the node's effective level: its explicit level when set,
// otherwise the nearest ancestor's. A detached node without an explicit
// level reports LevelError, the framework default.
func (lc *LoggerConfig) Level() types.Level {
	node := lc
	for node != nil {
		node.mu.RLock()
		level, ok, parent := node.level, node.hasLevel, node.parent
		node.mu.RUnlock()
		if ok {
			return level
		}
		node = parent
	}
	return types.LevelError
}

// ExplicitLevel returns the level set directly on this node and whether
// one is set at all.
func (lc *LoggerConfig) ExplicitLevel() (types.Level, bool) {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.level, lc.hasLevel
}

// SetLevel assigns an explicit level.
func (lc *LoggerConfig) SetLevel(level types.Level) {
	lc.mu.Lock()
	lc.level = level
	lc.hasLevel = true
	lc.mu.Unlock()
}

// ClearLevel removes the explicit level so the node inherits again.
func (lc *LoggerConfig) ClearLevel() {
	lc.mu.Lock()
	lc.hasLevel = false
	lc.mu.Unlock()
}

// IsEnabled reports whether an event at level would pass this node's
// effective threshold.
func (lc *LoggerConfig) IsEnabled(level types.Level) bool {
	return lc.Level().Enables(level)
}

// IsAdditive reports whether events climb to the parent after local
// delivery.
func (lc *LoggerConfig) IsAdditive() bool {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.additive
}

// SetAdditive toggles ancestor propagation.
func (lc *LoggerConfig) SetAdditive(additive bool) {
	lc.mu.Lock()
	lc.additive = additive
	lc.mu.Unlock()
}

// Parent returns the wired parent node, nil for the root.
func (lc *LoggerConfig) Parent() *LoggerConfig {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.parent
}

// setParent is called by the owning Configuration during wiring.
func (lc *LoggerConfig) setParent(parent *LoggerConfig) {
	lc.mu.Lock()
	lc.parent = parent
	lc.mu.Unlock()
}

// SetEventFactory replaces the factory LogMessage builds events with.
// A nil factory restores the default.
func (lc *LoggerConfig) SetEventFactory(f types.EventFactory) {
	if f == nil {
		f = types.DefaultEventFactory
	}
	lc.mu.Lock()
	lc.eventFactory = f
	lc.mu.Unlock()
}

// setCollector is called by the owning Configuration so delivery can be
// counted.
func (lc *LoggerConfig) setCollector(c *metrics.Collector) {
	lc.mu.Lock()
	lc.collector = c
	lc.mu.Unlock()
}

// AddRef installs a reference. A reference to an appender already
// referenced replaces the old one in place, keeping its original
// delivery position; new appenders append in insertion order.
func (lc *LoggerConfig) AddRef(ref *Ref) error {
	if ref == nil {
		return errors.Errorf("logger %q: nil appender reference", lc.name)
	}
	name := ref.Appender().Name()
	lc.mu.Lock()
	defer lc.mu.Unlock()
	for i, existing := range lc.refs {
		if existing.Appender().Name() == name {
			refs := make([]*Ref, len(lc.refs))
			copy(refs, lc.refs)
			refs[i] = ref
			lc.refs = refs
			return nil
		}
	}
	lc.refs = append(lc.refs, ref)
	return nil
}

// AddAppenderRef installs a reference to appender gated by level and an
// optional filter. Same replacement semantics as AddRef.
func (lc *LoggerConfig) AddAppenderRef(appender types.Appender, level types.Level, filter types.Filter) error {
	ref, err := NewRef(appender, level, filter)
	if err != nil {
		return errors.Wrapf(err, "logger %q", lc.name)
	}
	return lc.AddRef(ref)
}

// RemoveAppenderRef drops the reference to the named appender, reporting
// whether one was present.
func (lc *LoggerConfig) RemoveAppenderRef(name string) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	for i, ref := range lc.refs {
		if ref.Appender().Name() == name {
			refs := make([]*Ref, 0, len(lc.refs)-1)
			refs = append(refs, lc.refs[:i]...)
			refs = append(refs, lc.refs[i+1:]...)
			lc.refs = refs
			return true
		}
	}
	return false
}

// Refs returns the references in delivery order.
func (lc *LoggerConfig) Refs() []*Ref {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	out := make([]*Ref, len(lc.refs))
	copy(out, lc.refs)
	return out
}

// Log delivers e to this node's references in insertion order and then,
// when additive, to the parent. The parent delivers to its own
// references without re-checking its level; the threshold decision was
// made where the event entered the hierarchy. A reference whose appender
// ignores exceptions has failures reported to the diagnostic channel and
// delivery continues; otherwise the failure aborts delivery, the parent
// included, and propagates to the caller.
func (lc *LoggerConfig) Log(e types.Event) error {
	lc.mu.RLock()
	refs := lc.refs
	additive := lc.additive
	parent := lc.parent
	collector := lc.collector
	lc.mu.RUnlock()

	for _, ref := range refs {
		if !ref.Accepts(e) {
			continue
		}
		appender := ref.Appender()
		if err := appender.Append(e); err != nil {
			if collector != nil {
				collector.TrackError(appender.Name())
			}
			if !appender.IgnoreExceptions() {
				return errors.Wrapf(err, "logger %q: appender %s", lc.name, appender.Name())
			}
			status.Errorf(appender.Name(), err, "append failed, event dropped by appender")
			continue
		}
		if collector != nil {
			collector.TrackAppend(appender.Name())
		}
	}

	if additive && parent != nil {
		return parent.Log(e)
	}
	return nil
}

// LogMessage builds an event for msg through the node's event factory
// and delivers it with Log. Callers are expected to have passed the
// IsEnabled check already; LogMessage itself does not re-check.
func (lc *LoggerConfig) LogMessage(fqmn string, level types.Level, marker types.Marker, msg types.Message) error {
	lc.mu.RLock()
	factory := lc.eventFactory
	lc.mu.RUnlock()
	return lc.Log(factory.New(fqmn, level, lc.name, marker, msg))
}
