package config

import (
	"github.com/pkg/errors"

	"github.com/wayneeseguin/arbor/pkg/types"
)

// RefSpec names an appender reference for the Builder. The zero Level is
// LevelAll, an unrestricted reference; Filter is optional.
type RefSpec struct {
	Appender string
	Level    types.Level
	Filter   types.Filter
}

// Builder assembles a Configuration through a fluent interface. Methods
// record declarations and remember the first error; Build materializes
// the topology, resolving every appender reference strictly by name
// against the appenders registered on the builder.
type Builder struct {
	name       string
	appenders  []types.Appender
	rootLevel  types.Level
	rootSet    bool
	rootRefs   []RefSpec
	loggers    []loggerSpec
	additivity []additivitySpec
	err        error
}

type loggerSpec struct {
	name  string
	level types.Level
	refs  []RefSpec
}

type additivitySpec struct {
	name     string
	additive bool
}

// NewBuilder starts a builder for a configuration named name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// WithAppender registers an appender future references can name.
func (b *Builder) WithAppender(app types.Appender) *Builder {
	if b.err != nil {
		return b
	}
	if app == nil {
		b.err = errors.New("builder: nil appender")
		return b
	}
	b.appenders = append(b.appenders, app)
	return b
}

// WithRoot sets the root logger's level and references.
func (b *Builder) WithRoot(level types.Level, refs ...RefSpec) *Builder {
	if b.err != nil {
		return b
	}
	b.rootLevel = level
	b.rootSet = true
	b.rootRefs = append(b.rootRefs, refs...)
	return b
}

// WithLogger declares a named logger with an explicit level and its
// references. Declaring the same name twice is an error.
func (b *Builder) WithLogger(name string, level types.Level, refs ...RefSpec) *Builder {
	if b.err != nil {
		return b
	}
	if name == RootLoggerName {
		b.err = errors.New("builder: use WithRoot for the root logger")
		return b
	}
	for _, spec := range b.loggers {
		if spec.name == name {
			b.err = errors.Errorf("builder: logger %q declared twice", name)
			return b
		}
	}
	b.loggers = append(b.loggers, loggerSpec{name: name, level: level, refs: refs})
	return b
}

// WithAdditivity overrides ancestor propagation for a declared logger.
func (b *Builder) WithAdditivity(name string, additive bool) *Builder {
	if b.err != nil {
		return b
	}
	b.additivity = append(b.additivity, additivitySpec{name: name, additive: additive})
	return b
}

// Build materializes the configuration. Any reference naming an
// unregistered appender fails with ErrAppenderNotFound; the first error
// recorded during building is returned as-is.
func (b *Builder) Build() (*Configuration, error) {
	if b.err != nil {
		return nil, b.err
	}

	cfg := NewConfiguration(b.name)
	for _, app := range b.appenders {
		if err := cfg.AddAppender(app); err != nil {
			return nil, errors.Wrap(err, "builder")
		}
	}

	if b.rootSet {
		cfg.Root().SetLevel(b.rootLevel)
	}
	if err := addRefs(cfg, cfg.Root(), b.rootRefs); err != nil {
		return nil, err
	}

	for _, spec := range b.loggers {
		lc, err := cfg.NewLogger(spec.name, spec.level)
		if err != nil {
			return nil, errors.Wrap(err, "builder")
		}
		if err := addRefs(cfg, lc, spec.refs); err != nil {
			return nil, err
		}
	}

	for _, spec := range b.additivity {
		lc, ok := cfg.Logger(spec.name)
		if !ok {
			return nil, errors.Errorf("builder: additivity for undeclared logger %q", spec.name)
		}
		lc.SetAdditive(spec.additive)
	}

	return cfg, nil
}

func addRefs(cfg *Configuration, lc *LoggerConfig, refs []RefSpec) error {
	for _, spec := range refs {
		app, err := cfg.Appender(spec.Appender)
		if err != nil {
			return errors.Wrapf(err, "builder: logger %q", lc.Name())
		}
		if err := lc.AddAppenderRef(app, spec.Level, spec.Filter); err != nil {
			return errors.Wrap(err, "builder")
		}
	}
	return nil
}

// Example usage:
//
// cfg, err := config.NewBuilder("service").
//     WithAppender(console).
//     WithAppender(audit).
//     WithRoot(types.LevelInfo, config.RefSpec{Appender: "console"}).
//     WithLogger("app.audit", types.LevelDebug,
//         config.RefSpec{Appender: "audit", Level: types.LevelDebug}).
//     WithAdditivity("app.audit", false).
//     Build()
