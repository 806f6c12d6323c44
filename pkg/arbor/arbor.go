package arbor

import (
	"github.com/wayneeseguin/arbor/internal/status"
	"github.com/wayneeseguin/arbor/pkg/config"
	"github.com/wayneeseguin/arbor/pkg/types"
)

// loggerOptions collects per-acquisition options.
type loggerOptions struct {
	name           string
	messageFactory types.MessageFactory
	configFile     string
	configBuilder  func() (*config.Configuration, error)
}

// LoggerOption adjusts a single GetLogger call.
type LoggerOption func(*loggerOptions)

// WithName binds the logger to a hierarchy name other than the caller
// identity.
func WithName(name string) LoggerOption {
	return func(o *loggerOptions) { o.name = name }
}

// WithMessageFactory overrides the process default message factory for
// this logger.
func WithMessageFactory(f types.MessageFactory) LoggerOption {
	return func(o *loggerOptions) { o.messageFactory = f }
}

// WithConfigFile names the declarative source to start the context
// with. It outranks WithConfigBuilder and the working-directory probe,
// and is ignored when the context is already started.
func WithConfigFile(path string) LoggerOption {
	return func(o *loggerOptions) { o.configFile = path }
}

// WithConfigBuilder supplies the starting configuration
// programmatically. Ignored when the context is already started.
func WithConfigBuilder(build func() (*config.Configuration, error)) LoggerOption {
	return func(o *loggerOptions) { o.configBuilder = build }
}

// GetLogger returns the logger for a caller identity, starting the
// identity's context on first use. The context's configuration comes
// from WithConfigFile, WithConfigBuilder or a probe for arbor.yaml,
// arbor.yml or arbor.json in the working directory, in that order; a
// missing or broken source is recovered locally with the fallback
// configuration and never surfaces as an error here. The returned error
// is reserved for contexts that have already been shut down.
func GetLogger(fqmn string, opts ...LoggerOption) (*Logger, error) {
	var o loggerOptions
	for _, opt := range opts {
		opt(&o)
	}

	ctx := currentSelector().ContextFor(fqmn)

	var cfg *config.Configuration
	if ctx.State() == types.StateInitialized {
		cfg = resolveConfiguration(&o)
		cfg.SetEventFactory(currentEventFactory())
	} else if o.configFile != "" || o.configBuilder != nil {
		status.Debugf("arbor", "context %q already started, configuration options ignored", ctx.Key())
	}
	if err := ctx.Start(cfg); err != nil {
		return nil, err
	}

	name := o.name
	if name == "" {
		name = fqmn
	}
	factory := o.messageFactory
	if factory == nil {
		factory = currentMessageFactory()
	}
	return ctx.Logger(name, fqmn, factory)
}

// resolveConfiguration picks the configuration for a fresh context.
// Source failures are reported to the diagnostic channel and recovered
// with the fallback configuration, so acquisition survives a bad or
// missing source.
func resolveConfiguration(o *loggerOptions) *config.Configuration {
	switch {
	case o.configFile != "":
		cfg, err := config.Load(o.configFile)
		if err != nil {
			status.Errorf("arbor", err, "using the default configuration")
			return config.NewDefault()
		}
		return cfg
	case o.configBuilder != nil:
		cfg, err := o.configBuilder()
		if err != nil {
			status.Errorf("arbor", err, "configuration builder failed, using the default configuration")
			return config.NewDefault()
		}
		if cfg == nil {
			status.Errorf("arbor", nil, "configuration builder returned nil, using the default configuration")
			return config.NewDefault()
		}
		return cfg
	default:
		cfg, found, err := config.Probe(".")
		if err != nil {
			status.Errorf("arbor", err, "using the default configuration")
			return config.NewDefault()
		}
		if !found {
			return config.NewDefault()
		}
		return cfg
	}
}
