package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/wayneeseguin/arbor/internal/status"
	"github.com/wayneeseguin/arbor/pkg/appenders"
	"github.com/wayneeseguin/arbor/pkg/layouts"
	"github.com/wayneeseguin/arbor/pkg/types"
)

// maxConfigSize caps declarative sources at 1MB.
const maxConfigSize = 1 << 20

// DefaultFileNames are the file names Probe looks for, in order.
var DefaultFileNames = []string{"arbor.yaml", "arbor.yml", "arbor.json"}

// document is the declarative configuration schema.
type document struct {
	Name        string         `koanf:"name"`
	StatusLevel string         `koanf:"status_level"`
	Appenders   []appenderDecl `koanf:"appenders"`
	Root        *loggerDecl    `koanf:"root"`
	Loggers     []loggerDecl   `koanf:"loggers"`
}

type appenderDecl struct {
	Name   string     `koanf:"name"`
	Kind   string     `koanf:"kind"`
	Layout layoutDecl `koanf:"layout"`
	// PropagateErrors makes delivery failures abort dispatch instead of
	// being swallowed after diagnostic reporting.
	PropagateErrors bool `koanf:"propagate_errors"`

	// Console.
	Target string `koanf:"target"`

	// File.
	Path          string        `koanf:"path"`
	Buffered      bool          `koanf:"buffered"`
	BufferSize    int           `koanf:"buffer_size"`
	FlushInterval time.Duration `koanf:"flush_interval"`
	BatchCount    int           `koanf:"batch_count"`

	// NATS.
	URL string `koanf:"url"`
}

type layoutDecl struct {
	Kind      string `koanf:"kind"`      // "pattern" (default) or "json"
	Pattern   string `koanf:"pattern"`   // pattern layouts
	Timestamp string `koanf:"timestamp"` // json layouts, Go reference layout
}

type refDecl struct {
	Appender string `koanf:"appender"`
	Level    string `koanf:"level"`  // empty means ALL
	Marker   string `koanf:"marker"` // empty means no filter
}

type loggerDecl struct {
	Name     string    `koanf:"name"`
	Level    string    `koanf:"level"` // empty means inherit
	Additive *bool     `koanf:"additive"`
	Refs     []refDecl `koanf:"refs"`
}

// Load reads a declarative configuration from path. The file extension
// selects the parser: .yaml and .yml parse as YAML, .json as JSON.
func Load(path string) (*Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	if info.Size() > maxConfigSize {
		return nil, errors.Errorf("config %s: %d bytes exceeds the %d byte limit", path, info.Size(), maxConfigSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}

	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	case ".json":
		format = "json"
	default:
		return nil, errors.Errorf("config %s: unsupported extension", path)
	}

	cfg, err := LoadBytes(content, format)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	cfg.setSource(path)
	return cfg, nil
}

// LoadBytes builds a configuration from an in-memory document. format is
// "yaml" or "json".
func LoadBytes(content []byte, format string) (*Configuration, error) {
	k := koanf.New(".")

	var parser koanf.Parser
	switch format {
	case "yaml", "yml":
		parser = yaml.Parser()
	case "json":
		parser = json.Parser()
	default:
		return nil, errors.Errorf("unsupported config format %q", format)
	}

	if err := k.Load(rawbytes.Provider(content), parser); err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	var doc document
	if err := k.Unmarshal("", &doc); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return build(&doc)
}

// Probe looks for a default-named configuration file in dir and loads
// the first one found. The found result distinguishes a missing file
// (callers fall back silently) from one that exists but fails to load.
func Probe(dir string) (cfg *Configuration, found bool, err error) {
	for _, name := range DefaultFileNames {
		path := filepath.Join(dir, name)
		if _, statErr := os.Stat(path); statErr != nil {
			if os.IsNotExist(statErr) {
				continue
			}
			return nil, false, errors.Wrap(statErr, "config probe")
		}
		cfg, err = Load(path)
		if err != nil {
			return nil, true, err
		}
		return cfg, true, nil
	}
	return nil, false, nil
}

// build materializes a decoded document in two phases: appenders first,
// then the logger tree whose references resolve strictly against the
// appender table.
func build(doc *document) (*Configuration, error) {
	name := doc.Name
	if name == "" {
		name = DefaultConfigurationName
	}
	cfg := NewConfiguration(name)

	for _, decl := range doc.Appenders {
		app, err := buildAppender(decl)
		if err != nil {
			return nil, err
		}
		if err := cfg.AddAppender(app); err != nil {
			return nil, err
		}
	}

	if doc.Root != nil {
		if err := applyLogger(cfg, cfg.Root(), doc.Root); err != nil {
			return nil, err
		}
	}
	for i := range doc.Loggers {
		decl := &doc.Loggers[i]
		if decl.Name == "" {
			return nil, errors.New("logger missing name; configure the hierarchy root under the root key")
		}
		lc := NewInheritingLoggerConfig(decl.Name)
		if err := cfg.AddLogger(lc); err != nil {
			return nil, err
		}
		if err := applyLogger(cfg, lc, decl); err != nil {
			return nil, err
		}
	}

	if doc.StatusLevel != "" {
		level, err := types.ParseLevel(doc.StatusLevel)
		if err != nil {
			return nil, errors.Wrap(err, "status_level")
		}
		status.Default.SetLevel(level)
	}
	return cfg, nil
}

func buildAppender(decl appenderDecl) (types.Appender, error) {
	if decl.Name == "" {
		return nil, errors.New("appender missing name")
	}
	if decl.Kind == "" {
		return nil, errors.Errorf("appender %q missing kind", decl.Name)
	}
	layout, err := buildLayout(decl.Layout)
	if err != nil {
		return nil, errors.Wrapf(err, "appender %q", decl.Name)
	}
	app, err := appenders.Create(decl.Kind, appenders.Settings{
		Name:            decl.Name,
		Layout:          layout,
		PropagateErrors: decl.PropagateErrors,
		Target:          decl.Target,
		Path:            decl.Path,
		BufferSize:      decl.BufferSize,
		Buffered:        decl.Buffered,
		FlushInterval:   decl.FlushInterval,
		BatchCount:      decl.BatchCount,
		URL:             decl.URL,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "appender %q", decl.Name)
	}
	return app, nil
}

// buildLayout returns nil for an empty pattern declaration so the
// appender falls back to its own default layout.
func buildLayout(decl layoutDecl) (types.Layout, error) {
	switch decl.Kind {
	case "", "pattern":
		if decl.Pattern == "" {
			return nil, nil
		}
		return layouts.NewPattern(decl.Pattern)
	case "json":
		l := layouts.NewJSON()
		l.TimestampFormat = decl.Timestamp
		return l, nil
	default:
		return nil, errors.Errorf("unknown layout kind %q", decl.Kind)
	}
}

func applyLogger(cfg *Configuration, lc *LoggerConfig, decl *loggerDecl) error {
	if decl.Level != "" {
		level, err := types.ParseLevel(decl.Level)
		if err != nil {
			return errors.Wrapf(err, "logger %q", lc.Name())
		}
		lc.SetLevel(level)
	}
	if decl.Additive != nil {
		lc.SetAdditive(*decl.Additive)
	}
	for _, ref := range decl.Refs {
		app, err := cfg.Appender(ref.Appender)
		if err != nil {
			return errors.Wrapf(err, "logger %q", lc.Name())
		}
		level := types.LevelAll
		if ref.Level != "" {
			level, err = types.ParseLevel(ref.Level)
			if err != nil {
				return errors.Wrapf(err, "logger %q: ref %s", lc.Name(), ref.Appender)
			}
		}
		var filter types.Filter
		if ref.Marker != "" {
			filter = MarkerFilter(types.Marker(ref.Marker))
		}
		if err := lc.AddAppenderRef(app, level, filter); err != nil {
			return err
		}
	}
	return nil
}
