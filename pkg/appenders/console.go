package appenders

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/wayneeseguin/arbor/pkg/types"
)

// Target selects the console stream.
type Target int

const (
	// StdErr writes to standard error, the default.
	StdErr Target = iota
	// StdOut writes to standard output.
	StdOut
)

// String returns the stream name.
func (t Target) String() string {
	if t == StdOut {
		return "stdout"
	}
	return "stderr"
}

// ConsoleConfig configures a console appender.
type ConsoleConfig struct {
	// Name identifies the appender. Required.
	Name string
	// Layout serializes events; nil selects the default pattern layout.
	Layout types.Layout
	// Target selects the stream; the zero value is stderr.
	Target Target
	// PropagateErrors makes Append return delivery failures to the caller
	// instead of swallowing them after diagnostic reporting.
	PropagateErrors bool

	// out overrides the target stream in tests.
	out io.Writer
}

// Console writes serialized events to a standard stream. A mutex keeps
// concurrent appends from interleaving partial lines.
type Console struct {
	Base
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console appender in the INITIALIZED state.
func NewConsole(cfg ConsoleConfig) (*Console, error) {
	if cfg.Name == "" {
		return nil, errors.New("console appender requires a name")
	}
	out := cfg.out
	if out == nil {
		if cfg.Target == StdOut {
			out = os.Stdout
		} else {
			out = os.Stderr
		}
	}
	return &Console{
		Base: newBase(cfg.Name, cfg.Layout, cfg.PropagateErrors),
		out:  out,
	}, nil
}

// NewConsoleWriter creates a console appender targeting w. Used by tests
// and by callers routing console output elsewhere.
func NewConsoleWriter(cfg ConsoleConfig, w io.Writer) (*Console, error) {
	cfg.out = w
	return NewConsole(cfg)
}

// Start makes the appender ready and writes the layout header, if any.
func (c *Console) Start() error {
	proceed, err := c.startTransition()
	if !proceed {
		return err
	}
	if header := c.Layout().Header(); len(header) > 0 {
		c.mu.Lock()
		_, werr := c.out.Write(header)
		c.mu.Unlock()
		if werr != nil {
			c.failed()
			return errors.Wrapf(werr, "console appender %s: write header", c.Name())
		}
	}
	c.started()
	return nil
}

// Append serializes e and writes it to the stream.
func (c *Console) Append(e types.Event) error {
	if err := c.checkAppend(); err != nil {
		c.trackError()
		return err
	}

	data, err := c.serialize(e)
	if err != nil {
		c.trackError()
		return errors.Wrapf(err, "console appender %s: serialize", c.Name())
	}

	c.mu.Lock()
	_, err = c.out.Write(data)
	c.mu.Unlock()
	if err != nil {
		c.trackError()
		return errors.Wrapf(err, "console appender %s: write", c.Name())
	}

	c.trackAppend()
	return nil
}

// Stop writes the layout footer, if any, and retires the appender.
func (c *Console) Stop() error {
	proceed, err := c.stopTransition()
	if !proceed {
		return err
	}
	defer c.stopped()

	if footer := c.Layout().Footer(); len(footer) > 0 {
		c.mu.Lock()
		_, werr := c.out.Write(footer)
		c.mu.Unlock()
		if werr != nil {
			return errors.Wrapf(werr, "console appender %s: write footer", c.Name())
		}
	}
	return nil
}

var _ types.Appender = (*Console)(nil)
