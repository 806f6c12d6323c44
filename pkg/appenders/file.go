package appenders

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/wayneeseguin/arbor/internal/buffer"
	"github.com/wayneeseguin/arbor/internal/status"
	"github.com/wayneeseguin/arbor/pkg/types"
)

// DefaultBufferSize is the bufio buffer size for file appenders.
const DefaultBufferSize = 32 * 1024

// defaultBatchCount bounds a buffered batch when none is configured.
const defaultBatchCount = 64

// FileConfig configures a file appender.
type FileConfig struct {
	// Name identifies the appender. Required.
	Name string
	// Path is the log file location. Parent directories are created on
	// Start. Required.
	Path string
	// Layout serializes events; nil selects the default pattern layout.
	Layout types.Layout
	// PropagateErrors makes Append return delivery failures to the caller
	// instead of swallowing them after diagnostic reporting.
	PropagateErrors bool
	// BufferSize overrides DefaultBufferSize when positive.
	BufferSize int
	// Buffered disables the per-append flush. Entries then reach disk when
	// the batch fills, when FlushInterval elapses, and on Stop.
	Buffered bool
	// FlushInterval drives timed flushes in buffered mode; zero disables
	// the timer.
	FlushInterval time.Duration
	// BatchCount bounds entries per batch in buffered mode.
	BatchCount int
}

// File appends serialized events to a log file. The file is opened in
// append mode and guarded with an advisory flock so cooperating processes
// can share it. Writes are buffered; by default every append flushes.
type File struct {
	Base
	cfg FileConfig

	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	batch  *buffer.BatchWriter
	lock   *flock.Flock
	size   int64
}

// NewFile creates a file appender in the INITIALIZED state. The path is
// validated here; the file itself is opened in Start.
func NewFile(cfg FileConfig) (*File, error) {
	if cfg.Name == "" {
		return nil, errors.New("file appender requires a name")
	}
	if cfg.Path == "" {
		return nil, errors.Errorf("file appender %s requires a path", cfg.Name)
	}
	cfg.Path = filepath.Clean(cfg.Path)
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.BatchCount <= 0 {
		cfg.BatchCount = defaultBatchCount
	}
	return &File{
		Base: newBase(cfg.Name, cfg.Layout, cfg.PropagateErrors),
		cfg:  cfg,
	}, nil
}

// Path returns the cleaned log file path.
func (f *File) Path() string { return f.cfg.Path }

// Size returns the bytes written since Start plus the size found on open.
func (f *File) Size() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size
}

// Start opens the file, sizing state and the flock, and writes the layout
// header. Failure to open marks the appender INVALID.
func (f *File) Start() error {
	proceed, err := f.startTransition()
	if !proceed {
		return err
	}

	if err := f.open(); err != nil {
		f.failed()
		return err
	}
	f.started()
	return nil
}

func (f *File) open() error {
	dir := filepath.Dir(f.cfg.Path)
	// #nosec G301 - log directories are shared with readers
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "file appender %s: create directory %s", f.Name(), dir)
	}

	// #nosec G302 G304 - log files are meant to be readable, path is cleaned
	file, err := os.OpenFile(f.cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "file appender %s: open %s", f.Name(), f.cfg.Path)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "file appender %s: stat %s", f.Name(), f.cfg.Path)
	}

	f.mu.Lock()
	f.file = file
	f.writer = bufio.NewWriterSize(file, f.cfg.BufferSize)
	f.lock = flock.New(f.cfg.Path)
	f.size = info.Size()
	if f.cfg.Buffered {
		f.batch = buffer.NewBatchWriter(f.writer, f.cfg.BufferSize, f.cfg.BatchCount, f.cfg.FlushInterval)
		f.batch.OnError(func(err error) {
			status.Errorf(f.Name(), err, "timed flush failed")
		})
	}
	f.mu.Unlock()

	if header := f.Layout().Header(); len(header) > 0 {
		if err := f.write(header); err != nil {
			return errors.Wrapf(err, "file appender %s: write header", f.Name())
		}
	}
	return nil
}

// Append serializes e and writes it under the file lock.
func (f *File) Append(e types.Event) error {
	if err := f.checkAppend(); err != nil {
		f.trackError()
		return err
	}

	data, err := f.serialize(e)
	if err != nil {
		f.trackError()
		return errors.Wrapf(err, "file appender %s: serialize", f.Name())
	}

	if err := f.write(data); err != nil {
		f.trackError()
		return err
	}
	f.trackAppend()
	return nil
}

// write appends data while holding the flock. In buffered mode the entry
// lands in the batch; otherwise it is flushed through before returning.
func (f *File) write(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.lock.Lock(); err != nil {
		return errors.Wrapf(err, "file appender %s: acquire lock", f.Name())
	}
	defer func() {
		_ = f.lock.Unlock()
	}()

	if f.batch != nil {
		n, err := f.batch.Write(data)
		if err != nil {
			return errors.Wrapf(err, "file appender %s: write", f.Name())
		}
		f.size += int64(n)
		return nil
	}

	n, err := f.writer.Write(data)
	if err != nil {
		return errors.Wrapf(err, "file appender %s: write", f.Name())
	}
	f.size += int64(n)
	if err := f.writer.Flush(); err != nil {
		return errors.Wrapf(err, "file appender %s: flush", f.Name())
	}
	return nil
}

// Flush forces buffered entries to disk without waiting for Stop.
func (f *File) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.State() != types.StateStarted {
		return nil
	}
	if f.batch != nil {
		if err := f.batch.Flush(); err != nil {
			return errors.Wrapf(err, "file appender %s: flush", f.Name())
		}
		return nil
	}
	if err := f.writer.Flush(); err != nil {
		return errors.Wrapf(err, "file appender %s: flush", f.Name())
	}
	return nil
}

// Stop writes the layout footer, flushes and syncs pending data, and
// closes the file. The first error is returned but shutdown continues.
func (f *File) Stop() error {
	proceed, err := f.stopTransition()
	if !proceed {
		return err
	}
	defer f.stopped()

	var firstErr error
	if footer := f.Layout().Footer(); len(footer) > 0 {
		if err := f.write(footer); err != nil {
			firstErr = err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.batch != nil {
		if err := f.batch.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "file appender %s: final flush", f.Name())
		}
	} else if f.writer != nil {
		if err := f.writer.Flush(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "file appender %s: final flush", f.Name())
		}
	}
	if f.file != nil {
		if err := f.file.Sync(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "file appender %s: sync", f.Name())
		}
		if err := f.file.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "file appender %s: close", f.Name())
		}
		f.file = nil
	}
	return firstErr
}

var _ types.Appender = (*File)(nil)
