// Package status is the framework's own diagnostic channel. Appenders,
// configurations and contexts report their failures here instead of
// through the logging pipeline, so a broken appender can never recurse
// into itself.
package status

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/wayneeseguin/arbor/pkg/types"
)

// Record describes a single internal diagnostic.
type Record struct {
	Level   types.Level
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// String renders the record in the form written to the output writer.
func (r Record) String() string {
	if r.Err != nil {
		return fmt.Sprintf("arbor: %s [%s] %s: %v", r.Level, r.Source, r.Message, r.Err)
	}
	return fmt.Sprintf("arbor: %s [%s] %s", r.Level, r.Source, r.Message)
}

// Listener receives every record that passes the threshold.
type Listener func(Record)

// Logger filters and fans out diagnostic records. The zero value is not
// usable; construct with NewLogger.
type Logger struct {
	mu        sync.RWMutex
	threshold types.Level
	listeners []Listener
	out       io.Writer
}

// NewLogger returns a logger with an ERROR threshold writing to stderr.
func NewLogger() *Logger {
	return &Logger{
		threshold: types.LevelError,
		out:       os.Stderr,
	}
}

// SetLevel adjusts the threshold below which records are discarded.
func (l *Logger) SetLevel(level types.Level) {
	l.mu.Lock()
	l.threshold = level
	l.mu.Unlock()
}

// Level returns the current threshold.
func (l *Logger) Level() types.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.threshold
}

// AddListener registers fn for records that pass the threshold. Listeners
// run on the reporting goroutine and must not log through the framework.
func (l *Logger) AddListener(fn Listener) {
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

// SetOutput redirects the fallback writer. Passing nil suppresses writer
// output while keeping listeners active.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.out = w
	l.mu.Unlock()
}

// Reset restores the ERROR threshold and stderr output and removes all
// listeners. Intended for tests.
func (l *Logger) Reset() {
	l.mu.Lock()
	l.threshold = types.LevelError
	l.listeners = nil
	l.out = os.Stderr
	l.mu.Unlock()
}

// Report records a diagnostic with an optional underlying error.
func (l *Logger) Report(level types.Level, source string, err error, format string, args ...interface{}) {
	l.mu.RLock()
	threshold := l.threshold
	listeners := l.listeners
	out := l.out
	l.mu.RUnlock()

	if !threshold.Enables(level) {
		return
	}

	rec := Record{
		Level:   level,
		Source:  source,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
		Time:    time.Now(),
	}

	for _, fn := range listeners {
		fn(rec)
	}
	if out != nil {
		fmt.Fprintln(out, rec.String())
	}
}

// Debugf records a DEBUG diagnostic.
func (l *Logger) Debugf(source, format string, args ...interface{}) {
	l.Report(types.LevelDebug, source, nil, format, args...)
}

// Warnf records a WARN diagnostic.
func (l *Logger) Warnf(source, format string, args ...interface{}) {
	l.Report(types.LevelWarn, source, nil, format, args...)
}

// Errorf records an ERROR diagnostic with an underlying error.
func (l *Logger) Errorf(source string, err error, format string, args ...interface{}) {
	l.Report(types.LevelError, source, err, format, args...)
}

// Default is the shared diagnostic logger used across the framework.
var Default = NewLogger()

// Debugf records a DEBUG diagnostic on the default logger.
func Debugf(source, format string, args ...interface{}) {
	Default.Debugf(source, format, args...)
}

// Warnf records a WARN diagnostic on the default logger.
func Warnf(source, format string, args ...interface{}) {
	Default.Warnf(source, format, args...)
}

// Errorf records an ERROR diagnostic on the default logger.
func Errorf(source string, err error, format string, args ...interface{}) {
	Default.Errorf(source, err, format, args...)
}
