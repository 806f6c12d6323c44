package arbor

import (
	"github.com/wayneeseguin/arbor/internal/metrics"
	"github.com/wayneeseguin/arbor/internal/status"
	"github.com/wayneeseguin/arbor/pkg/config"
	"github.com/wayneeseguin/arbor/pkg/types"
)

// Logger is the handle applications log through. It is bound at
// acquisition time to a configuration node, which decides the effective
// level and where events go. Loggers are cheap, immutable and safe for
// concurrent use.
//
// Logging methods return nothing. Delivery failures that propagate out
// of the configuration (appenders configured to raise rather than
// swallow) are reported to the diagnostic channel, never to the call
// site.
type Logger struct {
	name      string
	fqmn      string
	config    *config.LoggerConfig
	factory   types.MessageFactory
	collector *metrics.Collector
}

// Name returns the logger's name in the configuration hierarchy.
func (l *Logger) Name() string { return l.name }

// FQMN returns the caller identity the logger was acquired with.
func (l *Logger) FQMN() string { return l.fqmn }

// IsEnabled reports whether events at level would currently be logged.
// Use it to skip expensive argument construction.
func (l *Logger) IsEnabled(level types.Level) bool {
	return l.config.IsEnabled(level)
}

// Log records msg at level. A string msg with params becomes a
// parameterized message through the logger's message factory; any other
// msg is wrapped as an object message.
func (l *Logger) Log(level types.Level, msg interface{}, params ...interface{}) {
	l.LogMarker(level, "", msg, params...)
}

// LogMarker records msg at level, tagged with marker.
func (l *Logger) LogMarker(level types.Level, marker types.Marker, msg interface{}, params ...interface{}) {
	if !l.config.IsEnabled(level) {
		l.collector.TrackFiltered()
		return
	}
	l.collector.TrackEvent(level)

	m := l.factory.NewMessage(msg, params...)
	if err := l.config.LogMessage(l.fqmn, level, marker, m); err != nil {
		status.Errorf(l.name, err, "event delivery failed")
	}
}

// Trace records msg at TRACE.
func (l *Logger) Trace(msg interface{}, params ...interface{}) {
	l.LogMarker(types.LevelTrace, "", msg, params...)
}

// Debug records msg at DEBUG.
func (l *Logger) Debug(msg interface{}, params ...interface{}) {
	l.LogMarker(types.LevelDebug, "", msg, params...)
}

// Info records msg at INFO.
func (l *Logger) Info(msg interface{}, params ...interface{}) {
	l.LogMarker(types.LevelInfo, "", msg, params...)
}

// Warn records msg at WARN.
func (l *Logger) Warn(msg interface{}, params ...interface{}) {
	l.LogMarker(types.LevelWarn, "", msg, params...)
}

// Error records msg at ERROR.
func (l *Logger) Error(msg interface{}, params ...interface{}) {
	l.LogMarker(types.LevelError, "", msg, params...)
}

// Fatal records msg at FATAL. It does not terminate the process;
// deciding to exit stays with the caller.
func (l *Logger) Fatal(msg interface{}, params ...interface{}) {
	l.LogMarker(types.LevelFatal, "", msg, params...)
}
