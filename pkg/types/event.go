package types

import (
	"time"
)

// Marker is an optional symbolic tag attached to a log event, used to
// classify events independently of logger name and level (for example
// "SECURITY" or "SQL"). The empty Marker means no marker.
type Marker string

// String returns the marker name.
func (m Marker) String() string { return string(m) }

// Event is the immutable record handed to appenders. An Event is created
// once per logging call and never mutated afterwards; appenders may retain
// it (the memory appender does) without copying.
type Event interface {
	// FQMN returns the fully qualified caller-identity string (the
	// module/component namespace of the call site).
	FQMN() string
	// Level returns the severity the event was logged at.
	Level() Level
	// LoggerName returns the name of the logger that produced the event.
	LoggerName() string
	// Marker returns the event's marker, or the empty Marker.
	Marker() Marker
	// Message returns the event's message.
	Message() Message
	// Time returns the instant the event was created.
	Time() time.Time
}

// EventFactory produces the concrete Event implementation a LoggerConfig
// instantiates for each enabled logging call.
type EventFactory interface {
	New(fqmn string, level Level, logger string, marker Marker, msg Message) Event
}

// LogEvent is the canonical Event implementation.
type LogEvent struct {
	fqmn   string
	level  Level
	logger string
	marker Marker
	msg    Message
	time   time.Time
}

// NewLogEvent builds a LogEvent timestamped with time.Now.
func NewLogEvent(fqmn string, level Level, logger string, marker Marker, msg Message) *LogEvent {
	return NewLogEventAt(fqmn, level, logger, marker, msg, time.Now())
}

// NewLogEventAt builds a LogEvent with an explicit timestamp.
func NewLogEventAt(fqmn string, level Level, logger string, marker Marker, msg Message, t time.Time) *LogEvent {
	return &LogEvent{
		fqmn:   fqmn,
		level:  level,
		logger: logger,
		marker: marker,
		msg:    msg,
		time:   t,
	}
}

// FQMN returns the caller-identity string.
func (e *LogEvent) FQMN() string { return e.fqmn }

// Level returns the event severity.
func (e *LogEvent) Level() Level { return e.level }

// LoggerName returns the producing logger's name.
func (e *LogEvent) LoggerName() string { return e.logger }

// Marker returns the event marker (empty when absent).
func (e *LogEvent) Marker() Marker { return e.marker }

// Message returns the event message.
func (e *LogEvent) Message() Message { return e.msg }

// Time returns the event creation time.
func (e *LogEvent) Time() time.Time { return e.time }

// logEventFactory is the default EventFactory.
type logEventFactory struct{}

func (logEventFactory) New(fqmn string, level Level, logger string, marker Marker, msg Message) Event {
	return NewLogEvent(fqmn, level, logger, marker, msg)
}

// DefaultEventFactory produces LogEvent instances.
var DefaultEventFactory EventFactory = logEventFactory{}
