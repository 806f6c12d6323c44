package types

// Message carries the payload of a log event. Implementations are immutable
// after construction; Formatted may be called many times (once per appender
// the event reaches) and must return the same text each time.
type Message interface {
	// Formatted returns the fully rendered message text.
	Formatted() string
	// Format returns the raw pattern or template the message was built
	// from (for a plain message this is the text itself).
	Format() string
	// Parameters returns the positional substitution values, or nil when
	// the message has none.
	Parameters() []interface{}
}

// MessageFactory builds a Message from the arguments of a logging call.
// The dispatch rule is fixed: a string argument selects the factory's
// pattern-based variant, any other argument is wrapped as an object message.
type MessageFactory interface {
	NewMessage(arg interface{}, params ...interface{}) Message
}

// Appender is a configured output sink for log events. Appenders are
// shared by every LoggerConfig that references them and must support safe
// sequential reuse across many Append calls.
type Appender interface {
	LifeCycle

	// Name returns the appender's unique name within a Configuration.
	Name() string
	// Layout returns the serializer for this appender, or nil when the
	// appender consumes events directly.
	Layout() Layout
	// Append delivers one event to the sink. Calling Append outside the
	// STARTED state is an error.
	Append(e Event) error
	// IgnoreExceptions reports whether Append failures should be swallowed
	// by the dispatcher (after status reporting) instead of propagated.
	IgnoreExceptions() bool
}

// Layout turns an event into bytes for a specific appender.
type Layout interface {
	// Header returns bytes written once when the appender starts, or nil.
	Header() []byte
	// Footer returns bytes written once when the appender stops, or nil.
	Footer() []byte
	// Serialize renders one event.
	Serialize(e Event) ([]byte, error)
	// ContentType describes the serialized form, e.g. "text/plain".
	ContentType() string
}

// Filter decides whether an appender reference accepts an event. Filters
// are optional; a nil filter accepts everything. Filter chains are not
// evaluated by the core: each appender reference holds at most one filter.
type Filter interface {
	Allow(e Event) bool
}

// FilterFunc adapts a plain function to the Filter interface.
type FilterFunc func(e Event) bool

// Allow implements Filter.
func (f FilterFunc) Allow(e Event) bool { return f(e) }
