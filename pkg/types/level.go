package types

import (
	"fmt"
	"strings"
)

// Level represents the severity of a log event. Levels are totally ordered:
//
//	LevelAll < LevelTrace < LevelDebug < LevelInfo < LevelWarn < LevelError < LevelFatal < LevelOff
//
// A level used as a threshold enables every event whose level is greater
// than or equal to it. LevelAll and LevelOff are configuration sentinels:
// LevelAll admits everything, LevelOff admits nothing.
type Level int32

const (
	// LevelAll is the lowest threshold; it enables every event.
	LevelAll Level = iota
	// LevelTrace is for very detailed diagnostic information.
	LevelTrace
	// LevelDebug is for detailed diagnostic information.
	LevelDebug
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for potentially harmful situations.
	LevelWarn
	// LevelError is for serious failures that need attention.
	LevelError
	// LevelFatal is for failures after which the application cannot continue.
	LevelFatal
	// LevelOff is the highest threshold; it disables all logging.
	LevelOff
)

// Enables reports whether an event logged at level event passes the
// receiver used as a threshold. The comparison is inclusive: a WARN
// threshold enables WARN events.
func (l Level) Enables(event Level) bool {
	return event >= l
}

// Compare returns -1, 0 or 1 as a orders before, equal to or after b
// in severity order.
func Compare(a, b Level) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String returns the uppercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelAll:
		return "ALL"
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	case LevelOff:
		return "OFF"
	default:
		return fmt.Sprintf("LEVEL(%d)", int32(l))
	}
}

// ParseLevel converts a level name to its Level value. Names are matched
// case-insensitively ("warn", "WARN" and "Warning" all parse to LevelWarn).
// Unknown names return an error rather than a silent default so that
// configuration typos are detectable.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return LevelAll, nil
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error", "err":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	case "off":
		return LevelOff, nil
	default:
		return LevelOff, fmt.Errorf("unknown level %q", s)
	}
}
