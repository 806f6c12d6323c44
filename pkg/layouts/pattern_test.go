package layouts

import (
	"strings"
	"testing"
	"time"

	"github.com/wayneeseguin/arbor/pkg/messages"
	"github.com/wayneeseguin/arbor/pkg/types"
)

var eventTime = time.Date(2025, 3, 14, 9, 26, 53, 589000000, time.UTC)

func testEvent(logger string, level types.Level, marker types.Marker, text string) types.Event {
	return types.NewLogEventAt("app.core", level, logger, marker, messages.NewSimple(text), eventTime)
}

func serialize(t *testing.T, pattern string, e types.Event) string {
	t.Helper()
	l, err := NewPattern(pattern)
	if err != nil {
		t.Fatalf("NewPattern(%q) error = %v", pattern, err)
	}
	out, err := l.Serialize(e)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	return string(out)
}

func TestPatternVerbs(t *testing.T) {
	e := testEvent("app.db.pool", types.LevelInfo, "", "connection ready")

	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"message", "%m", "connection ready"},
		{"level", "%p", "INFO"},
		{"logger", "%c", "app.db.pool"},
		{"logger precision one", "%c{1}", "pool"},
		{"logger precision two", "%c{2}", "db.pool"},
		{"logger precision beyond depth", "%c{9}", "app.db.pool"},
		{"newline", "%m%n", "connection ready\n"},
		{"literal percent", "100%%", "100%"},
		{"fqmn", "%fqmn", "app.core"},
		{"literal text", "prefix %m suffix", "prefix connection ready suffix"},
		{"date default", "%d", "2025-03-14 09:26:53.589"},
		{"date explicit default", "%d{DEFAULT}", "2025-03-14 09:26:53.589"},
		{"date iso8601", "%d{ISO8601}", "2025-03-14T09:26:53.589Z"},
		{"date go layout", "%d{2006/01/02}", "2025/03/14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := serialize(t, tt.pattern, e); got != tt.want {
				t.Errorf("Serialize(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestPatternLevelPadding(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		level   types.Level
		want    string
	}{
		{"left justify info", "%-5p|", types.LevelInfo, "INFO |"},
		{"left justify error", "%-5p|", types.LevelError, "ERROR|"},
		{"right justify info", "%5p|", types.LevelInfo, " INFO|"},
		{"width smaller than name", "%-2p|", types.LevelDebug, "DEBUG|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEvent("app", tt.level, "", "x")
			if got := serialize(t, tt.pattern, e); got != tt.want {
				t.Errorf("Serialize(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestPatternMarker(t *testing.T) {
	withMarker := testEvent("app", types.LevelWarn, "SECURITY", "denied")
	if got := serialize(t, "[%marker] %m", withMarker); got != "[SECURITY] denied" {
		t.Errorf("Serialize() = %q, want %q", got, "[SECURITY] denied")
	}

	noMarker := testEvent("app", types.LevelWarn, "", "denied")
	if got := serialize(t, "[%marker] %m", noMarker); got != "[] denied" {
		t.Errorf("Serialize() = %q, want %q", got, "[] denied")
	}
}

func TestDefaultPattern(t *testing.T) {
	l := Default()
	if l.Pattern() != DefaultPattern {
		t.Errorf("Pattern() = %q, want %q", l.Pattern(), DefaultPattern)
	}

	e := testEvent("app.web", types.LevelInfo, "", "started")
	out, err := l.Serialize(e)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	want := "2025-03-14 09:26:53.589 INFO  app.web - started\n"
	if string(out) != want {
		t.Errorf("Serialize() = %q, want %q", string(out), want)
	}
}

func TestNewPatternErrors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{"unknown verb", "%z"},
		{"dangling percent", "trailing %"},
		{"dangling width", "pad %-5"},
		{"unterminated brace", "%d{2006"},
		{"bad precision", "%c{zero}"},
		{"negative precision", "%c{-1}"},
		{"option on level", "%p{x}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPattern(tt.pattern); err == nil {
				t.Errorf("NewPattern(%q) succeeded, want error", tt.pattern)
			}
		})
	}
}

func TestMustPatternPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustPattern did not panic on a bad pattern")
		}
	}()
	MustPattern("%z")
}

func TestPatternLayoutMetadata(t *testing.T) {
	l := Default()
	if l.Header() != nil {
		t.Errorf("Header() = %v, want nil", l.Header())
	}
	if l.Footer() != nil {
		t.Errorf("Footer() = %v, want nil", l.Footer())
	}
	if got := l.ContentType(); got != "text/plain" {
		t.Errorf("ContentType() = %q, want %q", got, "text/plain")
	}
}

func TestPatternLayoutConcurrent(t *testing.T) {
	l := Default()
	e := testEvent("app", types.LevelInfo, "", "shared layout")

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				out, err := l.Serialize(e)
				if err != nil {
					t.Errorf("Serialize() error = %v", err)
					return
				}
				if !strings.Contains(string(out), "shared layout") {
					t.Errorf("Serialize() = %q, missing message", string(out))
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
