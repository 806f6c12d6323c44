// Package layouts renders events to bytes for appenders. A layout is
// compiled once and then shared by every appender that references it, so
// all implementations here are safe for concurrent use.
package layouts

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/wayneeseguin/arbor/internal/buffer"
	"github.com/wayneeseguin/arbor/pkg/types"
)

const (
	// DefaultPattern is the conversion pattern used when none is configured.
	DefaultPattern = "%d %-5p %c - %m%n"

	// DefaultDateFormat renders timestamps for the %d verb with no
	// explicit format.
	DefaultDateFormat = "2006-01-02 15:04:05.000"
)

// converter writes one pattern segment for an event.
type converter func(buf *bytes.Buffer, e types.Event)

// PatternLayout renders events through a conversion pattern compiled at
// construction. Supported verbs:
//
//	%d{format}  event time; DEFAULT, ISO8601, or a Go reference layout
//	%p          level name, honoring a width such as %-5p
//	%c{n}       logger name, keeping the last n dot-separated segments
//	%m          rendered message text
//	%marker     marker, empty when the event carries none
//	%fqmn       fully qualified module name
//	%n          newline
//	%%          literal percent sign
type PatternLayout struct {
	pattern    string
	converters []converter
}

// NewPattern compiles pattern into a layout. Unknown verbs and malformed
// options are compile errors, so a bad pattern is rejected before any
// appender uses it.
func NewPattern(pattern string) (*PatternLayout, error) {
	converters, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	return &PatternLayout{pattern: pattern, converters: converters}, nil
}

// MustPattern is NewPattern for constant patterns known to compile. It
// panics on error.
func MustPattern(pattern string) *PatternLayout {
	l, err := NewPattern(pattern)
	if err != nil {
		panic(err)
	}
	return l
}

// Default returns a layout with the default pattern.
func Default() *PatternLayout {
	return MustPattern(DefaultPattern)
}

// Pattern returns the source pattern.
func (l *PatternLayout) Pattern() string { return l.pattern }

// Serialize renders e through the compiled pattern.
func (l *PatternLayout) Serialize(e types.Event) ([]byte, error) {
	buf := buffer.Get()
	defer buffer.Put(buf)

	for _, c := range l.converters {
		c(buf, e)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Header returns nil; pattern output has no preamble.
func (l *PatternLayout) Header() []byte { return nil }

// Footer returns nil.
func (l *PatternLayout) Footer() []byte { return nil }

// ContentType returns the MIME type of the output.
func (l *PatternLayout) ContentType() string { return "text/plain" }

// compile parses pattern into a converter chain. Literal runs collapse
// into single converters.
func compile(pattern string) ([]converter, error) {
	var converters []converter
	var literal strings.Builder

	flushLiteral := func() {
		if literal.Len() == 0 {
			return
		}
		text := literal.String()
		literal.Reset()
		converters = append(converters, func(buf *bytes.Buffer, _ types.Event) {
			buf.WriteString(text)
		})
	}

	for i := 0; i < len(pattern); {
		ch := pattern[i]
		if ch != '%' {
			literal.WriteByte(ch)
			i++
			continue
		}
		if i+1 >= len(pattern) {
			return nil, fmt.Errorf("pattern %q: dangling %% at end", pattern)
		}

		i++ // consume '%'

		// Optional width, as in %-5p or %5p.
		leftJustify := false
		width := 0
		if pattern[i] == '-' {
			leftJustify = true
			i++
		}
		for i < len(pattern) && pattern[i] >= '0' && pattern[i] <= '9' {
			width = width*10 + int(pattern[i]-'0')
			i++
		}
		if i >= len(pattern) {
			return nil, fmt.Errorf("pattern %q: dangling width at end", pattern)
		}

		verb, opt, rest, err := parseVerb(pattern, i)
		if err != nil {
			return nil, err
		}
		i = rest

		c, err := buildConverter(pattern, verb, opt)
		if err != nil {
			return nil, err
		}
		if width > 0 {
			c = padded(c, width, leftJustify)
		}

		flushLiteral()
		converters = append(converters, c)
	}

	flushLiteral()
	return converters, nil
}

// parseVerb reads the verb name and optional {...} argument starting at i.
func parseVerb(pattern string, i int) (verb, opt string, rest int, err error) {
	// Word verbs first, then single letters.
	for _, w := range []string{"marker", "fqmn"} {
		if strings.HasPrefix(pattern[i:], w) {
			return w, "", i + len(w), nil
		}
	}

	verb = string(pattern[i])
	i++

	if i < len(pattern) && pattern[i] == '{' {
		end := strings.IndexByte(pattern[i:], '}')
		if end < 0 {
			return "", "", 0, fmt.Errorf("pattern %q: unterminated option brace", pattern)
		}
		opt = pattern[i+1 : i+end]
		i += end + 1
	}
	return verb, opt, i, nil
}

// buildConverter maps a verb to its converter.
func buildConverter(pattern, verb, opt string) (converter, error) {
	switch verb {
	case "d":
		format := dateFormat(opt)
		return func(buf *bytes.Buffer, e types.Event) {
			buf.WriteString(e.Time().Format(format))
		}, nil
	case "p":
		if opt != "" {
			return nil, fmt.Errorf("pattern %q: %%p takes no option", pattern)
		}
		return func(buf *bytes.Buffer, e types.Event) {
			buf.WriteString(e.Level().String())
		}, nil
	case "c":
		if opt == "" {
			return func(buf *bytes.Buffer, e types.Event) {
				buf.WriteString(e.LoggerName())
			}, nil
		}
		keep, err := strconv.Atoi(opt)
		if err != nil || keep < 1 {
			return nil, fmt.Errorf("pattern %q: %%c option %q is not a positive integer", pattern, opt)
		}
		return func(buf *bytes.Buffer, e types.Event) {
			buf.WriteString(trailingSegments(e.LoggerName(), keep))
		}, nil
	case "m":
		return func(buf *bytes.Buffer, e types.Event) {
			if msg := e.Message(); msg != nil {
				buf.WriteString(msg.Formatted())
			}
		}, nil
	case "marker":
		return func(buf *bytes.Buffer, e types.Event) {
			buf.WriteString(string(e.Marker()))
		}, nil
	case "fqmn":
		return func(buf *bytes.Buffer, e types.Event) {
			buf.WriteString(e.FQMN())
		}, nil
	case "n":
		return func(buf *bytes.Buffer, _ types.Event) {
			buf.WriteByte('\n')
		}, nil
	case "%":
		return func(buf *bytes.Buffer, _ types.Event) {
			buf.WriteByte('%')
		}, nil
	default:
		return nil, fmt.Errorf("pattern %q: unknown verb %%%s", pattern, verb)
	}
}

// dateFormat resolves a %d option to a Go time layout.
func dateFormat(opt string) string {
	switch opt {
	case "", "DEFAULT":
		return DefaultDateFormat
	case "ISO8601":
		return "2006-01-02T15:04:05.000Z07:00"
	default:
		return opt
	}
}

// padded wraps c so its output occupies at least width characters.
func padded(c converter, width int, leftJustify bool) converter {
	return func(buf *bytes.Buffer, e types.Event) {
		var tmp bytes.Buffer
		c(&tmp, e)
		s := tmp.String()
		if pad := width - len(s); pad > 0 {
			if leftJustify {
				buf.WriteString(s)
				writeSpaces(buf, pad)
				return
			}
			writeSpaces(buf, pad)
		}
		buf.WriteString(s)
	}
}

func writeSpaces(buf *bytes.Buffer, n int) {
	for i := 0; i < n; i++ {
		buf.WriteByte(' ')
	}
}

// trailingSegments keeps the last keep dot-separated segments of name.
func trailingSegments(name string, keep int) string {
	idx := len(name)
	for i := 0; i < keep; i++ {
		dot := strings.LastIndexByte(name[:idx], '.')
		if dot < 0 {
			return name
		}
		idx = dot
	}
	return name[idx+1:]
}

var _ types.Layout = (*PatternLayout)(nil)
