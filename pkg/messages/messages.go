// Package messages provides the concrete message types that flow through
// the logging pipeline. Messages are immutable: the rendered text is
// computed once at construction so that an event delivered to several
// appenders always carries identical text.
package messages

import (
	"fmt"
	"strings"

	"github.com/wayneeseguin/arbor/pkg/types"
)

// SimpleMessage is a plain string message with no parameters.
type SimpleMessage struct {
	text string
}

// NewSimple wraps text in a SimpleMessage.
func NewSimple(text string) *SimpleMessage {
	return &SimpleMessage{text: text}
}

// Formatted returns the message text.
func (m *SimpleMessage) Formatted() string { return m.text }

// Format returns the message text.
func (m *SimpleMessage) Format() string { return m.text }

// Parameters returns nil.
func (m *SimpleMessage) Parameters() []interface{} { return nil }

// ObjectMessage wraps an arbitrary value. Rendering uses the fmt %v verb,
// so values implementing fmt.Stringer render through String.
type ObjectMessage struct {
	obj       interface{}
	formatted string
}

// NewObject wraps obj in an ObjectMessage.
func NewObject(obj interface{}) *ObjectMessage {
	return &ObjectMessage{obj: obj, formatted: fmt.Sprintf("%v", obj)}
}

// Formatted returns the rendered value.
func (m *ObjectMessage) Formatted() string { return m.formatted }

// Format returns the rendered value.
func (m *ObjectMessage) Format() string { return m.formatted }

// Parameters returns the wrapped value as a single-element slice.
func (m *ObjectMessage) Parameters() []interface{} { return []interface{}{m.obj} }

// Object returns the wrapped value.
func (m *ObjectMessage) Object() interface{} { return m.obj }

// ParameterizedMessage substitutes "{}" placeholders in a pattern with
// positional parameters. Placeholders beyond the parameter count remain
// literal; surplus parameters are ignored.
type ParameterizedMessage struct {
	pattern   string
	params    []interface{}
	formatted string
}

// NewParameterized builds a ParameterizedMessage from pattern and params.
func NewParameterized(pattern string, params ...interface{}) *ParameterizedMessage {
	return &ParameterizedMessage{
		pattern:   pattern,
		params:    params,
		formatted: substitute(pattern, params),
	}
}

// Formatted returns the pattern with placeholders substituted.
func (m *ParameterizedMessage) Formatted() string { return m.formatted }

// Format returns the raw pattern.
func (m *ParameterizedMessage) Format() string { return m.pattern }

// Parameters returns the substitution values, or nil when there are none.
func (m *ParameterizedMessage) Parameters() []interface{} { return m.params }

// substitute replaces each "{}" in pattern with the next parameter,
// rendered with %v.
func substitute(pattern string, params []interface{}) string {
	if len(params) == 0 || !strings.Contains(pattern, "{}") {
		return pattern
	}

	var b strings.Builder
	b.Grow(len(pattern) + 16*len(params))

	rest := pattern
	next := 0
	for {
		i := strings.Index(rest, "{}")
		if i < 0 || next >= len(params) {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:i])
		fmt.Fprintf(&b, "%v", params[next])
		next++
		rest = rest[i+2:]
	}
}

// PrintfMessage renders a printf-style format with positional parameters.
type PrintfMessage struct {
	format    string
	params    []interface{}
	formatted string
}

// NewPrintf builds a PrintfMessage with fmt.Sprintf semantics.
func NewPrintf(format string, params ...interface{}) *PrintfMessage {
	formatted := format
	if len(params) > 0 {
		formatted = fmt.Sprintf(format, params...)
	}
	return &PrintfMessage{format: format, params: params, formatted: formatted}
}

// Formatted returns the rendered text.
func (m *PrintfMessage) Formatted() string { return m.formatted }

// Format returns the raw format string.
func (m *PrintfMessage) Format() string { return m.format }

// Parameters returns the format arguments, or nil when there are none.
func (m *PrintfMessage) Parameters() []interface{} { return m.params }

// Interface checks.
var (
	_ types.Message = (*SimpleMessage)(nil)
	_ types.Message = (*ObjectMessage)(nil)
	_ types.Message = (*ParameterizedMessage)(nil)
	_ types.Message = (*PrintfMessage)(nil)
)
