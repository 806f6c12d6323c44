package messages

import (
	"github.com/wayneeseguin/arbor/pkg/types"
)

// ParameterizedFactory produces ParameterizedMessage values for string
// arguments and ObjectMessage values for everything else. It is the
// default factory installed on loggers.
type ParameterizedFactory struct{}

// NewMessage dispatches on the argument type. A string argument becomes a
// ParameterizedMessage using "{}" placeholders; any other argument becomes
// an ObjectMessage and params are ignored.
func (ParameterizedFactory) NewMessage(arg interface{}, params ...interface{}) types.Message {
	if s, ok := arg.(string); ok {
		if len(params) == 0 {
			return NewSimple(s)
		}
		return NewParameterized(s, params...)
	}
	return NewObject(arg)
}

// PrintfFactory produces PrintfMessage values for string arguments and
// ObjectMessage values for everything else. Install it on loggers whose
// call sites use fmt verbs rather than "{}" placeholders.
type PrintfFactory struct{}

// NewMessage dispatches on the argument type. A string argument becomes a
// PrintfMessage; any other argument becomes an ObjectMessage and params
// are ignored.
func (PrintfFactory) NewMessage(arg interface{}, params ...interface{}) types.Message {
	if s, ok := arg.(string); ok {
		if len(params) == 0 {
			return NewSimple(s)
		}
		return NewPrintf(s, params...)
	}
	return NewObject(arg)
}

// Default is the message factory used when none is configured.
var Default types.MessageFactory = ParameterizedFactory{}

var (
	_ types.MessageFactory = ParameterizedFactory{}
	_ types.MessageFactory = PrintfFactory{}
)
