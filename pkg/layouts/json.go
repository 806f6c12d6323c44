package layouts

import (
	"encoding/json"
	"time"

	"github.com/wayneeseguin/arbor/pkg/types"
)

// JSONLayout renders events as line-delimited JSON objects.
type JSONLayout struct {
	// TimestampFormat overrides time.RFC3339Nano when non-empty. It must
	// be a Go reference layout.
	TimestampFormat string
}

// NewJSON creates a JSON layout with RFC3339Nano timestamps.
func NewJSON() *JSONLayout {
	return &JSONLayout{}
}

type jsonEvent struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Logger    string `json:"logger"`
	Message   string `json:"message"`
	Marker    string `json:"marker,omitempty"`
	FQMN      string `json:"fqmn,omitempty"`
}

// Serialize renders e as one JSON object followed by a newline.
func (l *JSONLayout) Serialize(e types.Event) ([]byte, error) {
	format := l.TimestampFormat
	if format == "" {
		format = time.RFC3339Nano
	}

	entry := jsonEvent{
		Timestamp: e.Time().Format(format),
		Level:     e.Level().String(),
		Logger:    e.LoggerName(),
		Marker:    string(e.Marker()),
		FQMN:      e.FQMN(),
	}
	if msg := e.Message(); msg != nil {
		entry.Message = msg.Formatted()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Header returns nil; output is line-delimited rather than a JSON array.
func (l *JSONLayout) Header() []byte { return nil }

// Footer returns nil.
func (l *JSONLayout) Footer() []byte { return nil }

// ContentType returns the MIME type of the output.
func (l *JSONLayout) ContentType() string { return "application/json" }

var _ types.Layout = (*JSONLayout)(nil)
