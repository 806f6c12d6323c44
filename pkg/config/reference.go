// Package config models the logging topology: appender references,
// logger configurations arranged in a name hierarchy, and the
// Configuration that owns both. Configurations are assembled through the
// Builder or loaded from a file, then activated by a logger context.
package config

import (
	"github.com/pkg/errors"

	"github.com/wayneeseguin/arbor/pkg/types"
)

// Ref binds an appender into a logger configuration, optionally gated by
// a reference-local threshold and filter. A Ref is immutable once built.
type Ref struct {
	appender types.Appender
	level    types.Level
	filter   types.Filter
}

// NewRef creates a reference to appender. A level of LevelAll leaves the
// reference unrestricted; a nil filter accepts every event.
func NewRef(appender types.Appender, level types.Level, filter types.Filter) (*Ref, error) {
	if appender == nil {
		return nil, errors.New("appender reference requires an appender")
	}
	return &Ref{appender: appender, level: level, filter: filter}, nil
}

// Appender returns the referenced appender.
func (r *Ref) Appender() types.Appender { return r.appender }

// Level returns the reference threshold, LevelAll when unrestricted.
func (r *Ref) Level() types.Level { return r.level }

// Filter returns the reference filter, nil when absent.
func (r *Ref) Filter() types.Filter { return r.filter }

// Accepts reports whether e passes the reference threshold and filter.
func (r *Ref) Accepts(e types.Event) bool {
	if !r.level.Enables(e.Level()) {
		return false
	}
	if r.filter != nil && !r.filter.Allow(e) {
		return false
	}
	return true
}

// MarkerFilter returns a filter accepting only events carrying marker.
func MarkerFilter(marker types.Marker) types.Filter {
	return types.FilterFunc(func(e types.Event) bool {
		return e.Marker() == marker
	})
}
