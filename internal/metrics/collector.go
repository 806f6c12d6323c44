// Package metrics aggregates counters for the logging pipeline. Counters
// use atomics so tracking never contends with event dispatch.
package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/wayneeseguin/arbor/pkg/types"
)

// Collector accumulates per-context pipeline counters.
type Collector struct {
	// Event counts keyed by level.
	eventsByLevel  sync.Map // map[types.Level]*atomic.Uint64
	eventsFiltered uint64

	// Delivery counts keyed by appender name.
	appendsByAppender sync.Map // map[string]*atomic.Uint64

	// Error counts keyed by reporting source.
	errorCount     uint64
	errorsBySource sync.Map // map[string]*atomic.Uint64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Metrics is a point-in-time snapshot of the collector.
type Metrics struct {
	EventsLogged   map[types.Level]uint64 `json:"events_logged"`
	EventsFiltered uint64                 `json:"events_filtered"`
	Appends        map[string]uint64      `json:"appends"`
	ErrorCount     uint64                 `json:"error_count"`
	ErrorsBySource map[string]uint64      `json:"errors_by_source"`
}

// TrackEvent increments the event counter for a level.
func (c *Collector) TrackEvent(level types.Level) {
	val, _ := c.eventsByLevel.LoadOrStore(level, &atomic.Uint64{})
	val.(*atomic.Uint64).Add(1)
}

// TrackFiltered increments the counter of events denied by level or filter.
func (c *Collector) TrackFiltered() {
	atomic.AddUint64(&c.eventsFiltered, 1)
}

// TrackAppend increments the delivery counter for an appender.
func (c *Collector) TrackAppend(appender string) {
	val, _ := c.appendsByAppender.LoadOrStore(appender, &atomic.Uint64{})
	val.(*atomic.Uint64).Add(1)
}

// TrackError increments the error counter and attributes it to source.
func (c *Collector) TrackError(source string) {
	atomic.AddUint64(&c.errorCount, 1)
	val, _ := c.errorsBySource.LoadOrStore(source, &atomic.Uint64{})
	val.(*atomic.Uint64).Add(1)
}

// EventCount returns the number of events tracked at level.
func (c *Collector) EventCount(level types.Level) uint64 {
	if val, ok := c.eventsByLevel.Load(level); ok {
		return val.(*atomic.Uint64).Load()
	}
	return 0
}

// ErrorCount returns the total tracked error count.
func (c *Collector) ErrorCount() uint64 {
	return atomic.LoadUint64(&c.errorCount)
}

// ErrorCountBySource returns the error count attributed to source.
func (c *Collector) ErrorCountBySource(source string) uint64 {
	if val, ok := c.errorsBySource.Load(source); ok {
		return val.(*atomic.Uint64).Load()
	}
	return 0
}

// Snapshot returns a copy of all counters. Zero-valued entries are
// omitted from the maps.
func (c *Collector) Snapshot() Metrics {
	m := Metrics{
		EventsLogged:   make(map[types.Level]uint64),
		EventsFiltered: atomic.LoadUint64(&c.eventsFiltered),
		Appends:        make(map[string]uint64),
		ErrorCount:     atomic.LoadUint64(&c.errorCount),
		ErrorsBySource: make(map[string]uint64),
	}

	c.eventsByLevel.Range(func(key, value interface{}) bool {
		if count := value.(*atomic.Uint64).Load(); count > 0 {
			m.EventsLogged[key.(types.Level)] = count
		}
		return true
	})
	c.appendsByAppender.Range(func(key, value interface{}) bool {
		if count := value.(*atomic.Uint64).Load(); count > 0 {
			m.Appends[key.(string)] = count
		}
		return true
	})
	c.errorsBySource.Range(func(key, value interface{}) bool {
		if count := value.(*atomic.Uint64).Load(); count > 0 {
			m.ErrorsBySource[key.(string)] = count
		}
		return true
	})

	return m
}

// Reset zeroes all counters.
func (c *Collector) Reset() {
	c.eventsByLevel.Range(func(_, value interface{}) bool {
		value.(*atomic.Uint64).Store(0)
		return true
	})
	c.appendsByAppender.Range(func(_, value interface{}) bool {
		value.(*atomic.Uint64).Store(0)
		return true
	})
	c.errorsBySource.Range(func(_, value interface{}) bool {
		value.(*atomic.Uint64).Store(0)
		return true
	})
	atomic.StoreUint64(&c.eventsFiltered, 0)
	atomic.StoreUint64(&c.errorCount, 0)
}
