// Package buffer provides pooled byte buffers and batched writers used by
// layouts and appenders on the serialization path.
package buffer

import (
	"bytes"
	"sync"
)

const (
	// DefaultCapacity is the initial capacity of pooled buffers.
	DefaultCapacity = 512

	// maxPooledCapacity bounds what is returned to the pool. Buffers that
	// grew past this are dropped so one oversized event cannot pin memory.
	maxPooledCapacity = 32 * 1024
)

// Pool recycles bytes.Buffer values to reduce allocation on the hot path.
type Pool struct {
	pool     sync.Pool
	capacity int
}

// NewPool creates a pool with the default buffer capacity.
func NewPool() *Pool {
	return NewPoolWithCapacity(DefaultCapacity)
}

// NewPoolWithCapacity creates a pool whose buffers start at capacity bytes.
func NewPoolWithCapacity(capacity int) *Pool {
	p := &Pool{capacity: capacity}
	p.pool.New = func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, capacity))
	}
	return p
}

// Get returns an empty buffer from the pool.
func (p *Pool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

// Put resets buf and returns it to the pool. Nil and oversized buffers
// are discarded.
func (p *Pool) Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledCapacity {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

var defaultPool = NewPool()

// Get returns a buffer from the package default pool.
func Get() *bytes.Buffer {
	return defaultPool.Get()
}

// Put returns a buffer to the package default pool.
func Put(buf *bytes.Buffer) {
	defaultPool.Put(buf)
}
