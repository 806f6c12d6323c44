package buffer

import (
	"bufio"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned for writes to a closed BatchWriter.
var ErrClosed = errors.New("batch writer is closed")

// BatchWriter coalesces entries before handing them to a bufio.Writer.
// A flush happens when the pending batch reaches maxBytes or maxCount,
// when the flush interval elapses, on Flush, and on Close.
type BatchWriter struct {
	writer   *bufio.Writer
	mu       sync.Mutex
	pending  [][]byte
	size     int
	maxBytes int
	maxCount int
	interval time.Duration
	timer    *time.Timer
	onError  func(error)
	closed   bool
}

// NewBatchWriter wraps w. An interval of zero disables timed flushes.
func NewBatchWriter(w *bufio.Writer, maxBytes, maxCount int, interval time.Duration) *BatchWriter {
	bw := &BatchWriter{
		writer:   w,
		pending:  make([][]byte, 0, maxCount),
		maxBytes: maxBytes,
		maxCount: maxCount,
		interval: interval,
	}
	if interval > 0 {
		bw.timer = time.AfterFunc(interval, bw.timedFlush)
	}
	return bw
}

// OnError installs a callback for failures during timed flushes, which
// have no caller to return an error to.
func (bw *BatchWriter) OnError(fn func(error)) {
	bw.mu.Lock()
	bw.onError = fn
	bw.mu.Unlock()
}

// Write queues an entry. The entry is copied, so the caller may reuse the
// slice. An error is returned when queuing triggered a flush that failed.
func (bw *BatchWriter) Write(entry []byte) (int, error) {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.closed {
		return 0, ErrClosed
	}

	cp := make([]byte, len(entry))
	copy(cp, entry)
	bw.pending = append(bw.pending, cp)
	bw.size += len(cp)

	if bw.size >= bw.maxBytes || len(bw.pending) >= bw.maxCount {
		return len(entry), bw.flushLocked()
	}

	if bw.timer != nil {
		bw.timer.Reset(bw.interval)
	}
	return len(entry), nil
}

// Flush writes all pending entries through to the underlying writer.
func (bw *BatchWriter) Flush() error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return bw.flushLocked()
}

func (bw *BatchWriter) flushLocked() error {
	if len(bw.pending) == 0 {
		return nil
	}
	for _, entry := range bw.pending {
		if _, err := bw.writer.Write(entry); err != nil {
			return err
		}
	}
	if err := bw.writer.Flush(); err != nil {
		return err
	}
	bw.pending = bw.pending[:0]
	bw.size = 0
	return nil
}

func (bw *BatchWriter) timedFlush() {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.closed {
		return
	}
	if err := bw.flushLocked(); err != nil && bw.onError != nil {
		bw.onError(err)
	}
	if bw.timer != nil {
		bw.timer.Reset(bw.interval)
	}
}

// Pending reports the queued entry count and byte size.
func (bw *BatchWriter) Pending() (entries, bytes int) {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return len(bw.pending), bw.size
}

// Close flushes pending entries, stops the timer, and rejects further
// writes. Close is idempotent.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.closed {
		return nil
	}
	bw.closed = true
	if bw.timer != nil {
		bw.timer.Stop()
	}
	return bw.flushLocked()
}
