package buffer

import (
	"bufio"
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestBatchWriterCountTrigger(t *testing.T) {
	var out bytes.Buffer
	bw := NewBatchWriter(bufio.NewWriter(&out), 1<<20, 3, 0)

	for i := 0; i < 2; i++ {
		if _, err := bw.Write([]byte("entry\n")); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if out.Len() != 0 {
		t.Errorf("flushed before count trigger, got %d bytes", out.Len())
	}

	if _, err := bw.Write([]byte("entry\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := strings.Count(out.String(), "entry"); got != 3 {
		t.Errorf("flushed %d entries, want 3", got)
	}

	entries, size := bw.Pending()
	if entries != 0 || size != 0 {
		t.Errorf("Pending() = (%d, %d), want (0, 0)", entries, size)
	}
}

func TestBatchWriterSizeTrigger(t *testing.T) {
	var out bytes.Buffer
	bw := NewBatchWriter(bufio.NewWriter(&out), 10, 100, 0)

	if _, err := bw.Write([]byte("0123456789abc")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if out.Len() == 0 {
		t.Error("size trigger did not flush")
	}
}

func TestBatchWriterFlush(t *testing.T) {
	var out bytes.Buffer
	bw := NewBatchWriter(bufio.NewWriter(&out), 1<<20, 100, 0)

	if _, err := bw.Write([]byte("pending")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if out.String() != "pending" {
		t.Errorf("output = %q, want %q", out.String(), "pending")
	}
}

func TestBatchWriterEntryCopied(t *testing.T) {
	var out bytes.Buffer
	bw := NewBatchWriter(bufio.NewWriter(&out), 1<<20, 100, 0)

	entry := []byte("original")
	if _, err := bw.Write(entry); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	copy(entry, []byte("mutated!"))

	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if out.String() != "original" {
		t.Errorf("output = %q, want %q", out.String(), "original")
	}
}

type lockedWriter struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func TestBatchWriterTimedFlush(t *testing.T) {
	var mu sync.Mutex
	var out bytes.Buffer
	w := bufio.NewWriter(lockedWriter{mu: &mu, buf: &out})
	bw := NewBatchWriter(w, 1<<20, 100, 20*time.Millisecond)
	defer bw.Close()

	if _, err := bw.Write([]byte("timed")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := out.Len()
		mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed flush did not fire")
}

func TestBatchWriterClose(t *testing.T) {
	var out bytes.Buffer
	bw := NewBatchWriter(bufio.NewWriter(&out), 1<<20, 100, 0)

	if _, err := bw.Write([]byte("last")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if out.String() != "last" {
		t.Errorf("output = %q, want %q", out.String(), "last")
	}

	if _, err := bw.Write([]byte("rejected")); err != ErrClosed {
		t.Errorf("Write() after Close error = %v, want ErrClosed", err)
	}

	// Idempotent.
	if err := bw.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestBatchWriterConcurrent(t *testing.T) {
	var mu sync.Mutex
	var out bytes.Buffer
	w := bufio.NewWriter(lockedWriter{mu: &mu, buf: &out})
	bw := NewBatchWriter(w, 1<<20, 10, 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := bw.Write([]byte("e\n")); err != nil {
					t.Errorf("Write() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if err := bw.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	mu.Lock()
	got := strings.Count(out.String(), "e\n")
	mu.Unlock()
	if got != 20*50 {
		t.Errorf("wrote %d entries, want %d", got, 20*50)
	}
}
