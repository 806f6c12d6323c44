package appenders_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wayneeseguin/arbor/pkg/appenders"
	"github.com/wayneeseguin/arbor/pkg/layouts"
	"github.com/wayneeseguin/arbor/pkg/types"
)

func TestNewFileValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  appenders.FileConfig
	}{
		{"missing name", appenders.FileConfig{Path: "/tmp/x.log"}},
		{"missing path", appenders.FileConfig{Name: "file"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := appenders.NewFile(tt.cfg); err == nil {
				t.Error("NewFile() succeeded, want error")
			}
		})
	}
}

func TestFileAppendWritesThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	f, err := appenders.NewFile(appenders.FileConfig{
		Name:   "file",
		Path:   path,
		Layout: layouts.MustPattern("%p %m%n"),
	})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if err := f.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := f.Append(newEvent(types.LevelInfo, "first")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// Default mode flushes per append, so the entry is visible before Stop.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got := string(data); got != "INFO first\n" {
		t.Errorf("file content = %q, want %q", got, "INFO first\n")
	}

	if err := f.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestFileCreatesNestedDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "app.log")
	f, err := appenders.NewFile(appenders.FileConfig{Name: "file", Path: path})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if err := f.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer f.Stop()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestFileAppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte("existing\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	f, err := appenders.NewFile(appenders.FileConfig{
		Name:   "file",
		Path:   path,
		Layout: layouts.MustPattern("%m%n"),
	})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if err := f.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := f.Size(); got != int64(len("existing\n")) {
		t.Errorf("Size() after open = %d, want %d", got, len("existing\n"))
	}

	if err := f.Append(newEvent(types.LevelInfo, "appended")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := f.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got := string(data); got != "existing\nappended\n" {
		t.Errorf("file content = %q, want %q", got, "existing\nappended\n")
	}
}

func TestFileBufferedFlushesOnStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	f, err := appenders.NewFile(appenders.FileConfig{
		Name:       "file",
		Path:       path,
		Layout:     layouts.MustPattern("%m%n"),
		Buffered:   true,
		BatchCount: 1000,
	})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if err := f.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := f.Append(newEvent(types.LevelInfo, "buffered entry")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	if err := f.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got := strings.Count(string(data), "buffered entry"); got != 3 {
		t.Errorf("file has %d entries after Stop, want 3", got)
	}
}

func TestFileBufferedBatchTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	f, err := appenders.NewFile(appenders.FileConfig{
		Name:       "file",
		Path:       path,
		Layout:     layouts.MustPattern("%m%n"),
		Buffered:   true,
		BatchCount: 2,
	})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if err := f.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer f.Stop()

	if err := f.Append(newEvent(types.LevelInfo, "one")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := f.Append(newEvent(types.LevelInfo, "two")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got := string(data); got != "one\ntwo\n" {
		t.Errorf("file content after batch = %q, want %q", got, "one\ntwo\n")
	}
}

func TestFileBufferedTimedFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	f, err := appenders.NewFile(appenders.FileConfig{
		Name:          "file",
		Path:          path,
		Layout:        layouts.MustPattern("%m%n"),
		Buffered:      true,
		BatchCount:    1000,
		FlushInterval: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if err := f.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer f.Stop()

	if err := f.Append(newEvent(types.LevelInfo, "timed")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		data, _ := os.ReadFile(path)
		if strings.Contains(string(data), "timed") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed flush did not reach the file")
}

func TestFileManualFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	f, err := appenders.NewFile(appenders.FileConfig{
		Name:       "file",
		Path:       path,
		Layout:     layouts.MustPattern("%m%n"),
		Buffered:   true,
		BatchCount: 1000,
	})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	if err := f.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer f.Stop()

	if err := f.Append(newEvent(types.LevelInfo, "manual")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "manual") {
		t.Errorf("file content = %q after Flush, want entry present", string(data))
	}
}

func TestFileStartFailureMarksInvalid(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	// Parent "directory" is a regular file, so MkdirAll must fail.
	f, err := appenders.NewFile(appenders.FileConfig{
		Name: "file",
		Path: filepath.Join(blocker, "app.log"),
	})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	if err := f.Start(); err == nil {
		t.Fatal("Start() succeeded with unusable path, want error")
	}
	if got := f.State(); got != types.StateInvalid {
		t.Errorf("state after failed Start = %v, want INVALID", got)
	}
}
