package logger

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestStandardLogger_Levels(t *testing.T) {
	tests := []struct {
		name   string
		log    func(l Logger)
		prefix string
		text   string
	}{
		{"info", func(l Logger) { l.Info("tick %d", 3) }, "[INFO]", "tick 3"},
		{"warning", func(l Logger) { l.Warning("snapshot %s", "corrupt") }, "[WARNING]", "snapshot corrupt"},
		{"error", func(l Logger) { l.Error("save: %v", "disk full") }, "[ERROR]", "save: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.log(NewStandardLogger(log.New(buf, "", 0)))
			out := buf.String()
			if !strings.Contains(out, tt.prefix) {
				t.Errorf("expected %s prefix, got: %s", tt.prefix, out)
			}
			if !strings.Contains(out, tt.text) {
				t.Errorf("expected %q in output, got: %s", tt.text, out)
			}
		})
	}
}

func TestStandardLogger_CloseWithoutFile(t *testing.T) {
	l := NewStandardLogger(log.New(&bytes.Buffer{}, "", 0))
	if err := l.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}

func TestFileLogger_WritesAndCloses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")
	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	l.Info("daemon started on %s", "unix")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// second close is a no-op
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] daemon started on unix") {
		t.Errorf("log file content = %q", data)
	}
}

func TestFileLogger_BadPath(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "daemon.log"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("x")
	l.Warning("x")
	l.Error("x")
	if err := l.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestMockLogger_RecordsCalls(t *testing.T) {
	m := NewMockLogger()
	m.Info("info %d", 1)
	m.Warning("warn %d", 2)
	m.Error("err %d", 3)

	if len(m.InfoCalls) != 1 || m.InfoCalls[0] != "info 1" {
		t.Errorf("InfoCalls = %v", m.InfoCalls)
	}
	if got := m.Warnings(); len(got) != 1 || got[0] != "warn 2" {
		t.Errorf("Warnings() = %v", got)
	}
	if got := m.Errors(); len(got) != 1 || got[0] != "err 3" {
		t.Errorf("Errors() = %v", got)
	}
	_ = m.Close()
	if !m.CloseCalled {
		t.Error("expected CloseCalled")
	}
}

func TestMockLogger_ConcurrentUse(t *testing.T) {
	m := NewMockLogger()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Error("err %d", i)
		}(i)
	}
	wg.Wait()
	if got := len(m.Errors()); got != 20 {
		t.Errorf("recorded %d errors, want 20", got)
	}
}

type failingCloser struct {
	NopLogger
	err error
}

func (f *failingCloser) Close() error { return f.err }

func TestMultiLogger_BroadcastsToAll(t *testing.T) {
	a, b := NewMockLogger(), NewMockLogger()
	m := NewMultiLogger(a, nil, b)
	m.Info("hello %s", "world")
	m.Warning("w")
	m.Error("e")
	for i, l := range []*MockLogger{a, b} {
		if len(l.InfoCalls) != 1 || l.InfoCalls[0] != "hello world" {
			t.Errorf("logger %d InfoCalls = %v", i, l.InfoCalls)
		}
		if len(l.WarningCalls) != 1 || len(l.ErrorCalls) != 1 {
			t.Errorf("logger %d missed calls", i)
		}
	}
}

func TestMultiLogger_Close_JoinsErrors(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")
	ok := NewMockLogger()
	m := NewMultiLogger(&failingCloser{err: e1}, ok, &failingCloser{err: e2})
	err := m.Close()
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("Close() = %v, want both errors", err)
	}
	if !ok.CloseCalled {
		t.Error("healthy logger was not closed")
	}
}

func TestMultiLogger_Empty(t *testing.T) {
	m := NewMultiLogger()
	m.Info("nothing")
	if err := m.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
