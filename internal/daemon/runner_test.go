package daemon

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"
)

func tcpListener() (net.Listener, error) {
	return net.Listen("tcp", "127.0.0.1:0")
}

func waitRunning(t *testing.T, r *Runner) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !r.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("runner never started")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNew_DefaultConfig(t *testing.T) {
	r := New(nil, nil)
	if r.Config().ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v, want %v", r.Config().ShutdownTimeout, DefaultShutdownTimeout)
	}
	if r.IsRunning() {
		t.Error("new runner reports running")
	}
}

func TestRunner_Start_NoListenerFactory(t *testing.T) {
	if err := New(nil, nil).Start(context.Background()); !errors.Is(err, ErrNoListener) {
		t.Fatalf("Start() = %v, want ErrNoListener", err)
	}
}

func TestRunner_Start_ListenerError(t *testing.T) {
	wantErr := errors.New("address in use")
	r := New(nil, &Dependencies{
		ListenerFactory: func() (net.Listener, error) { return nil, wantErr },
	})
	if err := r.Start(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("Start() = %v, want %v", err, wantErr)
	}
	if r.IsRunning() {
		t.Error("runner running after listener failure")
	}
}

func TestRunner_StartRunsServeAndBackground(t *testing.T) {
	var served, looped, flushed atomic.Bool
	r := New(&Config{ShutdownTimeout: time.Second}, &Dependencies{
		ListenerFactory: tcpListener,
		ServeFunc: func(ctx context.Context, l net.Listener) error {
			served.Store(l != nil)
			<-ctx.Done()
			return nil
		},
		Background: []func(context.Context) error{
			func(ctx context.Context) error {
				looped.Store(true)
				<-ctx.Done()
				return ctx.Err()
			},
		},
		ShutdownFunc: func() error {
			flushed.Store(true)
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(ctx) }()
	waitRunning(t, r)
	if r.Addr() == nil {
		t.Error("Addr() is nil while running")
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Start() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
	if !served.Load() || !looped.Load() || !flushed.Load() {
		t.Errorf("served=%v looped=%v flushed=%v", served.Load(), looped.Load(), flushed.Load())
	}
	if r.IsRunning() || r.Addr() != nil {
		t.Error("runner still running after Start returned")
	}
}

func TestRunner_StartTwice(t *testing.T) {
	r := New(nil, &Dependencies{ListenerFactory: tcpListener})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Start(ctx) }()
	waitRunning(t, r)

	if err := r.Start(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Start() = %v, want ErrAlreadyRunning", err)
	}
}

func TestRunner_BackgroundFailureStopsDaemon(t *testing.T) {
	loopErr := errors.New("scheduler crashed")
	var flushed atomic.Bool
	r := New(nil, &Dependencies{
		ListenerFactory: tcpListener,
		Background: []func(context.Context) error{
			func(context.Context) error { return loopErr },
		},
		ShutdownFunc: func() error {
			flushed.Store(true)
			return nil
		},
	})

	done := make(chan error, 1)
	go func() { done <- r.Start(context.Background()) }()
	select {
	case err := <-done:
		if !errors.Is(err, loopErr) {
			t.Fatalf("Start() = %v, want %v", err, loopErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after loop failure")
	}
	if !flushed.Load() {
		t.Error("shutdown func not called after loop failure")
	}
}

func TestRunner_Shutdown(t *testing.T) {
	r := New(&Config{ShutdownTimeout: time.Second}, &Dependencies{ListenerFactory: tcpListener})
	if err := r.Shutdown(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Shutdown() before start = %v, want ErrNotRunning", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(context.Background()) }()
	waitRunning(t, r)

	if err := r.Shutdown(); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if r.IsRunning() {
		t.Error("runner still running after Shutdown")
	}
}

func TestRunner_ShutdownFuncTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	r := New(&Config{ShutdownTimeout: 50 * time.Millisecond}, &Dependencies{
		ListenerFactory: tcpListener,
		ShutdownFunc: func() error {
			<-release
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(ctx) }()
	waitRunning(t, r)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrShutdownTimeout) {
			t.Fatalf("Start() = %v, want ErrShutdownTimeout", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() blocked on a slow shutdown func")
	}
}

func TestExecuteWithTimeout(t *testing.T) {
	wantErr := errors.New("flush failed")
	if err := executeWithTimeout(func() error { return wantErr }, time.Second); !errors.Is(err, wantErr) {
		t.Errorf("executeWithTimeout() = %v, want %v", err, wantErr)
	}
	if err := executeWithTimeout(func() error { return nil }, time.Second); err != nil {
		t.Errorf("executeWithTimeout() = %v, want nil", err)
	}
}
