// Package daemon runs the CheXy background process: the RPC listener plus
// the background loops (the notification scheduler), with a bounded
// graceful shutdown.
package daemon

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Shutdown() is called on a stopped daemon.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")

	// ErrNoListener is returned when Dependencies carries no ListenerFactory.
	ErrNoListener = errors.New("daemon: no listener factory")
)

// DefaultShutdownTimeout bounds the flush of the task store on exit.
const DefaultShutdownTimeout = 10 * time.Second

// Config holds the configuration for the daemon runner.
type Config struct {
	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// A zero value means no timeout.
	ShutdownTimeout time.Duration
}

// Dependencies holds the pieces the runner drives.
type Dependencies struct {
	// ListenerFactory opens the RPC listener. Required.
	ListenerFactory func() (net.Listener, error)

	// ServeFunc serves RPC connections on the listener until ctx ends.
	// If nil, the listener is only held open.
	ServeFunc func(ctx context.Context, l net.Listener) error

	// Background loops run alongside ServeFunc until ctx ends. A loop that
	// returns a non-nil error stops the daemon.
	Background []func(ctx context.Context) error

	// ShutdownFunc runs once after every loop has returned, to flush and
	// close resources.
	ShutdownFunc func() error
}

// Runner manages the daemon lifecycle.
type Runner struct {
	config   *Config
	deps     *Dependencies
	running  bool
	mu       sync.Mutex
	cancel   context.CancelFunc
	listener net.Listener
	done     chan struct{}
}

// New creates a new daemon runner with the given configuration and dependencies.
// If config is nil, DefaultShutdownTimeout is used.
func New(config *Config, deps *Dependencies) *Runner {
	if config == nil {
		config = &Config{ShutdownTimeout: DefaultShutdownTimeout}
	}
	if deps == nil {
		deps = &Dependencies{}
	}
	return &Runner{
		config: config,
		deps:   deps,
	}
}

// Config returns the runner's configuration.
func (r *Runner) Config() *Config {
	return r.config
}

// Addr returns the listener address while running.
func (r *Runner) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return nil
	}
	return r.listener.Addr()
}

// Start opens the listener, runs the server and background loops, and blocks
// until ctx is cancelled, Shutdown is called, or a loop fails. The returned
// error is the first loop failure, or ErrShutdownTimeout, or nil on a clean
// stop.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	if r.deps.ListenerFactory == nil {
		r.mu.Unlock()
		return ErrNoListener
	}

	// Create listener BEFORE setting running=true to avoid race condition
	listener, err := r.deps.ListenerFactory()
	if err != nil {
		r.mu.Unlock()
		return err
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.listener = listener
	r.done = make(chan struct{})
	r.running = true
	done := r.done
	r.mu.Unlock()
	defer close(done)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if r.deps.ServeFunc == nil {
			<-gctx.Done()
			return nil
		}
		return r.deps.ServeFunc(gctx, listener)
	})
	for _, loop := range r.deps.Background {
		g.Go(func() error { return loop(gctx) })
	}
	loopErr := g.Wait()
	if errors.Is(loopErr, context.Canceled) {
		loopErr = nil
	}

	shutdownErr := r.executeShutdownFunc()
	r.cleanupOnStop()

	if loopErr != nil {
		return loopErr
	}
	return shutdownErr
}

// cleanupOnStop performs cleanup when the daemon stops.
func (r *Runner) cleanupOnStop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.running = false
	if r.cancel != nil {
		r.cancel()
	}
	// the server usually closed it already
	if r.listener != nil {
		_ = r.listener.Close()
		r.listener = nil
	}
}

// Shutdown asks a running daemon to stop and waits for Start to return.
// Returns ErrNotRunning if the daemon is not running and ErrShutdownTimeout
// if the stop takes longer than the configured timeout.
func (r *Runner) Shutdown() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return ErrNotRunning
	}
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	cancel()
	if r.config.ShutdownTimeout <= 0 {
		<-done
		return nil
	}
	select {
	case <-done:
		return nil
	case <-time.After(r.config.ShutdownTimeout):
		return ErrShutdownTimeout
	}
}

// executeShutdownFunc runs the shutdown function with timeout if configured.
func (r *Runner) executeShutdownFunc() error {
	if r.deps.ShutdownFunc == nil {
		return nil
	}
	if r.config.ShutdownTimeout > 0 {
		return executeWithTimeout(r.deps.ShutdownFunc, r.config.ShutdownTimeout)
	}
	return r.deps.ShutdownFunc()
}

// executeWithTimeout runs fn and returns its error, or ErrShutdownTimeout if
// it takes longer than timeout.
func executeWithTimeout(fn func() error, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}

// IsRunning returns true if the daemon is currently running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
