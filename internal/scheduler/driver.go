package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chexy/chexy/internal/notify"
	"github.com/chexy/chexy/pkg/logger"
)

const (
	// StandaloneInterval is the tick cadence of a daemon without a UI.
	StandaloneInterval = time.Minute
	// EmbeddedInterval is the tick cadence when a UI is attached.
	EmbeddedInterval = time.Second
)

// ErrAlreadyRunning is returned by Run when the driver is already ticking.
var ErrAlreadyRunning = errors.New("scheduler: driver already running")

// State is the lifecycle state of a Driver.
type State int32

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "stopped"
}

// TickFunc performs one sweep at now and returns the number of tasks that
// were notified.
type TickFunc func(ctx context.Context, now time.Time) (int, error)

// Driver invokes a TickFunc every interval.
type Driver struct {
	interval time.Duration
	tick     TickFunc
	log      logger.Logger
	now      func() time.Time

	// tickMu is held for the duration of every tick.
	tickMu sync.Mutex
	state  atomic.Int32
	ticks  atomic.Uint64
}

// New returns a stopped Driver. A non-positive interval selects
// StandaloneInterval.
func New(interval time.Duration, tick TickFunc, l logger.Logger) *Driver {
	if interval <= 0 {
		interval = StandaloneInterval
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Driver{
		interval: interval,
		tick:     tick,
		log:      l,
		now:      time.Now,
	}
}

// State reports whether the driver is ticking.
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Interval returns the tick cadence.
func (d *Driver) Interval() time.Duration {
	return d.interval
}

// Ticks returns the number of ticks performed so far.
func (d *Driver) Ticks() uint64 {
	return d.ticks.Load()
}

// Run ticks once immediately and then every interval until ctx is done.
// The in-flight tick always completes before Run returns.
func (d *Driver) Run(ctx context.Context) error {
	if !d.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		return ErrAlreadyRunning
	}
	defer d.state.Store(int32(StateStopped))

	d.log.Info("scheduler: running every %s", d.interval)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.runTick(ctx)
	for {
		select {
		case <-ctx.Done():
			d.log.Info("scheduler: stopped after %d ticks", d.Ticks())
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			d.runTick(ctx)
		}
	}
}

// TickNow runs a tick immediately unless one is in flight. It reports
// whether the tick ran and how many tasks were notified.
func (d *Driver) TickNow(ctx context.Context) (ran bool, notified int, err error) {
	if !d.tickMu.TryLock() {
		return false, 0, nil
	}
	defer d.tickMu.Unlock()
	notified, err = d.doTick(ctx)
	return true, notified, err
}

// runTick runs a scheduled tick, waiting for a manual tick to finish first.
func (d *Driver) runTick(ctx context.Context) {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()
	if _, err := d.doTick(ctx); err != nil {
		d.log.Warning("scheduler: tick failed: %v", err)
	}
}

// doTick runs the TickFunc. Caller must hold tickMu.
func (d *Driver) doTick(ctx context.Context) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("scheduler: tick panicked: %v", r)
			err = errors.New("scheduler: tick panicked")
		}
	}()
	d.ticks.Add(1)
	return d.tick(ctx, d.now())
}

// Sweeper is the tick body used by the daemon: it runs the engine over the
// store and hands the dues to the dispatcher outside the store lock.
type Sweeper struct {
	Engine     *notify.Engine
	Store      notify.Updater
	Dispatcher *notify.Dispatcher
}

// Tick implements TickFunc. A failed save does not stop the dispatch of
// dues whose latch is already set in memory; the error is still returned.
func (s *Sweeper) Tick(ctx context.Context, now time.Time) (int, error) {
	dues, err := s.Engine.Sweep(s.Store, now)
	if len(dues) > 0 {
		s.Dispatcher.Dispatch(ctx, dues)
	}
	return len(dues), err
}
