package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	rpc "github.com/chexy/chexy/common"
	"github.com/chexy/chexy/internal/history"
	"github.com/chexy/chexy/internal/notify"
	"github.com/chexy/chexy/internal/scheduler"
	"github.com/chexy/chexy/internal/server"
	"github.com/chexy/chexy/pkg/logger"
	"github.com/chexy/chexy/pkg/tasklib"
)

// daemonOptions select how the daemon is assembled.
type daemonOptions struct {
	// Embedded uses the short scheduler interval of a foreground app.
	Embedded bool
	// NoDesktop skips the session bus sink.
	NoDesktop bool
	Port      int
	Secret    string
}

// DaemonComponents holds the initialized pieces of a running daemon.
type DaemonComponents struct {
	Store      *tasklib.Store
	History    *history.Log
	Notifier   *server.RPCNotifier
	Dispatcher *notify.Dispatcher
	Driver     *scheduler.Driver
	RPC        *server.RPCServer
	Server     *server.Server

	fs      afero.Fs
	desktop *notify.DBus
	log     logger.Logger
}

// initDaemonComponents opens the store and history and wires the scheduler,
// dispatcher and RPC server together. It is a variable so tests can swap it.
var initDaemonComponents = func(l logger.Logger, opts daemonOptions) (*DaemonComponents, error) {
	if err := tasklib.EnsureConfigDir(); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	c := &DaemonComponents{fs: afero.NewOsFs(), log: l}
	c.Store = tasklib.OpenStore(c.fs, tasklib.SnapshotPath(), l)

	var (
		recorder notify.Recorder
		lister   server.HistoryLister
	)
	hist, err := history.Open(tasklib.HistoryPath())
	if err != nil {
		l.Warning("Notification history disabled: %v", err)
	} else {
		c.History = hist
		recorder, lister = hist, hist
	}

	c.Notifier = server.NewRPCNotifier(l)
	sinks := notify.MultiSink{notify.NewLogSink(l), c.Notifier}
	var prompter notify.Prompter
	if !opts.NoDesktop {
		d, err := notify.NewDBus("")
		if err != nil {
			l.Warning("Desktop notifications unavailable: %v", err)
		} else {
			c.desktop = d
			sinks = append(sinks, d)
			prompter = d
		}
	}

	c.Dispatcher = notify.NewDispatcher(notify.DispatcherConfig{
		Sink:           sinks,
		Prompter:       prompter,
		Recorder:       recorder,
		OnAcknowledged: c.Notifier.Acknowledged,
		Logger:         l,
		Source:         rpc.AppName,
	})

	sweeper := &scheduler.Sweeper{
		Engine:     notify.NewEngine(),
		Store:      c.Store,
		Dispatcher: c.Dispatcher,
	}
	interval := scheduler.StandaloneInterval
	if opts.Embedded {
		interval = scheduler.EmbeddedInterval
	}
	c.Driver = scheduler.New(interval, sweeper.Tick, l)

	c.RPC = server.NewRPCServer(&server.RPCConfig{
		Secret:    opts.Secret,
		Version:   currentBuildArgs.Version,
		Commit:    currentBuildArgs.Commit,
		BuildType: currentBuildArgs.BuildType,
	}, c.Store, c.Driver, lister, c.Notifier, l)

	port := opts.Port
	if port == 0 {
		port = rpc.TCPPort()
	}
	c.Server = server.NewServer(l, c.RPC, port)
	return c, nil
}

// Close waits for in-flight prompts, then flushes the store and releases
// the history and session bus. The RPC server is closed by Server.Shutdown.
func (c *DaemonComponents) Close() error {
	var errs []error
	if c.Dispatcher != nil {
		c.Dispatcher.Wait()
	}
	if c.Store != nil {
		if err := c.Store.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("flush tasks: %w", err))
		}
	}
	if c.History != nil {
		if err := c.History.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close history: %w", err))
		}
	}
	if c.desktop != nil {
		if err := c.desktop.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close session bus: %w", err))
		}
	}
	return errors.Join(errs...)
}
