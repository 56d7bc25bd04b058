package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"

	"github.com/chexy/chexy/cmd/common"
	"github.com/chexy/chexy/internal/daemon"
	"github.com/chexy/chexy/pkg/credman/keyring"
	"github.com/chexy/chexy/pkg/logger"
	"github.com/chexy/chexy/pkg/tasklib"
)

var (
	daemonEmbedded  bool
	daemonNoDesktop bool
)

var daemonFlags = []cli.Flag{
	cli.BoolFlag{
		Name:        "embedded",
		Usage:       "check for due tasks every second instead of every minute",
		Destination: &daemonEmbedded,
	},
	cli.BoolFlag{
		Name:        "no-desktop",
		Usage:       "do not send desktop notifications",
		Destination: &daemonNoDesktop,
	},
}

// newDaemonLogger logs to stderr and, when it can be opened, the daemon log
// file.
func newDaemonLogger() logger.Logger {
	stderr := logger.NewStandardLogger(log.New(os.Stderr, "[chexy] ", log.LstdFlags))
	fileLog, err := logger.NewFileLogger(tasklib.LogPath())
	if err != nil {
		stderr.Warning("Cannot open log file: %v", err)
		return stderr
	}
	return logger.NewMultiLogger(stderr, fileLog)
}

func runDaemon(ctx *cli.Context) error {
	if err := tasklib.EnsureConfigDir(); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "config_dir", err)
		return nil
	}
	l := newDaemonLogger()
	defer l.Close()

	if pid := runningDaemonPid(); pid != 0 {
		common.PrintRuntimeErr(ctx, "daemon", "already_running",
			fmt.Errorf("%w (PID %d)", daemon.ErrAlreadyRunning, pid))
		return nil
	}

	secret, err := keyring.NewTokens(tasklib.ConfigDir, l).Get()
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "token", err)
		return nil
	}

	comps, err := initDaemonComponents(l, daemonOptions{
		Embedded:  daemonEmbedded,
		NoDesktop: daemonNoDesktop,
		Secret:    secret,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "init", err)
		return nil
	}

	if err := WritePidFile(); err != nil {
		l.Warning("Failed to write PID file: %v", err)
	}
	defer func() {
		if err := RemovePidFile(); err != nil {
			l.Warning("Failed to remove PID file: %v", err)
		}
	}()

	runner := daemon.New(&daemon.Config{ShutdownTimeout: daemon.DefaultShutdownTimeout}, &daemon.Dependencies{
		ListenerFactory: comps.Server.CreateListener,
		ServeFunc:       comps.Server.Serve,
		Background:      []func(context.Context) error{comps.Driver.Run},
		ShutdownFunc:    comps.Close,
	})

	sigCtx, cancel := setupShutdownHandler()
	defer cancel()

	l.Info("Daemon started (PID %d, %d tasks, tick every %s)", os.Getpid(), comps.Store.Len(), comps.Driver.Interval())
	if err := runner.Start(sigCtx); err != nil {
		l.Error("Daemon stopped: %v", err)
		return err
	}
	l.Info("Daemon stopped")
	return nil
}
