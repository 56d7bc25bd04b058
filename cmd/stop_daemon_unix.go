//go:build !windows

package cmd

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

const (
	stopTimeout  = 12 * time.Second
	pollInterval = 100 * time.Millisecond
)

// killDaemon sends SIGTERM and waits for the daemon to exit, escalating to
// SIGKILL after stopTimeout. The timeout exceeds the daemon's own shutdown
// budget so the task store gets flushed.
func killDaemon(pid int) error {
	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}

	deadline := time.Now().Add(stopTimeout)
	for time.Now().Before(deadline) {
		if !isProcessRunning(pid) {
			return nil
		}
		time.Sleep(pollInterval)
	}

	fmt.Println("Graceful shutdown timeout, forcing kill...")
	if err := unix.Kill(pid, unix.SIGKILL); err != nil {
		return fmt.Errorf("failed to send SIGKILL: %w", err)
	}
	time.Sleep(500 * time.Millisecond)
	_ = RemovePidFile()
	return nil
}
