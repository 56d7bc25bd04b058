//go:build !windows

package cmd

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isProcessRunning checks if a process with the given PID is still running.
// Signal 0 only probes; EPERM still means the process exists.
func isProcessRunning(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
