//go:build windows

package cmd

import (
	"fmt"
	"os"
	"time"
)

const stopTimeout = 12 * time.Second

// killDaemon interrupts the daemon and terminates it if it does not exit
// within stopTimeout.
func killDaemon(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("process not found: %w", err)
	}

	if err := process.Signal(os.Interrupt); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to stop daemon: %w", err)
		}
		_ = RemovePidFile()
		return nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := process.Wait()
		done <- err
	}()

	select {
	case <-done:
		return nil
	case <-time.After(stopTimeout):
		fmt.Println("Graceful shutdown timeout, forcing kill...")
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill daemon: %w", err)
		}
		_ = RemovePidFile()
		return nil
	}
}
