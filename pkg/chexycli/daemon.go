package chexycli

import (
	"fmt"
	"time"
)

const (
	daemonStartTimeout = 3 * time.Second
	socketPollInterval = 50 * time.Millisecond
	socketDialTimeout  = 100 * time.Millisecond
)

// spawnFunc starts a detached daemon; tests replace it.
var spawnFunc = spawnDaemon

// ensureDaemon spawns the daemon unless one already accepts connections,
// then waits for it to come up.
func ensureDaemon() error {
	if isDaemonRunning() {
		return nil
	}
	if err := spawnFunc(); err != nil {
		return err
	}
	return waitForDaemon(daemonStartTimeout)
}

// waitForDaemon polls until the daemon accepts connections or timeout expires.
func waitForDaemon(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if isDaemonRunning() {
			return nil
		}
		time.Sleep(socketPollInterval)
	}
	return fmt.Errorf("daemon failed to start within %v", timeout)
}
