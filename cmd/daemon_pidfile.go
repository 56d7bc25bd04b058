package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chexy/chexy/pkg/tasklib"
)

const pidFileName = "daemon.pid"

// getPidFilePath returns the path to the daemon PID file.
func getPidFilePath() string {
	return filepath.Join(tasklib.ConfigDir, pidFileName)
}

// WritePidFile writes the current process ID to the PID file.
func WritePidFile() error {
	return os.WriteFile(getPidFilePath(), []byte(strconv.Itoa(os.Getpid())), 0644)
}

// ReadPidFile reads and returns the PID from the PID file.
func ReadPidFile() (int, error) {
	data, err := os.ReadFile(getPidFilePath())
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID: %d", pid)
	}
	return pid, nil
}

// RemovePidFile removes the PID file. A missing file is not an error.
func RemovePidFile() error {
	err := os.Remove(getPidFilePath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// runningDaemonPid returns the PID of a live daemon recorded in the PID
// file, or 0. Stale PID files are removed.
func runningDaemonPid() int {
	pid, err := ReadPidFile()
	if err != nil {
		return 0
	}
	if pid == os.Getpid() || !isProcessRunning(pid) {
		_ = RemovePidFile()
		return 0
	}
	return pid
}
