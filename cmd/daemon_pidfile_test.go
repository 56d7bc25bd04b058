package cmd

import (
	"os"
	"strconv"
	"testing"

	"github.com/chexy/chexy/pkg/tasklib"
)

func withConfigDir(t *testing.T) string {
	t.Helper()
	old := tasklib.ConfigDir
	dir := t.TempDir()
	if err := tasklib.SetConfigDir(dir); err != nil {
		t.Fatalf("SetConfigDir: %v", err)
	}
	t.Cleanup(func() { tasklib.ConfigDir = old })
	return tasklib.ConfigDir
}

func TestPidFile_RoundTrip(t *testing.T) {
	withConfigDir(t)
	if err := WritePidFile(); err != nil {
		t.Fatalf("WritePidFile: %v", err)
	}
	pid, err := ReadPidFile()
	if err != nil {
		t.Fatalf("ReadPidFile: %v", err)
	}
	if pid != os.Getpid() {
		t.Fatalf("pid = %d, want %d", pid, os.Getpid())
	}
	if err := RemovePidFile(); err != nil {
		t.Fatalf("RemovePidFile: %v", err)
	}
	if err := RemovePidFile(); err != nil {
		t.Fatalf("second RemovePidFile: %v", err)
	}
	if _, err := ReadPidFile(); !os.IsNotExist(err) {
		t.Fatalf("ReadPidFile after remove = %v", err)
	}
}

func TestReadPidFile_Invalid(t *testing.T) {
	withConfigDir(t)
	for _, content := range []string{"abc", "-4", "0", ""} {
		if err := os.WriteFile(getPidFilePath(), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadPidFile(); err == nil {
			t.Errorf("ReadPidFile(%q) succeeded", content)
		}
	}
}

func TestRunningDaemonPid(t *testing.T) {
	withConfigDir(t)
	if pid := runningDaemonPid(); pid != 0 {
		t.Fatalf("runningDaemonPid without file = %d", pid)
	}

	// our own PID is never reported as a running daemon
	if err := WritePidFile(); err != nil {
		t.Fatal(err)
	}
	if pid := runningDaemonPid(); pid != 0 {
		t.Fatalf("runningDaemonPid(self) = %d", pid)
	}
	if _, err := os.Stat(getPidFilePath()); !os.IsNotExist(err) {
		t.Fatal("stale PID file was kept")
	}

	ppid := os.Getppid()
	if err := os.WriteFile(getPidFilePath(), []byte(strconv.Itoa(ppid)), 0644); err != nil {
		t.Fatal(err)
	}
	if pid := runningDaemonPid(); pid != ppid {
		t.Fatalf("runningDaemonPid = %d, want parent %d", pid, ppid)
	}
}

func TestIsProcessRunning(t *testing.T) {
	if !isProcessRunning(os.Getpid()) {
		t.Fatal("current process reported as not running")
	}
}
