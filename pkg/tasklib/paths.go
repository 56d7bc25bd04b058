package tasklib

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigDirEnv overrides the configuration directory holding the snapshot,
// history database, PID file and daemon log.
const ConfigDirEnv = "CHEXY_CONFIG_DIR"

const (
	// SnapshotFileName is the task snapshot file inside the config dir.
	SnapshotFileName = "schedules.chx"
	// HistoryFileName is the notification history database inside the config dir.
	HistoryFileName = "history.db"
	// LogFileName is the daemon log file inside the config dir.
	LogFileName = "daemon.log"
)

// ConfigDir is the absolute path to the CheXy configuration directory.
// It is resolved from CHEXY_CONFIG_DIR or os.UserConfigDir at start-up and
// created lazily by EnsureConfigDir.
var ConfigDir string

func init() {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		dir = defaultConfigDir()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	ConfigDir = dir
}

func defaultConfigDir() string {
	cdr, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "chexy"
		}
		cdr = filepath.Join(home, ".config")
	}
	return filepath.Join(cdr, "chexy")
}

// SetConfigDir points the package at dir and creates it.
func SetConfigDir(dir string) error {
	if dir == "" {
		return errors.New("config dir is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return err
	}
	ConfigDir = abs
	return nil
}

// EnsureConfigDir creates ConfigDir if it does not exist.
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir, 0755)
}

// SnapshotPath returns the well-known snapshot location.
func SnapshotPath() string {
	return filepath.Join(ConfigDir, SnapshotFileName)
}

// HistoryPath returns the notification history database location.
func HistoryPath() string {
	return filepath.Join(ConfigDir, HistoryFileName)
}

// LogPath returns the daemon log file location.
func LogPath() string {
	return filepath.Join(ConfigDir, LogFileName)
}
