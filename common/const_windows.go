//go:build windows

package common

import (
	"os"
	"strings"
)

// DefaultPipePath returns the full Windows named pipe path.
// Format: \\.\pipe\{name}
func DefaultPipePath() string {
	return `\\.\pipe\` + DefaultPipeName
}

// PipePath returns the Windows named pipe path for the daemon, honouring
// CHEXY_PIPE_NAME with or without the \\.\pipe\ prefix.
func PipePath() string {
	if name := os.Getenv(PipeNameEnv); name != "" {
		if strings.HasPrefix(name, `\\.\pipe\`) {
			return name
		}
		return `\\.\pipe\` + name
	}
	return DefaultPipePath()
}
