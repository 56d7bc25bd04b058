package common

import (
	"os"
	"path/filepath"
	"strconv"
)

// SocketPath returns the Unix socket path of the daemon, honouring
// CHEXY_SOCKET_PATH.
func SocketPath() string {
	if path := os.Getenv(SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), DefaultSocketName)
}

// TCPPort returns the TCP fallback port, honouring CHEXY_TCP_PORT.
// Invalid values fall back to DefaultTCPPort.
func TCPPort() int {
	if v := os.Getenv(TCPPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port < 65536 {
			return port
		}
	}
	return DefaultTCPPort
}

// ForceTCP reports whether CHEXY_FORCE_TCP asks for the TCP transport.
func ForceTCP() bool {
	v := os.Getenv(ForceTCPEnv)
	return v == "1" || v == "true"
}

// DebugMode reports whether CHEXY_DEBUG enables debug output.
func DebugMode() bool {
	v := os.Getenv(DebugEnv)
	return v == "1" || v == "true"
}
