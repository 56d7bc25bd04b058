//go:build windows

package server

import (
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"

	"github.com/chexy/chexy/common"
)

// pipeSecurityDescriptor restricts pipe access to SYSTEM, built-in
// Administrators and the creator owner (the user running the daemon).
const pipeSecurityDescriptor = "D:(A;;GA;;;SY)(A;;GA;;;BA)(A;;GA;;;CO)"

// createListener creates a named pipe listener with TCP fallback.
// Transport priority: Named pipe > TCP
func (s *Server) createListener() (net.Listener, error) {
	if common.ForceTCP() {
		s.log.Info("rpc: force TCP mode enabled")
		return s.listenTCP()
	}
	pipePath := common.PipePath()
	l, err := winio.ListenPipe(pipePath, &winio.PipeConfig{
		SecurityDescriptor: pipeSecurityDescriptor,
	})
	if err != nil {
		s.log.Warning("rpc: named pipe %s unavailable, falling back to tcp: %v", pipePath, err)
		return s.listenTCP()
	}
	return l, nil
}

func (s *Server) listenTCP() (net.Listener, error) {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	if err != nil {
		return nil, fmt.Errorf("error listening: %w", err)
	}
	return l, nil
}

// cleanupSocket is a no-op: named pipes vanish with their listener.
func cleanupSocket() error {
	return nil
}
