//go:build !windows

package server

import (
	"fmt"
	"net"
	"os"

	"github.com/chexy/chexy/common"
)

// createListener creates a Unix socket listener with TCP fallback.
// Transport priority: Unix socket > TCP
func (s *Server) createListener() (net.Listener, error) {
	if common.ForceTCP() {
		s.log.Info("rpc: force TCP mode enabled")
		return s.listenTCP()
	}
	socketPath := common.SocketPath()
	_ = os.Remove(socketPath)
	l, err := net.ListenUnix("unix", &net.UnixAddr{
		Name: socketPath,
		Net:  "unix",
	})
	if err != nil {
		s.log.Warning("rpc: unix socket %s unavailable, trying tcp: %v", socketPath, err)
		return s.listenTCP()
	}
	// owner only: the socket gives full access to the task store
	_ = os.Chmod(socketPath, 0700)
	return l, nil
}

func (s *Server) listenTCP() (net.Listener, error) {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	if err != nil {
		return nil, fmt.Errorf("error listening: %w", err)
	}
	return l, nil
}

// cleanupSocket removes the Unix socket file.
func cleanupSocket() error {
	if err := os.Remove(common.SocketPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
