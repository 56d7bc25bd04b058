//go:build !windows

package chexycli

import (
	"context"
	"fmt"
	"net"

	"github.com/chexy/chexy/common"
)

// dial connects to the daemon over its Unix socket with TCP fallback.
// Transport priority: Unix socket > TCP
func dial(ctx context.Context) (net.Conn, error) {
	ctx, cancel := dialTimeout(ctx)
	defer cancel()
	if common.ForceTCP() {
		debugLog("Force TCP mode, connecting to %s", tcpAddress())
		return dialTCP(ctx)
	}
	path := common.SocketPath()
	debugLog("Attempting connection via Unix socket at %s", path)
	conn, unixErr := dialFunc(ctx, "unix", path)
	if unixErr != nil {
		debugLog("Unix socket connection failed: %v, falling back to TCP", unixErr)
		conn, err := dialTCP(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to connect: unix socket error: %v; tcp error: %w", unixErr, err)
		}
		return conn, nil
	}
	return conn, nil
}
