//go:build windows

package chexycli

import (
	"context"
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"

	"github.com/chexy/chexy/common"
)

// dialPipeFunc points at the named pipe dialer so tests can replace it.
var dialPipeFunc = winio.DialPipeContext

// dial connects to the daemon over its named pipe with TCP fallback.
// Transport priority: Named Pipe > TCP
func dial(ctx context.Context) (net.Conn, error) {
	ctx, cancel := dialTimeout(ctx)
	defer cancel()
	if common.ForceTCP() {
		return dialTCP(ctx)
	}
	path := common.PipePath()
	debugLog("Attempting connection via named pipe at %s", path)
	conn, pipeErr := dialPipeFunc(ctx, path)
	if pipeErr != nil {
		debugLog("Named pipe connection failed: %v, falling back to TCP", pipeErr)
		conn, err := dialTCP(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to connect: named pipe error: %v; tcp error: %w", pipeErr, err)
		}
		return conn, nil
	}
	return conn, nil
}
