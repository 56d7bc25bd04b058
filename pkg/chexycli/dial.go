package chexycli

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/chexy/chexy/common"
)

// dialFunc is the raw dialer; tests swap it out.
var dialFunc = func(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, address)
}

// tcpAddress returns "localhost:{port}"
func tcpAddress() string {
	return fmt.Sprintf("%s:%d", common.TCPHost, common.TCPPort())
}

// debugLog logs only if CHEXY_DEBUG is set.
func debugLog(format string, args ...any) {
	if common.DebugMode() {
		log.Printf(format, args...)
	}
}

func dialTCP(ctx context.Context) (net.Conn, error) {
	return dialFunc(ctx, "tcp", tcpAddress())
}

// isDaemonRunning reports whether a daemon accepts connections.
func isDaemonRunning() bool {
	ctx, cancel := context.WithTimeout(context.Background(), socketDialTimeout)
	defer cancel()
	conn, err := dial(ctx)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// dialTimeout applies common.DefaultDialTimeout when ctx has no deadline.
func dialTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, common.DefaultDialTimeout)
}
