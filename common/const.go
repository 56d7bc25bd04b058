package common

import "time"

const (
	// AppName is the source label attached to desktop notifications.
	AppName = "CheXy"

	// TCPHost is the loopback host used for the TCP fallback transport.
	TCPHost = "localhost"

	// DefaultTCPPort is the TCP fallback port.
	DefaultTCPPort = 4784

	// DefaultSocketName is the Unix socket file name under os.TempDir().
	DefaultSocketName = "chexy.sock"

	// DefaultPipeName is the default name for the Windows named pipe.
	DefaultPipeName = "chexy"

	// DefaultDialTimeout bounds a single connection attempt to the daemon.
	DefaultDialTimeout = 2 * time.Second
)

// RPC endpoint paths served by the daemon.
const (
	RPCPath   = "/jsonrpc"
	RPCWSPath = "/jsonrpc/ws"
)

// Push notification methods sent to WebSocket clients.
const (
	PushTaskDue          = "task.due"
	PushTaskAcknowledged = "task.acknowledged"
)
