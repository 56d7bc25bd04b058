// Package common provides shared constants and wire types used across the
// CheXy client-server communication layer.
package common

// Environment variable names for configuration.
const (
	// SocketPathEnv is the environment variable for custom socket path.
	SocketPathEnv = "CHEXY_SOCKET_PATH"

	// PipeNameEnv is the environment variable for a custom Windows pipe name.
	PipeNameEnv = "CHEXY_PIPE_NAME"

	// TCPPortEnv is the environment variable for custom TCP port.
	TCPPortEnv = "CHEXY_TCP_PORT"

	// ForceTCPEnv is the environment variable to force TCP connections.
	ForceTCPEnv = "CHEXY_FORCE_TCP"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "CHEXY_DEBUG"

	// RPCSecretEnv overrides the RPC bearer token stored in the keyring.
	RPCSecretEnv = "CHEXY_RPC_SECRET"
)
