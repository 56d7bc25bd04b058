package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// wsChannel adapts a coder/websocket.Conn to the jrpc2 Channel interface.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

// Send writes a JSON-RPC message to the WebSocket connection. A write that
// does not finish within pushTimeout closes the connection.
func (c *wsChannel) Send(data []byte) error {
	ctx, cancel := context.WithTimeout(c.ctx, pushTimeout)
	defer cancel()
	return c.conn.Write(ctx, cws.MessageText, data)
}

// Recv reads a JSON-RPC message from the WebSocket connection.
func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

// Close shuts down the WebSocket connection with a normal closure status.
func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// serveWS upgrades the request and serves the RPC methods on the socket with
// push enabled. The session is registered with the notifier for task.due and
// task.acknowledged pushes until the peer disconnects.
func (rs *RPCServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		rs.log.Warning("rpc: websocket upgrade failed: %v", err)
		return
	}
	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(rs.methods, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(ch)
	if rs.notifier != nil {
		rs.notifier.Register(srv)
		defer rs.notifier.Unregister(srv)
	}
	_ = srv.Wait()
}
