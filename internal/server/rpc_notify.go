package server

import (
	"context"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"

	"github.com/chexy/chexy/common"
	"github.com/chexy/chexy/internal/notify"
	"github.com/chexy/chexy/pkg/logger"
)

// RPCNotifier maintains a set of connected jrpc2 WebSocket servers
// and broadcasts push notifications to all of them. It doubles as a
// notify.Sink so due notifications reach attached UIs.
type RPCNotifier struct {
	mu      sync.RWMutex
	servers map[*jrpc2.Server]struct{}
	log     logger.Logger
}

// NewRPCNotifier creates a new notifier.
func NewRPCNotifier(l logger.Logger) *RPCNotifier {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &RPCNotifier{
		servers: make(map[*jrpc2.Server]struct{}),
		log:     l,
	}
}

// Register adds a server to the broadcast set.
func (n *RPCNotifier) Register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[srv] = struct{}{}
}

// Unregister removes a server from the broadcast set.
func (n *RPCNotifier) Unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.servers, srv)
}

func (n *RPCNotifier) snapshot() []*jrpc2.Server {
	n.mu.RLock()
	defer n.mu.RUnlock()
	servers := make([]*jrpc2.Server, 0, len(n.servers))
	for srv := range n.servers {
		servers = append(servers, srv)
	}
	return servers
}

// pushTimeout bounds a single push. A client that does not take the push in
// time is dropped so a stalled UI cannot hold back the scheduler.
var pushTimeout = 2 * time.Second

// push sends one notification to srv, giving up after pushTimeout.
func push(srv *jrpc2.Server, method string, params any) error {
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Notify(ctx, method, params) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// Stop closes the channel, which unblocks the pending write.
		go srv.Stop()
		return ctx.Err()
	}
}

// Broadcast sends a push notification to all registered servers.
// Servers that fail or time out are unregistered.
func (n *RPCNotifier) Broadcast(method string, params any) {
	var failed []*jrpc2.Server
	for _, srv := range n.snapshot() {
		if err := push(srv, method, params); err != nil {
			n.log.Warning("rpc: push %s failed: %v", method, err)
			failed = append(failed, srv)
		}
	}

	if len(failed) > 0 {
		n.mu.Lock()
		for _, srv := range failed {
			delete(n.servers, srv)
		}
		n.mu.Unlock()
	}
}

// Notify pushes task.due to every attached client. Having no clients is not
// an error.
func (n *RPCNotifier) Notify(_ context.Context, note notify.Notification) error {
	n.Broadcast(common.PushTaskDue, &common.TaskDueNotification{
		ID:         note.TaskID,
		Name:       note.Name,
		Importance: note.Importance,
		Reason:     note.Reason,
		Title:      note.Title,
		Message:    note.Body,
	})
	return nil
}

// Acknowledged pushes task.acknowledged so a UI can take focus back.
func (n *RPCNotifier) Acknowledged(d notify.Due) {
	n.Broadcast(common.PushTaskAcknowledged, &common.TaskAcknowledgedNotification{ID: d.Task.ID})
}

// StopAll stops every registered server, ending their WebSocket sessions.
func (n *RPCNotifier) StopAll() {
	for _, srv := range n.snapshot() {
		srv.Stop()
	}
	n.mu.Lock()
	n.servers = make(map[*jrpc2.Server]struct{})
	n.mu.Unlock()
}

// Count returns the number of registered servers.
func (n *RPCNotifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}

var _ notify.Sink = (*RPCNotifier)(nil)
