// Package server exposes the task store to CLI and UI clients as JSON-RPC
// 2.0 over HTTP and WebSocket. The transport is a Unix socket (a named pipe
// on Windows) with a loopback TCP fallback.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/chexy/chexy/pkg/logger"
)

// shutdownTimeout bounds the graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

// Server serves an RPCServer on a local listener.
type Server struct {
	log      logger.Logger
	rpc      *RPCServer
	port     int
	http     *http.Server
	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a Server for rpc. port is the TCP fallback port.
func NewServer(l logger.Logger, rpc *RPCServer, port int) *Server {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Server{
		log:  l,
		rpc:  rpc,
		port: port,
	}
}

// CreateListener opens the platform listener, falling back to TCP.
func (s *Server) CreateListener() (net.Listener, error) {
	return s.createListener()
}

// Start creates the listener and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	l, err := s.createListener()
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve accepts RPC connections on l until ctx is cancelled or Shutdown is
// called. It returns nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	hs := &http.Server{
		Handler:           s.rpc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.listener = l
	s.http = hs
	s.mu.Unlock()

	s.log.Info("rpc: listening on %s %s", l.Addr().Network(), l.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- hs.Serve(l) }()

	select {
	case <-ctx.Done():
		err := s.Shutdown()
		<-errCh
		return err
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown stops accepting requests, ends WebSocket sessions and removes the
// socket file.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	hs := s.http
	s.http = nil
	s.listener = nil
	s.mu.Unlock()

	if hs == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := hs.Shutdown(ctx)
	if err != nil {
		s.log.Warning("rpc: shutdown: %v", err)
	}
	s.rpc.Close()
	if cerr := cleanupSocket(); cerr != nil {
		s.log.Warning("rpc: removing socket file: %v", cerr)
	}
	return err
}
