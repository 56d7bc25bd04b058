// Package chexycli is the client side of the CheXy daemon RPC interface.
package chexycli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/chexy/chexy/common"
	"github.com/chexy/chexy/pkg/tasklib"
)

// VersionCheckEnv suppresses the version mismatch warning when set.
const VersionCheckEnv = "CHEXY_SUPPRESS_VERSION_CHECK"

// baseURL is the URL the RPC requests are addressed to. The host is never
// resolved since every connection goes through dial.
const baseURL = "http://chexy"

// Error codes returned by the daemon.
const (
	codeTaskNotFound = jrpc2.Code(-32001)
	codeSaveFailed   = jrpc2.Code(-32002)
)

// ErrSaveFailed reports that the daemon kept a change in memory but could
// not persist it.
var ErrSaveFailed = errors.New("daemon could not save the task list")

// Options configure a Client.
type Options struct {
	// Secret is the RPC bearer token.
	Secret string
	// AutoStart spawns a daemon when none is reachable.
	AutoStart bool
	// Dial overrides the transport used to reach the daemon.
	Dial func(ctx context.Context) (net.Conn, error)
}

// Client talks JSON-RPC to the daemon.
type Client struct {
	rpc    *jrpc2.Client
	dial   func(ctx context.Context) (net.Conn, error)
	secret string
}

// bearerTransport adds the RPC token to every request.
type bearerTransport struct {
	base  http.RoundTripper
	token string
}

func (b *bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(r)
}

func transportFor(dialer func(ctx context.Context) (net.Conn, error)) *http.Transport {
	return &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer(ctx)
		},
		DisableCompression: true,
	}
}

// New connects to the daemon, spawning it first when opts.AutoStart is set.
func New(opts Options) (*Client, error) {
	dialer := opts.Dial
	if dialer == nil {
		dialer = dial
		if opts.AutoStart {
			if err := ensureDaemon(); err != nil {
				return nil, err
			}
		}
	}
	httpc := &http.Client{
		Transport: &bearerTransport{base: transportFor(dialer), token: opts.Secret},
	}
	ch := jhttp.NewChannel(baseURL+common.RPCPath, &jhttp.ChannelOptions{Client: httpc})
	return &Client{
		rpc:    jrpc2.NewClient(ch, nil),
		dial:   dialer,
		secret: opts.Secret,
	}, nil
}

// Close releases the client.
func (c *Client) Close() error {
	return c.rpc.Close()
}

// call invokes method and maps daemon error codes onto package errors.
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	err := c.rpc.CallResult(ctx, method, params, result)
	if err == nil {
		return nil
	}
	var rpcErr *jrpc2.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case codeTaskNotFound:
			return fmt.Errorf("%s: %w", method, tasklib.ErrTaskNotFound)
		case codeSaveFailed:
			return fmt.Errorf("%w: %s", ErrSaveFailed, rpcErr.Message)
		}
		return errors.New(rpcErr.Message)
	}
	return fmt.Errorf("failed to invoke %s: %w", method, err)
}

// CheckVersionMismatch warns on stderr when the daemon runs a different
// version than expectedVersion. It never fails.
func (c *Client) CheckVersionMismatch(ctx context.Context, expectedVersion string) {
	if expectedVersion == "" || os.Getenv(VersionCheckEnv) != "" {
		return
	}
	v, err := c.Version(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not verify daemon version: %v\n", err)
		return
	}
	if v.Version != expectedVersion {
		fmt.Fprintf(os.Stderr, "Warning: CLI version (%s) differs from daemon version (%s)\n",
			expectedVersion, v.Version)
		fmt.Fprintf(os.Stderr, "Run 'chexy stop-daemon' to restart the daemon with the new version.\n")
	}
}
