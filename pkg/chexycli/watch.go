package chexycli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"

	"github.com/chexy/chexy/common"
)

// watchPingInterval is how often Watch checks that the daemon is still there.
const watchPingInterval = 30 * time.Second

// Event is a push received from the daemon.
type Event struct {
	Method string
	// Due is set for task.due.
	Due *common.TaskDueNotification
	// TaskID is set for task.acknowledged.
	TaskID string
}

// watchBuffer is how many pushes Watch queues for fn before dropping.
const watchBuffer = 16

// offer queues ev without blocking. The jrpc2 read loop delivers pushes and
// ping replies alike, so it must never wait on a slow fn.
func offer(events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	default:
		return false
	}
}

// wsChannel adapts a websocket connection to a jrpc2 channel.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// Watch subscribes to daemon pushes and calls fn for each one until ctx is
// cancelled (returning nil) or the connection is lost.
func (c *Client) Watch(ctx context.Context, fn func(Event)) error {
	conn, _, err := cws.Dial(ctx, "ws://chexy"+common.RPCWSPath, &cws.DialOptions{
		HTTPClient: &http.Client{Transport: transportFor(c.dial)},
		HTTPHeader: http.Header{
			"Authorization": []string{"Bearer " + c.secret},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	events := make(chan Event, watchBuffer)
	cli := jrpc2.NewClient(&wsChannel{conn: conn, ctx: ctx}, &jrpc2.ClientOptions{
		OnNotify: func(req *jrpc2.Request) {
			ev := Event{Method: req.Method()}
			switch req.Method() {
			case common.PushTaskDue:
				var due common.TaskDueNotification
				if err := req.UnmarshalParams(&due); err != nil {
					debugLog("bad %s push: %v", req.Method(), err)
					return
				}
				ev.Due = &due
			case common.PushTaskAcknowledged:
				var ack common.TaskAcknowledgedNotification
				if err := req.UnmarshalParams(&ack); err != nil {
					debugLog("bad %s push: %v", req.Method(), err)
					return
				}
				ev.TaskID = ack.ID
			}
			if !offer(events, ev) {
				debugLog("dropped %s push: watcher is behind", ev.Method)
			}
		},
	})
	defer cli.Close()

	ticker := time.NewTicker(watchPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			fn(ev)
		case <-ticker.C:
			var v common.VersionResult
			if err := cli.CallResult(ctx, "system.getVersion", nil, &v); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("lost connection to daemon: %w", err)
			}
		}
	}
}
