package ws

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// HeartbeatClient holds one persistent websocket connection to the
// monitor's heartbeat endpoint and runs the request/acknowledge exchange
// over it. One frame out, one frame back; the reply body is discarded.
type HeartbeatClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// Dial connects to the monitor heartbeat endpoint.
func Dial(url string) (*HeartbeatClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to monitor heartbeat endpoint: %w", err)
	}
	return &HeartbeatClient{conn: conn}, nil
}

// Send writes one payload frame and blocks until exactly one reply frame
// arrives. There is no read timeout: absent a reply the call blocks
// indefinitely, which is the intended liveness-failure behavior. Errors
// are returned to the caller, never retried here.
func (c *HeartbeatClient) Send(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		_ = c.conn.SetReadDeadline(deadline)
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("failed to send heartbeat: %w", err)
	}
	if _, _, err := c.conn.ReadMessage(); err != nil {
		return fmt.Errorf("failed to receive heartbeat ack: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *HeartbeatClient) Close() error {
	return c.conn.Close()
}
