package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

// ackingMonitor answers every frame with a fixed ack and records payloads.
func ackingMonitor(t *testing.T, received chan<- []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- payload
			if err := conn.WriteMessage(websocket.TextMessage, []byte("ok")); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestHeartbeatClient_SendAndAck(t *testing.T) {
	received := make(chan []byte, 4)
	srv := ackingMonitor(t, received)
	defer srv.Close()

	client, err := Dial(wsURL(srv))
	require.NoError(t, err)
	defer client.Close()

	err = client.Send(context.Background(), []byte(`{"sid":"w1","type":"heartbeat","state":"started"}`))
	assert.NoError(t, err)
	assert.Equal(t, `{"sid":"w1","type":"heartbeat","state":"started"}`, string(<-received))

	// The connection is persistent; a second exchange reuses it.
	err = client.Send(context.Background(), []byte(`{"sid":"w1","type":"heartbeat","state":"stopped"}`))
	assert.NoError(t, err)
	assert.Equal(t, `{"sid":"w1","type":"heartbeat","state":"stopped"}`, string(<-received))
}

func TestHeartbeatClient_BlocksWithoutAck(t *testing.T) {
	// Monitor reads but never replies.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	client, err := Dial(wsURL(srv))
	require.NoError(t, err)
	defer client.Close()

	done := make(chan error, 1)
	go func() { done <- client.Send(context.Background(), []byte(`{}`)) }()

	select {
	case err := <-done:
		t.Fatalf("send returned without an ack: %v", err)
	case <-time.After(100 * time.Millisecond):
		// Still parked on the missing ack, as intended.
	}

	// Closing the connection is the only way out; the pending send fails.
	client.Close()
	assert.Error(t, <-done)
}

func TestHeartbeatClient_DeadConnectionIsFatal(t *testing.T) {
	received := make(chan []byte, 1)
	srv := ackingMonitor(t, received)

	client, err := Dial(wsURL(srv))
	require.NoError(t, err)
	defer client.Close()

	srv.Close()

	err = client.Send(context.Background(), []byte(`{}`))
	assert.Error(t, err)
}

func TestDial_Refused(t *testing.T) {
	_, err := Dial("ws://127.0.0.1:1/heartbeat")
	assert.Error(t, err)
}
