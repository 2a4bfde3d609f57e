package interfaces

import "context"

// HeartbeatTransport is the point-to-point request/acknowledge channel to
// the monitor. Send writes one payload and blocks until exactly one reply
// is received; the reply content is discarded, receipt is the ack. The
// exchange is strictly synchronous so the channel self-throttles when the
// monitor is slow.
type HeartbeatTransport interface {
	Send(ctx context.Context, payload []byte) error
	Close() error
}

// ControlSubscription is the broadcast fan-out channel from the monitor.
// Receive blocks until one message arrives. The subscription carries the
// full, unfiltered topic space; filtering by worker identity happens in
// the control listener, not on the transport. Workers never publish here.
type ControlSubscription interface {
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}
