package redis

import (
	"context"
	"fmt"

	"fleetbase/pkg/config"

	"github.com/go-redis/redis/v8"
)

// NewClient creates a redis client from configuration and verifies the
// connection.
func NewClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// ControlSubscription receives the monitor's broadcast control messages
// from a single fleet-wide redis channel. The subscription is unfiltered;
// every worker sees every command and filters by sid locally. Workers
// never publish on this channel.
type ControlSubscription struct {
	pubsub *redis.PubSub
}

// Subscribe attaches to the control channel.
func Subscribe(client *redis.Client, channel string) *ControlSubscription {
	return &ControlSubscription{
		pubsub: client.Subscribe(context.Background(), channel),
	}
}

// Receive blocks until one broadcast message arrives. No timeout is
// applied; the control channel is addressed directly or not at all.
func (s *ControlSubscription) Receive(ctx context.Context) ([]byte, error) {
	msg, err := s.pubsub.ReceiveMessage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to receive control message: %w", err)
	}
	return []byte(msg.Payload), nil
}

// Close closes the subscription. The shared client is owned by the caller.
func (s *ControlSubscription) Close() error {
	return s.pubsub.Close()
}
