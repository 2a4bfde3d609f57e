package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"fleetbase/internal/service"
	"fleetbase/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const tickInterval = time.Second

// Tick is one published market data point.
type Tick struct {
	ID     string    `json:"id"`
	Symbol string    `json:"symbol"`
	Seq    uint64    `json:"seq"`
	SentAt time.Time `json:"sent_at"`
}

// Feed is a publishing worker body: once started it emits ticks onto a
// redis channel until its context is cancelled. It exists as the concrete
// example of the Body extension surface; om and strategy workers plug in
// the same way with their own hooks.
type Feed struct {
	service.BaseBody

	client  *redis.Client
	channel string
	symbol  string

	// A remote stop does not cancel a running publish loop, so a remote
	// restart can admit a second loop next to the first; seq must stay
	// coherent across both.
	seq uint64
}

// New creates a feed body publishing to the given channel.
func New(client *redis.Client, channel, symbol string) *Feed {
	return &Feed{
		client:  client,
		channel: channel,
		symbol:  symbol,
	}
}

// Publish emits one tick per interval until ctx is cancelled.
func (f *Feed) Publish(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := f.publishTick(ctx); err != nil {
				return err
			}
		}
	}
}

// Run suspends on the publish loop for the whole started period.
func (f *Feed) Run(ctx context.Context) error {
	logger.Infof("feed body running, publishing %s ticks to %s", f.symbol, f.channel)
	return f.Publish(ctx)
}

func (f *Feed) publishTick(ctx context.Context) error {
	tick := Tick{
		ID:     uuid.NewString(),
		Symbol: f.symbol,
		Seq:    atomic.AddUint64(&f.seq, 1),
		SentAt: time.Now(),
	}

	payload, err := json.Marshal(tick)
	if err != nil {
		return fmt.Errorf("failed to marshal tick: %w", err)
	}

	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish tick: %w", err)
	}
	return nil
}
