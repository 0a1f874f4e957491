// Package notify broadcasts coarse "orders changed" signals between
// processes over a Redis pub/sub channel. Payloads carry no data; a
// subscriber is expected to refresh its view from the database.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"service-delivery-agent/internal/logx"
)

const connectTimeout = 5 * time.Second

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return client, nil
}

// Bus publishes and subscribes to order change signals.
type Bus struct {
	client  *redis.Client
	channel string
	logger  logx.Logger
}

func New(client *redis.Client, channel string, logger logx.Logger) *Bus {
	return &Bus{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// OrdersChanged publishes a change signal. Delivery is best effort:
// a failed publish is logged and swallowed so a transition never
// fails because the bus is down.
func (b *Bus) OrdersChanged(ctx context.Context) {
	if b == nil || b.client == nil {
		return
	}
	if err := b.client.Publish(ctx, b.channel, "changed").Err(); err != nil {
		b.logger.Warn("publish orders changed", logx.Err(err))
	}
}

// Listen subscribes to the change channel and returns a signal channel.
// Consecutive signals may be coalesced: the channel holds at most one
// pending notification. The returned stop func closes the subscription.
// A nil Bus returns a channel that never fires.
func (b *Bus) Listen(ctx context.Context) (<-chan struct{}, func()) {
	if b == nil || b.client == nil {
		return make(chan struct{}), func() {}
	}
	sub := b.client.Subscribe(ctx, b.channel)
	signals := make(chan struct{}, 1)

	go func() {
		defer close(signals)
		for range sub.Channel() {
			select {
			case signals <- struct{}{}:
			default:
			}
		}
	}()

	stop := func() {
		if err := sub.Close(); err != nil {
			b.logger.Warn("close subscription", logx.Err(err))
		}
	}
	return signals, stop
}
