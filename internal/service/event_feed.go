package service

import (
	"context"
	"fmt"

	"github.com/examduty/dutybook-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// FeedSubscriber delivers raw booking feed messages until the returned closer
// is called or ctx ends.
type FeedSubscriber interface {
	Subscribe(ctx context.Context) (<-chan string, func() error, error)
}

// RedisFeed subscribes to the booking feed Pub/Sub channel.
type RedisFeed struct {
	rdb *redis.Client
}

// NewRedisFeed creates a new RedisFeed.
func NewRedisFeed(rdb *redis.Client) *RedisFeed {
	return &RedisFeed{rdb: rdb}
}

// Subscribe waits for the subscription to be confirmed before returning.
func (f *RedisFeed) Subscribe(ctx context.Context) (<-chan string, func() error, error) {
	ps := f.rdb.Subscribe(ctx, config.CacheKey.BookingFeedChannel())
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("subscribe booking feed: %w", err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, ps.Close, nil
}
