package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/examduty/dutybook-backend/internal/config"
	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventQueue pushes booking events onto a Redis list for the event worker.
type EventQueue struct {
	rdb *redis.Client
}

// NewEventQueue creates a new EventQueue.
func NewEventQueue(rdb *redis.Client) *EventQueue {
	return &EventQueue{rdb: rdb}
}

// Publish enqueues e as JSON.
func (q *EventQueue) Publish(ctx context.Context, e model.BookingEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := q.rdb.RPush(ctx, config.WorkerKey.BookingEventsQueue, payload).Err(); err != nil {
		return fmt.Errorf("enqueue event: %w", err)
	}
	return nil
}

// publish never fails the caller; the booking has already been committed.
func publish(ctx context.Context, p EventPublisher, log zerolog.Logger, e model.BookingEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("event", string(e.Type)).Msg("Failed to enqueue booking event")
	}
}
