package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/examduty/dutybook-backend/internal/config"
	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventStore persists booking events. *repository.BookingEventRepository satisfies it.
type EventStore interface {
	Create(ctx context.Context, e *model.BookingEvent) error
}

// QueueClient is the slice of the Redis API the worker uses. *redis.Client satisfies it.
type QueueClient interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LPop(ctx context.Context, key string) *redis.StringCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// BookingEventWorker consumes booking_events_queue, stores each event in
// PostgreSQL and fans it out on the booking feed channel.
type BookingEventWorker struct {
	store      EventStore
	rdb        QueueClient
	log        zerolog.Logger
	retryDelay time.Duration
}

// NewBookingEventWorker creates a new BookingEventWorker.
func NewBookingEventWorker(store EventStore, rdb QueueClient, log zerolog.Logger) *BookingEventWorker {
	return &BookingEventWorker{
		store:      store,
		rdb:        rdb,
		log:        log.With().Str("component", "booking_event_worker").Logger(),
		retryDelay: 5 * time.Second,
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *BookingEventWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *BookingEventWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.BookingEventsQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.handle(ctx, result[1]); err != nil {
		if isPermanent(err) {
			w.log.Error().Err(err).Str("payload", result[1]).Msg("Event rejected by store, dropping")
			return
		}
		w.log.Error().Err(err).Msg("Persist error, retrying")
		// Push back to queue for retry.
		w.rdb.RPush(context.Background(), config.WorkerKey.BookingEventsQueue, result[1])
		select {
		case <-ctx.Done():
		case <-time.After(w.retryDelay):
		}
	}
}

// handle stores one queued event and publishes it. Malformed payloads are
// logged and dropped; storage failures are returned to the caller.
func (w *BookingEventWorker) handle(ctx context.Context, raw string) error {
	var event model.BookingEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping event")
		return nil
	}

	if err := w.store.Create(ctx, &event); err != nil {
		return err
	}

	if err := w.rdb.Publish(ctx, config.CacheKey.BookingFeedChannel(), raw).Err(); err != nil {
		w.log.Warn().Err(err).Str("event_id", event.ID.String()).Msg("Feed publish failed")
	}
	return nil
}

// drain processes all remaining items in the queue before shutdown.
func (w *BookingEventWorker) drain(ctx context.Context) {
	drained := 0
	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.BookingEventsQueue).Result()
		if err != nil {
			break
		}

		if err := w.handle(ctx, raw); err != nil {
			if isPermanent(err) {
				w.log.Error().Err(err).Str("payload", raw).Msg("Event rejected by store, dropping")
				continue
			}
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.BookingEventsQueue, raw)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}

// isPermanent reports whether a store error can never succeed on retry:
// PostgreSQL data exceptions (class 22) and integrity violations (class 23).
func isPermanent(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	class := pgErr.Code
	if len(class) >= 2 {
		class = class[:2]
	}
	return class == "22" || class == "23"
}
