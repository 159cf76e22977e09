package repository

import (
	"context"

	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingEventRepository stores the booking audit log.
type BookingEventRepository struct {
	pool *pgxpool.Pool
}

// NewBookingEventRepository creates a new BookingEventRepository.
func NewBookingEventRepository(pool *pgxpool.Pool) *BookingEventRepository {
	return &BookingEventRepository{pool: pool}
}

// Create inserts an event. Re-delivered events are ignored.
func (r *BookingEventRepository) Create(ctx context.Context, e *model.BookingEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO booking_events (id, type, faculty_id, date, time_slot, duty_type, year, occurred_at)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		e.ID, e.Type, e.FacultyID, e.Date, string(e.TimeSlot), e.DutyType, e.Year, e.OccurredAt,
	)
	return err
}

// ListRecent returns events newest first.
func (r *BookingEventRepository) ListRecent(ctx context.Context, limit, offset int) ([]model.BookingEvent, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM booking_events`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, type, COALESCE(faculty_id, ''), COALESCE(date, ''), COALESCE(time_slot, ''),
		        COALESCE(duty_type, ''), year, occurred_at
		 FROM booking_events
		 ORDER BY occurred_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []model.BookingEvent
	for rows.Next() {
		var e model.BookingEvent
		if err := rows.Scan(&e.ID, &e.Type, &e.FacultyID, &e.Date, &e.TimeSlot, &e.DutyType, &e.Year, &e.OccurredAt); err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}
