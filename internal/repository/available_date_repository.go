package repository

import (
	"context"
	"fmt"

	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AvailableDateRepository handles the bookable date catalog.
type AvailableDateRepository struct {
	pool *pgxpool.Pool
}

// NewAvailableDateRepository creates a new AvailableDateRepository.
func NewAvailableDateRepository(pool *pgxpool.Pool) *AvailableDateRepository {
	return &AvailableDateRepository{pool: pool}
}

// Create appends a date. Duplicates are allowed.
func (r *AvailableDateRepository) Create(ctx context.Context, d *model.AvailableDate) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO available_dates (date, year) VALUES ($1, $2) RETURNING id, created_at`,
		d.Date, d.Year,
	).Scan(&d.ID, &d.CreatedAt)
}

// List returns every date in insertion order.
func (r *AvailableDateRepository) List(ctx context.Context) ([]model.AvailableDate, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, date, year, created_at FROM available_dates ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []model.AvailableDate{}
	for rows.Next() {
		var d model.AvailableDate
		if err := rows.Scan(&d.ID, &d.Date, &d.Year, &d.CreatedAt); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// ResetAll empties the catalog and clears every account's bookings. Duty
// counters are left untouched.
func (r *AvailableDateRepository) ResetAll(ctx context.Context) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM available_dates`); err != nil {
			return fmt.Errorf("delete dates: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE faculties SET bookings = '[]'::jsonb, updated_at = NOW() WHERE bookings <> '[]'::jsonb`,
		); err != nil {
			return fmt.Errorf("clear bookings: %w", err)
		}
		return nil
	})
}
