package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/rs/zerolog"
)

// CatalogService manages the admin-curated list of bookable dates.
type CatalogService struct {
	dates     DateStore
	publisher EventPublisher
	log       zerolog.Logger
}

// NewCatalogService creates a new CatalogService. publisher may be nil.
func NewCatalogService(dates DateStore, publisher EventPublisher, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		dates:     dates,
		publisher: publisher,
		log:       log.With().Str("component", "catalog_service").Logger(),
	}
}

// AddDate appends a bookable date. Duplicates are accepted.
func (s *CatalogService) AddDate(ctx context.Context, date string, year int) (*model.AvailableDate, error) {
	date = strings.TrimSpace(date)
	if date == "" || year == 0 {
		return nil, ErrMissingFields
	}

	d := &model.AvailableDate{Date: date, Year: year}
	if err := s.dates.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create date: %w", err)
	}
	return d, nil
}

// ListDates returns the catalog in insertion order.
func (s *CatalogService) ListDates(ctx context.Context) ([]model.AvailableDate, error) {
	dates, err := s.dates.List(ctx)
	if err != nil {
		return nil, err
	}
	if dates == nil {
		dates = []model.AvailableDate{}
	}
	return dates, nil
}

// ResetAll empties the catalog and every account's booking list. Duty
// counters survive.
func (s *CatalogService) ResetAll(ctx context.Context) error {
	if err := s.dates.ResetAll(ctx); err != nil {
		return fmt.Errorf("reset catalog: %w", err)
	}

	s.log.Info().Msg("Available dates and bookings reset")
	publish(ctx, s.publisher, s.log, model.NewDatesResetEvent())
	return nil
}
