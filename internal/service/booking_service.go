package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/examduty/dutybook-backend/internal/repository"
	"github.com/examduty/dutybook-backend/internal/response"
	"github.com/rs/zerolog"
)

// EventPageSize is the page size of the booking audit log.
const EventPageSize = 20

// BookingService reserves duty slots and reads booking history.
type BookingService struct {
	store     FacultyStore
	events    EventStore
	publisher EventPublisher
	log       zerolog.Logger
}

// NewBookingService creates a new BookingService. publisher may be nil.
func NewBookingService(store FacultyStore, events EventStore, publisher EventPublisher, log zerolog.Logger) *BookingService {
	return &BookingService{
		store:     store,
		events:    events,
		publisher: publisher,
		log:       log.With().Str("component", "booking_service").Logger(),
	}
}

// CreateBooking reserves (date, timeSlot) for the account and bumps the duty
// counter. The duplicate check and the write happen in one conditional update.
func (s *BookingService) CreateBooking(ctx context.Context, req model.BookRoomRequest) (*model.BookingResult, error) {
	facultyID := strings.TrimSpace(req.FacultyID)
	date := strings.TrimSpace(req.Date)
	dutyType := strings.TrimSpace(req.DutyType)

	if anyBlank(facultyID, date, req.TimeSlot, dutyType) {
		return nil, ErrMissingFields
	}
	slot, ok := model.ParseTimeSlot(req.TimeSlot)
	if !ok {
		return nil, ErrInvalidTimeSlot
	}
	counterKey, ok := model.DutyCounterKey(dutyType)
	if !ok {
		return nil, ErrInvalidDutyType
	}

	booking := model.Booking{
		Date:     date,
		TimeSlot: slot,
		DutyType: dutyType,
		Year:     req.Year,
	}

	result, err := s.store.AppendBooking(ctx, facultyID, counterKey, booking)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrFacultyNotFound
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, ErrSlotAlreadyBooked
		}
		return nil, fmt.Errorf("append booking: %w", err)
	}

	s.log.Info().
		Str("faculty_id", facultyID).
		Str("date", date).
		Str("time_slot", string(slot)).
		Str("duty", counterKey).
		Msg("Duty booked")

	publish(ctx, s.publisher, s.log, model.NewBookingCreatedEvent(facultyID, booking))
	return result, nil
}

// History returns the account's bookings.
func (s *BookingService) History(ctx context.Context, facultyID string) ([]model.Booking, error) {
	bookings, err := s.store.GetBookings(ctx, facultyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("get bookings: %w", err)
	}
	return bookings, nil
}

// ListEvents returns one page of the booking audit log, newest first.
func (s *BookingService) ListEvents(ctx context.Context, page int) ([]model.BookingEvent, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}

	events, total, err := s.events.ListRecent(ctx, EventPageSize, (page-1)*EventPageSize)
	if err != nil {
		return nil, nil, err
	}
	if events == nil {
		events = []model.BookingEvent{}
	}
	return events, response.NewPagination(page, EventPageSize, total), nil
}
