package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingEventType identifies what happened.
type BookingEventType string

const (
	BookingEventCreated    BookingEventType = "booking.created"
	BookingEventDatesReset BookingEventType = "dates.reset"
)

// BookingEvent is an audit entry, also streamed to the admin booking feed.
type BookingEvent struct {
	ID         uuid.UUID        `json:"id"`
	Type       BookingEventType `json:"type"`
	FacultyID  string           `json:"facultyId,omitempty"`
	Date       string           `json:"date,omitempty"`
	TimeSlot   TimeSlot         `json:"timeSlot,omitempty"`
	DutyType   string           `json:"dutyType,omitempty"`
	Year       *int             `json:"year,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}

// NewBookingCreatedEvent records a successful booking by facultyID.
func NewBookingCreatedEvent(facultyID string, b Booking) BookingEvent {
	return BookingEvent{
		ID:         uuid.New(),
		Type:       BookingEventCreated,
		FacultyID:  facultyID,
		Date:       b.Date,
		TimeSlot:   b.TimeSlot,
		DutyType:   b.DutyType,
		Year:       b.Year,
		OccurredAt: time.Now().UTC(),
	}
}

// NewDatesResetEvent records an admin catalog reset.
func NewDatesResetEvent() BookingEvent {
	return BookingEvent{
		ID:         uuid.New(),
		Type:       BookingEventDatesReset,
		OccurredAt: time.Now().UTC(),
	}
}
