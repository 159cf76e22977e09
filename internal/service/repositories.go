package service

import (
	"context"

	"github.com/examduty/dutybook-backend/internal/model"
)

// FacultyStore is the persistence surface the account and booking services need.
// *repository.FacultyRepository satisfies it.
type FacultyStore interface {
	Create(ctx context.Context, f *model.Faculty) error
	GetByFacultyID(ctx context.Context, facultyID string) (*model.Faculty, error)
	GetByEmail(ctx context.Context, email string) (*model.Faculty, error)
	UpdateProfile(ctx context.Context, f *model.Faculty) (*model.Faculty, error)
	ListPaginated(ctx context.Context, branch string, limit, offset int) ([]model.Faculty, int, error)
	ListDesignationBranch(ctx context.Context) ([]model.DesignationBranch, error)
	AppendBooking(ctx context.Context, facultyID, counterKey string, b model.Booking) (*model.BookingResult, error)
	GetBookings(ctx context.Context, facultyID string) ([]model.Booking, error)
}

// DateStore persists the availability catalog.
type DateStore interface {
	Create(ctx context.Context, d *model.AvailableDate) error
	List(ctx context.Context) ([]model.AvailableDate, error)
	ResetAll(ctx context.Context) error
}

// EventStore persists the booking audit log.
type EventStore interface {
	Create(ctx context.Context, e *model.BookingEvent) error
	ListRecent(ctx context.Context, limit, offset int) ([]model.BookingEvent, int, error)
}

// EventPublisher hands a booking event off for asynchronous processing.
type EventPublisher interface {
	Publish(ctx context.Context, e model.BookingEvent) error
}
