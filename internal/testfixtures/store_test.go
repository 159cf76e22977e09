package testfixtures

import (
	"context"
	"errors"
	"testing"

	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/examduty/dutybook-backend/internal/repository"
)

func TestFacultyStoreRejectsDuplicateSlot(t *testing.T) {
	state := NewState()
	state.SeedFaculty(model.Faculty{FacultyID: "F1"})
	store := state.Faculties()
	ctx := context.Background()

	b := model.Booking{Date: "2025-03-10", TimeSlot: model.TimeSlotMorning, DutyType: "Exam"}
	if _, err := store.AppendBooking(ctx, "F1", model.DutyExam, b); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if _, err := store.AppendBooking(ctx, "F1", model.DutyExam, b); !errors.Is(err, repository.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if _, err := store.AppendBooking(ctx, "F9", model.DutyExam, b); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResetAllKeepsDuties(t *testing.T) {
	state := NewState()
	state.SeedFaculty(model.Faculty{FacultyID: "F1"})
	ctx := context.Background()

	b := model.Booking{Date: "2025-03-10", TimeSlot: model.TimeSlotAfternoon, DutyType: "bundle"}
	if _, err := state.Faculties().AppendBooking(ctx, "F1", model.DutyBundle, b); err != nil {
		t.Fatal(err)
	}
	if err := state.Dates().ResetAll(ctx); err != nil {
		t.Fatal(err)
	}

	f := state.Faculty("F1")
	if len(f.Bookings) != 0 {
		t.Errorf("bookings should be cleared, got %v", f.Bookings)
	}
	if f.Duties[model.DutyBundle] != 1 {
		t.Errorf("duties should survive reset, got %v", f.Duties)
	}
}

func TestSetErrorFailsEveryCall(t *testing.T) {
	state := NewState()
	boom := errors.New("boom")
	state.SetError(boom)

	if _, err := state.Dates().List(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	state.SetError(nil)
	if _, err := state.Dates().List(context.Background()); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
}
