package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/examduty/dutybook-backend/internal/service"
	"github.com/examduty/dutybook-backend/internal/testfixtures"
)

func bookRequest(slot, duty string) model.BookRoomRequest {
	year := 2
	return model.BookRoomRequest{
		FacultyID: "F100",
		Date:      "2025-03-10",
		TimeSlot:  slot,
		DutyType:  duty,
		Year:      &year,
	}
}

func bookingEnv() *testfixtures.Env {
	env := testfixtures.NewEnv()
	env.State.SeedFaculty(model.Faculty{FacultyID: "F100"})
	return env
}

func TestCreateBooking_IncrementsAndAppends(t *testing.T) {
	env := bookingEnv()
	ctx := context.Background()

	res, err := env.Bookings.CreateBooking(ctx, bookRequest("Morning", "Exam"))
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if res.Duties[model.DutyExam] != 1 {
		t.Errorf("exam counter should be 1, got %v", res.Duties)
	}
	if len(res.Bookings) != 1 || res.Bookings[0].DutyType != "Exam" || res.Bookings[0].TimeSlot != model.TimeSlotMorning {
		t.Errorf("unexpected bookings %v", res.Bookings)
	}

	events := env.Publisher.Events()
	if len(events) != 1 || events[0].Type != model.BookingEventCreated || events[0].FacultyID != "F100" {
		t.Errorf("expected one booking.created event, got %v", events)
	}
}

func TestCreateBooking_DuplicateSlot(t *testing.T) {
	env := bookingEnv()
	ctx := context.Background()

	if _, err := env.Bookings.CreateBooking(ctx, bookRequest("Morning", "Exam")); err != nil {
		t.Fatal(err)
	}
	_, err := env.Bookings.CreateBooking(ctx, bookRequest("morning", "Bundle"))
	if !errors.Is(err, service.ErrSlotAlreadyBooked) {
		t.Fatalf("expected ErrSlotAlreadyBooked, got %v", err)
	}

	f := env.State.Faculty("F100")
	if f.Duties[model.DutyExam] != 1 || f.Duties[model.DutyBundle] != 0 || len(f.Bookings) != 1 {
		t.Errorf("rejected booking must not change state, got %+v", f)
	}

	res, err := env.Bookings.CreateBooking(ctx, bookRequest("Afternoon", "Exam"))
	if err != nil {
		t.Fatalf("other slot on same date should succeed: %v", err)
	}
	if res.Duties[model.DutyExam] != 2 || len(res.Bookings) != 2 {
		t.Errorf("unexpected state %+v", res)
	}
}

func TestCreateBooking_DutyTypeCaseSharesCounter(t *testing.T) {
	env := bookingEnv()
	ctx := context.Background()

	if _, err := env.Bookings.CreateBooking(ctx, bookRequest("Morning", "Exam")); err != nil {
		t.Fatal(err)
	}
	res, err := env.Bookings.CreateBooking(ctx, bookRequest("Afternoon", "exam"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Duties[model.DutyExam] != 2 || len(res.Bookings) != 2 {
		t.Errorf("expected exam=2 across two slots, got %v %v", res.Duties, res.Bookings)
	}
}

func TestCreateBooking_RenewalCountsAsRelevel(t *testing.T) {
	env := bookingEnv()

	res, err := env.Bookings.CreateBooking(context.Background(), bookRequest("Afternoon", "Renewal"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Duties[model.DutyRelevel] != 1 {
		t.Errorf("renewal should count as relevel, got %v", res.Duties)
	}
	if res.Bookings[0].DutyType != "Renewal" {
		t.Errorf("duty type keeps caller casing, got %q", res.Bookings[0].DutyType)
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	env := bookingEnv()
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.BookRoomRequest
		want error
	}{
		{"blank date", func() model.BookRoomRequest { r := bookRequest("Morning", "Exam"); r.Date = " "; return r }(), service.ErrMissingFields},
		{"blank faculty", func() model.BookRoomRequest { r := bookRequest("Morning", "Exam"); r.FacultyID = ""; return r }(), service.ErrMissingFields},
		{"bad slot", bookRequest("Evening", "Exam"), service.ErrInvalidTimeSlot},
		{"bad duty", bookRequest("Morning", "Invigilation"), service.ErrInvalidDutyType},
		{"unknown faculty", func() model.BookRoomRequest { r := bookRequest("Morning", "Exam"); r.FacultyID = "F404"; return r }(), service.ErrFacultyNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.Bookings.CreateBooking(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if len(env.Publisher.Events()) != 0 {
		t.Error("failed bookings must not publish events")
	}
}

func TestCreateBooking_PublishFailureIsNotFatal(t *testing.T) {
	env := bookingEnv()
	env.Publisher.Err = errors.New("redis down")

	if _, err := env.Bookings.CreateBooking(context.Background(), bookRequest("Morning", "Exam")); err != nil {
		t.Fatalf("booking must succeed when the event queue is down: %v", err)
	}
}

func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
	env := bookingEnv()
	ctx := context.Background()

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.Bookings.CreateBooking(ctx, bookRequest("Morning", "Exam"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, service.ErrSlotAlreadyBooked):
				conflicts++
			default:
				t.Errorf("unexpected error %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || conflicts != attempts-1 {
		t.Fatalf("expected exactly one success, got %d successes and %d conflicts", successes, conflicts)
	}
	if f := env.State.Faculty("F100"); f.Duties[model.DutyExam] != 1 {
		t.Errorf("counter must be 1, got %v", f.Duties)
	}
}

func TestHistory(t *testing.T) {
	env := bookingEnv()
	ctx := context.Background()

	history, err := env.Bookings.History(ctx, "F100")
	if err != nil {
		t.Fatal(err)
	}
	if history == nil || len(history) != 0 {
		t.Errorf("expected empty non-nil history, got %v", history)
	}

	if _, err := env.Bookings.CreateBooking(ctx, bookRequest("Morning", "Exam")); err != nil {
		t.Fatal(err)
	}
	history, _ = env.Bookings.History(ctx, "F100")
	if len(history) != 1 {
		t.Errorf("expected one booking, got %v", history)
	}

	if _, err := env.Bookings.History(ctx, "F404"); !errors.Is(err, service.ErrFacultyNotFound) {
		t.Errorf("expected ErrFacultyNotFound, got %v", err)
	}
}

func TestListEvents(t *testing.T) {
	env := testfixtures.NewEnv()
	ctx := context.Background()
	store := env.State.Events()

	for i := 0; i < 25; i++ {
		e := model.NewDatesResetEvent()
		e.OccurredAt = testfixtures.ReferenceTime().Add(time.Duration(i) * time.Minute)
		if err := store.Create(ctx, &e); err != nil {
			t.Fatal(err)
		}
	}

	page1, pg, err := env.Bookings.ListEvents(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page1) != service.EventPageSize || pg.TotalItems != 25 || pg.TotalPages != 2 {
		t.Errorf("unexpected first page: %d items, %+v", len(page1), pg)
	}
	if !page1[0].OccurredAt.After(page1[1].OccurredAt) {
		t.Error("events must be newest first")
	}

	page2, _, _ := env.Bookings.ListEvents(ctx, 2)
	if len(page2) != 5 {
		t.Errorf("expected 5 events on page 2, got %d", len(page2))
	}
}
