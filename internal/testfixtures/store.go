package testfixtures

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/examduty/dutybook-backend/internal/repository"
)

// State is an in-memory stand-in for the Postgres schema. The stores it hands
// out share one lock so cross-table operations stay atomic.
type State struct {
	mu        sync.Mutex
	faculties map[string]*model.Faculty
	dates     []model.AvailableDate
	events    []model.BookingEvent
	nextID    int64
	err       error
	now       func() time.Time
}

// NewState returns an empty store.
func NewState() *State {
	return &State{
		faculties: make(map[string]*model.Faculty),
		now:       func() time.Time { return ReferenceTime() },
	}
}

// ReferenceTime is the fixed instant stamped on fixture rows.
func ReferenceTime() time.Time {
	return time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
}

// SetError makes every subsequent call fail with err until cleared with nil.
func (s *State) SetError(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Faculties returns the faculty store view.
func (s *State) Faculties() *FacultyStore { return &FacultyStore{s: s} }

// Dates returns the availability catalog view.
func (s *State) Dates() *DateStore { return &DateStore{s: s} }

// Events returns the audit log view.
func (s *State) Events() *EventStore { return &EventStore{s: s} }

// Faculty returns a copy of the stored account, or nil.
func (s *State) Faculty(facultyID string) *model.Faculty {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.faculties[facultyID]
	if !ok {
		return nil
	}
	return cloneFaculty(f)
}

func cloneFaculty(f *model.Faculty) *model.Faculty {
	out := *f
	out.Duties = make(model.Duties, len(f.Duties))
	for k, v := range f.Duties {
		out.Duties[k] = v
	}
	out.Bookings = append([]model.Booking{}, f.Bookings...)
	if f.ImageURL != nil {
		url := *f.ImageURL
		out.ImageURL = &url
	}
	return &out
}

// FacultyStore implements the account persistence contract in memory.
type FacultyStore struct{ s *State }

func (r *FacultyStore) Create(_ context.Context, f *model.Faculty) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}

	if _, ok := r.s.faculties[f.FacultyID]; ok {
		return repository.ErrDuplicateFacultyID
	}
	for _, existing := range r.s.faculties {
		if existing.Email == f.Email {
			return repository.ErrDuplicateEmail
		}
	}

	r.s.nextID++
	f.ID = r.s.nextID
	f.CreatedAt = r.s.now()
	f.UpdatedAt = f.CreatedAt
	if f.Duties == nil {
		f.Duties = model.NewDuties()
	}
	if f.Bookings == nil {
		f.Bookings = []model.Booking{}
	}
	r.s.faculties[f.FacultyID] = cloneFaculty(f)
	return nil
}

func (r *FacultyStore) GetByFacultyID(_ context.Context, facultyID string) (*model.Faculty, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	f, ok := r.s.faculties[facultyID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneFaculty(f), nil
}

func (r *FacultyStore) GetByEmail(_ context.Context, email string) (*model.Faculty, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	for _, f := range r.s.faculties {
		if f.Email == email {
			return cloneFaculty(f), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *FacultyStore) UpdateProfile(_ context.Context, f *model.Faculty) (*model.Faculty, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	stored, ok := r.s.faculties[f.FacultyID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for id, other := range r.s.faculties {
		if id != f.FacultyID && other.Email == f.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}

	stored.Name = f.Name
	stored.Email = f.Email
	stored.Phone = f.Phone
	stored.Designation = f.Designation
	stored.Branch = f.Branch
	stored.ImageURL = f.ImageURL
	stored.UpdatedAt = r.s.now()
	return cloneFaculty(stored), nil
}

func (r *FacultyStore) ListPaginated(_ context.Context, branch string, limit, offset int) ([]model.Faculty, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, 0, r.s.err
	}

	var matched []model.Faculty
	for _, f := range r.s.faculties {
		if branch == "" || f.Branch == branch {
			matched = append(matched, *cloneFaculty(f))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].FacultyID < matched[j].FacultyID })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *FacultyStore) ListDesignationBranch(_ context.Context) ([]model.DesignationBranch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	out := make([]model.DesignationBranch, 0, len(r.s.faculties))
	for _, f := range r.s.faculties {
		out = append(out, model.DesignationBranch{Designation: f.Designation, Branch: f.Branch})
	}
	return out, nil
}

// AppendBooking mirrors the conditional UPDATE: the slot check and the write
// happen under one lock.
func (r *FacultyStore) AppendBooking(_ context.Context, facultyID, counterKey string, b model.Booking) (*model.BookingResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	f, ok := r.s.faculties[facultyID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, existing := range f.Bookings {
		if existing.SameSlot(b) {
			return nil, repository.ErrSlotTaken
		}
	}

	if f.Duties == nil {
		f.Duties = model.Duties{}
	}
	f.Duties[counterKey]++
	f.Bookings = append(f.Bookings, b)
	f.UpdatedAt = r.s.now()

	out := cloneFaculty(f)
	return &model.BookingResult{Duties: out.Duties, Bookings: out.Bookings}, nil
}

func (r *FacultyStore) GetBookings(_ context.Context, facultyID string) ([]model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	f, ok := r.s.faculties[facultyID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]model.Booking{}, f.Bookings...), nil
}

// DateStore implements the availability catalog contract in memory.
type DateStore struct{ s *State }

func (r *DateStore) Create(_ context.Context, d *model.AvailableDate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	r.s.nextID++
	d.ID = r.s.nextID
	d.CreatedAt = r.s.now()
	r.s.dates = append(r.s.dates, *d)
	return nil
}

func (r *DateStore) List(_ context.Context) ([]model.AvailableDate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, r.s.err
	}
	return append([]model.AvailableDate{}, r.s.dates...), nil
}

func (r *DateStore) ResetAll(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	r.s.dates = nil
	for _, f := range r.s.faculties {
		f.Bookings = []model.Booking{}
	}
	return nil
}

// EventStore implements the audit log contract in memory.
type EventStore struct{ s *State }

func (r *EventStore) Create(_ context.Context, e *model.BookingEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return r.s.err
	}
	for _, existing := range r.s.events {
		if existing.ID == e.ID {
			return nil
		}
	}
	r.s.events = append(r.s.events, *e)
	return nil
}

func (r *EventStore) ListRecent(_ context.Context, limit, offset int) ([]model.BookingEvent, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.err != nil {
		return nil, 0, r.s.err
	}

	sorted := append([]model.BookingEvent{}, r.s.events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OccurredAt.After(sorted[j].OccurredAt) })

	total := len(sorted)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return sorted[offset:end], total, nil
}

// SeedFaculty stores f directly, bypassing hashing and validation.
func (s *State) SeedFaculty(f model.Faculty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	f.ID = s.nextID
	if f.Duties == nil {
		f.Duties = model.NewDuties()
	}
	if f.Bookings == nil {
		f.Bookings = []model.Booking{}
	}
	if f.Designation == "" {
		f.Designation = model.DesignationAssistantProfessor
	}
	if f.Email == "" {
		f.Email = strings.ToLower(f.FacultyID) + "@college.test"
	}
	f.CreatedAt = s.now()
	f.UpdatedAt = f.CreatedAt
	s.faculties[f.FacultyID] = cloneFaculty(&f)
}
