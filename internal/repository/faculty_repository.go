package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateEmail     = errors.New("faculty with this email already exists")
	ErrDuplicateFacultyID = errors.New("faculty with this faculty ID already exists")
	ErrSlotTaken          = errors.New("slot already booked by this faculty")
)

const (
	uniqueViolation = "23505"

	constraintFacultyID = "faculties_faculty_id_key"
	constraintEmail     = "faculties_email_key"
)

const facultyColumns = `id, faculty_id, name, email, phone, designation, branch, password_hash,
	image_url, duties, bookings, created_at, updated_at`

// FacultyRepository handles faculty account data access.
type FacultyRepository struct {
	pool *pgxpool.Pool
}

// NewFacultyRepository creates a new FacultyRepository.
func NewFacultyRepository(pool *pgxpool.Pool) *FacultyRepository {
	return &FacultyRepository{pool: pool}
}

func scanFaculty(row pgx.Row) (*model.Faculty, error) {
	f := &model.Faculty{}
	err := row.Scan(&f.ID, &f.FacultyID, &f.Name, &f.Email, &f.Phone, &f.Designation, &f.Branch,
		&f.PasswordHash, &f.ImageURL, &f.Duties, &f.Bookings, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if f.Bookings == nil {
		f.Bookings = []model.Booking{}
	}
	return f, nil
}

// mapUniqueViolation turns a unique-index violation into the matching sentinel.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case constraintEmail:
			return ErrDuplicateEmail
		case constraintFacultyID:
			return ErrDuplicateFacultyID
		}
	}
	return err
}

// GetByFacultyID retrieves an account by its caller-facing faculty ID.
func (r *FacultyRepository) GetByFacultyID(ctx context.Context, facultyID string) (*model.Faculty, error) {
	return scanFaculty(r.pool.QueryRow(ctx,
		`SELECT `+facultyColumns+` FROM faculties WHERE faculty_id = $1`, facultyID))
}

// GetByEmail retrieves an account by its unique email.
func (r *FacultyRepository) GetByEmail(ctx context.Context, email string) (*model.Faculty, error) {
	return scanFaculty(r.pool.QueryRow(ctx,
		`SELECT `+facultyColumns+` FROM faculties WHERE email = $1`, email))
}

// Create inserts a new account. Unique indexes on faculty_id and email close
// the race left open by the service-level probes.
func (r *FacultyRepository) Create(ctx context.Context, f *model.Faculty) error {
	if f.Duties == nil {
		f.Duties = model.NewDuties()
	}
	if f.Bookings == nil {
		f.Bookings = []model.Booking{}
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO faculties (faculty_id, name, email, phone, designation, branch, password_hash, image_url, duties, bookings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		f.FacultyID, f.Name, f.Email, f.Phone, f.Designation, f.Branch, f.PasswordHash, f.ImageURL, f.Duties, f.Bookings,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

// UpdateProfile overwrites the editable profile fields and returns the stored row.
func (r *FacultyRepository) UpdateProfile(ctx context.Context, f *model.Faculty) (*model.Faculty, error) {
	updated, err := scanFaculty(r.pool.QueryRow(ctx,
		`UPDATE faculties
		 SET name = $1, email = $2, phone = $3, designation = $4, branch = $5, image_url = $6, updated_at = NOW()
		 WHERE faculty_id = $7
		 RETURNING `+facultyColumns,
		f.Name, f.Email, f.Phone, f.Designation, f.Branch, f.ImageURL, f.FacultyID,
	))
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return updated, nil
}

// ListPaginated returns accounts ordered by faculty ID, optionally filtered by branch.
func (r *FacultyRepository) ListPaginated(ctx context.Context, branch string, limit, offset int) ([]model.Faculty, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM faculties WHERE ($1 = '' OR branch = $1)`, branch,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+facultyColumns+` FROM faculties
		 WHERE ($1 = '' OR branch = $1)
		 ORDER BY faculty_id ASC
		 LIMIT $2 OFFSET $3`,
		branch, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var faculties []model.Faculty
	for rows.Next() {
		f, err := scanFaculty(rows)
		if err != nil {
			return nil, 0, err
		}
		faculties = append(faculties, *f)
	}
	return faculties, total, rows.Err()
}

// ListDesignationBranch scans every account's designation and branch.
func (r *FacultyRepository) ListDesignationBranch(ctx context.Context) ([]model.DesignationBranch, error) {
	rows, err := r.pool.Query(ctx, `SELECT designation, branch FROM faculties`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DesignationBranch
	for rows.Next() {
		var db model.DesignationBranch
		if err := rows.Scan(&db.Designation, &db.Branch); err != nil {
			return nil, err
		}
		out = append(out, db)
	}
	return out, rows.Err()
}

// AppendBooking appends b and bumps duties[counterKey] in one conditional
// UPDATE. The WHERE clause rejects a second booking for the same date and
// time slot, and is re-evaluated against the latest row version when two
// writers race, so the per-account slot invariant holds under concurrency.
func (r *FacultyRepository) AppendBooking(ctx context.Context, facultyID, counterKey string, b model.Booking) (*model.BookingResult, error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal booking: %w", err)
	}

	res := &model.BookingResult{}
	err = r.pool.QueryRow(ctx,
		`UPDATE faculties
		 SET bookings = COALESCE(bookings, '[]'::jsonb) || jsonb_build_array($2::jsonb),
		     duties = jsonb_set(
		         COALESCE(duties, '{}'::jsonb),
		         ARRAY[$3::text],
		         to_jsonb(COALESCE((duties ->> $3::text)::int, 0) + 1)
		     ),
		     updated_at = NOW()
		 WHERE faculty_id = $1
		   AND NOT EXISTS (
		       SELECT 1 FROM jsonb_array_elements(COALESCE(bookings, '[]'::jsonb)) AS existing
		       WHERE existing ->> 'date' = $4 AND existing ->> 'timeSlot' = $5
		   )
		 RETURNING duties, bookings`,
		facultyID, payload, counterKey, b.Date, string(b.TimeSlot),
	).Scan(&res.Duties, &res.Bookings)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// No row updated: either the account is missing or the slot is taken.
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM faculties WHERE faculty_id = $1)`, facultyID,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, ErrSlotTaken
}

// GetBookings returns only the booking history of one account.
func (r *FacultyRepository) GetBookings(ctx context.Context, facultyID string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.pool.QueryRow(ctx,
		`SELECT bookings FROM faculties WHERE faculty_id = $1`, facultyID,
	).Scan(&bookings)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return bookings, nil
}
