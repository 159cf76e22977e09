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

// FacultyPageSize is the fixed page size of the admin account listing.
const FacultyPageSize = 10

// ImageStore keeps profile images. *MediaService satisfies it.
type ImageStore interface {
	SaveUpload(u Upload) (string, error)
	Remove(url string) error
}

// Rollup is the admin dashboard summary.
type Rollup struct {
	TotalFaculties      int            `json:"totalFaculties"`
	AssociateProfessors int            `json:"associateProfessors"`
	AssistantProfessors int            `json:"assistantProfessors"`
	NonTeachingStaff    int            `json:"nonTeachingStaff"`
	HOD                 int            `json:"hod"`
	BranchDistribution  map[string]int `json:"branchDistribution"`
}

// BuildRollup counts accounts by designation and branch.
func BuildRollup(rows []model.DesignationBranch) Rollup {
	r := Rollup{
		TotalFaculties:     len(rows),
		BranchDistribution: make(map[string]int),
	}
	for _, row := range rows {
		switch {
		case row.Designation == model.DesignationAssociateProfessor:
			r.AssociateProfessors++
		case row.Designation == model.DesignationAssistantProfessor:
			r.AssistantProfessors++
		case row.Designation.NonTeaching():
			r.NonTeachingStaff++
		case row.Designation == model.DesignationHOD:
			r.HOD++
		}
		r.BranchDistribution[row.Branch]++
	}
	return r
}

// FacultyService owns account registration, login, and profile management.
type FacultyService struct {
	store  FacultyStore
	auth   *AuthService
	images ImageStore
	log    zerolog.Logger
}

// NewFacultyService creates a new FacultyService.
func NewFacultyService(store FacultyStore, auth *AuthService, images ImageStore, log zerolog.Logger) *FacultyService {
	return &FacultyService{
		store:  store,
		auth:   auth,
		images: images,
		log:    log.With().Str("component", "faculty_service").Logger(),
	}
}

// Register creates an account and returns the stored image URL, if any.
func (s *FacultyService) Register(ctx context.Context, req model.RegisterRequest, img *Upload) (*string, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.FacultyID = strings.TrimSpace(req.FacultyID)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Designation = strings.TrimSpace(req.Designation)
	req.Branch = strings.TrimSpace(req.Branch)

	if anyBlank(req.Name, req.FacultyID, req.Email, req.Phone, req.Designation, req.Branch,
		req.Password, req.ConfirmPassword) {
		return nil, ErrMissingFields
	}
	if !model.Designation(req.Designation).Valid() {
		return nil, ErrInvalidDesignation
	}
	if strings.TrimSpace(req.Password) != strings.TrimSpace(req.ConfirmPassword) {
		return nil, ErrPasswordMismatch
	}

	if err := s.probe(ctx, s.store.GetByEmail, req.Email, ErrEmailTaken); err != nil {
		return nil, err
	}
	if err := s.probe(ctx, s.store.GetByFacultyID, req.FacultyID, ErrFacultyIDTaken); err != nil {
		return nil, err
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var imageURL *string
	if img != nil {
		url, err := s.images.SaveUpload(*img)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	faculty := &model.Faculty{
		FacultyID:    req.FacultyID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Designation:  model.Designation(req.Designation),
		Branch:       req.Branch,
		PasswordHash: hash,
		ImageURL:     imageURL,
		Duties:       model.NewDuties(),
		Bookings:     []model.Booking{},
	}

	if err := s.store.Create(ctx, faculty); err != nil {
		s.discardImage(imageURL)
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateFacultyID):
			return nil, ErrFacultyIDTaken
		}
		return nil, fmt.Errorf("create faculty: %w", err)
	}

	s.log.Info().Str("faculty_id", faculty.FacultyID).Msg("Faculty registered")
	return imageURL, nil
}

// Authenticate verifies credentials and issues a session token.
// Unknown IDs and wrong passwords are indistinguishable to the caller.
func (s *FacultyService) Authenticate(ctx context.Context, facultyID, password string) (string, *model.Faculty, error) {
	return s.login(ctx, facultyID, password, false)
}

// VerifyAdminSecret reports ErrInvalidSecretKey unless secretKey matches the
// configured admin secret.
func (s *FacultyService) VerifyAdminSecret(secretKey string) error {
	return s.auth.VerifyAdminSecret(secretKey)
}

// AdminAuthenticate checks the admin secret before any credential lookup,
// then issues an admin-scoped token.
func (s *FacultyService) AdminAuthenticate(ctx context.Context, adminID, password, secretKey string) (string, *model.Faculty, error) {
	if err := s.auth.VerifyAdminSecret(secretKey); err != nil {
		return "", nil, err
	}
	return s.login(ctx, adminID, password, true)
}

func (s *FacultyService) login(ctx context.Context, facultyID, password string, admin bool) (string, *model.Faculty, error) {
	facultyID = strings.TrimSpace(facultyID)
	if facultyID == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	faculty, err := s.store.GetByFacultyID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get faculty: %w", err)
	}

	if err := s.auth.CheckPassword(faculty.PasswordHash, password); err != nil {
		return "", nil, err
	}

	token, err := s.auth.GenerateToken(faculty.FacultyID, admin)
	if err != nil {
		return "", nil, err
	}
	return token, faculty, nil
}

// GetProfile returns the account without credentials.
func (s *FacultyService) GetProfile(ctx context.Context, facultyID string) (*model.Faculty, error) {
	faculty, err := s.store.GetByFacultyID(ctx, strings.TrimSpace(facultyID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("get faculty: %w", err)
	}
	return faculty, nil
}

// UpdateProfile overwrites the editable fields of facultyID's account. When a
// new image is supplied the previous one is deleted first; if that fails the
// update is aborted and the new file discarded.
func (s *FacultyService) UpdateProfile(ctx context.Context, facultyID string, req model.UpdateProfileRequest, img *Upload) (*model.Faculty, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Designation = strings.TrimSpace(req.Designation)
	req.Branch = strings.TrimSpace(req.Branch)

	current, err := s.GetProfile(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	if anyBlank(req.Name, req.Email, req.Phone, req.Designation, req.Branch) {
		return nil, ErrMissingFields
	}
	if !model.Designation(req.Designation).Valid() {
		return nil, ErrInvalidDesignation
	}

	if req.Email != current.Email {
		other, err := s.store.GetByEmail(ctx, req.Email)
		switch {
		case err == nil && other.FacultyID != current.FacultyID:
			return nil, ErrEmailTaken
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("probe email: %w", err)
		}
	}

	updated := *current
	updated.Name = req.Name
	updated.Email = req.Email
	updated.Phone = req.Phone
	updated.Designation = model.Designation(req.Designation)
	updated.Branch = req.Branch

	var newImage *string
	if img != nil {
		url, err := s.images.SaveUpload(*img)
		if err != nil {
			return nil, err
		}
		newImage = &url

		if current.ImageURL != nil && *current.ImageURL != "" {
			if err := s.images.Remove(*current.ImageURL); err != nil {
				s.log.Error().Err(err).Str("faculty_id", current.FacultyID).Msg("Error deleting old image")
				s.discardImage(newImage)
				return nil, err
			}
		}
		updated.ImageURL = newImage
	}

	saved, err := s.store.UpdateProfile(ctx, &updated)
	if err != nil {
		s.discardImage(newImage)
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrFacultyNotFound
		}
		return nil, fmt.Errorf("update faculty: %w", err)
	}
	return saved, nil
}

// ListAccounts returns one page of accounts ordered by faculty ID.
func (s *FacultyService) ListAccounts(ctx context.Context, branch string, page int) ([]model.Faculty, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * FacultyPageSize
	faculties, total, err := s.store.ListPaginated(ctx, strings.TrimSpace(branch), FacultyPageSize, offset)
	if err != nil {
		return nil, nil, err
	}
	if faculties == nil {
		faculties = []model.Faculty{}
	}

	return faculties, response.NewPagination(page, FacultyPageSize, total), nil
}

// Rollup scans every account and summarizes it for the dashboard.
func (s *FacultyService) Rollup(ctx context.Context) (Rollup, error) {
	rows, err := s.store.ListDesignationBranch(ctx)
	if err != nil {
		return Rollup{}, err
	}
	return BuildRollup(rows), nil
}

// probe returns taken when lookup finds a row for key.
func (s *FacultyService) probe(ctx context.Context, lookup func(context.Context, string) (*model.Faculty, error), key string, taken error) error {
	_, err := lookup(ctx, key)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("uniqueness probe: %w", err)
	}
}

func (s *FacultyService) discardImage(url *string) {
	if url == nil {
		return
	}
	if err := s.images.Remove(*url); err != nil {
		s.log.Warn().Err(err).Str("image", *url).Msg("Failed to discard uploaded image")
	}
}

func anyBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
