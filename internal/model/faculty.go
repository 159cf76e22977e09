package model

import (
	"strings"
	"time"
)

// Designation is a faculty member's position.
type Designation string

const (
	DesignationAssistantProfessor Designation = "Assistant Professor"
	DesignationAssociateProfessor Designation = "Associate Professor"
	DesignationNonTeachingStaff   Designation = "Non-Teaching Staff"
	// DesignationNonTeachingFaculty is the spelling the registration form sends.
	DesignationNonTeachingFaculty Designation = "Non-Teaching Faculty"
	DesignationHOD                Designation = "HOD"
)

// Valid reports whether d is one of the known designations.
func (d Designation) Valid() bool {
	switch d {
	case DesignationAssistantProfessor, DesignationAssociateProfessor,
		DesignationNonTeachingStaff, DesignationNonTeachingFaculty, DesignationHOD:
		return true
	}
	return false
}

// NonTeaching reports whether d is either non-teaching spelling.
func (d Designation) NonTeaching() bool {
	return d == DesignationNonTeachingStaff || d == DesignationNonTeachingFaculty
}

// Duty counter keys.
const (
	DutyExam    = "exam"
	DutyBundle  = "bundle"
	DutyRelevel = "relevel"
)

// Duties maps a duty kind to the number of duties booked.
type Duties map[string]int

// NewDuties returns the zeroed counters every account starts with.
func NewDuties() Duties {
	return Duties{DutyExam: 0, DutyBundle: 0, DutyRelevel: 0}
}

// DutyCounterKey resolves a caller-supplied duty type to its counter key.
// Matching ignores case; "renewal" is the older name of "relevel".
func DutyCounterKey(dutyType string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(dutyType)) {
	case DutyExam:
		return DutyExam, true
	case DutyBundle:
		return DutyBundle, true
	case DutyRelevel, "renewal":
		return DutyRelevel, true
	}
	return "", false
}

// TimeSlot is the half-day a duty is booked for.
type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "Morning"
	TimeSlotAfternoon TimeSlot = "Afternoon"
)

// ParseTimeSlot normalizes s to its canonical spelling.
func ParseTimeSlot(s string) (TimeSlot, bool) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), string(TimeSlotMorning)):
		return TimeSlotMorning, true
	case strings.EqualFold(strings.TrimSpace(s), string(TimeSlotAfternoon)):
		return TimeSlotAfternoon, true
	}
	return "", false
}

// Booking is one reserved (date, timeSlot) pair. DutyType keeps the caller's casing.
type Booking struct {
	Date     string   `json:"date"`
	TimeSlot TimeSlot `json:"timeSlot"`
	DutyType string   `json:"dutyType"`
	Year     *int     `json:"year,omitempty"`
}

// SameSlot reports whether b occupies the same (date, timeSlot) pair as other.
func (b Booking) SameSlot(other Booking) bool {
	return b.Date == other.Date && b.TimeSlot == other.TimeSlot
}

// Faculty is a faculty account. PasswordHash never leaves the server.
type Faculty struct {
	ID           int64       `json:"-"`
	FacultyID    string      `json:"facultyId"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Designation  Designation `json:"designation"`
	Branch       string      `json:"branch"`
	PasswordHash string      `json:"-"`
	ImageURL     *string     `json:"imageUrl"`
	Duties       Duties      `json:"duties"`
	Bookings     []Booking   `json:"bookings"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// BookingResult is the account state returned after a successful booking.
type BookingResult struct {
	Duties   Duties    `json:"duties"`
	Bookings []Booking `json:"bookings"`
}

// DesignationBranch is the projection the dashboard rollup is computed from.
type DesignationBranch struct {
	Designation Designation
	Branch      string
}

// RegisterRequest is the multipart payload for /register.
type RegisterRequest struct {
	Name            string `form:"name" binding:"required,max=150"`
	FacultyID       string `form:"facultyId" binding:"required,max=64"`
	Email           string `form:"email" binding:"required,email,max=255"`
	Phone           string `form:"phone" binding:"required,max=32"`
	Designation     string `form:"designation" binding:"required,designation"`
	Branch          string `form:"branch" binding:"required,max=64"`
	Password        string `form:"password" binding:"required,max=72"`
	ConfirmPassword string `form:"confirmPassword" binding:"required"`
}

// UpdateProfileRequest is the multipart payload for /update-profile.
type UpdateProfileRequest struct {
	Name        string `form:"name" binding:"required,max=150"`
	Email       string `form:"email" binding:"required,email,max=255"`
	Phone       string `form:"phone" binding:"required,max=32"`
	Designation string `form:"designation" binding:"required,designation"`
	Branch      string `form:"branch" binding:"required,max=64"`
}

// LoginRequest is the payload for /login.
type LoginRequest struct {
	FacultyID string `json:"facultyId" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// AdminLoginRequest is the payload for /admin/login.
type AdminLoginRequest struct {
	AdminID   string `json:"adminId" binding:"required"`
	Password  string `json:"password" binding:"required"`
	SecretKey string `json:"secretKey" binding:"required"`
}

// BookRoomRequest is the payload for /book-room.
type BookRoomRequest struct {
	FacultyID string `json:"facultyId" binding:"required"`
	Date      string `json:"date" binding:"required,max=32"`
	TimeSlot  string `json:"timeSlot" binding:"required,timeslot"`
	DutyType  string `json:"dutyType" binding:"required"`
	Year      *int   `json:"year"`
}
