package service

import "errors"

// Validation errors.
var (
	ErrMissingFields      = errors.New("required field missing")
	ErrInvalidDesignation = errors.New("invalid designation")
	ErrInvalidTimeSlot    = errors.New("invalid time slot")
	ErrInvalidDutyType    = errors.New("invalid duty type")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// Conflict errors.
var (
	ErrEmailTaken        = errors.New("email already registered")
	ErrFacultyIDTaken    = errors.New("faculty ID already registered")
	ErrSlotAlreadyBooked = errors.New("slot already booked")
)

// Auth and lookup errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSecretKey   = errors.New("invalid admin secret key")
	ErrFacultyNotFound    = errors.New("faculty not found")
)
