package handler

import (
	"net/http"

	"github.com/examduty/dutybook-backend/internal/middleware"
	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/examduty/dutybook-backend/internal/response"
	"github.com/examduty/dutybook-backend/internal/service"
	"github.com/examduty/dutybook-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// FacultyHandler serves faculty-facing profile and booking endpoints.
type FacultyHandler struct {
	facultyService *service.FacultyService
	bookingService *service.BookingService
}

// NewFacultyHandler creates a new FacultyHandler.
func NewFacultyHandler(facultyService *service.FacultyService, bookingService *service.BookingService) *FacultyHandler {
	return &FacultyHandler{
		facultyService: facultyService,
		bookingService: bookingService,
	}
}

// GetProfile godoc
// GET /faculty-profile/:facultyId
func (h *FacultyHandler) GetProfile(c *gin.Context) {
	faculty, err := h.facultyService.GetProfile(c.Request.Context(), c.Param("facultyId"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, faculty)
}

// UpdateProfile godoc
// PUT /update-profile
// Updates the token holder's profile from a multipart form with an optional new image.
func (h *FacultyHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	// Bind errors are held back: a vanished account reports 404 before any field problem.
	var req model.UpdateProfileRequest
	bindErr := validator.BindForm(c, &req)
	if bindErr != nil {
		if _, err := h.facultyService.GetProfile(c.Request.Context(), claims.FacultyID); err != nil {
			fail(c, err)
			return
		}
		failBinding(c, bindErr, response.ErrValidation)
		return
	}

	img, closeImg, err := formImage(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	defer closeImg()

	faculty, err := h.facultyService.UpdateProfile(c.Request.Context(), claims.FacultyID, req, img)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Profile updated successfully!",
		"faculty": faculty,
	})
}

// BookRoom godoc
// POST /book-room
// Reserves a (date, timeSlot) duty for the given faculty ID.
func (h *FacultyHandler) BookRoom(c *gin.Context) {
	var req model.BookRoomRequest
	if err := validator.Bind(c, &req); err != nil {
		failBinding(c, err, response.ErrValidation)
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":  "Booking successful!",
		"duties":   result.Duties,
		"bookings": result.Bookings,
	})
}
