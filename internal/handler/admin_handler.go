package handler

import (
	"errors"
	"net/http"

	"github.com/examduty/dutybook-backend/internal/middleware"
	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/examduty/dutybook-backend/internal/response"
	"github.com/examduty/dutybook-backend/internal/service"
	"github.com/examduty/dutybook-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AdminHandler shapes dashboard, listing, and catalog data for the admin UI.
type AdminHandler struct {
	facultyService *service.FacultyService
	catalogService *service.CatalogService
	bookingService *service.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	facultyService *service.FacultyService,
	catalogService *service.CatalogService,
	bookingService *service.BookingService,
) *AdminHandler {
	return &AdminHandler{
		facultyService: facultyService,
		catalogService: catalogService,
		bookingService: bookingService,
	}
}

// Dashboard godoc
// GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	rollup, err := h.facultyService.Rollup(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, rollup)
}

// FacultyList godoc
// GET /admin/faculty-list?branch=&page=
func (h *AdminHandler) FacultyList(c *gin.Context) {
	faculties, pagination, err := h.facultyService.ListAccounts(c.Request.Context(), c.Query("branch"), pageParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"faculties":  faculties,
		"pagination": pagination,
	})
}

// Profile godoc
// GET /admin/profile
func (h *AdminHandler) Profile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	faculty, err := h.facultyService.GetProfile(c.Request.Context(), claims.FacultyID)
	if err != nil {
		if errors.Is(err, service.ErrFacultyNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrAdminNotFound)
			return
		}
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, faculty)
}

// AddDate godoc
// POST /admin/add-date
func (h *AdminHandler) AddDate(c *gin.Context) {
	var req model.AddDateRequest
	if err := validator.Bind(c, &req); err != nil {
		failBinding(c, err, response.ErrMissingRequired)
		return
	}

	if _, err := h.catalogService.AddDate(c.Request.Context(), req.Date, req.Year); err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			response.Fail(c, http.StatusBadRequest, response.ErrMissingRequired)
			return
		}
		fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Date added successfully!")
}

// ResetDates godoc
// POST /admin/reset-dates
// Clears the catalog and every booking list; duty counters are kept.
func (h *AdminHandler) ResetDates(c *gin.Context) {
	if err := h.catalogService.ResetAll(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Dates reset successfully!")
}

// AvailableDates godoc
// GET /admin/available-dates
func (h *AdminHandler) AvailableDates(c *gin.Context) {
	dates, err := h.catalogService.ListDates(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, dates)
}

// DateHistory godoc
// GET /admin/date-history
// Returns the bookings of the token holder.
func (h *AdminHandler) DateHistory(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	bookings, err := h.bookingService.History(c.Request.Context(), claims.FacultyID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

// BookingLog godoc
// GET /admin/booking-log?page=
func (h *AdminHandler) BookingLog(c *gin.Context) {
	events, pagination, err := h.bookingService.ListEvents(c.Request.Context(), pageParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"events":     events,
		"pagination": pagination,
	})
}
