package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/examduty/dutybook-backend/internal/response"
	"github.com/examduty/dutybook-backend/internal/service"
	"github.com/examduty/dutybook-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// errorMapping pairs a service sentinel with its HTTP status and code.
type errorMapping struct {
	err    error
	status int
	code   response.ErrCode
}

var serviceErrors = []errorMapping{
	{service.ErrMissingFields, http.StatusBadRequest, response.ErrValidation},
	{service.ErrInvalidDesignation, http.StatusBadRequest, response.ErrInvalidDesignation},
	{service.ErrInvalidTimeSlot, http.StatusBadRequest, response.ErrInvalidTimeSlot},
	{service.ErrInvalidDutyType, http.StatusBadRequest, response.ErrInvalidDutyType},
	{service.ErrPasswordMismatch, http.StatusBadRequest, response.ErrPasswordMismatch},
	{service.ErrEmailTaken, http.StatusBadRequest, response.ErrEmailTaken},
	{service.ErrFacultyIDTaken, http.StatusBadRequest, response.ErrFacultyIDTaken},
	{service.ErrSlotAlreadyBooked, http.StatusBadRequest, response.ErrSlotAlreadyBooked},
	{service.ErrInvalidCredentials, http.StatusBadRequest, response.ErrInvalidCredentials},
	{service.ErrInvalidSecretKey, http.StatusBadRequest, response.ErrInvalidSecretKey},
	{service.ErrFacultyNotFound, http.StatusNotFound, response.ErrFacultyNotFound},
	{service.ErrUnsupportedFileType, http.StatusBadRequest, response.ErrUnsupportedFile},
	{service.ErrFileTooLarge, http.StatusBadRequest, response.ErrFileTooLarge},
	{service.ErrImageCleanup, http.StatusInternalServerError, response.ErrImageCleanup},
}

// fail maps err to an error response. Unknown errors become a generic 500
// and are attached to the context for the request logger.
func fail(c *gin.Context, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			if m.status >= http.StatusInternalServerError {
				_ = c.Error(err)
			}
			response.Fail(c, m.status, m.code)
			return
		}
	}
	_ = c.Error(err)
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// failBinding reports a request that did not bind or validate. missing is the
// code used when the only problem is absent fields.
func failBinding(c *gin.Context, err error, missing response.ErrCode) {
	fields := validator.TranslateErrors(err)
	switch {
	case validator.HasTagFailure(err, "designation"):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidDesignation, fields)
	case validator.HasTagFailure(err, "timeslot"):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidTimeSlot, fields)
	case validator.OnlyMissing(err):
		response.FailWithFields(c, http.StatusBadRequest, missing, fields)
	default:
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
	}
}

// pageParam reads ?page=, treating anything unparsable or below 1 as 1.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
