package handler

import (
	"errors"
	"net/http"

	"github.com/examduty/dutybook-backend/internal/model"
	"github.com/examduty/dutybook-backend/internal/response"
	"github.com/examduty/dutybook-backend/internal/service"
	"github.com/examduty/dutybook-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	facultyService *service.FacultyService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(facultyService *service.FacultyService) *AuthHandler {
	return &AuthHandler{facultyService: facultyService}
}

// Register godoc
// POST /register
// Creates a faculty account from a multipart form with an optional image.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := validator.BindForm(c, &req); err != nil {
		failBinding(c, err, response.ErrValidation)
		return
	}

	img, closeImg, err := formImage(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	defer closeImg()

	imageURL, err := h.facultyService.Register(c.Request.Context(), req, img)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":  "Registration Successful!",
		"imageUrl": imageURL,
	})
}

// Login godoc
// POST /login
// Exchanges faculty ID and password for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := validator.Bind(c, &req); err != nil {
		failBinding(c, err, response.ErrValidation)
		return
	}

	token, faculty, err := h.facultyService.Authenticate(c.Request.Context(), req.FacultyID, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Login Successful!",
		"token":   token,
		"faculty": faculty,
	})
}

// AdminLogin godoc
// POST /admin/login
// Checks the admin secret, then the credentials, and returns an admin-scoped token.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if err := validator.Bind(c, &req); err != nil {
		// The secret is checked first, so a bad or missing secret wins over
		// any other field error.
		if h.facultyService.VerifyAdminSecret(req.SecretKey) != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidSecretKey)
			return
		}
		failBinding(c, err, response.ErrValidation)
		return
	}

	token, faculty, err := h.facultyService.AdminAuthenticate(c.Request.Context(), req.AdminID, req.Password, req.SecretKey)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidAdminCredentials)
			return
		}
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Admin Login Successful!",
		"token":   token,
		"faculty": faculty,
	})
}
