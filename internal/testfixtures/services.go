package testfixtures

import (
	"time"

	"github.com/examduty/dutybook-backend/internal/config"
	"github.com/examduty/dutybook-backend/internal/service"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// AdminSecret is the admin secret configured by TestConfig.
const AdminSecret = "test-admin-secret"

// TestConfig returns a configuration suitable for unit tests.
func TestConfig() *config.Config {
	return &config.Config{
		GinMode:        "test",
		JWTSecret:      "test-jwt-secret",
		JWTExpiry:      time.Hour,
		AdminSecretKey: AdminSecret,
		BcryptCost:     bcrypt.MinCost,
		UploadDir:      "./uploads",
		UploadURLPath:  "/uploads",
		MaxUploadBytes: 1 << 20,
		AuthRateLimit:  1000,
	}
}

// Env bundles the doubles and the services wired on top of them.
type Env struct {
	Config    *config.Config
	State     *State
	Images    *Images
	Publisher *Publisher

	Auth     *service.AuthService
	Faculty  *service.FacultyService
	Catalog  *service.CatalogService
	Bookings *service.BookingService
}

// NewEnv wires every service against fresh in-memory doubles.
func NewEnv() *Env {
	cfg := TestConfig()
	state := NewState()
	images := NewImages()
	pub := &Publisher{}
	log := zerolog.Nop()

	auth := service.NewAuthService(cfg)
	return &Env{
		Config:    cfg,
		State:     state,
		Images:    images,
		Publisher: pub,
		Auth:      auth,
		Faculty:   service.NewFacultyService(state.Faculties(), auth, images, log),
		Catalog:   service.NewCatalogService(state.Dates(), pub, log),
		Bookings:  service.NewBookingService(state.Faculties(), state.Events(), pub, log),
	}
}

// HashPassword hashes password at the minimum bcrypt cost.
func HashPassword(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}
