package service_test

import (
	"testing"
	"time"

	"github.com/examduty/dutybook-backend/internal/service"
	"github.com/examduty/dutybook-backend/internal/testfixtures"
)

func TestValidateToken(t *testing.T) {
	cfg := testfixtures.TestConfig()
	auth := service.NewAuthService(cfg)

	token, err := auth.GenerateToken("F1", false)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.FacultyID != "F1" || claims.IsAdmin() {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.ID != "" || claims.Subject != "" {
		t.Errorf("facultyId must be the only identity claim, got jti=%q sub=%q", claims.ID, claims.Subject)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("expected one hour lifetime, got %v", got)
	}

	other := testfixtures.TestConfig()
	other.JWTSecret = "different"
	if _, err := service.NewAuthService(other).ValidateToken(token); err == nil {
		t.Error("token signed with another secret must be rejected")
	}

	if _, err := auth.ValidateToken("not-a-token"); err == nil {
		t.Error("garbage must be rejected")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := testfixtures.TestConfig()
	cfg.JWTExpiry = -time.Minute
	auth := service.NewAuthService(cfg)

	token, err := auth.GenerateToken("F1", true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.ValidateToken(token); err == nil {
		t.Error("expired token must be rejected")
	}
}

func TestCheckPassword(t *testing.T) {
	auth := service.NewAuthService(testfixtures.TestConfig())

	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatal(err)
	}
	if err := auth.CheckPassword(hash, "secret"); err != nil {
		t.Errorf("matching password rejected: %v", err)
	}
	if err := auth.CheckPassword(hash, "Secret"); err != service.ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
