package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/examduty/dutybook-backend/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ScopeAdmin marks a token issued through the admin login.
const ScopeAdmin = "admin"

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	FacultyID string `json:"facultyId"`
	Scope     string `json:"scope,omitempty"`
}

// IsAdmin reports whether the token was issued by a successful admin login.
func (c *Claims) IsAdmin() bool {
	return c.Scope == ScopeAdmin
}

// AuthService handles password hashing, JWT issuance, and the admin secret.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// VerifyAdminSecret checks the shared admin secret in constant time.
// An unset secret rejects everything.
func (s *AuthService) VerifyAdminSecret(secret string) error {
	expected := s.cfg.AdminSecretKey
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(secret)) != 1 {
		return ErrInvalidSecretKey
	}
	return nil
}

// GenerateToken signs an HS256 token whose only identity claim is facultyId.
// Admin tokens carry ScopeAdmin.
func (s *AuthService) GenerateToken(facultyID string, admin bool) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		FacultyID: facultyID,
	}
	if admin {
		claims.Scope = ScopeAdmin
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.FacultyID == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
