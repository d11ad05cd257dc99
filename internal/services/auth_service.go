package services

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AuthService checks the single administrator's credentials against a
// bcrypt hash. There is no user table: the account comes from configuration.
type AuthService struct {
	Username     string
	PasswordHash []byte
}

// NewAuthService constructs an AuthService from a username and a bcrypt hash.
func NewAuthService(username, passwordHash string) *AuthService {
	return &AuthService{Username: username, PasswordHash: []byte(passwordHash)}
}

// Login returns the canonical username on success or ErrInvalidCredentials.
// The hash comparison runs even for an unknown username.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	tr := otel.Tracer("services/AuthService")
	_, span := tr.Start(ctx, "Login",
		trace.WithAttributes(attribute.String("auth.username", username)),
	)
	defer span.End()

	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(s.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(password))
	if !userOK || passErr != nil || s.Username == "" {
		return "", ErrInvalidCredentials
	}
	return s.Username, nil
}

// HashPassword returns a bcrypt hash of password at the default cost, for
// provisioning ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
