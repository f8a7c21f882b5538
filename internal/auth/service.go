// Package auth implements email/password registration and cookie sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/cityportal/backend/internal/user"
)

// SessionTTL is the lifetime of both the JWT and the session cookie.
const SessionTTL = 7 * 24 * time.Hour

// ErrInvalidCredentials is returned when the email or password is wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// users is the part of the user service that auth depends on.
type users interface {
	Create(ctx context.Context, email, passwordHash string, name *string) (*user.User, error)
	GetCredentials(ctx context.Context, email string) (*user.User, string, error)
}

// Service contains the business logic for authentication.
type Service struct {
	users     users
	jwtSecret []byte
	log       zerolog.Logger
}

// NewService creates a new auth Service.
func NewService(users users, jwtSecret string, log zerolog.Logger) *Service {
	return &Service{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		log:       log.With().Str("component", "auth").Logger(),
	}
}

// Register creates a new account. It returns user.ErrAlreadyExists when the
// email is taken.
func (s *Service) Register(ctx context.Context, email, password string, name *string) (*user.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, normalizeEmail(email), hash, name)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", u.ID).Msg("user registered")
	return u, nil
}

// Login checks credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	u, hash, err := s.users.GetCredentials(ctx, normalizeEmail(email))
	if errors.Is(err, user.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("get credentials: %w", err)
	}

	ok, err := VerifyPassword(password, hash)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", u.ID).Msg("stored password hash unreadable")
		return "", nil, ErrInvalidCredentials
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(u, time.Now())
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

// issueToken creates a signed JWT for the given user.
func (s *Service) issueToken(u *user.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(SessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
