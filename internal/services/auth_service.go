package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/edvass/notevault/internal/auth"
	"github.com/edvass/notevault/internal/models"
	"github.com/rs/zerolog/log"
)

// AuthServiceProvider defines the interface for account orchestration.
type AuthServiceProvider interface {
	Signup(username, password string) (models.User, error)
	Login(username, password string) (models.User, string, error)
}

// AuthService orchestrates signup and login over the credential store.
type AuthService struct {
	users        UserServiceProvider
	eventService EventServiceProvider
	tokenTTL     time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserServiceProvider, eventService EventServiceProvider, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, eventService: eventService, tokenTTL: tokenTTL}
}

// Signup registers a new account. It does not log the user in; the client
// authenticates separately. ErrDuplicateUsername and ErrEmptyCredentials
// pass through for the handler to surface.
func (s *AuthService) Signup(username, password string) (models.User, error) {
	user, err := s.users.Register(username, password)
	if err != nil {
		return models.User{}, err
	}

	s.recordEvent("auth.signup", fmt.Sprintf("User '%s' registered.", user.Username), user.ID)
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown-username
// and wrong-password failures are logged distinctly for diagnostics but
// both come back as ErrAuthenticationFailed, so the response cannot be
// used to probe which usernames exist.
func (s *AuthService) Login(username, password string) (models.User, string, error) {
	user, err := s.users.Verify(username, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			log.Warn().Str("username", username).Msg("Login attempt for unknown username")
		case errors.Is(err, ErrInvalidCredentials):
			log.Warn().Str("username", username).Msg("Login attempt with wrong password")
		default:
			return models.User{}, "", err
		}
		return models.User{}, "", ErrAuthenticationFailed
	}

	token, err := auth.GenerateJWT(user, s.tokenTTL)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.recordEvent("auth.login", fmt.Sprintf("User '%s' logged in.", user.Username), user.ID)
	return user, token, nil
}

func (s *AuthService) recordEvent(eventType, message string, userID int64) {
	if s.eventService == nil {
		return
	}
	if err := s.eventService.CreateEvent(eventType, "info", message, &userID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record auth event")
	}
}
