package services

import "errors"

// Sentinel errors returned by the service layer. Callers match them with
// errors.Is; anything else coming out of a service is a storage failure.
var (
	// ErrDuplicateUsername is returned when registering a username that
	// already exists. Detection relies on the UNIQUE constraint on
	// users.username, not on a prior existence check.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrUserNotFound is returned when no user row matches the given
	// username or id.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when the password does not match
	// the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAuthenticationFailed is the single failure Login exposes to
	// clients. ErrUserNotFound and ErrInvalidCredentials are collapsed
	// into it so responses cannot be used to enumerate usernames.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrEmptyCredentials is returned when registering with an empty
	// username or password.
	ErrEmptyCredentials = errors.New("username and password must not be empty")
)
