package auth

import "errors"

var (
	// ErrInvalidCredentials indicates a bad username/password combination.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken indicates the username or email is already registered.
	ErrUsernameTaken = errors.New("username or email already registered")
	// ErrInvalidToken indicates a missing, malformed, or expired bearer token.
	ErrInvalidToken = errors.New("invalid token")
)
