package domain

import "errors"

// Registration and login.
var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Session verification. Each failure keeps its own identity for logs; the
// HTTP layer collapses all but ErrTokenExpired into a single response.
var (
	ErrMissingCredential   = errors.New("missing authorization header")
	ErrMalformedCredential = errors.New("malformed authorization header")
	ErrInvalidCredential   = errors.New("invalid credential")
	ErrTokenExpired        = errors.New("token expired")
)

// Secondary-factor gate.
var (
	ErrMissingAPIKey = errors.New("api key required")
	ErrInvalidAPIKey = errors.New("invalid api key")
)

// ErrStoreUnavailable is returned when the backing store cannot be reached.
var ErrStoreUnavailable = errors.New("store unavailable")
