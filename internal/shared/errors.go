package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotFound           = fmt.Errorf("not found")

	// Mirror store errors
	ErrMirrorUnavailable = fmt.Errorf("mirror store unavailable")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// AuthError is returned when the token provider rejects a client-credentials exchange.
type AuthError struct {
	StatusCode int
	Status     string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("failed to get access token: %d %s", e.StatusCode, e.Status)
}

// Is reports a match against [ErrAuthFailed].
func (e *AuthError) Is(target error) bool {
	return target == ErrAuthFailed
}

// APIError is returned for any non-success response from the catalog API.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
}

func (e *APIError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("spotify API error: %d %s", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("spotify API error: %s: %d %s", e.Endpoint, e.StatusCode, e.Status)
}

// Is reports a match against [ErrAPIRequest].
func (e *APIError) Is(target error) bool {
	return target == ErrAPIRequest
}

// NotFoundError is returned when the mirror store has no row for the requested identifier.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Is reports a match against [ErrNotFound].
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StatusCode extracts the upstream HTTP status carried by an [AuthError] or [APIError].
//
// Returns 0 when err carries no status.
func StatusCode(err error) int {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
