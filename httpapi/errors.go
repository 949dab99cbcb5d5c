package httpapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks 401/403-class responses. The caching layer treats it
// as a signal to clear the whole cache before propagating the failure, so a
// dead session can never keep serving another session's data.
var ErrUnauthorized = errors.New("unauthorized")

// Error describes a non-2xx response from the finance API.
type Error struct {
	StatusCode int
	Method     string
	Path       string
	RequestID  string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("finance api: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// HTTPStatus returns the response status code; it makes *Error usable with
// the retry package's status predicate.
func (e *Error) HTTPStatus() int { return e.StatusCode }

// Unwrap exposes [ErrUnauthorized] for 401 and 403 responses so callers can
// test with errors.Is.
func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// IsAuthError reports whether err is an authentication or authorization
// failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
