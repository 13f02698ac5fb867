package omdb

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound is returned when the API reports no matching movie.
var ErrNotFound = errors.New("movie not found")

// APIError carries a failure message reported by the API itself, such as
// "Too many results." or "Invalid API key!".
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "omdb: " + e.Message
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("omdb: unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

func apiError(msg string) error {
	if strings.Contains(strings.ToLower(msg), "not found") {
		return ErrNotFound
	}
	if msg == "" {
		msg = "unknown error"
	}
	return &APIError{Message: msg}
}
