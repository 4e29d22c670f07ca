package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent local failures detected before any network call.
var (
	// ErrNoQueryText indicates a submission without explicit or stored text.
	// Nothing is dispatched and no outcome event is emitted.
	ErrNoQueryText = errors.New("no query text to run")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidSetting indicates a configuration value that cannot be used.
	ErrInvalidSetting = errors.New("invalid setting")
)

// APIError is a response from the data service with a status outside the
// caller's success range. Body is kept verbatim.
type APIError struct {
	StatusCode int
	Path       string
	Body       []byte
}

func (e *APIError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("api error %d on %s", e.StatusCode, e.Path)
	}
	return fmt.Sprintf("api error %d on %s: %s", e.StatusCode, e.Path, truncate(string(e.Body), 200))
}

// IsNotFound checks if the error is a 404 from the data service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return errors.Is(err, ErrNotFound)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
