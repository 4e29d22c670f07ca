package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the api adapter.
var (
	// ErrInvalidBaseURL indicates the base address is not an absolute URL.
	ErrInvalidBaseURL = errors.New("api: invalid base url")
)

// TransportError is a failure to complete an HTTP exchange: connection
// refused, timeout, cancelled context or an unreadable body.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is or wraps a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
