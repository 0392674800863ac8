package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the upstream service has no record for the requested key.
	ErrNotFound = errors.New("record not found")

	// ErrMalformedResponse is returned when an upstream body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is returned when an upstream service answers with an unexpected status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err means the record does not exist upstream.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
