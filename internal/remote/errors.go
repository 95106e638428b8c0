package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the API token was missing, expired or
	// revoked. The agent surfaces it as "run login again".
	ErrUnauthorized = errors.New("remote rejected credentials")

	// ErrNotFound maps a 404 for callers that treat absence as a
	// regular outcome rather than a failure.
	ErrNotFound = errors.New("remote record not found")
)

// StatusError carries any other non-success HTTP status.
type StatusError struct {
	Status  int
	Message string
}

func (err *StatusError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("remote returned status %d", err.Status)
	}
	return fmt.Sprintf("remote returned status %d: %s", err.Status, err.Message)
}
