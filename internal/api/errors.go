package api

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a show slug does not resolve to an asset
var ErrNotFound = errors.New("not found")

// TransportError covers network failures, non-2xx responses and bodies that
// do not decode into the expected schema.
type TransportError struct {
	URL    string
	Status int // HTTP status when the server answered, 0 otherwise
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request %s failed (HTTP %d): %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("request %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
