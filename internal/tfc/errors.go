package tfc

import (
	"errors"
	"fmt"
	"net/http"

	tfe "github.com/hashicorp/go-tfe"
)

// RemoteError wraps a failed API interaction with the operation that issued
// it and the HTTP status, when the transport exposed one.
type RemoteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Err, e.Status)
	}

	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// WrapRemote converts an upstream client error into a RemoteError, mapping
// the go-tfe sentinels back to the statuses they stand for.
func WrapRemote(op string, err error) error {
	if err == nil {
		return nil
	}

	return &RemoteError{Op: op, Status: statusFor(err), Err: err}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tfe.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, tfe.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return 0
	}
}
