package remote

import (
	"errors"
	"fmt"
)

// ErrUnauthorized marks authentication failures. The session layer never
// retries these and never touches the cache for them; they propagate to the
// auth collaborator.
var ErrUnauthorized = errors.New("unauthorized")

// AuthError is an authentication failure reported by the data service. It
// matches ErrUnauthorized under errors.Is.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication error"
	}
	return "authentication error: " + e.Message
}

func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// FetchError is a generic data-service failure: network trouble, a server
// error status, or a malformed response. Callers treat it as display-only;
// there is no automatic retry.
type FetchError struct {
	Action string // logical operation, e.g. "getExpenses"
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Action, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
