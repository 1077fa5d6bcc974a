// Package apperr defines the request-scoped error taxonomy shared by the
// service and transport layers. All of these are caller-input errors:
// they are surfaced as-is and never retried. Anything else that bubbles
// out of a service is treated as an internal failure.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced gathering, receipt or user is absent.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is not a member of the relevant gathering.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyMember means the user already joined the gathering.
	ErrAlreadyMember = errors.New("already a participant")

	// ErrUnauthorized means the request carries no valid identity.
	ErrUnauthorized = errors.New("authentication required")
)

// InvalidItemError reports the first item id that does not belong to the
// target receipt. The whole operation that produced it was aborted.
type InvalidItemError struct {
	ItemID string
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("item %s not in this receipt", e.ItemID)
}

// ValidationError carries a caller-facing message for malformed input
// (bad nickname, weak password, duplicate email, negative price, ...).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
