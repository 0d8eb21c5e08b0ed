package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories and services; handlers map these to
// HTTP statuses at the boundary.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateReference = errors.New("reference code already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidTransition  = errors.New("booking status transition not allowed")
	ErrHostNotBookable    = errors.New("host profile is incomplete or unavailable")
	ErrPaymentNotAllowed  = errors.New("booking is not ready for payment")

	// ErrValidation marks user-correctable input errors; wrap it with Invalid.
	ErrValidation = errors.New("validation failed")
)

// Invalid builds a validation error carrying a user-facing message.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
