package application

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by application services. The HTTP layer maps them to
// status codes with errors.Is.
var (
	// ErrInvalidCredentials is the single failure of Login. It never reveals
	// whether the email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated covers missing, malformed, forged and expired tokens, and
	// tokens whose user has since been deleted.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned when an authenticated principal lacks the rights
	// for an operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidOrder is returned for order input that cannot be placed.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrInvalidTransition is returned when an order status change is not allowed
	// from the current status.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
