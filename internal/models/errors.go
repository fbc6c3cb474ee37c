package models

import "errors"

// Common errors used throughout the application
var (
	ErrTicketNotInCatalog     = errors.New("ticket not in catalog")
	ErrDiscountAlreadyApplied = errors.New("discount already applied")
	ErrDiscountNotApplied     = errors.New("no discount applied")
	ErrCartEmpty              = errors.New("no tickets selected")
	ErrCheckoutNotReady       = errors.New("checkout requirements not met")
)

// ValidationError reports malformed or missing buyer input (discount grant
// fields, attendee fields). It is recoverable: the caller re-prompts without
// mutating any state.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with the given message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err is a (possibly wrapped) ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
