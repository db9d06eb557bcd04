package form

import "telegram-car-rental/internal/domain"

// ValidationError is returned when an input does not satisfy the current step.
// Message is the re-prompt shown to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == domain.ErrValidationFailed }

// Reject builds a ValidationError with the given re-prompt message. An empty
// message is replaced by the step's retry text.
func Reject(message string) error { return &ValidationError{Message: message} }
