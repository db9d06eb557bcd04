package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid exec context")

	// Conversation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrNoActiveForm     = errors.New("no active form")
	ErrNotRegistered    = errors.New("user is not registered")

	// ErrRepository marks failures of the underlying data store.
	ErrRepository = errors.New("repository error")
)

// RepositoryError tags err as a data-store failure while keeping it unwrappable.
func RepositoryError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &repoError{op: op, err: err}
}

type repoError struct {
	op  string
	err error
}

func (e *repoError) Error() string { return e.op + ": " + e.err.Error() }

func (e *repoError) Unwrap() []error { return []error{ErrRepository, e.err} }
