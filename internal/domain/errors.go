package domain

import "errors"

var (
	// ErrNotFound is returned when an identity does not exist, or when an
	// order item is addressed through an order that is not its parent.
	ErrNotFound = errors.New("not found")

	// ErrReference is returned when a foreign key does not resolve to an
	// existing row at write time.
	ErrReference = errors.New("unresolved reference")

	// ErrConstraint is an invariant violation such as a non-positive
	// quantity. It matches ErrReference as well.
	ErrConstraint error = &kindError{msg: "constraint violated", parent: ErrReference}

	// ErrHasDependents is returned by a restricted delete when other rows
	// still reference the entity. It matches ErrReference as well.
	ErrHasDependents error = &kindError{msg: "entity has dependent rows", parent: ErrReference}

	// ErrValidation is returned for malformed or missing required fields.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence marks backend failures: connection loss, commit failure,
	// cancellation of a pending transaction.
	ErrPersistence = errors.New("persistence failure")
)

type kindError struct {
	msg    string
	parent error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.parent }

type persistenceError struct {
	err error
}

func (e *persistenceError) Error() string { return e.err.Error() }

func (e *persistenceError) Unwrap() error { return e.err }

func (e *persistenceError) Is(target error) bool { return target == ErrPersistence }

// Persistence tags err as ErrPersistence while keeping its chain intact.
// Errors that already carry a domain meaning are returned unchanged.
func Persistence(err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return &persistenceError{err: err}
}

// IsDomainError reports whether err already belongs to the error taxonomy.
func IsDomainError(err error) bool {
	for _, target := range []error{ErrNotFound, ErrReference, ErrValidation, ErrPersistence} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
