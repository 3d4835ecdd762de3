package service

import "errors"

var (
	// ErrAuthorizationMissing is returned when the request carries no
	// authorizer claims, or none naming the caller.
	ErrAuthorizationMissing = errors.New("Authorization not configured")

	// ErrMalformedRequestBody is returned when the body is empty, is not JSON,
	// or lacks a complete pickup location.
	ErrMalformedRequestBody = errors.New("malformed request body")

	// ErrPersistenceFailure matches any *PersistenceError via errors.Is.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrEmptyRoster is returned when a fleet selector is built with no unicorns.
	ErrEmptyRoster = errors.New("unicorn roster is empty")
)

// PersistenceError reports that the ride write did not complete.
// Its message is the store's error message, unchanged.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPersistenceFailure.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistenceFailure
}
