package repository

import "errors"

var (
	// ErrInvalidRide is returned when a ride cannot be stored because it has
	// no key.
	ErrInvalidRide = errors.New("ride has no id")
)
