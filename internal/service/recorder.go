package service

import (
	"context"

	"rydes/internal/domain"
	"rydes/internal/repository"
)

// RideRecorder shapes and persists ride records.
type RideRecorder struct {
	rideRepo repository.RideRepository
	clock    Clock
}

// NewRideRecorder creates a new RideRecorder. A nil clock means SystemClock.
func NewRideRecorder(rideRepo repository.RideRepository, clock Clock) *RideRecorder {
	if clock == nil {
		clock = SystemClock
	}
	return &RideRecorder{
		rideRepo: rideRepo,
		clock:    clock,
	}
}

// Record stamps the ride with the current UTC time and writes it once.
// A failed write is returned as a *PersistenceError and is not retried.
// Cancellation of ctx does not reach the store.
func (r *RideRecorder) Record(ctx context.Context, rideID, username string, unicorn domain.Unicorn) (*domain.Ride, error) {
	ride := &domain.Ride{
		RideID:      rideID,
		User:        username,
		Unicorn:     unicorn,
		RequestTime: r.clock.Now().UTC(),
	}

	// A caller that goes away must not abort a write already under way.
	if err := r.rideRepo.Put(context.WithoutCancel(ctx), ride); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	return ride, nil
}
