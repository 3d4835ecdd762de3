package repository

import (
	"context"

	"rydes/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Put writes the ride as a single item keyed by its RideID, replacing
	// any existing item with the same key.
	Put(ctx context.Context, ride *domain.Ride) error
}
