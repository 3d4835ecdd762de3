package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"rydes/internal/domain"
	"rydes/internal/repository"
)

// RideStore persists rides as JSON strings under "<table>:<rideId>".
type RideStore struct {
	client redis.Cmdable
	table  string
}

// NewRideStore creates a new RideStore writing into the given table namespace.
func NewRideStore(client redis.Cmdable, table string) *RideStore {
	return &RideStore{client: client, table: table}
}

// Put stores the ride with SET and no expiry, overwriting any previous value.
// Store errors are returned unwrapped so callers can surface them verbatim.
func (s *RideStore) Put(ctx context.Context, ride *domain.Ride) error {
	item, err := repository.NewRideItem(ride)
	if err != nil {
		return err
	}

	data, err := item.Marshal()
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.Key(ride.RideID), data, 0).Err()
}

// Key returns the Redis key for a ride id.
func (s *RideStore) Key(rideID string) string {
	return s.table + ":" + rideID
}
