package domain

import "time"

// RequestTimeLayout is the ISO-8601 UTC layout used for stored request times.
const RequestTimeLayout = "2006-01-02T15:04:05.000Z"

// Ride is the durable record of a single dispatch, keyed by RideID.
// Rides are written once and never updated.
type Ride struct {
	RideID      string
	User        string
	Unicorn     Unicorn
	RequestTime time.Time
}

// FormattedRequestTime returns RequestTime in UTC using RequestTimeLayout.
func (r *Ride) FormattedRequestTime() string {
	return r.RequestTime.UTC().Format(RequestTimeLayout)
}

// PickupLocation is where the rider asked to be collected.
// Coordinates are not range-checked.
type PickupLocation struct {
	Latitude  float64
	Longitude float64
}

// AuthContext identifies the caller. It comes from claims attached by an
// upstream identity layer and is never verified here.
type AuthContext struct {
	Username string
}
