package repository

import (
	"encoding/json"

	"rydes/internal/domain"
)

// RideItem is the stored shape of a ride. Both stores persist the same
// attribute names so records are interchangeable between backends.
type RideItem struct {
	RideID      string         `json:"RideId"`
	User        string         `json:"User"`
	Unicorn     domain.Unicorn `json:"Unicorn"`
	RequestTime string         `json:"RequestTime"`
}

// NewRideItem converts a ride into its stored shape.
func NewRideItem(ride *domain.Ride) (RideItem, error) {
	if ride == nil || ride.RideID == "" {
		return RideItem{}, ErrInvalidRide
	}
	return RideItem{
		RideID:      ride.RideID,
		User:        ride.User,
		Unicorn:     ride.Unicorn,
		RequestTime: ride.FormattedRequestTime(),
	}, nil
}

// Marshal encodes the item as JSON.
func (i RideItem) Marshal() ([]byte, error) {
	return json.Marshal(i)
}
