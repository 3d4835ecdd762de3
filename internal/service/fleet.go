package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"rydes/internal/domain"
)

// FleetSelector chooses the unicorn that will serve a pickup.
type FleetSelector interface {
	Select(ctx context.Context, pickup domain.PickupLocation) domain.Unicorn
}

// Ensure RandomFleetSelector implements FleetSelector.
var _ FleetSelector = (*RandomFleetSelector)(nil)

// DefaultRoster returns a copy of the compiled-in fleet.
func DefaultRoster() []domain.Unicorn {
	return []domain.Unicorn{
		{Name: "Bucephalus", Color: "Golden", Gender: domain.GenderMale},
		{Name: "Shadowfax", Color: "White", Gender: domain.GenderMale},
		{Name: "Rocinante", Color: "Yellow", Gender: domain.GenderFemale},
	}
}

// RandomFleetSelector picks uniformly from a fixed roster.
// Proximity, availability and earlier assignments are ignored; the pickup
// location is only logged.
type RandomFleetSelector struct {
	roster []domain.Unicorn
	log    *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomFleetSelector creates a selector over a private copy of roster.
// When rng is nil the concurrency-safe global source is used.
func NewRandomFleetSelector(roster []domain.Unicorn, rng *rand.Rand, log *slog.Logger) (*RandomFleetSelector, error) {
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}
	if log == nil {
		log = slog.Default()
	}

	return &RandomFleetSelector{
		roster: append([]domain.Unicorn(nil), roster...),
		log:    log,
		rng:    rng,
	}, nil
}

// Select returns one unicorn from the roster.
func (s *RandomFleetSelector) Select(ctx context.Context, pickup domain.PickupLocation) domain.Unicorn {
	s.log.DebugContext(ctx, "finding unicorn",
		"latitude", pickup.Latitude,
		"longitude", pickup.Longitude,
	)
	return s.roster[s.intN(len(s.roster))]
}

// Roster returns a copy of the selector's roster.
func (s *RandomFleetSelector) Roster() []domain.Unicorn {
	return append([]domain.Unicorn(nil), s.roster...)
}

func (s *RandomFleetSelector) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
