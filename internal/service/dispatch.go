package service

import (
	"context"
	"log/slog"

	"rydes/internal/domain"
)

// RideEventPublisher announces dispatched rides to downstream consumers.
type RideEventPublisher interface {
	PublishRideDispatched(ctx context.Context, ride *domain.Ride, requestID string) error
}

// DispatchService turns a validated ride request into a recorded ride.
type DispatchService struct {
	ids       *IDGenerator
	fleet     FleetSelector
	recorder  *RideRecorder
	publisher RideEventPublisher
	log       *slog.Logger
}

// NewDispatchService creates a new DispatchService.
// publisher may be nil, in which case no ride events are emitted.
func NewDispatchService(
	ids *IDGenerator,
	fleet FleetSelector,
	recorder *RideRecorder,
	publisher RideEventPublisher,
	log *slog.Logger,
) *DispatchService {
	if log == nil {
		log = slog.Default()
	}
	return &DispatchService{
		ids:       ids,
		fleet:     fleet,
		recorder:  recorder,
		publisher: publisher,
		log:       log,
	}
}

// DispatchRequest contains the parameters for dispatching a ride.
type DispatchRequest struct {
	Auth      domain.AuthContext
	Pickup    domain.PickupLocation
	RequestID string
}

// Dispatch generates a ride id, selects a unicorn and records the ride.
// Every call produces a new ride; identical requests are not deduplicated.
func (s *DispatchService) Dispatch(ctx context.Context, req DispatchRequest) (*domain.Ride, error) {
	if req.Auth.Username == "" {
		return nil, ErrAuthorizationMissing
	}

	rideID, err := s.ids.NewRideID()
	if err != nil {
		return nil, err
	}

	unicorn := s.fleet.Select(ctx, req.Pickup)

	ride, err := s.recorder.Record(ctx, rideID, req.Auth.Username, unicorn)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to record ride",
			"request_id", req.RequestID,
			"ride_id", rideID,
			"error", err,
		)
		return nil, err
	}

	// The ride is already durable; a lost event must not fail the request.
	if s.publisher != nil {
		if err := s.publisher.PublishRideDispatched(ctx, ride, req.RequestID); err != nil {
			s.log.WarnContext(ctx, "failed to publish ride event",
				"request_id", req.RequestID,
				"ride_id", ride.RideID,
				"error", err,
			)
		}
	}

	s.log.InfoContext(ctx, "ride dispatched",
		"request_id", req.RequestID,
		"ride_id", ride.RideID,
		"rider", ride.User,
		"unicorn", ride.Unicorn.Name,
	)

	return ride, nil
}
