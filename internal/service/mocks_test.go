package service_test

import (
	"context"
	"sync"
	"sync/atomic"

	"rydes/internal/domain"
	"rydes/internal/repository"
	"rydes/internal/service"
)

// mockRideRepository records every ride it is given.
// Set PutError to make every write fail.
type mockRideRepository struct {
	mu    sync.Mutex
	rides []domain.Ride

	PutCallCount int32
	PutError     error
}

var _ repository.RideRepository = (*mockRideRepository)(nil)

func (m *mockRideRepository) Put(_ context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.PutCallCount, 1)
	if m.PutError != nil {
		return m.PutError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides = append(m.rides, *ride)
	return nil
}

func (m *mockRideRepository) Rides() []domain.Ride {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Ride(nil), m.rides...)
}

// mockPublisher is a function-field test double for service.RideEventPublisher.
type mockPublisher struct {
	publish func(ctx context.Context, ride *domain.Ride, requestID string) error
	calls   int32
}

var _ service.RideEventPublisher = (*mockPublisher)(nil)

func (m *mockPublisher) PublishRideDispatched(ctx context.Context, ride *domain.Ride, requestID string) error {
	atomic.AddInt32(&m.calls, 1)
	return m.publish(ctx, ride, requestID)
}

// fixedSelector always returns the same unicorn.
type fixedSelector struct {
	unicorn domain.Unicorn
	pickups []domain.PickupLocation
}

func (f *fixedSelector) Select(_ context.Context, pickup domain.PickupLocation) domain.Unicorn {
	f.pickups = append(f.pickups, pickup)
	return f.unicorn
}
