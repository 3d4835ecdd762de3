package handler_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"rydes/internal/domain"
	"rydes/internal/handler"
	"rydes/internal/repository"
	"rydes/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	identityClaim = "cognito:username"
	validBody     = `{"PickupLocation":{"Latitude":47.6174755835663,"Longitude":-122.28837066650185}}`
)

// spyRideRepository counts writes and optionally fails them.
type spyRideRepository struct {
	mu    sync.Mutex
	rides []domain.Ride

	PutCallCount int32
	PutError     error
}

var _ repository.RideRepository = (*spyRideRepository)(nil)

func (s *spyRideRepository) Put(_ context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&s.PutCallCount, 1)
	if s.PutError != nil {
		return s.PutError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rides = append(s.rides, *ride)
	return nil
}

func (s *spyRideRepository) Rides() []domain.Ride {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Ride(nil), s.rides...)
}

// mockDispatcher is a function-field test double for handler.RideDispatcher.
type mockDispatcher struct {
	dispatch func(ctx context.Context, req service.DispatchRequest) (*domain.Ride, error)
}

func (m *mockDispatcher) Dispatch(ctx context.Context, req service.DispatchRequest) (*domain.Ride, error) {
	return m.dispatch(ctx, req)
}

var _ handler.RideDispatcher = (*mockDispatcher)(nil)

// newHandler wires a DispatchHandler around the real dispatch service and repo.
func newHandler(t *testing.T, repo repository.RideRepository, distinctAuthStatus bool) *handler.DispatchHandler {
	t.Helper()
	fleet, err := service.NewRandomFleetSelector(service.DefaultRoster(), nil, nil)
	require.NoError(t, err)

	svc := service.NewDispatchService(
		service.NewIDGenerator(nil),
		fleet,
		service.NewRideRecorder(repo, nil),
		nil,
		nil,
	)
	return handler.NewDispatchHandler(
		handler.NewRequestValidator(identityClaim),
		svc,
		handler.NewResponseBuilder(distinctAuthStatus),
		nil,
	)
}

func authorizedEvent(requestID, body string) handler.Event {
	return handler.Event{
		Path:       "/ride",
		HTTPMethod: "POST",
		Body:       body,
		RequestContext: handler.RequestContext{
			RequestID: requestID,
			Authorizer: &handler.Authorizer{
				Claims: map[string]any{identityClaim: "the_username"},
			},
		},
	}
}

func decodeRide(t *testing.T, body string) handler.RideResponse {
	t.Helper()
	var r handler.RideResponse
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	return r
}

func decodeError(t *testing.T, body string) handler.ErrorResponse {
	t.Helper()
	var e handler.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &e))
	return e
}
