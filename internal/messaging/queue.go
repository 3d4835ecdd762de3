package messaging

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"rydes/internal/domain"
	"rydes/internal/service"
)

var (
	// ErrQueueFull is returned when an event is dropped because the queue is full.
	ErrQueueFull = errors.New("ride event queue is full")

	// ErrQueueClosed is returned for events offered after Close.
	ErrQueueClosed = errors.New("ride event queue is closed")
)

type publishJob struct {
	ctx       context.Context
	ride      domain.Ride
	requestID string
}

// PublishQueue hands ride events to a single background worker so a slow or
// stalled broker never holds up a dispatch. Offering an event never blocks:
// when the buffer is full the event is dropped and ErrQueueFull returned.
type PublishQueue struct {
	next service.RideEventPublisher
	log  *slog.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan publishJob
	done   chan struct{}
}

var _ service.RideEventPublisher = (*PublishQueue)(nil)

// NewPublishQueue starts a worker publishing through next with room for size
// pending events.
func NewPublishQueue(next service.RideEventPublisher, size int, log *slog.Logger) *PublishQueue {
	if size < 1 {
		size = 1
	}
	if log == nil {
		log = slog.Default()
	}

	q := &PublishQueue{
		next: next,
		log:  log,
		jobs: make(chan publishJob, size),
		done: make(chan struct{}),
	}
	go q.run()

	return q
}

// PublishRideDispatched queues the event. The ride is copied and ctx is
// detached from cancellation, so both may be released once this returns.
func (q *PublishQueue) PublishRideDispatched(ctx context.Context, ride *domain.Ride, requestID string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- publishJob{ctx: context.WithoutCancel(ctx), ride: *ride, requestID: requestID}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until the queued ones are published
// or ctx is done.
func (q *PublishQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *PublishQueue) run() {
	defer close(q.done)

	for job := range q.jobs {
		if err := q.next.PublishRideDispatched(job.ctx, &job.ride, job.requestID); err != nil {
			q.log.WarnContext(job.ctx, "failed to publish ride event",
				"request_id", job.requestID,
				"ride_id", job.ride.RideID,
				"error", err,
			)
		}
	}
}
