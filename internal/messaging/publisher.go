package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"rydes/internal/domain"
	"rydes/internal/service"
)

// RideDispatchedKey is the routing key for dispatched rides.
const RideDispatchedKey = "ride.dispatched"

// Publisher is the subset of *amqp.Channel used for publishing. The amqp091
// channel ignores the context, so a call may block while the socket is stalled.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

var _ Publisher = (*amqp.Channel)(nil)

// RideDispatched is the event body published after a ride is recorded.
type RideDispatched struct {
	RideID      string         `json:"RideId"`
	Rider       string         `json:"Rider"`
	Unicorn     domain.Unicorn `json:"Unicorn"`
	RequestTime string         `json:"RequestTime"`
}

// RidePublisher implements service.RideEventPublisher over AMQP. It publishes
// synchronously; wrap it in a PublishQueue to keep it off the request path.
type RidePublisher struct {
	ch       Publisher
	exchange string
}

var _ service.RideEventPublisher = (*RidePublisher)(nil)

// NewRidePublisher creates a publisher writing to exchange.
func NewRidePublisher(ch Publisher, exchange string) *RidePublisher {
	return &RidePublisher{ch: ch, exchange: exchange}
}

// PublishRideDispatched publishes a persistent JSON message keyed by the ride
// id and correlated with the request id.
func (p *RidePublisher) PublishRideDispatched(ctx context.Context, ride *domain.Ride, requestID string) error {
	body, err := json.Marshal(RideDispatched{
		RideID:      ride.RideID,
		Rider:       ride.User,
		Unicorn:     ride.Unicorn,
		RequestTime: ride.FormattedRequestTime(),
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	return p.ch.PublishWithContext(ctx, p.exchange, RideDispatchedKey, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     ride.RideID,
		CorrelationId: requestID,
		Timestamp:     ride.RequestTime,
		Body:          body,
	})
}
