// Package messaging publishes ride events to RabbitMQ.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"rydes/internal/config"
)

// ErrNotConnected is returned by PublishWithContext while the broker is down.
var ErrNotConnected = errors.New("rabbitmq: not connected")

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// Client owns one connection and one publishing channel to the broker and
// replaces both in the background when either closes.
type Client struct {
	url      string
	exchange string
	log      *slog.Logger

	mu   sync.RWMutex
	conn *amqp.Connection
	ch   *amqp.Channel

	closed    chan struct{}
	closeOnce sync.Once
	reconnect chan struct{}
	done      chan struct{}
}

var _ Publisher = (*Client)(nil)

// NewClient dials the broker, declares the durable topic exchange and starts
// the reconnect watcher. The first dial is a single attempt.
func NewClient(cfg config.BrokerConfig, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}

	c := &Client{
		url:       cfg.URL,
		exchange:  cfg.Exchange,
		log:       log,
		closed:    make(chan struct{}),
		reconnect: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	if err := c.connect(); err != nil {
		return nil, err
	}

	go c.watch()

	return c, nil
}

// PublishWithContext publishes on the current channel.
func (c *Client) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.mu.RLock()
	ch := c.ch
	c.mu.RUnlock()

	if ch == nil || ch.IsClosed() {
		return ErrNotConnected
	}
	return ch.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

// Close stops the watcher and closes the channel and then the connection.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	<-c.done

	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.ch != nil && !c.ch.IsClosed() {
		if err := c.ch.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	c.ch, c.conn = nil, nil

	return errors.Join(errs...)
}

func (c *Client) connect() error {
	conn, err := amqp.DialConfig(c.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(c.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	c.mu.Lock()
	if c.ch != nil && !c.ch.IsClosed() {
		_ = c.ch.Close()
	}
	if c.conn != nil && !c.conn.IsClosed() {
		_ = c.conn.Close()
	}
	c.conn, c.ch = conn, ch
	c.mu.Unlock()

	connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
	chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		var reason *amqp.Error
		select {
		case <-c.closed:
			return
		case reason = <-connClosed:
		case reason = <-chClosed:
		}

		select {
		case <-c.closed:
			return
		default:
		}

		c.log.Warn("rabbitmq connection lost", "error", reason)
		select {
		case c.reconnect <- struct{}{}:
		default:
		}
	}()

	return nil
}

// watch redials with exponential backoff whenever the connection or channel
// closes, until Close is called.
func (c *Client) watch() {
	defer close(c.done)

	for {
		select {
		case <-c.closed:
			return
		case <-c.reconnect:
		}

		backoff := minBackoff
		for {
			err := c.connect()
			if err == nil {
				c.log.Info("rabbitmq reconnected", "exchange", c.exchange)
				break
			}

			c.log.Error("failed to reconnect to rabbitmq", "error", err, "retry_in", backoff.String())
			select {
			case <-c.closed:
				return
			case <-time.After(backoff):
			}
			backoff = nextBackoff(backoff)
		}
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
