// Package app wires configuration, stores and handlers into a runnable
// ride-dispatch service. Both the HTTP server and the Lambda entry point
// build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"rydes/internal/config"
	"rydes/internal/handler"
	"rydes/internal/messaging"
	internalRedis "rydes/internal/redis"
	"rydes/internal/repository"
	"rydes/internal/repository/postgres"
	"rydes/internal/service"
)

// NewLogger returns a JSON slog logger at the given level. Unknown levels
// fall back to info.
func NewLogger(level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// NewNewRelic starts the New Relic agent when enabled. It returns nil when
// monitoring is off or the agent cannot start; the service runs either way.
func NewNewRelic(cfg config.NewRelicConfig, log *slog.Logger) *newrelic.Application {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return nil
	}

	nrApp, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
	if err != nil {
		log.Error("failed to initialize New Relic", "error", err)
		return nil
	}

	log.Info("New Relic enabled", "app", cfg.AppName)
	return nrApp
}

// App holds the wired dispatch handler and the connections behind it.
type App struct {
	Handler *handler.DispatchHandler

	closers []func() error
}

// New connects the configured ride store and optional broker and wires the
// dispatch pipeline.
func New(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application, log *slog.Logger) (*App, error) {
	a := &App{}

	rideRepo, err := a.openRideStore(ctx, cfg, nrApp, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	var publisher service.RideEventPublisher
	if cfg.Broker.Enabled() {
		mq, err := messaging.NewClient(cfg.Broker, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		a.closers = append(a.closers, mq.Close)

		queue := messaging.NewPublishQueue(
			messaging.NewRidePublisher(mq, cfg.Broker.Exchange),
			cfg.Broker.QueueSize,
			log,
		)
		a.closers = append(a.closers, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return queue.Close(ctx)
		})
		publisher = queue
		log.Info("publishing ride events", "exchange", cfg.Broker.Exchange, "queue_size", cfg.Broker.QueueSize)
	}

	fleet, err := service.NewRandomFleetSelector(service.DefaultRoster(), nil, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	dispatchService := service.NewDispatchService(
		service.NewIDGenerator(nil),
		fleet,
		service.NewRideRecorder(rideRepo, service.SystemClock),
		publisher,
		log,
	)

	a.Handler = handler.NewDispatchHandler(
		handler.NewRequestValidator(cfg.Dispatch.IdentityClaim),
		dispatchService,
		handler.NewResponseBuilder(cfg.Dispatch.DistinctAuthStatus),
		log,
	)

	return a, nil
}

func (a *App) openRideStore(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application, log *slog.Logger) (repository.RideRepository, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		db, err := NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		if cfg.Database.Migrate {
			if err := Migrate(ctx, db, log); err != nil {
				return nil, err
			}
		}

		log.Info("using postgres ride store", "table", cfg.Dispatch.Table)
		return postgres.NewRideRepository(db, cfg.Dispatch.Table), nil

	case config.StoreRedis:
		client, err := NewRedisClient(ctx, cfg.Redis, cfg.Dispatch.Table, nrApp)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)

		log.Info("using redis ride store", "table", cfg.Dispatch.Table)
		return internalRedis.NewRideStore(client, cfg.Dispatch.Table), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// Close releases connections in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
