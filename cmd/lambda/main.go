// Command lambda serves ride requests behind API Gateway.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"rydes/internal/app"
	"rydes/internal/config"
	"rydes/internal/handler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connections are opened once per cold start and reused across invocations.
	rydes, err := app.New(ctx, cfg, app.NewNewRelic(cfg.NewRelic, logger), logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	lambda.Start(handler.NewLambdaAdapter(rydes.Handler).Handle)
}
