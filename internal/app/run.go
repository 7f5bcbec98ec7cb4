// Package app hosts the shared process lifecycle for vidora binaries.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

type Runner func(ctx context.Context, logger zerolog.Logger) error

// Run executes the service body until it returns or the process receives
// SIGINT/SIGTERM, and reports the exit code for main.
func Run(serviceName string, run Runner) int {
	logger := zerolog.New(os.Stderr).With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	logger.Info().Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, logger) }()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		// Grace period for in-flight work before the process exits.
		time.Sleep(200 * time.Millisecond)
		return 0
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("failed")
			return 1
		}
		logger.Info().Msg("stopped")
		return 0
	}
}
