package main

import (
	"context"
	"database/sql"
	"io"

	"duel-tracker/internal/constants"
	fxmodules "duel-tracker/internal/fx"
	"duel-tracker/internal/server"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.NopLogger,
		fx.StopTimeout(constants.ShutdownTimeout),
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	host *server.Host,
	feed io.ReadCloser,
	db *sql.DB,
	logger zerolog.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				logger.Info().Msg("duel tracker starting")
				if err := host.Run(ctx); err != nil {
					logger.Error().Err(err).Msg("host failed")
				}
				if err := shutdowner.Shutdown(); err != nil {
					logger.Debug().Err(err).Msg("shutdown already requested")
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			logger.Info().Msg("shutting down")
			cancel()
			if err := feed.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing event feed")
			}

			select {
			case <-done:
			case <-stopCtx.Done():
				logger.Warn().Msg("host did not stop before the shutdown deadline")
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
				return err
			}
			logger.Info().Msg("duel tracker stopped gracefully")
			return nil
		},
	})
}
