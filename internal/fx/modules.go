package fx

import (
	"database/sql"
	"io"

	"duel-tracker/internal/admin"
	"duel-tracker/internal/api"
	"duel-tracker/internal/config"
	"duel-tracker/internal/database"
	"duel-tracker/internal/duel"
	"duel-tracker/internal/events"
	"duel-tracker/internal/logger"
	"duel-tracker/internal/repository"
	"duel-tracker/internal/server"
	"duel-tracker/internal/session"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvidePlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *repository.PlayerRepository {
	return repository.NewPlayerRepository(sqlDB, logger)
}

func ProvideMessenger(cfg *config.Config, bridge *api.BridgeClient, logger zerolog.Logger) session.Messenger {
	if cfg.BridgeURL != "" {
		return bridge
	}
	return session.NewLogMessenger(logger)
}

func ProvideFeed(cfg *config.Config) (io.ReadCloser, error) {
	return events.OpenFeed(cfg.EventFeed)
}

func ProvideHost(cfg *config.Config, d *server.Dispatcher, feed io.ReadCloser, bridge *api.BridgeClient, logger zerolog.Logger) *server.Host {
	var workers []server.Worker
	if cfg.BridgeURL != "" {
		workers = append(workers, bridge)
	}
	return server.NewHost(d, feed, logger, workers...)
}

func RegisterPlugins(d *server.Dispatcher, duels *duel.Plugin, admins *admin.Plugin) error {
	return d.Register(duels, admins)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(ProvidePlayerRepository),
	fx.Provide(func(r *repository.PlayerRepository) server.PlayerStore { return r }),
	fx.Provide(func(r *repository.PlayerRepository) admin.Store { return r }),
	// chat delivery
	fx.Provide(api.NewBridgeClient),
	fx.Provide(ProvideMessenger),
	// sessions
	fx.Provide(session.NewRegistry),
	fx.Provide(func(s *session.Registry) duel.Directory { return s }),
	fx.Provide(func(m session.Messenger) duel.Messenger { return m }),
	fx.Provide(func(s *session.Registry) admin.Directory { return s }),
	fx.Provide(func(m session.Messenger) admin.Messenger { return m }),
	// duels
	fx.Provide(duel.NewRegistry),
	fx.Provide(duel.NewPlugin),
	// admin
	fx.Provide(admin.NewPlugin),
	// server
	fx.Provide(server.NewDispatcher),
	fx.Provide(ProvideFeed),
	fx.Provide(ProvideHost),
	fx.Invoke(RegisterPlugins),
)
