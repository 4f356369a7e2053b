package session

import (
	"duel-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// LogMessenger writes chat lines to the log instead of the game server. It is
// used when no chat bridge is configured.
type LogMessenger struct {
	logger zerolog.Logger
}

func NewLogMessenger(logger zerolog.Logger) *LogMessenger {
	return &LogMessenger{logger: logger.With().Str("component", "chat").Logger()}
}

func (m *LogMessenger) Message(p *domain.Player, text string) {
	m.logger.Info().
		Str("player_id", p.ID).
		Str("player", p.Name).
		Bool("connected", p.Connected).
		Str("text", text).
		Msg("tell")
}
