package duel

import (
	"errors"
	"fmt"

	"duel-tracker/internal/command"
	"duel-tracker/internal/constants"
	"duel-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// Plugin exposes the registry to the host as chat commands and event handlers.
type Plugin struct {
	registry *Registry
	msg      Messenger
	logger   zerolog.Logger
}

func NewPlugin(registry *Registry, msg Messenger, logger zerolog.Logger) *Plugin {
	return &Plugin{
		registry: registry,
		msg:      msg,
		logger:   logger.With().Str("plugin", "duel").Logger(),
	}
}

func (p *Plugin) Name() string { return "duel" }

func (p *Plugin) Commands() []command.Command {
	return []command.Command{
		{
			Name:    "duel",
			Level:   constants.LevelUser,
			Usage:   "<name> - challenge a player for a duel or accept a duel",
			Handler: p.cmdDuel,
		},
		{
			Name:    "duelreset",
			Level:   constants.LevelUser,
			Usage:   "[<name>] - reset scores for a duel you started",
			Handler: p.cmdDuelReset,
		},
		{
			Name:    "duelcancel",
			Level:   constants.LevelUser,
			Usage:   "[<name>] - cancel a duel you started",
			Handler: p.cmdDuelCancel,
		},
	}
}

// OnEvent handles the feed events duels care about. It never fails.
func (p *Plugin) OnEvent(ev domain.Event) {
	switch e := ev.(type) {
	case domain.KillEvent:
		p.registry.OnKill(e.KillerID, e.VictimID)
	case domain.DisconnectEvent:
		p.logger.Debug().Str("player_id", e.PlayerID).Msg("client disconnecting")
		p.registry.OnDisconnect(e.PlayerID)
	case domain.RoundEndEvent:
		p.registry.OnRoundEnd()
	}
}

func (p *Plugin) cmdDuel(player *domain.Player, args string) error {
	name, _, ok := command.ParseUserCmd(args)
	if !ok {
		p.msg.Message(player, fmt.Sprintf("%sInvalid data, try %shelp duel", constants.ColorWhite, constants.CommandPrefix))
		return nil
	}
	return p.report(player, "duel", p.registry.ChallengeOrAccept(player, name))
}

func (p *Plugin) cmdDuelReset(player *domain.Player, args string) error {
	name, _, _ := command.ParseUserCmd(args)
	return p.report(player, "duelreset", p.registry.ResetDuel(player, name))
}

func (p *Plugin) cmdDuelCancel(player *domain.Player, args string) error {
	name, _, _ := command.ParseUserCmd(args)
	return p.report(player, "duelcancel", p.registry.CancelDuel(player, name))
}

// report logs user-facing outcomes. Those were already told to the player, so
// only unexpected errors reach the dispatcher.
func (p *Plugin) report(player *domain.Player, cmd string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrOpponentNotFound),
		errors.Is(err, ErrSelfChallenge),
		errors.Is(err, ErrAmbiguousSelection),
		errors.Is(err, ErrNoSuchDuel):
		p.logger.Debug().Err(err).Str("command", cmd).Str("player", player.Name).Msg("command rejected")
		return nil
	}
	return fmt.Errorf("%s: %w", cmd, err)
}
