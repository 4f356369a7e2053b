package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"duel-tracker/internal/command"
	"duel-tracker/internal/constants"
	"duel-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// Store is the part of the player store admins manage.
type Store interface {
	SetLevel(ctx context.Context, guid string, level int) error
	Search(ctx context.Context, query string, limit int) ([]domain.KnownPlayer, error)
}

// Directory resolves connected players and updates their session level.
type Directory interface {
	FindPrompt(token string, requester *domain.Player) *domain.Player
	SetLevel(id string, level int) bool
}

type Messenger interface {
	Message(p *domain.Player, text string)
}

// Plugin provides the admin-only commands for permission levels and player
// lookups.
type Plugin struct {
	store   Store
	players Directory
	msg     Messenger
	logger  zerolog.Logger
}

func NewPlugin(store Store, players Directory, msg Messenger, logger zerolog.Logger) *Plugin {
	return &Plugin{
		store:   store,
		players: players,
		msg:     msg,
		logger:  logger.With().Str("plugin", "admin").Logger(),
	}
}

func (p *Plugin) Name() string { return "admin" }

func (p *Plugin) Commands() []command.Command {
	return []command.Command{
		{
			Name:    "setlevel",
			Level:   constants.LevelAdmin,
			Usage:   "<name> <level> - set a player's permission level",
			Handler: p.cmdSetLevel,
		},
		{
			Name:    "lookup",
			Level:   constants.LevelAdmin,
			Usage:   "<name> - search players seen on this server",
			Handler: p.cmdLookup,
		},
	}
}

func (p *Plugin) OnEvent(domain.Event) {}

func (p *Plugin) cmdSetLevel(admin *domain.Player, args string) error {
	name, rest, ok := command.ParseUserCmd(args)
	levelArg := strings.TrimSpace(rest)
	if !ok || levelArg == "" {
		p.msg.Message(admin, fmt.Sprintf("%sInvalid data, try %shelp setlevel", constants.ColorWhite, constants.CommandPrefix))
		return nil
	}
	level, err := strconv.Atoi(levelArg)
	if err != nil || level < 0 || level > constants.LevelAdmin {
		p.msg.Message(admin, fmt.Sprintf("%sInvalid level %s, use 0-%d", constants.ColorWhite, levelArg, constants.LevelAdmin))
		return nil
	}
	if level > admin.Level {
		p.msg.Message(admin, fmt.Sprintf("%sYou cannot grant a level above your own", constants.ColorWhite))
		return nil
	}

	target := p.players.FindPrompt(name, admin)
	if target == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.PlayerStoreTimeout)
	defer cancel()
	if err := p.store.SetLevel(ctx, target.GUID, level); err != nil {
		p.msg.Message(admin, fmt.Sprintf("%sCould not store the level of %s", constants.ColorWhite, target.ExactName()))
		return fmt.Errorf("setlevel %s: %w", target.Name, err)
	}
	p.players.SetLevel(target.ID, level)

	p.msg.Message(admin, fmt.Sprintf("%s is now level %d", target.ExactName(), level))
	p.logger.Info().
		Str("admin", admin.Name).
		Str("player", target.Name).
		Int("level", level).
		Msg("level changed")
	return nil
}

func (p *Plugin) cmdLookup(admin *domain.Player, args string) error {
	name, _, ok := command.ParseUserCmd(args)
	if !ok {
		p.msg.Message(admin, fmt.Sprintf("%sInvalid data, try %shelp lookup", constants.ColorWhite, constants.CommandPrefix))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.PlayerStoreTimeout)
	defer cancel()
	found, err := p.store.Search(ctx, name, constants.MaxPromptMatches)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", name, err)
	}
	if len(found) == 0 {
		p.msg.Message(admin, fmt.Sprintf("No known players matching %s", name))
		return nil
	}

	entries := make([]string, 0, len(found))
	for _, k := range found {
		entries = append(entries, fmt.Sprintf("%s%s [level %d, %d connections]", k.Name, constants.ColorWhite, k.Level, k.Connections))
	}
	p.msg.Message(admin, fmt.Sprintf("Known players matching %s: %s", name, strings.Join(entries, ", ")))
	return nil
}
