package server

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"duel-tracker/internal/command"
	"duel-tracker/internal/config"
	"duel-tracker/internal/constants"
	"duel-tracker/internal/domain"
	"duel-tracker/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Plugin reacts to feed events and contributes chat commands.
type Plugin interface {
	Name() string
	Commands() []command.Command
	OnEvent(ev domain.Event)
}

// PlayerStore persists known players and their permission levels.
type PlayerStore interface {
	RecordConnection(ctx context.Context, guid, name string, defaultLevel int) (*domain.KnownPlayer, error)
	TouchLastSeen(ctx context.Context, guid string, at time.Time) error
}

// Dispatcher delivers feed events to the session registry and plugins, one at
// a time, from the goroutine running Run.
type Dispatcher struct {
	sessions     *session.Registry
	store        PlayerStore
	msg          session.Messenger
	plugins      []Plugin
	commands     map[string]command.Command
	defaultLevel int
	events       chan domain.Event
	logger       zerolog.Logger
}

func NewDispatcher(cfg *config.Config, sessions *session.Registry, store PlayerStore, msg session.Messenger, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		sessions:     sessions,
		store:        store,
		msg:          msg,
		commands:     make(map[string]command.Command),
		defaultLevel: cfg.DefaultLevel,
		events:       make(chan domain.Event, cfg.EventBuffer),
		logger:       logger,
	}
}

// Register adds plugins and their commands. Command names must be unique.
func (d *Dispatcher) Register(plugins ...Plugin) error {
	for _, p := range plugins {
		for _, c := range p.Commands() {
			name := strings.ToLower(c.Name)
			if name == "help" {
				return fmt.Errorf("plugin %s: command name %q is reserved", p.Name(), name)
			}
			if _, ok := d.commands[name]; ok {
				return fmt.Errorf("plugin %s: command %q already registered", p.Name(), name)
			}
			c.Name = name
			d.commands[name] = c
		}
		d.plugins = append(d.plugins, p)
		d.logger.Info().Str("plugin", p.Name()).Int("commands", len(p.Commands())).Msg("plugin registered")
	}
	return nil
}

// Events is the inbox feeding Run.
func (d *Dispatcher) Events() chan<- domain.Event {
	return d.events
}

// Run handles events until ctx is done or the inbox is closed.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-d.events:
			if !ok {
				return nil
			}
			d.Handle(ctx, ev)
		}
	}
}

// Handle processes a single event.
func (d *Dispatcher) Handle(ctx context.Context, ev domain.Event) {
	logger := d.logger.With().
		Str("event_id", uuid.New().String()).
		Str("event", ev.Kind()).
		Logger()

	switch e := ev.(type) {
	case domain.ConnectEvent:
		if old, ok := d.sessions.Get(e.PlayerID); ok {
			// A reused slot is a disconnect of its previous holder.
			logger.Warn().Str("player_id", old.ID).Str("name", old.Name).Msg("slot reused without disconnect")
			leave := domain.DisconnectEvent{PlayerID: e.PlayerID}
			d.notify(leave)
			d.handleDisconnect(ctx, logger, leave)
		}
		d.handleConnect(ctx, logger, e)
		d.notify(ev)
	case domain.UserinfoEvent:
		if !d.sessions.Rename(e.PlayerID, e.ColoredName) {
			logger.Debug().Str("player_id", e.PlayerID).Msg("userinfo for unknown player")
		}
		d.notify(ev)
	case domain.DisconnectEvent:
		d.notify(ev)
		d.handleDisconnect(ctx, logger, e)
	case domain.SayEvent:
		d.handleSay(logger, e)
		d.notify(ev)
	default:
		d.notify(ev)
	}
}

func (d *Dispatcher) notify(ev domain.Event) {
	for _, p := range d.plugins {
		p.OnEvent(ev)
	}
}

func (d *Dispatcher) handleConnect(ctx context.Context, logger zerolog.Logger, e domain.ConnectEvent) {
	level := d.defaultLevel
	ctx, cancel := context.WithTimeout(ctx, constants.PlayerStoreTimeout)
	defer cancel()

	known, err := d.store.RecordConnection(ctx, e.GUID, e.Name, d.defaultLevel)
	if err != nil {
		logger.Warn().Err(err).Str("guid", e.GUID).Msg("failed to record connection, using default level")
	} else {
		level = known.Level
	}

	p := d.sessions.Connect(e.PlayerID, e.GUID, e.Name, level)
	logger.Info().
		Str("player_id", p.ID).
		Str("name", p.Name).
		Int("level", p.Level).
		Int("online", d.sessions.Count()).
		Msg("player connected")
}

func (d *Dispatcher) handleDisconnect(ctx context.Context, logger zerolog.Logger, e domain.DisconnectEvent) {
	p, ok := d.sessions.Disconnect(e.PlayerID)
	if !ok {
		logger.Debug().Str("player_id", e.PlayerID).Msg("disconnect for unknown player")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, constants.PlayerStoreTimeout)
	defer cancel()
	if err := d.store.TouchLastSeen(ctx, p.GUID, time.Now()); err != nil {
		logger.Warn().Err(err).Str("guid", p.GUID).Msg("failed to update last seen")
	}
	logger.Info().Str("player_id", p.ID).Str("name", p.Name).Msg("player disconnected")
}

func (d *Dispatcher) handleSay(logger zerolog.Logger, e domain.SayEvent) {
	name, args, ok := command.Split(e.Text, constants.CommandPrefix)
	if !ok {
		return
	}
	p, ok := d.sessions.Get(e.PlayerID)
	if !ok {
		logger.Debug().Str("player_id", e.PlayerID).Str("command", name).Msg("command from unknown player")
		return
	}
	logger = logger.With().Str("command", name).Str("player", p.Name).Logger()

	if name == "help" {
		d.help(p, args)
		return
	}

	c, ok := d.commands[name]
	if !ok {
		d.msg.Message(p, fmt.Sprintf("Unrecognized command %s", name))
		return
	}
	if p.Level < c.Level {
		d.msg.Message(p, fmt.Sprintf("You do not have sufficient access to use %s%s", constants.CommandPrefix, name))
		logger.Debug().Int("level", p.Level).Int("required", c.Level).Msg("command denied")
		return
	}

	if err := c.Handler(p, args); err != nil {
		logger.Error().Err(err).Msg("command failed")
		return
	}
	logger.Debug().Msg("command handled")
}

func (d *Dispatcher) help(p *domain.Player, args string) {
	if name, _, ok := command.ParseUserCmd(args); ok {
		name = strings.ToLower(strings.TrimPrefix(name, constants.CommandPrefix))
		c, ok := d.commands[name]
		if !ok || p.Level < c.Level {
			d.msg.Message(p, fmt.Sprintf("Command not found %s", name))
			return
		}
		d.msg.Message(p, fmt.Sprintf("%s%s %s", constants.CommandPrefix, c.Name, c.Usage))
		return
	}

	var names []string
	for name, c := range d.commands {
		if p.Level >= c.Level {
			names = append(names, constants.CommandPrefix+name)
		}
	}
	if len(names) == 0 {
		d.msg.Message(p, "You have no available commands")
		return
	}
	slices.Sort(names)
	d.msg.Message(p, fmt.Sprintf("Available commands: %s", strings.Join(names, ", ")))
}
