package domain

import (
	"time"

	"duel-tracker/internal/constants"
)

// Player is a client connected to the game server. The session registry owns
// every Player; other packages only hold pointers to it.
type Player struct {
	ID          string // server slot, unique while connected
	GUID        string
	Name        string // clean name, used for lookups
	ColoredName string // may contain color markers
	Connected   bool
	Level       int
	JoinedAt    time.Time
}

// ExactName returns the display name followed by a color reset.
func (p *Player) ExactName() string {
	name := p.ColoredName
	if name == "" {
		name = p.Name
	}
	return name + constants.ColorWhite
}

// KnownPlayer is the persisted record of a player seen on the server.
type KnownPlayer struct {
	GUID        string
	Name        string
	Level       int
	Connections int
	FirstSeenAt time.Time
	LastSeenAt  time.Time
}
