package session

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"duel-tracker/internal/constants"
	"duel-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// Messenger delivers a chat line to a single player.
type Messenger interface {
	Message(p *domain.Player, text string)
}

// Registry manages connected players.
type Registry struct {
	sync.RWMutex
	players map[string]*domain.Player

	msg    Messenger
	logger zerolog.Logger
}

// NewRegistry creates an empty player registry.
func NewRegistry(msg Messenger, logger zerolog.Logger) *Registry {
	return &Registry{
		players: make(map[string]*domain.Player),
		msg:     msg,
		logger:  logger,
	}
}

// Connect adds a player to the registry. A player already holding the slot is
// replaced and marked disconnected.
func (r *Registry) Connect(id, guid, name string, level int) *domain.Player {
	r.Lock()
	defer r.Unlock()
	if old, ok := r.players[id]; ok {
		old.Connected = false
		r.logger.Debug().Str("player_id", id).Str("name", old.Name).Msg("replacing player in slot")
	}
	p := &domain.Player{
		ID:        id,
		GUID:      guid,
		Name:      name,
		Connected: true,
		Level:     level,
		JoinedAt:  time.Now(),
	}
	r.players[id] = p
	return p
}

// Disconnect removes a player from the registry and returns it.
func (r *Registry) Disconnect(id string) (*domain.Player, bool) {
	r.Lock()
	defer r.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, false
	}
	p.Connected = false
	delete(r.players, id)
	return p, true
}

// Rename updates the display name sent with userinfo.
func (r *Registry) Rename(id, coloredName string) bool {
	r.Lock()
	defer r.Unlock()
	p, ok := r.players[id]
	if !ok {
		return false
	}
	p.ColoredName = coloredName
	return true
}

// SetLevel changes the permission level of the player in slot id.
func (r *Registry) SetLevel(id string, level int) bool {
	r.Lock()
	defer r.Unlock()
	p, ok := r.players[id]
	if !ok {
		return false
	}
	p.Level = level
	return true
}

// Get returns the connected player in slot id.
func (r *Registry) Get(id string) (*domain.Player, bool) {
	r.RLock()
	defer r.RUnlock()
	p, ok := r.players[id]
	return p, ok
}

// Connected returns every connected player ordered by slot.
func (r *Registry) Connected() []*domain.Player {
	r.RLock()
	defer r.RUnlock()
	out := make([]*domain.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *domain.Player) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Count returns the number of connected players.
func (r *Registry) Count() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.players)
}

// Find returns every connected player matching token: "@<slot>" selects a slot,
// an exact clean name wins over partial matches.
func (r *Registry) Find(token string) []*domain.Player {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if slot, ok := strings.CutPrefix(token, constants.SlotPrefix); ok {
		if p, ok := r.Get(slot); ok {
			return []*domain.Player{p}
		}
		return nil
	}

	needle := strings.ToLower(token)
	var partial []*domain.Player
	for _, p := range r.Connected() {
		name := strings.ToLower(p.Name)
		if name == needle {
			return []*domain.Player{p}
		}
		if strings.Contains(name, needle) {
			partial = append(partial, p)
		}
	}
	return partial
}

// FindPrompt resolves token to exactly one player. Otherwise it tells requester
// what went wrong and returns nil.
func (r *Registry) FindPrompt(token string, requester *domain.Player) *domain.Player {
	matches := r.Find(token)
	switch len(matches) {
	case 1:
		return matches[0]
	case 0:
		r.msg.Message(requester, fmt.Sprintf("No players found matching %s", token))
	default:
		names := make([]string, 0, constants.MaxPromptMatches)
		for _, p := range matches {
			if len(names) == constants.MaxPromptMatches {
				names = append(names, "...")
				break
			}
			names = append(names, fmt.Sprintf("%s [%s%s]", p.ExactName(), constants.SlotPrefix, p.ID))
		}
		r.msg.Message(requester, fmt.Sprintf("Players matching %s: %s", token, strings.Join(names, ", ")))
	}
	return nil
}
