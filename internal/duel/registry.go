package duel

import (
	"fmt"
	"maps"
	"slices"

	"duel-tracker/internal/constants"
	"duel-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// Directory resolves players for the registry.
type Directory interface {
	// FindPrompt resolves token to a single connected player. When it returns
	// nil it has already told requester why.
	FindPrompt(token string, requester *domain.Player) *domain.Player
	Connected() []*domain.Player
}

// Registry tracks every player's running duels, keyed by player ID and then by
// opponent ID. It is not safe for concurrent use; the host delivers one event
// or command at a time.
type Registry struct {
	players Directory
	msg     Messenger
	logger  zerolog.Logger
	entries map[string]map[string]*Duel
}

func NewRegistry(players Directory, msg Messenger, logger zerolog.Logger) *Registry {
	return &Registry{
		players: players,
		msg:     msg,
		logger:  logger,
		entries: make(map[string]map[string]*Duel),
	}
}

func (r *Registry) entry(playerID string) map[string]*Duel {
	e, ok := r.entries[playerID]
	if !ok {
		e = make(map[string]*Duel)
		r.entries[playerID] = e
	}
	return e
}

// lookup reads an entry without creating it.
func (r *Registry) lookup(playerID, opponentID string) (*Duel, bool) {
	d, ok := r.entries[playerID][opponentID]
	return d, ok
}

func (r *Registry) drop(playerID, opponentID string) bool {
	e, ok := r.entries[playerID]
	if !ok {
		return false
	}
	if _, ok := e[opponentID]; !ok {
		return false
	}
	delete(e, opponentID)
	if len(e) == 0 {
		delete(r.entries, playerID)
	}
	return true
}

// Duels returns the duels registered for playerID ordered by opponent ID.
func (r *Registry) Duels(playerID string) []*Duel {
	e := r.entries[playerID]
	out := make([]*Duel, 0, len(e))
	for _, opponentID := range slices.Sorted(maps.Keys(e)) {
		out = append(out, e[opponentID])
	}
	return out
}

// Count returns the number of distinct live duels.
func (r *Registry) Count() int {
	seen := make(map[*Duel]struct{})
	for _, e := range r.entries {
		for _, d := range e {
			seen[d] = struct{}{}
		}
	}
	return len(seen)
}

// ChallengeOrAccept proposes a duel to the player matching opponentToken, or
// accepts the duel that player already proposed to challenger.
func (r *Registry) ChallengeOrAccept(challenger *domain.Player, opponentToken string) error {
	opponent := r.players.FindPrompt(opponentToken, challenger)
	if opponent == nil {
		return ErrOpponentNotFound
	}
	if opponent.ID == challenger.ID {
		r.msg.Message(challenger, "you cannot duel yourself")
		return ErrSelfChallenge
	}

	_, proposedByOpponent := r.lookup(opponent.ID, challenger.ID)
	_, proposedByChallenger := r.lookup(challenger.ID, opponent.ID)

	switch {
	case !proposedByOpponent && !proposedByChallenger:
		d, err := New(r.msg, challenger, opponent)
		if err != nil {
			return fmt.Errorf("failed to create duel: %w", err)
		}
		r.entry(challenger.ID)[opponent.ID] = d
		r.msg.Message(challenger, fmt.Sprintf("duel proposed to %s", opponent.ExactName()))
		r.logger.Info().
			Str("duel_id", d.ID).
			Str("challenger", challenger.Name).
			Str("opponent", opponent.Name).
			Msg("duel proposed")

	case proposedByOpponent:
		d, _ := r.lookup(opponent.ID, challenger.ID)
		if proposedByChallenger {
			r.msg.Message(challenger, fmt.Sprintf("%syou are already duelling with %s", constants.ColorWhite, opponent.ExactName()))
			return nil
		}
		d.Accept()
		r.entry(challenger.ID)[opponent.ID] = d
		r.logger.Info().
			Str("duel_id", d.ID).
			Str("challenger", opponent.Name).
			Str("opponent", challenger.Name).
			Msg("duel accepted")

	default:
		r.msg.Message(challenger, fmt.Sprintf("%syou suggested a duel to %s", constants.ColorWhite, opponent.ExactName()))
		r.msg.Message(opponent, fmt.Sprintf("%s is challenging you in a duel. Type %sduel %s to start duelling",
			challenger.ExactName(), constants.CommandPrefix, challenger.Name))
	}
	return nil
}

// selectDuel picks the duel a reset or cancel applies to. verb names the
// action in replies and command is the name suggested for disambiguation.
func (r *Registry) selectDuel(requester *domain.Player, opponentToken, verb, command string) (*Duel, error) {
	e := r.entries[requester.ID]
	if len(e) == 0 {
		r.msg.Message(requester, fmt.Sprintf("you started no duel. Nothing to %s", verb))
		return nil, ErrNoSuchDuel
	}

	if opponentToken == "" {
		if len(e) > 1 {
			r.msg.Message(requester, fmt.Sprintf("%syou have %d duels running, type %s%s <name>",
				constants.ColorWhite, len(e), constants.CommandPrefix, command))
			return nil, fmt.Errorf("%d duels running: %w", len(e), ErrAmbiguousSelection)
		}
		for _, d := range e {
			return d, nil
		}
	}

	opponent := r.players.FindPrompt(opponentToken, requester)
	if opponent == nil {
		return nil, ErrOpponentNotFound
	}
	d, ok := e[opponent.ID]
	if !ok {
		r.msg.Message(requester, fmt.Sprintf("%sYou have no duel with %s, cannot %s",
			constants.ColorWhite, opponent.ExactName(), verb))
		return nil, fmt.Errorf("no duel with %s: %w", opponent.Name, ErrNoSuchDuel)
	}
	return d, nil
}

// ResetDuel zeroes the scores of one of requester's duels.
func (r *Registry) ResetDuel(requester *domain.Player, opponentToken string) error {
	d, err := r.selectDuel(requester, opponentToken, "reset", "duelreset")
	if err != nil {
		return err
	}
	d.ResetScores()
	r.logger.Debug().Str("duel_id", d.ID).Str("requester", requester.Name).Msg("duel scores reset")
	return nil
}

// CancelDuel announces the final score of one of requester's duels and removes
// it from both players.
func (r *Registry) CancelDuel(requester *domain.Player, opponentToken string) error {
	d, err := r.selectDuel(requester, opponentToken, "cancel", "duelcancel")
	if err != nil {
		return err
	}
	r.end(d, true)
	return nil
}

// end announces the final score to both participants and removes the duel from
// both entries. Removing an already removed duel is a no-op.
func (r *Registry) end(d *Duel, confirm bool) {
	a, b := d.Challenger(), d.Opponent()
	d.AnnounceScoreTo(a)
	d.AnnounceScoreTo(b)

	droppedA := r.drop(a.ID, b.ID)
	droppedB := r.drop(b.ID, a.ID)
	if confirm {
		if droppedA {
			r.msg.Message(a, fmt.Sprintf("%sduel with %s canceled", constants.ColorWhite, b.ExactName()))
		}
		if droppedB {
			r.msg.Message(b, fmt.Sprintf("%sduel with %s canceled", constants.ColorWhite, a.ExactName()))
		}
	}

	r.logger.Info().
		Str("duel_id", d.ID).
		Str("status", d.Status().String()).
		Int("score_a", d.Score(a.ID)).
		Int("score_b", d.Score(b.ID)).
		Bool("canceled", confirm).
		Msg("duel ended")
}

// OnKill scores the kill against every duel the killer takes part in.
func (r *Registry) OnKill(killerID, victimID string) {
	for _, d := range r.Duels(killerID) {
		d.RegisterKill(killerID, victimID)
	}
}

// OnRoundEnd reminds every connected duelling player of their scores.
func (r *Registry) OnRoundEnd() {
	for _, p := range r.players.Connected() {
		duels := r.Duels(p.ID)
		started := false
		for _, d := range duels {
			d.AnnounceScoreTo(p)
			if d.Status() == Started {
				started = true
			}
		}
		if started {
			r.msg.Message(p, fmt.Sprintf("%stype %sduelreset to set scores back to 0", constants.ColorWhite, constants.CommandPrefix))
		}
	}
}

// OnDisconnect ends every duel involving playerID, including proposals made to
// it that only live on the proposer's side.
func (r *Registry) OnDisconnect(playerID string) {
	var ending []*Duel
	ending = append(ending, r.Duels(playerID)...)
	for _, ownerID := range slices.Sorted(maps.Keys(r.entries)) {
		if ownerID == playerID {
			continue
		}
		if d, ok := r.entries[ownerID][playerID]; ok && !slices.Contains(ending, d) {
			ending = append(ending, d)
		}
	}
	for _, d := range ending {
		r.end(d, false)
	}
	delete(r.entries, playerID)
}
