package duel

import (
	"fmt"
	"strings"

	"duel-tracker/internal/constants"
	"duel-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Messenger delivers a chat line to a single player.
type Messenger interface {
	Message(p *domain.Player, text string)
}

// Status is the stage of a duel. A duel only moves from WaitingAgreement to
// Started.
type Status int

const (
	WaitingAgreement Status = iota
	Started
)

func (s Status) String() string {
	switch s {
	case WaitingAgreement:
		return "waiting_agreement"
	case Started:
		return "started"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Duel is a challenge between two players. Both players' registry entries
// point at the same *Duel.
type Duel struct {
	ID string

	msg     Messenger
	clientA *domain.Player // challenger
	clientB *domain.Player
	status  Status
	scores  map[string]int
}

// New creates a duel proposed by a to b and tells b how to accept it.
func New(msg Messenger, a, b *domain.Player) (*Duel, error) {
	if a == nil || !a.Connected {
		return nil, fmt.Errorf("challenger is not a connected player: %w", ErrInvalidParticipant)
	}
	if b == nil || !b.Connected {
		return nil, fmt.Errorf("opponent is not a connected player: %w", ErrInvalidParticipant)
	}
	if a == b || a.ID == b.ID {
		return nil, fmt.Errorf("challenger and opponent are the same player: %w", ErrInvalidParticipant)
	}

	id, err := gonanoid.New(10)
	if err != nil {
		return nil, fmt.Errorf("failed to generate duel id: %w", err)
	}

	d := &Duel{
		ID:      id,
		msg:     msg,
		clientA: a,
		clientB: b,
		status:  WaitingAgreement,
		scores:  map[string]int{a.ID: 0, b.ID: 0},
	}
	msg.Message(b, fmt.Sprintf("%s proposes a duel. To accept type %sduel %s",
		a.ExactName(), constants.CommandPrefix, strings.ToLower(a.Name)))
	return d, nil
}

// Challenger is the player who proposed the duel.
func (d *Duel) Challenger() *domain.Player { return d.clientA }

// Opponent is the player the duel was proposed to.
func (d *Duel) Opponent() *domain.Player { return d.clientB }

// Status reports whether the duel has been accepted.
func (d *Duel) Status() Status { return d.status }

// Score returns the kill count of the given participant.
func (d *Duel) Score(playerID string) int {
	return d.scores[playerID]
}

// Involves reports whether playerID is one of the two participants.
func (d *Duel) Involves(playerID string) bool {
	return d.clientA.ID == playerID || d.clientB.ID == playerID
}

// Other returns the participant that is not playerID.
func (d *Duel) Other(playerID string) *domain.Player {
	if d.clientA.ID == playerID {
		return d.clientB
	}
	return d.clientA
}

// Accept starts the duel. Calling it on a started duel does nothing.
func (d *Duel) Accept() {
	if d.status == Started {
		return
	}
	d.status = Started
	d.msg.Message(d.clientA, fmt.Sprintf("%s is now duelling with you", d.clientB.ExactName()))
	d.msg.Message(d.clientB, fmt.Sprintf("%sYou accepted %s's duel", constants.ColorWhite, d.clientA.ExactName()))
	d.ResetScores()
}

// ResetScores zeroes both scores and announces them.
func (d *Duel) ResetScores() {
	d.scores[d.clientA.ID] = 0
	d.scores[d.clientB.ID] = 0
	d.AnnounceScoreTo(d.clientA)
	d.AnnounceScoreTo(d.clientB)
}

// RegisterKill scores a kill if it happened between the two participants.
func (d *Duel) RegisterKill(killerID, victimID string) {
	if d.status == WaitingAgreement {
		return
	}
	a, b := d.clientA.ID, d.clientB.ID
	if !(killerID == a && victimID == b) && !(killerID == b && victimID == a) {
		return
	}
	d.scores[killerID]++
	d.AnnounceScoreTo(d.clientA)
	d.AnnounceScoreTo(d.clientB)
}

// AnnounceScoreTo tells p the current score from p's point of view. Nothing is
// sent until the duel is accepted.
func (d *Duel) AnnounceScoreTo(p *domain.Player) {
	if d.status == WaitingAgreement || p == nil || !d.Involves(p.ID) {
		return
	}
	opponent := d.Other(p.ID)
	playerScore := d.scores[p.ID]
	opponentScore := d.scores[opponent.ID]
	colorPlayer, colorOpponent := scoreColors(playerScore, opponentScore)

	d.msg.Message(p, fmt.Sprintf("%sDuel: %s%s %s%d%s:%s%d %s%s",
		constants.ColorCyan, constants.ColorWhite, p.ExactName(),
		colorPlayer, playerScore, constants.ColorCyan, colorOpponent, opponentScore,
		constants.ColorWhite, opponent.ExactName()))
}

// scoreColors marks the leader in green and the trailer in red. A tie is
// neutral on both sides.
func scoreColors(player, opponent int) (string, string) {
	switch {
	case player > opponent:
		return constants.ColorWinning, constants.ColorLosing
	case player < opponent:
		return constants.ColorLosing, constants.ColorWinning
	default:
		return constants.ColorNeutral, constants.ColorNeutral
	}
}
