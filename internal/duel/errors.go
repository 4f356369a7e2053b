package duel

import "errors"

var (
	ErrInvalidParticipant = errors.New("invalid duel participant")
	ErrSelfChallenge      = errors.New("cannot duel yourself")
	ErrAmbiguousSelection = errors.New("several duels running, opponent required")
	ErrNoSuchDuel         = errors.New("no such duel")
	// ErrOpponentNotFound is returned when name lookup fails. The Directory has
	// already told the requester, so callers should stay quiet.
	ErrOpponentNotFound = errors.New("opponent not found")
)
