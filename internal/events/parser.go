package events

import (
	"errors"
	"fmt"
	"strings"

	"duel-tracker/internal/domain"
)

var (
	ErrSkip        = errors.New("nothing to parse")
	ErrUnknownKind = errors.New("unknown event kind")
	ErrMalformed   = errors.New("malformed event")
)

// Parse turns one feed line into an event. Blank lines and comments return
// ErrSkip.
func Parse(line string) (domain.Event, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, ErrSkip
	}
	kind, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	fields := strings.Fields(rest)

	switch strings.ToLower(kind) {
	case "connect":
		if len(fields) < 3 {
			return nil, fmt.Errorf("connect needs id, guid and name: %w", ErrMalformed)
		}
		return domain.ConnectEvent{
			PlayerID: fields[0],
			GUID:     fields[1],
			Name:     strings.Join(fields[2:], " "),
		}, nil
	case "userinfo":
		if len(fields) < 2 {
			return nil, fmt.Errorf("userinfo needs id and name: %w", ErrMalformed)
		}
		return domain.UserinfoEvent{
			PlayerID:    fields[0],
			ColoredName: strings.Join(fields[1:], " "),
		}, nil
	case "disconnect":
		if len(fields) != 1 {
			return nil, fmt.Errorf("disconnect needs id: %w", ErrMalformed)
		}
		return domain.DisconnectEvent{PlayerID: fields[0]}, nil
	case "kill":
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("kill needs killer and victim: %w", ErrMalformed)
		}
		ev := domain.KillEvent{KillerID: fields[0], VictimID: fields[1]}
		if len(fields) == 3 {
			ev.Weapon = fields[2]
		}
		return ev, nil
	case "say":
		id, text, _ := strings.Cut(rest, " ")
		if id == "" {
			return nil, fmt.Errorf("say needs id: %w", ErrMalformed)
		}
		return domain.SayEvent{PlayerID: id, Text: strings.TrimSpace(text)}, nil
	case "roundend":
		return domain.RoundEndEvent{}, nil
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
}
