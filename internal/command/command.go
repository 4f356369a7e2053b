package command

import (
	"strings"

	"duel-tracker/internal/domain"
)

// Handler runs a chat command for the player who issued it. args is the text
// after the command name, already trimmed.
type Handler func(p *domain.Player, args string) error

type Command struct {
	Name    string
	Level   int
	Usage   string // shown by help, e.g. "<name> - challenge a player"
	Handler Handler
}

// ParseUserCmd splits args into the first word and the remainder. ok is false
// when args is empty.
func ParseUserCmd(args string) (first, rest string, ok bool) {
	args = strings.TrimSpace(args)
	if args == "" {
		return "", "", false
	}
	first, rest, _ = strings.Cut(args, " ")
	return first, strings.TrimSpace(rest), true
}

// Split separates a chat line into a command name and its arguments. ok is false
// when the line does not start with prefix.
func Split(line, prefix string) (name, args string, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, prefix) {
		return "", "", false
	}
	line = strings.TrimPrefix(line, prefix)
	name, args, _ = strings.Cut(line, " ")
	if name == "" {
		return "", "", false
	}
	return strings.ToLower(name), strings.TrimSpace(args), true
}
