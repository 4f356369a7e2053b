package duel

import (
	"slices"
	"strings"
	"testing"

	"duel-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type sent struct {
	to   string
	text string
}

type fakeMessenger struct {
	sent []sent
}

func (f *fakeMessenger) Message(p *domain.Player, text string) {
	f.sent = append(f.sent, sent{to: p.ID, text: text})
}

func (f *fakeMessenger) to(id string) []string {
	var out []string
	for _, s := range f.sent {
		if s.to == id {
			out = append(out, s.text)
		}
	}
	return out
}

func (f *fakeMessenger) last(id string) string {
	msgs := f.to(id)
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

func (f *fakeMessenger) reset() { f.sent = nil }

type fakeDirectory struct {
	players []*domain.Player
	prompts int
}

func (f *fakeDirectory) FindPrompt(token string, _ *domain.Player) *domain.Player {
	for _, p := range f.players {
		if p.Connected && strings.EqualFold(p.Name, token) {
			return p
		}
	}
	f.prompts++
	return nil
}

func (f *fakeDirectory) Connected() []*domain.Player {
	var out []*domain.Player
	for _, p := range f.players {
		if p.Connected {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeDirectory) disconnect(p *domain.Player) {
	p.Connected = false
	f.players = slices.DeleteFunc(f.players, func(o *domain.Player) bool { return o == p })
}

func newPlayer(id, name string) *domain.Player {
	return &domain.Player{ID: id, Name: name, Connected: true, Level: 1}
}

type fixture struct {
	dir *fakeDirectory
	msg *fakeMessenger
	reg *Registry
	a   *domain.Player
	b   *domain.Player
	c   *domain.Player
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	a, b, c := newPlayer("1", "joe"), newPlayer("2", "simon"), newPlayer("3", "moderator")
	dir := &fakeDirectory{players: []*domain.Player{a, b, c}}
	msg := &fakeMessenger{}
	return &fixture{
		dir: dir,
		msg: msg,
		reg: NewRegistry(dir, msg, zerolog.Nop()),
		a:   a,
		b:   b,
		c:   c,
	}
}

// started sets up an accepted duel between x and y and clears the message log.
func (f *fixture) started(t *testing.T, x, y *domain.Player) *Duel {
	t.Helper()
	if err := f.reg.ChallengeOrAccept(x, y.Name); err != nil {
		t.Fatalf("challenge: %v", err)
	}
	if err := f.reg.ChallengeOrAccept(y, x.Name); err != nil {
		t.Fatalf("accept: %v", err)
	}
	d, ok := f.reg.lookup(x.ID, y.ID)
	if !ok {
		t.Fatalf("duel between %s and %s not registered", x.Name, y.Name)
	}
	f.msg.reset()
	return d
}
