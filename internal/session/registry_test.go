package session

import (
	"testing"

	"duel-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type recorder struct {
	lines map[string][]string
}

func (r *recorder) Message(p *domain.Player, text string) {
	if r.lines == nil {
		r.lines = make(map[string][]string)
	}
	r.lines[p.ID] = append(r.lines[p.ID], text)
}

func newRegistry() (*Registry, *recorder) {
	rec := &recorder{}
	return NewRegistry(rec, zerolog.Nop()), rec
}

func TestConnectDisconnect(t *testing.T) {
	r, _ := newRegistry()
	joe := r.Connect("1", "guid-joe", "Joe", 1)
	r.Connect("2", "guid-simon", "Simon", 1)

	if r.Count() != 2 {
		t.Fatalf("Count = %d, want 2", r.Count())
	}
	if got, ok := r.Get("1"); !ok || got != joe || !got.Connected {
		t.Fatalf("Get(1) = %+v, %v", got, ok)
	}

	p, ok := r.Disconnect("1")
	if !ok || p != joe || joe.Connected {
		t.Fatalf("Disconnect did not mark player disconnected")
	}
	if _, ok := r.Disconnect("1"); ok {
		t.Fatalf("second Disconnect succeeded")
	}
	if _, ok := r.Get("1"); ok {
		t.Fatalf("disconnected player still retrievable")
	}
}

func TestConnectReusedSlot(t *testing.T) {
	r, _ := newRegistry()
	old := r.Connect("1", "a", "Joe", 1)
	fresh := r.Connect("1", "b", "Simon", 1)
	if old.Connected {
		t.Fatalf("replaced player still connected")
	}
	if got, _ := r.Get("1"); got != fresh {
		t.Fatalf("slot not taken by new player")
	}
}

func TestSetLevel(t *testing.T) {
	r, _ := newRegistry()
	p := r.Connect("1", "a", "Joe", 1)
	if !r.SetLevel("1", 100) || p.Level != 100 {
		t.Fatalf("level not updated: %d", p.Level)
	}
	if r.SetLevel("9", 100) {
		t.Fatalf("SetLevel on empty slot reported success")
	}
}

func TestConnectedOrdered(t *testing.T) {
	r, _ := newRegistry()
	r.Connect("3", "", "c", 1)
	r.Connect("1", "", "a", 1)
	r.Connect("2", "", "b", 1)
	got := r.Connected()
	if len(got) != 3 || got[0].ID != "1" || got[1].ID != "2" || got[2].ID != "3" {
		t.Fatalf("Connected order wrong: %+v", got)
	}
}

func TestRename(t *testing.T) {
	r, _ := newRegistry()
	p := r.Connect("1", "", "Joe", 1)
	if !r.Rename("1", "^4J^5o^3e") {
		t.Fatalf("Rename failed")
	}
	if p.ExactName() != "^4J^5o^3e^7" {
		t.Fatalf("ExactName = %q", p.ExactName())
	}
	if r.Rename("9", "x") {
		t.Fatalf("Rename of unknown slot succeeded")
	}
}

func TestFindPrompt(t *testing.T) {
	r, rec := newRegistry()
	joe := r.Connect("1", "", "Joe", 1)
	simon := r.Connect("2", "", "Simon", 1)
	r.Connect("3", "", "Simone", 1)

	if got := r.FindPrompt("jo", joe); got != joe {
		t.Fatalf("partial match = %+v", got)
	}
	if got := r.FindPrompt("SIMON", joe); got != simon {
		t.Fatalf("exact match should win over partial, got %+v", got)
	}
	if got := r.FindPrompt("@2", joe); got != simon {
		t.Fatalf("slot match = %+v", got)
	}
	if len(rec.lines["1"]) != 0 {
		t.Fatalf("successful lookups told requester %v", rec.lines["1"])
	}

	if got := r.FindPrompt("nobody", joe); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
	if got := rec.lines["1"][0]; got != "No players found matching nobody" {
		t.Fatalf("told %q", got)
	}

	if got := r.FindPrompt("imo", joe); got != nil {
		t.Fatalf("ambiguous lookup resolved to %+v", got)
	}
	if got := rec.lines["1"][1]; got != "Players matching imo: Simon^7 [@2], Simone^7 [@3]" {
		t.Fatalf("told %q", got)
	}

	if got := r.FindPrompt("@7", joe); got != nil {
		t.Fatalf("unknown slot resolved to %+v", got)
	}
}
