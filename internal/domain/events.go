package domain

// Event is anything delivered by the game event feed.
type Event interface {
	Kind() string
}

type ConnectEvent struct {
	PlayerID string
	GUID     string
	Name     string
}

type UserinfoEvent struct {
	PlayerID    string
	ColoredName string
}

type DisconnectEvent struct {
	PlayerID string
}

type KillEvent struct {
	KillerID string
	VictimID string
	Weapon   string
}

type SayEvent struct {
	PlayerID string
	Text     string
}

type RoundEndEvent struct{}

func (ConnectEvent) Kind() string    { return "connect" }
func (UserinfoEvent) Kind() string   { return "userinfo" }
func (DisconnectEvent) Kind() string { return "disconnect" }
func (KillEvent) Kind() string       { return "kill" }
func (SayEvent) Kind() string        { return "say" }
func (RoundEndEvent) Kind() string   { return "roundend" }
