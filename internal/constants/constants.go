package constants

import "time"

// Chat color markers understood by the game client.
const (
	ColorRed     = "^1"
	ColorGreen   = "^2"
	ColorCyan    = "^5"
	ColorWhite   = "^7"
	ColorLosing  = ColorRed
	ColorWinning = ColorGreen
	ColorNeutral = ColorCyan
)

const (
	CommandPrefix = "!"
	SlotPrefix    = "@"
)

// Permission levels. LevelUser is a regular registered player.
const (
	LevelUser  = 1
	LevelAdmin = 100
)

const (
	BridgeTimeout      = 5 * time.Second
	BridgeFlushTimeout = 3 * time.Second
	BridgeMaxConns     = 16
	EventBufferSize    = 256
	MaxFeedLineLength  = 64 * 1024
	MaxPromptMatches   = 6
	PlayerStoreTimeout = 2 * time.Second
)

// SQLiteOptions are go-sqlite3 DSN parameters applied to every connection.
const SQLiteOptions = "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on"

const (
	DBMigrateTimeout  = 30 * time.Second
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
