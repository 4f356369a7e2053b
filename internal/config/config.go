package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"duel-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath        string
	EventFeed     string
	BridgeURL     string
	BridgeTimeout time.Duration
	LogLevel      string
	DefaultLevel  int
	EventBuffer   int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	bridgeTimeout, err := time.ParseDuration(getEnv("BRIDGE_TIMEOUT", constants.BridgeTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid BRIDGE_TIMEOUT: %w", err)
	}
	defaultLevel, err := strconv.Atoi(getEnv("DEFAULT_LEVEL", strconv.Itoa(constants.LevelUser)))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_LEVEL: %w", err)
	}
	eventBuffer, err := strconv.Atoi(getEnv("EVENT_BUFFER", strconv.Itoa(constants.EventBufferSize)))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_BUFFER: %w", err)
	}

	cfg := &Config{
		DBPath:        getEnv("DB_PATH", "duel-tracker.db"),
		EventFeed:     getEnv("EVENT_FEED", "-"),
		BridgeURL:     getEnv("BRIDGE_URL", ""),
		BridgeTimeout: bridgeTimeout,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DefaultLevel:  defaultLevel,
		EventBuffer:   eventBuffer,
	}

	if cfg.EventBuffer <= 0 {
		return nil, fmt.Errorf("EVENT_BUFFER must be positive, got %d", cfg.EventBuffer)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("event_feed", cfg.EventFeed).
		Bool("bridge", cfg.BridgeURL != "").
		Dur("bridge_timeout", cfg.BridgeTimeout).
		Str("log_level", cfg.LogLevel).
		Int("default_level", cfg.DefaultLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
