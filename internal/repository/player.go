package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"duel-tracker/internal/domain"

	"github.com/rs/zerolog"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const upsertPlayer = `
INSERT INTO players (guid, name, level, connections, first_seen_at, last_seen_at)
VALUES (?, ?, ?, 1, ?, ?)
ON CONFLICT (guid) DO UPDATE SET
    name = excluded.name,
    connections = players.connections + 1,
    last_seen_at = excluded.last_seen_at`

const selectPlayer = `
SELECT guid, name, level, connections, first_seen_at, last_seen_at
FROM players WHERE guid = ?`

// RecordConnection stores a connection of guid under name and returns the
// stored record. New players start at defaultLevel; known players keep theirs.
func (r *PlayerRepository) RecordConnection(ctx context.Context, guid, name string, defaultLevel int) (*domain.KnownPlayer, error) {
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, upsertPlayer, guid, name, defaultLevel, now, now); err != nil {
		r.logger.Error().Err(err).Str("guid", guid).Msg("failed to record connection")
		return nil, fmt.Errorf("failed to upsert player %s: %w", guid, err)
	}
	return r.Get(ctx, guid)
}

func (r *PlayerRepository) Get(ctx context.Context, guid string) (*domain.KnownPlayer, error) {
	var p domain.KnownPlayer
	err := r.db.QueryRowContext(ctx, selectPlayer, guid).Scan(
		&p.GUID, &p.Name, &p.Level, &p.Connections, &p.FirstSeenAt, &p.LastSeenAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("guid %s: %w", guid, ErrPlayerNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", guid, err)
	}
	return &p, nil
}

func (r *PlayerRepository) SetLevel(ctx context.Context, guid string, level int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE players SET level = ? WHERE guid = ?`, level, guid)
	if err != nil {
		return fmt.Errorf("failed to set level for %s: %w", guid, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set level for %s: %w", guid, err)
	}
	if n == 0 {
		return fmt.Errorf("guid %s: %w", guid, ErrPlayerNotFound)
	}
	r.logger.Info().Str("guid", guid).Int("level", level).Msg("player level updated")
	return nil
}

// TouchLastSeen records the moment a player left.
func (r *PlayerRepository) TouchLastSeen(ctx context.Context, guid string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE players SET last_seen_at = ? WHERE guid = ?`, at.UTC(), guid); err != nil {
		return fmt.Errorf("failed to touch player %s: %w", guid, err)
	}
	return nil
}

func (r *PlayerRepository) Search(ctx context.Context, query string, limit int) ([]domain.KnownPlayer, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guid, name, level, connections, first_seen_at, last_seen_at
FROM players WHERE name LIKE ? ORDER BY last_seen_at DESC LIMIT ?`, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	defer rows.Close()

	var result []domain.KnownPlayer
	for rows.Next() {
		var p domain.KnownPlayer
		if err := rows.Scan(&p.GUID, &p.Name, &p.Level, &p.Connections, &p.FirstSeenAt, &p.LastSeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
