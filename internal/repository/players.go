package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
)

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db *Database
}

// Upsert inserts or updates a player by external code. Returns true
// when a new row was inserted.
func (r *PlayerRepository) Upsert(ctx context.Context, player *models.Player) (bool, error) {
	query := `
		INSERT INTO players (player_code, team_id, name, position, season)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_code) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			season = EXCLUDED.season,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.Pool.QueryRow(
		ctx, query,
		player.PlayerCode, player.TeamID, player.Name, player.Position, player.Season,
	).Scan(&player.ID, &player.CreatedAt, &player.UpdatedAt, &inserted)

	if err != nil {
		return false, fmt.Errorf("failed to upsert player: %w", err)
	}

	return inserted, nil
}

// GetByCode retrieves a player by its external code
func (r *PlayerRepository) GetByCode(ctx context.Context, code string) (*models.Player, error) {
	query := `
		SELECT id, player_code, team_id, name, position, season, created_at, updated_at
		FROM players
		WHERE player_code = $1
	`

	var player models.Player
	err := r.db.Pool.QueryRow(ctx, query, code).Scan(
		&player.ID, &player.PlayerCode, &player.TeamID, &player.Name,
		&player.Position, &player.Season,
		&player.CreatedAt, &player.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("player code=%s: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return &player, nil
}

// ListCodesBySeason returns the external codes of every player
// rostered for the given season, in fetch (insertion) order
func (r *PlayerRepository) ListCodesBySeason(ctx context.Context, season string) ([]string, error) {
	query := `
		SELECT player_code
		FROM players
		WHERE season = $1
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list player codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan player code: %w", err)
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player codes: %w", err)
	}

	return codes, nil
}

// ListRosterBySeason returns every (player code, team code) pair for
// the given season, in fetch (insertion) order
func (r *PlayerRepository) ListRosterBySeason(ctx context.Context, season string) ([]models.RosterEntry, error) {
	query := `
		SELECT p.player_code, t.code
		FROM players p
		JOIN teams t ON t.id = p.team_id
		WHERE p.season = $1
		ORDER BY p.id
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	defer rows.Close()

	var roster []models.RosterEntry
	for rows.Next() {
		var entry models.RosterEntry
		if err := rows.Scan(&entry.PlayerCode, &entry.TeamCode); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		roster = append(roster, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster: %w", err)
	}

	return roster, nil
}

// Count returns the total number of players
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}

	return count, nil
}
