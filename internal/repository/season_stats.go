package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
)

// SeasonStatsRepository handles season aggregate database operations
type SeasonStatsRepository struct {
	db *Database
}

// Upsert inserts or updates season aggregates by (player_id, season).
// Returns true when a new row was inserted.
func (r *SeasonStatsRepository) Upsert(ctx context.Context, stats *models.SeasonStats) (bool, error) {
	query := `
		INSERT INTO season_stats (
			player_id, season, games_played,
			points, rebounds, assists, steals, blocks, turnovers, fouls_committed,
			two_pointers_made, two_pointers_attempted,
			three_pointers_made, three_pointers_attempted,
			free_throws_made, free_throws_attempted,
			pir
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (player_id, season) DO UPDATE SET
			games_played = EXCLUDED.games_played,
			points = EXCLUDED.points,
			rebounds = EXCLUDED.rebounds,
			assists = EXCLUDED.assists,
			steals = EXCLUDED.steals,
			blocks = EXCLUDED.blocks,
			turnovers = EXCLUDED.turnovers,
			fouls_committed = EXCLUDED.fouls_committed,
			two_pointers_made = EXCLUDED.two_pointers_made,
			two_pointers_attempted = EXCLUDED.two_pointers_attempted,
			three_pointers_made = EXCLUDED.three_pointers_made,
			three_pointers_attempted = EXCLUDED.three_pointers_attempted,
			free_throws_made = EXCLUDED.free_throws_made,
			free_throws_attempted = EXCLUDED.free_throws_attempted,
			pir = EXCLUDED.pir,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.Pool.QueryRow(
		ctx, query,
		stats.PlayerID, stats.Season, stats.GamesPlayed,
		stats.Points, stats.Rebounds, stats.Assists, stats.Steals, stats.Blocks,
		stats.Turnovers, stats.FoulsCommitted,
		stats.TwoPointersMade, stats.TwoPointersAttempted,
		stats.ThreePointersMade, stats.ThreePointersAttempted,
		stats.FreeThrowsMade, stats.FreeThrowsAttempted,
		stats.PIR,
	).Scan(&stats.ID, &stats.CreatedAt, &stats.UpdatedAt, &inserted)

	if err != nil {
		return false, fmt.Errorf("failed to upsert season stats: %w", err)
	}

	return inserted, nil
}

// GetByPlayerSeason retrieves season aggregates for one player
func (r *SeasonStatsRepository) GetByPlayerSeason(ctx context.Context, playerID int, season string) (*models.SeasonStats, error) {
	query := `
		SELECT id, player_id, season, games_played,
		       points, rebounds, assists, steals, blocks, turnovers, fouls_committed,
		       two_pointers_made, two_pointers_attempted,
		       three_pointers_made, three_pointers_attempted,
		       free_throws_made, free_throws_attempted,
		       pir, created_at, updated_at
		FROM season_stats
		WHERE player_id = $1 AND season = $2
	`

	var stats models.SeasonStats
	err := r.db.Pool.QueryRow(ctx, query, playerID, season).Scan(
		&stats.ID, &stats.PlayerID, &stats.Season, &stats.GamesPlayed,
		&stats.Points, &stats.Rebounds, &stats.Assists, &stats.Steals, &stats.Blocks,
		&stats.Turnovers, &stats.FoulsCommitted,
		&stats.TwoPointersMade, &stats.TwoPointersAttempted,
		&stats.ThreePointersMade, &stats.ThreePointersAttempted,
		&stats.FreeThrowsMade, &stats.FreeThrowsAttempted,
		&stats.PIR, &stats.CreatedAt, &stats.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("season stats player_id=%d season=%s: %w", playerID, season, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season stats: %w", err)
	}

	return &stats, nil
}

// Count returns the total number of season stat rows
func (r *SeasonStatsRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM season_stats`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count season stats: %w", err)
	}

	return count, nil
}
