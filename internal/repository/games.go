package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

// Upsert inserts or updates a game by (season, game_code). Returns
// true when a new row was inserted.
func (r *GameRepository) Upsert(ctx context.Context, game *models.Game) (bool, error) {
	query := `
		INSERT INTO games (
			game_code, season, round, game_date,
			home_team_id, away_team_id, home_score, away_score, played
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (season, game_code) DO UPDATE SET
			round = EXCLUDED.round,
			game_date = EXCLUDED.game_date,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			played = EXCLUDED.played,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.Pool.QueryRow(
		ctx, query,
		game.GameCode, game.Season, game.Round, game.GameDate,
		game.HomeTeamID, game.AwayTeamID, game.HomeScore, game.AwayScore, game.Played,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt, &inserted)

	if err != nil {
		return false, fmt.Errorf("failed to upsert game: %w", err)
	}

	return inserted, nil
}

// GetByCode retrieves a game by season and external game code
func (r *GameRepository) GetByCode(ctx context.Context, season string, gameCode int) (*models.Game, error) {
	query := `
		SELECT id, game_code, season, round, game_date,
		       home_team_id, away_team_id, home_score, away_score, played,
		       created_at, updated_at
		FROM games
		WHERE season = $1 AND game_code = $2
	`

	var game models.Game
	err := r.db.Pool.QueryRow(ctx, query, season, gameCode).Scan(
		&game.ID, &game.GameCode, &game.Season, &game.Round, &game.GameDate,
		&game.HomeTeamID, &game.AwayTeamID, &game.HomeScore, &game.AwayScore, &game.Played,
		&game.CreatedAt, &game.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("game season=%s game_code=%d: %w", season, gameCode, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return &game, nil
}

// ListBySeason retrieves all games for a season ordered by round
func (r *GameRepository) ListBySeason(ctx context.Context, season string) ([]*models.Game, error) {
	query := `
		SELECT id, game_code, season, round, game_date,
		       home_team_id, away_team_id, home_score, away_score, played,
		       created_at, updated_at
		FROM games
		WHERE season = $1
		ORDER BY round, game_code
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		var game models.Game
		err := rows.Scan(
			&game.ID, &game.GameCode, &game.Season, &game.Round, &game.GameDate,
			&game.HomeTeamID, &game.AwayTeamID, &game.HomeScore, &game.AwayScore, &game.Played,
			&game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, &game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// Count returns the total number of games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM games`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return count, nil
}
