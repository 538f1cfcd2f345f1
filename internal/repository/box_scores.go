package repository

import (
	"context"
	"fmt"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
)

// BoxScoreRepository handles per-game stat line database operations
type BoxScoreRepository struct {
	db *Database
}

// Upsert inserts or updates a box score line by (game_id, player_id).
// Returns true when a new row was inserted.
func (r *BoxScoreRepository) Upsert(ctx context.Context, box *models.BoxScore) (bool, error) {
	query := `
		INSERT INTO box_scores (
			game_id, player_id, team_id, starter, minutes,
			points, rebounds, assists, steals, blocks, turnovers, fouls_committed,
			two_pointers_made, two_pointers_attempted,
			three_pointers_made, three_pointers_attempted,
			free_throws_made, free_throws_attempted,
			pir
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			starter = EXCLUDED.starter,
			minutes = EXCLUDED.minutes,
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
		box.GameID, box.PlayerID, box.TeamID, box.Starter, box.Minutes,
		box.Points, box.Rebounds, box.Assists, box.Steals, box.Blocks,
		box.Turnovers, box.FoulsCommitted,
		box.TwoPointersMade, box.TwoPointersAttempted,
		box.ThreePointersMade, box.ThreePointersAttempted,
		box.FreeThrowsMade, box.FreeThrowsAttempted,
		box.PIR,
	).Scan(&box.ID, &box.CreatedAt, &box.UpdatedAt, &inserted)

	if err != nil {
		return false, fmt.Errorf("failed to upsert box score: %w", err)
	}

	return inserted, nil
}

// ListByGame retrieves all stat lines for one game
func (r *BoxScoreRepository) ListByGame(ctx context.Context, gameID int) ([]*models.BoxScore, error) {
	query := `
		SELECT id, game_id, player_id, team_id, starter, minutes,
		       points, rebounds, assists, steals, blocks, turnovers, fouls_committed,
		       two_pointers_made, two_pointers_attempted,
		       three_pointers_made, three_pointers_attempted,
		       free_throws_made, free_throws_attempted,
		       pir, created_at, updated_at
		FROM box_scores
		WHERE game_id = $1
		ORDER BY player_id
	`

	rows, err := r.db.Pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list box scores: %w", err)
	}
	defer rows.Close()

	var boxes []*models.BoxScore
	for rows.Next() {
		var box models.BoxScore
		err := rows.Scan(
			&box.ID, &box.GameID, &box.PlayerID, &box.TeamID, &box.Starter, &box.Minutes,
			&box.Points, &box.Rebounds, &box.Assists, &box.Steals, &box.Blocks,
			&box.Turnovers, &box.FoulsCommitted,
			&box.TwoPointersMade, &box.TwoPointersAttempted,
			&box.ThreePointersMade, &box.ThreePointersAttempted,
			&box.FreeThrowsMade, &box.FreeThrowsAttempted,
			&box.PIR, &box.CreatedAt, &box.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan box score: %w", err)
		}
		boxes = append(boxes, &box)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating box scores: %w", err)
	}

	return boxes, nil
}

// Count returns the total number of box score rows
func (r *BoxScoreRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM box_scores`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count box scores: %w", err)
	}

	return count, nil
}
