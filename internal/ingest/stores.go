package ingest

import (
	"context"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/repository"
)

// Feed is the slice of the remote client the pipelines consume
type Feed interface {
	FetchTeams(ctx context.Context, season string) ([]models.TeamInput, error)
	FetchPlayers(ctx context.Context, season string) ([]models.PlayerInput, error)
	FetchGames(ctx context.Context, season string) ([]models.GameInput, error)
	FetchBoxScores(ctx context.Context, season string) ([]models.BoxScoreInput, error)
	FetchSeasonStats(ctx context.Context, season string) ([]models.SeasonStatsInput, error)
}

// TeamStore persists and resolves teams
type TeamStore interface {
	Upsert(ctx context.Context, team *models.Team) (bool, error)
	GetByCode(ctx context.Context, code string) (*models.Team, error)
	Count(ctx context.Context) (int, error)
}

// PlayerStore persists and resolves players
type PlayerStore interface {
	Upsert(ctx context.Context, player *models.Player) (bool, error)
	GetByCode(ctx context.Context, code string) (*models.Player, error)
	Count(ctx context.Context) (int, error)
}

// GameStore persists and resolves games
type GameStore interface {
	Upsert(ctx context.Context, game *models.Game) (bool, error)
	GetByCode(ctx context.Context, season string, gameCode int) (*models.Game, error)
	Count(ctx context.Context) (int, error)
}

// SeasonStatsStore persists season aggregates
type SeasonStatsStore interface {
	Upsert(ctx context.Context, stats *models.SeasonStats) (bool, error)
}

// BoxScoreStore persists per-game stat lines
type BoxScoreStore interface {
	Upsert(ctx context.Context, box *models.BoxScore) (bool, error)
}

// Stores bundles the persistence dependencies of the orchestrator
type Stores struct {
	Teams       TeamStore
	Players     PlayerStore
	Games       GameStore
	SeasonStats SeasonStatsStore
	BoxScores   BoxScoreStore
}

// StoresFromDatabase wires the pgx-backed repositories into Stores
func StoresFromDatabase(db *repository.Database) Stores {
	return Stores{
		Teams:       db.Teams,
		Players:     db.Players,
		Games:       db.Games,
		SeasonStats: db.SeasonStats,
		BoxScores:   db.BoxScores,
	}
}
