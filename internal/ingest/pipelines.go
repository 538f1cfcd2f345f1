package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/repository"
)

// Per-entity pipelines. Each one binds the generic runner to a fetch
// call and a per-record process function holding that entity's
// validation and reference rules.

func (o *Orchestrator) runTeams(ctx context.Context, season string) (*Result, error) {
	return run(ctx, "teams",
		func(ctx context.Context) ([]models.TeamInput, error) {
			return o.feed.FetchTeams(ctx, season)
		},
		func(ctx context.Context, input models.TeamInput) (Outcome, error) {
			if err := input.Validate(); err != nil {
				return 0, err
			}

			inserted, err := o.stores.Teams.Upsert(ctx, input.ToTeam())
			if err != nil {
				return 0, err
			}
			return outcomeOf(inserted), nil
		},
	)
}

func (o *Orchestrator) runPlayers(ctx context.Context, season string) (*Result, error) {
	return run(ctx, "players",
		func(ctx context.Context) ([]models.PlayerInput, error) {
			return o.feed.FetchPlayers(ctx, season)
		},
		func(ctx context.Context, input models.PlayerInput) (Outcome, error) {
			if err := input.Validate(); err != nil {
				return 0, err
			}

			team, err := o.stores.Teams.GetByCode(ctx, input.TeamCode)
			if err != nil {
				return 0, refOrStorageErr(err, "player", input.Code, "team "+input.TeamCode)
			}

			inserted, err := o.stores.Players.Upsert(ctx, input.ToPlayer(team.ID))
			if err != nil {
				return 0, err
			}
			return outcomeOf(inserted), nil
		},
	)
}

func (o *Orchestrator) runGames(ctx context.Context, season string) (*Result, error) {
	return run(ctx, "games",
		func(ctx context.Context) ([]models.GameInput, error) {
			return o.feed.FetchGames(ctx, season)
		},
		func(ctx context.Context, input models.GameInput) (Outcome, error) {
			if err := input.Validate(); err != nil {
				return 0, err
			}

			key := fmt.Sprintf("%d", input.Code)

			home, err := o.stores.Teams.GetByCode(ctx, input.HomeCode)
			if err != nil {
				return 0, refOrStorageErr(err, "game", key, "home team "+input.HomeCode)
			}

			away, err := o.stores.Teams.GetByCode(ctx, input.AwayCode)
			if err != nil {
				return 0, refOrStorageErr(err, "game", key, "away team "+input.AwayCode)
			}

			inserted, err := o.stores.Games.Upsert(ctx, input.ToGame(home.ID, away.ID))
			if err != nil {
				return 0, err
			}
			return outcomeOf(inserted), nil
		},
	)
}

func (o *Orchestrator) runBoxScores(ctx context.Context, season string) (*Result, error) {
	return run(ctx, "box_scores",
		func(ctx context.Context) ([]models.BoxScoreInput, error) {
			return o.feed.FetchBoxScores(ctx, season)
		},
		func(ctx context.Context, input models.BoxScoreInput) (Outcome, error) {
			if err := input.Validate(); err != nil {
				return 0, err
			}

			key := fmt.Sprintf("%d/%s", input.GameCode, input.PlayerCode)

			game, err := o.stores.Games.GetByCode(ctx, season, input.GameCode)
			if err != nil {
				return 0, refOrStorageErr(err, "boxscore", key, fmt.Sprintf("game %d", input.GameCode))
			}

			player, err := o.stores.Players.GetByCode(ctx, input.PlayerCode)
			if err != nil {
				return 0, refOrStorageErr(err, "boxscore", key, "player "+input.PlayerCode)
			}

			team, err := o.stores.Teams.GetByCode(ctx, input.TeamCode)
			if err != nil {
				return 0, refOrStorageErr(err, "boxscore", key, "team "+input.TeamCode)
			}

			inserted, err := o.stores.BoxScores.Upsert(ctx, input.ToBoxScore(game.ID, player.ID, team.ID))
			if err != nil {
				return 0, err
			}
			return outcomeOf(inserted), nil
		},
	)
}

func (o *Orchestrator) runSeasonStats(ctx context.Context, season string) (*Result, error) {
	return run(ctx, "season_stats",
		func(ctx context.Context) ([]models.SeasonStatsInput, error) {
			return o.feed.FetchSeasonStats(ctx, season)
		},
		func(ctx context.Context, input models.SeasonStatsInput) (Outcome, error) {
			if err := input.Validate(); err != nil {
				return 0, err
			}

			player, err := o.stores.Players.GetByCode(ctx, input.PlayerCode)
			if err != nil {
				return 0, refOrStorageErr(err, "seasonstats", input.PlayerCode, "player "+input.PlayerCode)
			}

			inserted, err := o.stores.SeasonStats.Upsert(ctx, input.ToSeasonStats(player.ID))
			if err != nil {
				return 0, err
			}
			return outcomeOf(inserted), nil
		},
	)
}

func outcomeOf(inserted bool) Outcome {
	if inserted {
		return OutcomeInserted
	}
	return OutcomeUpdated
}

// refOrStorageErr turns a not-found lookup into a ReferenceError and
// passes storage failures through unchanged
func refOrStorageErr(err error, entity, key, wants string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &ReferenceError{Entity: entity, Key: key, Wants: wants}
	}
	return err
}
