package ingest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/metrics"
)

// bootstrapTimeout bounds a detached bootstrap ingestion sequence
const bootstrapTimeout = 30 * time.Minute

// Orchestrator runs the entity pipelines in dependency order:
// teams, then players, then games, then box scores and season stats.
// Later pipelines resolve references against earlier ones, so the
// order is load-bearing.
type Orchestrator struct {
	feed   Feed
	stores Stores

	bootstrapping atomic.Bool
}

// NewOrchestrator creates an orchestrator over the given feed and stores
func NewOrchestrator(feed Feed, stores Stores) *Orchestrator {
	return &Orchestrator{
		feed:   feed,
		stores: stores,
	}
}

// RunAll executes the full pipeline sequence for one season. A
// run-level failure aborts the remaining pipelines: running them
// against missing upstream rows would only produce a wall of spurious
// reference errors. Results for completed runs are always returned.
func (o *Orchestrator) RunAll(ctx context.Context, season string) ([]*Result, error) {
	start := time.Now()

	steps := []func(context.Context, string) (*Result, error){
		o.runTeams,
		o.runPlayers,
		o.runGames,
		o.runBoxScores,
		o.runSeasonStats,
	}

	var results []*Result
	for _, step := range steps {
		result, err := step(ctx, season)
		results = append(results, result)
		if err != nil {
			log.Error().Err(err).
				Str("pipeline", result.Pipeline).
				Str("season", season).
				Msg("Pipeline sequence aborted")
			return results, err
		}
	}

	metrics.LastSuccessfulRefresh.SetToCurrentTime()
	log.Info().
		Str("season", season).
		Dur("duration", time.Since(start)).
		Msg("Full ingestion sequence complete")

	return results, nil
}

// RunPipeline executes a single named pipeline for one season.
// Reference errors against entities a skipped upstream pipeline would
// have provided are counted per record, same as in a full run.
func (o *Orchestrator) RunPipeline(ctx context.Context, name, season string) (*Result, error) {
	switch name {
	case "teams":
		return o.runTeams(ctx, season)
	case "players":
		return o.runPlayers(ctx, season)
	case "games":
		return o.runGames(ctx, season)
	case "boxscores":
		return o.runBoxScores(ctx, season)
	case "seasonstats":
		return o.runSeasonStats(ctx, season)
	}
	return nil, fmt.Errorf("unknown pipeline %q", name)
}

// EnsureDataPresent triggers the full pipeline sequence without
// blocking the caller. Fire-and-forget: no completion signal is
// surfaced, callers poll row counts to observe progress. Concurrent
// triggers while a bootstrap is in flight are ignored.
func (o *Orchestrator) EnsureDataPresent(season string) {
	if !o.bootstrapping.CompareAndSwap(false, true) {
		log.Debug().Str("season", season).Msg("Bootstrap already running, trigger ignored")
		return
	}

	log.Info().Str("season", season).Msg("Bootstrap ingestion triggered")

	go func() {
		defer o.bootstrapping.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
		defer cancel()

		if _, err := o.RunAll(ctx, season); err != nil {
			log.Error().Err(err).Str("season", season).Msg("Bootstrap ingestion failed")
		}
	}()
}

// HasData reports whether the required base entities are present,
// for health checks deciding whether to trigger a bootstrap
func (o *Orchestrator) HasData(ctx context.Context) (bool, error) {
	teams, err := o.stores.Teams.Count(ctx)
	if err != nil {
		return false, err
	}
	if teams == 0 {
		return false, nil
	}

	players, err := o.stores.Players.Count(ctx)
	if err != nil {
		return false, err
	}

	return players > 0, nil
}
