package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/cache"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/config"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/ingest"
)

// Scheduler manages the background refresh of ingested data.
// The nightly job re-runs the full pipeline sequence and drops the
// season caches so the next query picks up fresh aggregates.
type Scheduler struct {
	cfg   *config.Config
	orch  *ingest.Orchestrator
	stats *cache.StatsCache
	cron  *cron.Cron
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, orch *ingest.Orchestrator, stats *cache.StatsCache) *Scheduler {
	return &Scheduler{
		cfg:   cfg,
		orch:  orch,
		stats: stats,
		cron:  cron.New(),
	}
}

// Start registers the nightly refresh and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.NightlyRefreshCron, func() {
		log.Info().Msg("Running nightly refresh...")
		if err := s.refresh(ctx); err != nil {
			log.Error().Err(err).Msg("Nightly refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.NightlyRefreshCron).
		Msg("Nightly refresh scheduled")

	return nil
}

// Stop stops the cron loop
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Info().Msg("Scheduler stopped")
}

// refresh re-ingests the default season and invalidates its caches
func (s *Scheduler) refresh(ctx context.Context) error {
	season := s.cfg.DefaultSeason

	if _, err := s.orch.RunAll(ctx, season); err != nil {
		return fmt.Errorf("ingestion sequence failed: %w", err)
	}

	if err := s.stats.Invalidate(ctx, season); err != nil {
		log.Warn().Err(err).Str("season", season).Msg("Failed to invalidate season cache")
	}

	log.Info().Str("season", season).Msg("Nightly refresh complete")
	return nil
}
