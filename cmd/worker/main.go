package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/cache"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/client"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/config"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/ingest"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/metrics"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/repository"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/scheduler"
)

func main() {
	setupLogger()

	log.Info().Msg("Starting Euroleague stats ingestion worker")

	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("season", cfg.DefaultSeason).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Euroleague feed client
	feed := client.NewClient(cfg.FeedBaseURL, cfg.FeedAuthKey, cfg.FeedTimeout)
	feed.SetMaxRetries(cfg.FeedRetries)
	log.Info().Str("base_url", cfg.FeedBaseURL).Msg("Feed client initialized")

	// Database connection
	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Cache tiers: Redis primary with in-process fallback. A missing
	// Redis only costs cache sharing, never availability.
	var primary cache.Store
	redisStore, err := cache.NewRedisStore(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing on fallback tier only")
	} else {
		defer redisStore.Close()
		primary = redisStore
	}

	tiered := cache.NewTiered(primary, cache.NewMemoryStore())
	statsCache := cache.NewStatsCache(tiered, feed, db.Players, cache.Options{
		TTL:          cfg.StatsCacheTTL,
		StandingsTTL: cfg.StandingsCacheTTL,
		FillWorkers:  cfg.CacheFillWorkers,
	})

	// Orchestrator over the pipelines
	orch := ingest.NewOrchestrator(feed, ingest.StoresFromDatabase(db))

	// Metrics and health server
	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort, cfg.DefaultSeason, db, orch)
	}

	// Uptime gauge and pool stats
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
				db.ReportPoolStats()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Scheduler (nightly refresh)
	sched := scheduler.NewScheduler(cfg, orch, statsCache)
	if cfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Initial sync
	if cfg.InitialSyncEnabled {
		log.Info().Msg("Running initial data sync...")
		if _, err := orch.RunAll(ctx, cfg.DefaultSeason); err != nil {
			log.Error().Err(err).Msg("Initial sync failed, continuing anyway...")
		} else {
			log.Info().Msg("Initial sync completed successfully")
		}
	}

	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server with a
// health endpoint that lazily triggers ingestion when the database is
// empty
func startMetricsServer(port int, season string, db *repository.Database, orch *ingest.Orchestrator) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}

		hasData, err := orch.HasData(r.Context())
		if err == nil && !hasData {
			// Fire-and-forget: the response does not wait for ingestion
			orch.EnsureDataPresent(season)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Int("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
