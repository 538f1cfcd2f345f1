// Command manualfetch runs a single ingestion pipeline (or the full
// sequence) against the feed for a given season, printing the run
// results. Useful for backfills and for inspecting feed endpoints
// that the worker only reads through the cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/client"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/config"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/ingest"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/repository"
)

func main() {
	var (
		pipeline = flag.String("pipeline", "all", "pipeline to run: all, teams, players, games, boxscores, seasonstats, standings, teamstats")
		season   = flag.String("season", "", "season code (defaults to DEFAULT_SEASON)")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	cfg := config.MustLoad()
	if *season == "" {
		*season = cfg.DefaultSeason
	}

	feed := client.NewClient(cfg.FeedBaseURL, cfg.FeedAuthKey, cfg.FeedTimeout)
	feed.SetMaxRetries(cfg.FeedRetries)

	// standings and teamstats are read-only feed views, no database needed
	switch *pipeline {
	case "standings":
		printStandings(ctx, feed, *season)
		return
	case "teamstats":
		printTeamStats(ctx, feed, *season)
		return
	}

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

	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	orch := ingest.NewOrchestrator(feed, ingest.StoresFromDatabase(db))

	var results []*ingest.Result
	switch *pipeline {
	case "all":
		results, err = orch.RunAll(ctx, *season)
	case "teams", "players", "games", "boxscores", "seasonstats":
		var result *ingest.Result
		result, err = orch.RunPipeline(ctx, *pipeline, *season)
		results = append(results, result)
	default:
		log.Fatal().Str("pipeline", *pipeline).Msg("Unknown pipeline")
	}

	for _, result := range results {
		if result == nil {
			continue
		}
		fmt.Printf("%-14s status=%-15s processed=%-5d inserted=%-5d updated=%-5d errors=%d\n",
			result.Pipeline, result.Status, result.TotalProcessed, result.Inserted, result.Updated, result.Errors)
	}

	if err != nil {
		log.Error().Err(err).Str("season", *season).Msg("Manual fetch finished with errors")
		os.Exit(1)
	}
	log.Info().Str("season", *season).Msg("Manual fetch complete.")
}

func printStandings(ctx context.Context, feed *client.Client, season string) {
	standings, err := feed.FetchStandings(ctx, season)
	if err != nil {
		log.Fatal().Err(err).Str("season", season).Msg("Failed to fetch standings")
	}

	fmt.Printf("Standings for %s:\n", season)
	for _, row := range standings {
		fmt.Printf("%2d. %-6s W%-3d L%-3d PF=%-5d PA=%d\n",
			row.Position, row.TeamCode, row.Wins, row.Losses, row.PointsFor, row.PointsAgainst)
	}
}

func printTeamStats(ctx context.Context, feed *client.Client, season string) {
	stats, err := feed.FetchTeamStats(ctx, season)
	if err != nil {
		log.Fatal().Err(err).Str("season", season).Msg("Failed to fetch team stats")
	}

	fmt.Printf("Team stats for %s:\n", season)
	for _, row := range stats {
		fmt.Printf("%-6s games=%-3d points=%-5d rebounds=%-5d assists=%d\n",
			row.TeamCode, row.GamesPlayed, row.Points, row.Rebounds, row.Assists)
	}
}
