package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/metrics"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
)

const (
	statsKeyPrefix     = "stats:"
	standingsKeyPrefix = "standings:"

	defaultStatsTTL     = 24 * time.Hour
	defaultStandingsTTL = time.Hour
	defaultFillWorkers  = 10
)

// StatsFeed is the slice of the remote client the cache consumes
type StatsFeed interface {
	FetchPlayerStats(ctx context.Context, season, playerCode string) (*models.SeasonStatsInput, error)
	FetchStandings(ctx context.Context, season string) ([]models.StandingInput, error)
}

// RosterSource lists the known player codes for a season
type RosterSource interface {
	ListRosterBySeason(ctx context.Context, season string) ([]models.RosterEntry, error)
}

// SeasonPayload maps player external codes to their season
// aggregates. A nil value is the "looked up, feed had no data"
// sentinel: within the TTL window that player is not fetched again.
type SeasonPayload map[string]*models.PlayerSeasonPayload

// RankedPlayer is one row of a top-N query result
type RankedPlayer struct {
	Rank       int    `json:"rank"`
	PlayerCode string `json:"player_code"`
	TeamCode   string `json:"team_code"`
	Value      int    `json:"value"`
}

// TopPlayersOptions narrows a top-N query
type TopPlayersOptions struct {
	TeamFilter string
	MinValue   *int
}

// StatsCache serves season aggregate payloads through the tiered
// store, refilling whole seasons on miss so the query layer never
// issues one remote call per player.
type StatsCache struct {
	store        Store
	feed         StatsFeed
	roster       RosterSource
	ttl          time.Duration
	standingsTTL time.Duration
	fillWorkers  int
}

// Options tunes cache behavior; zero values fall back to defaults
type Options struct {
	TTL          time.Duration
	StandingsTTL time.Duration
	FillWorkers  int
}

// NewStatsCache builds the cache service over a (normally tiered) store
func NewStatsCache(store Store, feed StatsFeed, roster RosterSource, opts Options) *StatsCache {
	if opts.TTL <= 0 {
		opts.TTL = defaultStatsTTL
	}
	if opts.StandingsTTL <= 0 {
		opts.StandingsTTL = defaultStandingsTTL
	}
	if opts.FillWorkers <= 0 {
		opts.FillWorkers = defaultFillWorkers
	}

	return &StatsCache{
		store:        store,
		feed:         feed,
		roster:       roster,
		ttl:          opts.TTL,
		standingsTTL: opts.StandingsTTL,
		fillWorkers:  opts.FillWorkers,
	}
}

func statsKey(season string) string { return statsKeyPrefix + season }

// GetAllStats returns the full season payload, filling the cache on
// miss and writing through to both tiers
func (c *StatsCache) GetAllStats(ctx context.Context, season string) (SeasonPayload, error) {
	key := statsKey(season)

	if data, err := c.store.Get(ctx, key); err == nil {
		var payload SeasonPayload
		if err := json.Unmarshal(data, &payload); err == nil {
			return payload, nil
		}
		// Corrupt entry: drop it and refill
		log.Warn().Str("key", key).Msg("Dropping undecodable cache entry")
		_ = c.store.Delete(ctx, key)
	}

	payload, err := c.fill(ctx, season)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode season payload: %w", err)
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		// Serving the fresh payload matters more than caching it
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache season payload")
	}

	return payload, nil
}

// fill fetches season aggregates for every known player with a
// bounded fan-out. Individual fetch failures record the no-data
// sentinel and never abort the refresh.
func (c *StatsCache) fill(ctx context.Context, season string) (SeasonPayload, error) {
	start := time.Now()

	roster, err := c.roster.ListRosterBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster for season %s: %w", season, err)
	}

	payload := make(SeasonPayload, len(roster))

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.fillWorkers)

	for _, entry := range roster {
		wg.Add(1)
		sem <- struct{}{}
		go func(entry models.RosterEntry) {
			defer wg.Done()
			defer func() { <-sem }()

			stats, err := c.feed.FetchPlayerStats(ctx, season, entry.PlayerCode)

			var value *models.PlayerSeasonPayload
			switch {
			case err != nil:
				log.Warn().Err(err).
					Str("player", entry.PlayerCode).
					Str("season", season).
					Msg("Player stats fetch failed, caching no-data sentinel")
			case stats == nil:
				log.Debug().
					Str("player", entry.PlayerCode).
					Str("season", season).
					Msg("Feed has no stats for player, caching no-data sentinel")
			default:
				value = stats.ToPayload(entry.TeamCode)
			}

			mu.Lock()
			payload[entry.PlayerCode] = value
			mu.Unlock()
		}(entry)
	}

	wg.Wait()

	metrics.CacheFillDuration.Observe(time.Since(start).Seconds())
	log.Info().
		Str("season", season).
		Int("players", len(roster)).
		Dur("duration", time.Since(start)).
		Msg("Season cache refill complete")

	return payload, nil
}

// GetTopPlayers ranks players by one statistic field, optionally
// filtered by team and minimum value. Ties are broken by ascending
// player code so rankings are stable across refreshes.
func (c *StatsCache) GetTopPlayers(ctx context.Context, season, field string, topN int, opts TopPlayersOptions) ([]RankedPlayer, error) {
	if _, ok := (&models.PlayerSeasonPayload{}).StatValue(field); !ok {
		return nil, fmt.Errorf("unknown statistic field %q", field)
	}

	payload, err := c.GetAllStats(ctx, season)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedPlayer, 0, len(payload))
	for code, stats := range payload {
		if stats == nil {
			continue
		}
		if opts.TeamFilter != "" && stats.TeamCode != opts.TeamFilter {
			continue
		}

		value, _ := stats.StatValue(field)
		if opts.MinValue != nil && value < *opts.MinValue {
			continue
		}

		ranked = append(ranked, RankedPlayer{
			PlayerCode: code,
			TeamCode:   stats.TeamCode,
			Value:      value,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].PlayerCode < ranked[j].PlayerCode
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked, nil
}

// GetStandings returns the cached league table for a season, fetching
// it from the feed on miss
func (c *StatsCache) GetStandings(ctx context.Context, season string) ([]models.StandingInput, error) {
	key := standingsKeyPrefix + season

	if data, err := c.store.Get(ctx, key); err == nil {
		var standings []models.StandingInput
		if err := json.Unmarshal(data, &standings); err == nil {
			return standings, nil
		}
		log.Warn().Str("key", key).Msg("Dropping undecodable cache entry")
		_ = c.store.Delete(ctx, key)
	} else if !errors.Is(err, ErrMiss) {
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed, fetching standings from feed")
	}

	standings, err := c.feed.FetchStandings(ctx, season)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(standings); err == nil {
		if err := c.store.Set(ctx, key, data, c.standingsTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to cache standings")
		}
	}

	return standings, nil
}

// Invalidate clears one season from both tiers
func (c *StatsCache) Invalidate(ctx context.Context, season string) error {
	return c.store.Delete(ctx, statsKey(season))
}

// InvalidateAll clears every season from both tiers
func (c *StatsCache) InvalidateAll(ctx context.Context) error {
	return c.store.DeleteByPrefix(ctx, statsKeyPrefix)
}
