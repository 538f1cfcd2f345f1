package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
)

// fakeStatsFeed serves per-player aggregates from a map; players with
// a nil entry simulate "feed has no record", players in failing error
// out on fetch
type fakeStatsFeed struct {
	stats     map[string]*models.SeasonStatsInput
	failing   map[string]bool
	standings []models.StandingInput

	statsCalls     int32
	standingsCalls int32
}

func (f *fakeStatsFeed) FetchPlayerStats(ctx context.Context, season, playerCode string) (*models.SeasonStatsInput, error) {
	atomic.AddInt32(&f.statsCalls, 1)
	if f.failing[playerCode] {
		return nil, errors.New("feed unavailable")
	}
	return f.stats[playerCode], nil
}

func (f *fakeStatsFeed) FetchStandings(ctx context.Context, season string) ([]models.StandingInput, error) {
	atomic.AddInt32(&f.standingsCalls, 1)
	return f.standings, nil
}

type fakeRoster []models.RosterEntry

func (f fakeRoster) ListRosterBySeason(ctx context.Context, season string) ([]models.RosterEntry, error) {
	return f, nil
}

func seasonStats(code string, points, rebounds, assists int) *models.SeasonStatsInput {
	return &models.SeasonStatsInput{
		PlayerCode: code, Season: "E2023", GamesPlayed: 30,
		Points: points, Rebounds: rebounds, Assists: assists,
	}
}

func newTestStatsCache(feed *fakeStatsFeed, roster fakeRoster) *StatsCache {
	return NewStatsCache(NewTiered(nil, NewMemoryStore()), feed, roster, Options{FillWorkers: 2})
}

func TestGetAllStats_FillAndReuse(t *testing.T) {
	ctx := context.Background()
	feed := &fakeStatsFeed{
		stats: map[string]*models.SeasonStatsInput{
			"P001": seasonStats("P001", 400, 120, 90),
			"P002": seasonStats("P002", 350, 200, 40),
		},
	}
	roster := fakeRoster{
		{PlayerCode: "P001", TeamCode: "MAD"},
		{PlayerCode: "P002", TeamCode: "BAR"},
	}

	cache := newTestStatsCache(feed, roster)

	payload, err := cache.GetAllStats(ctx, "E2023")
	require.NoError(t, err)
	require.Len(t, payload, 2)
	assert.Equal(t, 400, payload["P001"].Points)
	assert.Equal(t, "MAD", payload["P001"].TeamCode, "Team code should be stamped from the roster")
	assert.Equal(t, int32(2), atomic.LoadInt32(&feed.statsCalls))

	// Second read comes from the cache
	payload, err = cache.GetAllStats(ctx, "E2023")
	require.NoError(t, err)
	require.Len(t, payload, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&feed.statsCalls), "Cached season should not hit the feed again")
}

func TestGetAllStats_NoDataSentinel(t *testing.T) {
	ctx := context.Background()
	feed := &fakeStatsFeed{
		stats: map[string]*models.SeasonStatsInput{
			"P001": seasonStats("P001", 400, 120, 90),
			// P002 absent from the feed
		},
		failing: map[string]bool{"P003": true},
	}
	roster := fakeRoster{
		{PlayerCode: "P001", TeamCode: "MAD"},
		{PlayerCode: "P002", TeamCode: "BAR"},
		{PlayerCode: "P003", TeamCode: "PAN"},
	}

	cache := newTestStatsCache(feed, roster)

	payload, err := cache.GetAllStats(ctx, "E2023")
	require.NoError(t, err, "Per-player failures must not abort the fill")
	require.Len(t, payload, 3, "Every rostered player gets an entry")
	assert.NotNil(t, payload["P001"])
	assert.Nil(t, payload["P002"], "Feed miss should record the no-data sentinel")
	assert.Nil(t, payload["P003"], "Fetch failure should record the no-data sentinel")

	// Sentinels are cached too: no refetch within the TTL window
	before := atomic.LoadInt32(&feed.statsCalls)
	_, err = cache.GetAllStats(ctx, "E2023")
	require.NoError(t, err)
	assert.Equal(t, before, atomic.LoadInt32(&feed.statsCalls), "Sentinel entries should suppress refetching")
}

func TestGetTopPlayers_RankingAndTieBreak(t *testing.T) {
	ctx := context.Background()
	feed := &fakeStatsFeed{
		stats: map[string]*models.SeasonStatsInput{
			"P001": seasonStats("P001", 400, 120, 90),
			"P002": seasonStats("P002", 350, 200, 40),
			"P003": seasonStats("P003", 400, 80, 70),
			"P004": nil, // rostered but no aggregates yet
		},
	}
	roster := fakeRoster{
		{PlayerCode: "P001", TeamCode: "MAD"},
		{PlayerCode: "P002", TeamCode: "BAR"},
		{PlayerCode: "P003", TeamCode: "PAN"},
		{PlayerCode: "P004", TeamCode: "MAD"},
	}

	cache := newTestStatsCache(feed, roster)

	ranked, err := cache.GetTopPlayers(ctx, "E2023", "points", 10, TopPlayersOptions{})
	require.NoError(t, err)
	require.Len(t, ranked, 3, "Sentinel entries should be excluded from rankings")

	assert.Equal(t, "P001", ranked[0].PlayerCode, "Ties should break on ascending player code")
	assert.Equal(t, "P003", ranked[1].PlayerCode)
	assert.Equal(t, "P002", ranked[2].PlayerCode)
	assert.Equal(t, []int{1, 2, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank})
	assert.Equal(t, 400, ranked[0].Value)
}

func TestGetTopPlayers_FiltersAndTruncation(t *testing.T) {
	ctx := context.Background()
	feed := &fakeStatsFeed{
		stats: map[string]*models.SeasonStatsInput{
			"P001": seasonStats("P001", 400, 120, 90),
			"P002": seasonStats("P002", 350, 200, 40),
			"P003": seasonStats("P003", 300, 80, 70),
		},
	}
	roster := fakeRoster{
		{PlayerCode: "P001", TeamCode: "MAD"},
		{PlayerCode: "P002", TeamCode: "BAR"},
		{PlayerCode: "P003", TeamCode: "MAD"},
	}

	cache := newTestStatsCache(feed, roster)

	ranked, err := cache.GetTopPlayers(ctx, "E2023", "points", 10, TopPlayersOptions{TeamFilter: "MAD"})
	require.NoError(t, err)
	require.Len(t, ranked, 2, "Team filter should narrow the pool")
	assert.Equal(t, "P001", ranked[0].PlayerCode)

	minValue := 340
	ranked, err = cache.GetTopPlayers(ctx, "E2023", "points", 10, TopPlayersOptions{MinValue: &minValue})
	require.NoError(t, err)
	assert.Len(t, ranked, 2, "Minimum value should exclude low scorers")

	ranked, err = cache.GetTopPlayers(ctx, "E2023", "points", 1, TopPlayersOptions{})
	require.NoError(t, err)
	require.Len(t, ranked, 1, "topN should truncate the result")
	assert.Equal(t, 1, ranked[0].Rank)
}

func TestGetTopPlayers_UnknownField(t *testing.T) {
	ctx := context.Background()
	cache := newTestStatsCache(&fakeStatsFeed{}, fakeRoster{})

	_, err := cache.GetTopPlayers(ctx, "E2023", "swagger", 10, TopPlayersOptions{})
	assert.Error(t, err, "Unknown statistic fields should be rejected before any cache work")
}

func TestGetStandings_Cached(t *testing.T) {
	ctx := context.Background()
	feed := &fakeStatsFeed{
		standings: []models.StandingInput{
			{TeamCode: "MAD", Position: 1, Wins: 25, Losses: 9},
			{TeamCode: "BAR", Position: 2, Wins: 23, Losses: 11},
		},
	}

	cache := newTestStatsCache(feed, fakeRoster{})

	standings, err := cache.GetStandings(ctx, "E2023")
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, "MAD", standings[0].TeamCode)

	_, err = cache.GetStandings(ctx, "E2023")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&feed.standingsCalls), "Second read should come from the cache")
}

func TestInvalidate_TriggersRefill(t *testing.T) {
	ctx := context.Background()
	feed := &fakeStatsFeed{
		stats: map[string]*models.SeasonStatsInput{
			"P001": seasonStats("P001", 400, 120, 90),
		},
	}
	roster := fakeRoster{{PlayerCode: "P001", TeamCode: "MAD"}}

	cache := newTestStatsCache(feed, roster)

	_, err := cache.GetAllStats(ctx, "E2023")
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx, "E2023"))

	_, err = cache.GetAllStats(ctx, "E2023")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&feed.statsCalls), "Invalidation should force a refill")
}

func TestGetAllStats_CorruptEntryRefilled(t *testing.T) {
	ctx := context.Background()
	feed := &fakeStatsFeed{
		stats: map[string]*models.SeasonStatsInput{
			"P001": seasonStats("P001", 400, 120, 90),
		},
	}
	roster := fakeRoster{{PlayerCode: "P001", TeamCode: "MAD"}}

	store := NewTiered(nil, NewMemoryStore())
	cache := NewStatsCache(store, feed, roster, Options{FillWorkers: 2})

	require.NoError(t, store.Set(ctx, "stats:E2023", []byte("{not json"), defaultStatsTTL))

	payload, err := cache.GetAllStats(ctx, "E2023")
	require.NoError(t, err, "A corrupt cache entry should be dropped and refilled")
	require.Len(t, payload, 1)
	assert.Equal(t, 400, payload["P001"].Points)
}
