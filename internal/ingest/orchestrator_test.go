package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/client"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/repository"
)

// fakeFeed serves canned records and can fail individual endpoints
type fakeFeed struct {
	teams       []models.TeamInput
	players     []models.PlayerInput
	games       []models.GameInput
	boxScores   []models.BoxScoreInput
	seasonStats []models.SeasonStatsInput

	teamsErr   error
	playersErr error

	teamsCalls int32
	block      chan struct{}
}

func (f *fakeFeed) FetchTeams(ctx context.Context, season string) ([]models.TeamInput, error) {
	atomic.AddInt32(&f.teamsCalls, 1)
	if f.block != nil {
		<-f.block
	}
	return f.teams, f.teamsErr
}

func (f *fakeFeed) FetchPlayers(ctx context.Context, season string) ([]models.PlayerInput, error) {
	return f.players, f.playersErr
}

func (f *fakeFeed) FetchGames(ctx context.Context, season string) ([]models.GameInput, error) {
	return f.games, nil
}

func (f *fakeFeed) FetchBoxScores(ctx context.Context, season string) ([]models.BoxScoreInput, error) {
	return f.boxScores, nil
}

func (f *fakeFeed) FetchSeasonStats(ctx context.Context, season string) ([]models.SeasonStatsInput, error) {
	return f.seasonStats, nil
}

// memStores backs the store interfaces with maps so pipeline behavior
// can be tested without a database
type memStores struct {
	teams       map[string]*models.Team
	players     map[string]*models.Player
	games       map[string]*models.Game
	seasonStats map[string]*models.SeasonStats
	boxScores   map[string]*models.BoxScore
	nextID      int
}

func newMemStores() *memStores {
	return &memStores{
		teams:       make(map[string]*models.Team),
		players:     make(map[string]*models.Player),
		games:       make(map[string]*models.Game),
		seasonStats: make(map[string]*models.SeasonStats),
		boxScores:   make(map[string]*models.BoxScore),
	}
}

func (m *memStores) id() int {
	m.nextID++
	return m.nextID
}

type memTeamStore struct{ m *memStores }

func (s memTeamStore) Upsert(ctx context.Context, team *models.Team) (bool, error) {
	if existing, ok := s.m.teams[team.Code]; ok {
		team.ID = existing.ID
		s.m.teams[team.Code] = team
		return false, nil
	}
	team.ID = s.m.id()
	s.m.teams[team.Code] = team
	return true, nil
}

func (s memTeamStore) GetByCode(ctx context.Context, code string) (*models.Team, error) {
	team, ok := s.m.teams[code]
	if !ok {
		return nil, fmt.Errorf("team code=%s: %w", code, repository.ErrNotFound)
	}
	return team, nil
}

func (s memTeamStore) Count(ctx context.Context) (int, error) { return len(s.m.teams), nil }

type memPlayerStore struct{ m *memStores }

func (s memPlayerStore) Upsert(ctx context.Context, player *models.Player) (bool, error) {
	if existing, ok := s.m.players[player.PlayerCode]; ok {
		player.ID = existing.ID
		s.m.players[player.PlayerCode] = player
		return false, nil
	}
	player.ID = s.m.id()
	s.m.players[player.PlayerCode] = player
	return true, nil
}

func (s memPlayerStore) GetByCode(ctx context.Context, code string) (*models.Player, error) {
	player, ok := s.m.players[code]
	if !ok {
		return nil, fmt.Errorf("player code=%s: %w", code, repository.ErrNotFound)
	}
	return player, nil
}

func (s memPlayerStore) Count(ctx context.Context) (int, error) { return len(s.m.players), nil }

type memGameStore struct{ m *memStores }

func gameKey(season string, code int) string { return fmt.Sprintf("%s/%d", season, code) }

func (s memGameStore) Upsert(ctx context.Context, game *models.Game) (bool, error) {
	key := gameKey(game.Season, game.GameCode)
	if existing, ok := s.m.games[key]; ok {
		game.ID = existing.ID
		s.m.games[key] = game
		return false, nil
	}
	game.ID = s.m.id()
	s.m.games[key] = game
	return true, nil
}

func (s memGameStore) GetByCode(ctx context.Context, season string, gameCode int) (*models.Game, error) {
	game, ok := s.m.games[gameKey(season, gameCode)]
	if !ok {
		return nil, fmt.Errorf("game season=%s game_code=%d: %w", season, gameCode, repository.ErrNotFound)
	}
	return game, nil
}

func (s memGameStore) Count(ctx context.Context) (int, error) { return len(s.m.games), nil }

type memSeasonStatsStore struct{ m *memStores }

func (s memSeasonStatsStore) Upsert(ctx context.Context, stats *models.SeasonStats) (bool, error) {
	key := fmt.Sprintf("%d/%s", stats.PlayerID, stats.Season)
	if existing, ok := s.m.seasonStats[key]; ok {
		stats.ID = existing.ID
		s.m.seasonStats[key] = stats
		return false, nil
	}
	stats.ID = s.m.id()
	s.m.seasonStats[key] = stats
	return true, nil
}

type memBoxScoreStore struct{ m *memStores }

func (s memBoxScoreStore) Upsert(ctx context.Context, box *models.BoxScore) (bool, error) {
	key := fmt.Sprintf("%d/%d", box.GameID, box.PlayerID)
	if existing, ok := s.m.boxScores[key]; ok {
		box.ID = existing.ID
		s.m.boxScores[key] = box
		return false, nil
	}
	box.ID = s.m.id()
	s.m.boxScores[key] = box
	return true, nil
}

func storesOver(m *memStores) Stores {
	return Stores{
		Teams:       memTeamStore{m},
		Players:     memPlayerStore{m},
		Games:       memGameStore{m},
		SeasonStats: memSeasonStatsStore{m},
		BoxScores:   memBoxScoreStore{m},
	}
}

func fullSeasonFeed() *fakeFeed {
	return &fakeFeed{
		teams: []models.TeamInput{
			{Code: "MAD", Name: "Real Madrid"},
			{Code: "BAR", Name: "Barcelona"},
		},
		players: []models.PlayerInput{
			{Code: "P001", Name: "S. Llull", TeamCode: "MAD", Season: "E2023"},
			{Code: "P002", Name: "N. Laprovittola", TeamCode: "BAR", Season: "E2023"},
		},
		games: []models.GameInput{
			{Code: 101, Season: "E2023", Round: 1, Date: "2023-10-05", HomeCode: "MAD", AwayCode: "BAR", Played: true},
		},
		boxScores: []models.BoxScoreInput{
			{GameCode: 101, PlayerCode: "P001", TeamCode: "MAD", Points: 15},
			{GameCode: 101, PlayerCode: "P002", TeamCode: "BAR", Points: 12},
		},
		seasonStats: []models.SeasonStatsInput{
			{PlayerCode: "P001", Season: "E2023", GamesPlayed: 1, Points: 15},
			{PlayerCode: "P002", Season: "E2023", GamesPlayed: 1, Points: 12},
		},
	}
}

func TestRunAll_FullSequence(t *testing.T) {
	ctx := context.Background()
	orch := NewOrchestrator(fullSeasonFeed(), storesOver(newMemStores()))

	results, err := orch.RunAll(ctx, "E2023")
	require.NoError(t, err)
	require.Len(t, results, 5, "All five pipelines should run")

	expected := []string{"teams", "players", "games", "box_scores", "season_stats"}
	for i, result := range results {
		assert.Equal(t, expected[i], result.Pipeline, "Pipelines should run in dependency order")
		assert.Equal(t, StatusSuccess, result.Status)
		assert.Zero(t, result.Errors)
	}

	assert.Equal(t, 2, results[0].Inserted, "Both teams should be inserted")
	assert.Equal(t, 2, results[1].Inserted, "Both players should be inserted")
	assert.Equal(t, 1, results[2].Inserted)
	assert.Equal(t, 2, results[3].Inserted)
	assert.Equal(t, 2, results[4].Inserted)
}

func TestRunAll_Idempotent(t *testing.T) {
	ctx := context.Background()
	orch := NewOrchestrator(fullSeasonFeed(), storesOver(newMemStores()))

	_, err := orch.RunAll(ctx, "E2023")
	require.NoError(t, err)

	results, err := orch.RunAll(ctx, "E2023")
	require.NoError(t, err)

	for _, result := range results {
		assert.Zero(t, result.Inserted, "%s: second run should insert nothing", result.Pipeline)
		assert.Equal(t, result.TotalProcessed, result.Updated, "%s: second run should update every record", result.Pipeline)
		assert.Zero(t, result.Errors, "%s: second run should not error", result.Pipeline)
	}
}

func TestRunAll_MissingReferenceSkipsRecord(t *testing.T) {
	ctx := context.Background()
	feed := fullSeasonFeed()
	feed.players = append(feed.players, models.PlayerInput{
		Code: "P999", Name: "Unknown Club Player", TeamCode: "NOPE", Season: "E2023",
	})

	orch := NewOrchestrator(feed, storesOver(newMemStores()))
	results, err := orch.RunAll(ctx, "E2023")
	require.NoError(t, err, "A skipped record must not fail the run")

	players := results[1]
	assert.Equal(t, StatusSuccess, players.Status)
	assert.Equal(t, 3, players.TotalProcessed)
	assert.Equal(t, 2, players.Inserted)
	assert.Equal(t, 1, players.Errors, "The dangling reference should be counted")
}

func TestRunAll_InvalidRecordSkipped(t *testing.T) {
	ctx := context.Background()
	feed := fullSeasonFeed()
	feed.teams = append(feed.teams, models.TeamInput{Name: "Codeless Club"})

	orch := NewOrchestrator(feed, storesOver(newMemStores()))
	results, err := orch.RunAll(ctx, "E2023")
	require.NoError(t, err)

	teams := results[0]
	assert.Equal(t, 3, teams.TotalProcessed)
	assert.Equal(t, 2, teams.Inserted)
	assert.Equal(t, 1, teams.Errors)
}

func TestRunAll_FetchFailureAbortsSequence(t *testing.T) {
	ctx := context.Background()
	feed := fullSeasonFeed()
	feed.playersErr = &client.RemoteServiceError{Endpoint: "players", Status: 503}

	orch := NewOrchestrator(feed, storesOver(newMemStores()))
	results, err := orch.RunAll(ctx, "E2023")
	require.Error(t, err)

	require.Len(t, results, 2, "Pipelines after the failure should not run")
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, StatusAPIError, results[1].Status, "Feed failures should classify as api_error")
}

func TestRunAll_NoDataIsNotFailure(t *testing.T) {
	ctx := context.Background()
	feed := fullSeasonFeed()
	feed.seasonStats = nil

	orch := NewOrchestrator(feed, storesOver(newMemStores()))
	results, err := orch.RunAll(ctx, "E2023")
	require.NoError(t, err, "An empty endpoint should not abort the sequence")
	assert.Equal(t, StatusNoData, results[4].Status)
}

func TestRunPipeline_Named(t *testing.T) {
	ctx := context.Background()
	orch := NewOrchestrator(fullSeasonFeed(), storesOver(newMemStores()))

	result, err := orch.RunPipeline(ctx, "teams", "E2023")
	require.NoError(t, err)
	assert.Equal(t, "teams", result.Pipeline)
	assert.Equal(t, 2, result.Inserted)

	_, err = orch.RunPipeline(ctx, "lineups", "E2023")
	assert.Error(t, err, "Unknown pipeline names should be rejected")
}

func TestHasData(t *testing.T) {
	ctx := context.Background()
	stores := newMemStores()
	orch := NewOrchestrator(fullSeasonFeed(), storesOver(stores))

	hasData, err := orch.HasData(ctx)
	require.NoError(t, err)
	assert.False(t, hasData, "Empty stores should report no data")

	_, err = orch.RunAll(ctx, "E2023")
	require.NoError(t, err)

	hasData, err = orch.HasData(ctx)
	require.NoError(t, err)
	assert.True(t, hasData, "Teams and players present should report data")
}

func TestEnsureDataPresent_SingleFlight(t *testing.T) {
	feed := fullSeasonFeed()
	feed.block = make(chan struct{})

	orch := NewOrchestrator(feed, storesOver(newMemStores()))

	orch.EnsureDataPresent("E2023")
	orch.EnsureDataPresent("E2023")
	orch.EnsureDataPresent("E2023")

	// Let the single in-flight bootstrap reach the blocked fetch
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&feed.teamsCalls) == 1
	}, time.Second, 10*time.Millisecond, "Exactly one bootstrap should start")

	close(feed.block)

	// After completion a new trigger is accepted again
	require.Eventually(t, func() bool {
		orch.EnsureDataPresent("E2023")
		return atomic.LoadInt32(&feed.teamsCalls) >= 2
	}, time.Second, 10*time.Millisecond, "A finished bootstrap should release the guard")
}

func TestClassifyFetchError(t *testing.T) {
	assert.Equal(t, StatusAPIError, classifyFetchError(&client.TransportError{Endpoint: "teams", Err: errors.New("refused")}))
	assert.Equal(t, StatusAPIError, classifyFetchError(&client.RemoteServiceError{Endpoint: "teams", Status: 500}))
	assert.Equal(t, StatusAPIError, classifyFetchError(&client.RateLimitError{Endpoint: "teams"}))
	assert.Equal(t, StatusCritical, classifyFetchError(errors.New("nil pointer dereference")))
}
