//go:build integration

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
)

func insertTestTeam(t *testing.T, ctx context.Context, db *Database, code, name string) *models.Team {
	t.Helper()

	team := &models.Team{Code: code, Name: name}
	_, err := db.Teams.Upsert(ctx, team)
	require.NoError(t, err, "Should insert team")
	return team
}

func TestGameRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	home := insertTestTeam(t, ctx, db, "MAD", "Real Madrid")
	away := insertTestTeam(t, ctx, db, "BAR", "Barcelona")

	game := &models.Game{
		GameCode:   901,
		Season:     "E2023",
		Round:      1,
		GameDate:   time.Date(2023, 10, 5, 0, 0, 0, 0, time.UTC),
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
	}

	inserted, err := db.Games.Upsert(ctx, game)
	require.NoError(t, err, "Should insert scheduled game")
	assert.True(t, inserted)
	assert.False(t, game.HomeScore.Valid, "Scheduled game should carry no score")

	// Re-ingest after the game was played
	game.HomeScore = sql.NullInt32{Int32: 95, Valid: true}
	game.AwayScore = sql.NullInt32{Int32: 88, Valid: true}
	game.Played = true

	inserted, err = db.Games.Upsert(ctx, game)
	require.NoError(t, err, "Should update played game")
	assert.False(t, inserted, "Same (season, game_code) should update in place")

	retrieved, err := db.Games.GetByCode(ctx, "E2023", 901)
	require.NoError(t, err)
	assert.True(t, retrieved.Played)
	assert.Equal(t, int32(95), retrieved.HomeScore.Int32)
}

func TestGameRepository_ListBySeason(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	home := insertTestTeam(t, ctx, db, "PAN", "Panathinaikos")
	away := insertTestTeam(t, ctx, db, "OLY", "Olympiacos")

	for i, code := range []int{911, 912} {
		game := &models.Game{
			GameCode:   code,
			Season:     "E2023",
			Round:      i + 1,
			GameDate:   time.Date(2023, 10, 5+i*7, 0, 0, 0, 0, time.UTC),
			HomeTeamID: home.ID,
			AwayTeamID: away.ID,
		}
		_, err := db.Games.Upsert(ctx, game)
		require.NoError(t, err, "Should insert game")
	}

	games, err := db.Games.ListBySeason(ctx, "E2023")
	require.NoError(t, err, "Should list games")
	assert.GreaterOrEqual(t, len(games), 2, "Should have at least 2 games")
}
