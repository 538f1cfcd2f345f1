//go:build integration

package repository

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzaragozaserrano/euroleague-stats-ai-sub000/internal/models"
)

func TestTeamRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := &models.Team{
		Code:    "MAD",
		Name:    "Real Madrid",
		LogoURL: sql.NullString{String: "https://cdn.example.com/mad.png", Valid: true},
	}

	// Insert new team
	inserted, err := db.Teams.Upsert(ctx, team)
	require.NoError(t, err, "Should successfully insert team")
	assert.True(t, inserted, "First upsert should report an insert")
	assert.NotZero(t, team.ID, "Insert should populate the id")

	// Upsert again with a change
	team.Name = "Real Madrid Baloncesto"
	inserted, err = db.Teams.Upsert(ctx, team)
	require.NoError(t, err, "Should successfully update team")
	assert.False(t, inserted, "Second upsert should report an update")

	// Verify update
	updated, err := db.Teams.GetByCode(ctx, "MAD")
	require.NoError(t, err, "Should retrieve updated team")
	assert.Equal(t, "Real Madrid Baloncesto", updated.Name, "Name should be updated")
	assert.Equal(t, team.ID, updated.ID, "Id should be stable across upserts")
}

func TestTeamRepository_GetNotFound(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Teams.GetByCode(ctx, "NOPE")
	require.Error(t, err, "Should return error for non-existent team")
	assert.True(t, errors.Is(err, ErrNotFound), "Missing team should map to the not-found sentinel")
}

func TestTeamRepository_List(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	teams := []*models.Team{
		{Code: "BAR", Name: "Barcelona"},
		{Code: "PAN", Name: "Panathinaikos"},
		{Code: "OLY", Name: "Olympiacos"},
	}

	for _, team := range teams {
		_, err := db.Teams.Upsert(ctx, team)
		require.NoError(t, err, "Should insert team")
	}

	allTeams, err := db.Teams.List(ctx)
	require.NoError(t, err, "Should list teams")
	assert.GreaterOrEqual(t, len(allTeams), 3, "Should have at least 3 teams")
}
