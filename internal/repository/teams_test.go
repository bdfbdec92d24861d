//go:build integration

package repository

import (
	"database/sql"
	"testing"

	"cfbrank/engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := &models.Team{
		TeamCode:       "ALA",
		SchoolName:     "Alabama",
		Conference:     "SEC",
		Tier:           models.TierPower,
		Season:         2025,
		RecruitingRank: sql.NullInt32{Int32: 2, Valid: true},
	}

	// Insert new team
	err := db.Teams.Upsert(ctx, team)
	require.NoError(t, err, "Should successfully insert team")
	assert.NotZero(t, team.ID, "Upsert should populate the database ID")

	// Verify team was created
	retrieved, err := db.Teams.GetTeam(ctx, team.ID)
	require.NoError(t, err, "Should retrieve inserted team")
	require.NotNil(t, retrieved)
	assert.Equal(t, team.TeamCode, retrieved.TeamCode, "Team codes should match")
	assert.Equal(t, team.SchoolName, retrieved.SchoolName, "School names should match")

	// Update existing team
	team.RecruitingRank = sql.NullInt32{Int32: 1, Valid: true}
	err = db.Teams.Upsert(ctx, team)
	require.NoError(t, err, "Should successfully update team")

	// Verify update
	updated, err := db.Teams.GetTeam(ctx, team.ID)
	require.NoError(t, err, "Should retrieve updated team")
	assert.Equal(t, int32(1), updated.RecruitingRank.Int32, "Recruiting rank should be updated")
}

func TestTeamRepository_GetByCode(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := &models.Team{
		TeamCode:   "CLEM",
		SchoolName: "Clemson",
		Conference: "ACC",
		Tier:       models.TierPower,
		Season:     2025,
	}

	err := db.Teams.Upsert(ctx, team)
	require.NoError(t, err, "Should insert team")

	// Get by code
	retrieved, err := db.Teams.GetByTeamCode(ctx, "CLEM", 2025)
	require.NoError(t, err, "Should retrieve team by code")
	assert.Equal(t, team.ID, retrieved.ID, "Team IDs should match")
	assert.Equal(t, "Clemson", retrieved.SchoolName, "School names should match")
}

func TestTeamRepository_SetInitialRating(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := &models.Team{
		TeamCode:   "ORE",
		SchoolName: "Oregon",
		Conference: "Big Ten",
		Tier:       models.TierPower,
		Season:     2025,
	}
	require.NoError(t, db.Teams.Upsert(ctx, team), "Should insert team")

	// Seed the team
	err := db.Teams.SetInitialRating(ctx, team.ID, 1610, false)
	require.NoError(t, err, "Should seed unseeded team")

	seeded, err := db.Teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1610.0, seeded.Rating, 1e-9, "Rating should match the seed")
	require.True(t, seeded.InitialRating.Valid, "Initial rating should be set")
	assert.InDelta(t, 1610.0, seeded.InitialRating.Float64, 1e-9)

	// Re-seeding without reset must not overwrite
	err = db.Teams.SetInitialRating(ctx, team.ID, 1400, false)
	require.NoError(t, err, "Re-seed without reset should be a silent no-op")

	unchanged, err := db.Teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1610.0, unchanged.Rating, 1e-9, "Seed should not be overwritten")

	// Reset re-seeds and clears the record
	err = db.Teams.SetInitialRating(ctx, team.ID, 1550, true)
	require.NoError(t, err, "Reset should re-seed")

	reset, err := db.Teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1550.0, reset.Rating, 1e-9, "Reset should apply the new seed")
	assert.Zero(t, reset.Wins, "Reset should zero the record")
	assert.Zero(t, reset.Losses, "Reset should zero the record")
}

func TestTeamRepository_List(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	// Insert multiple teams
	teams := []*models.Team{
		{TeamCode: "OSU", SchoolName: "Ohio State", Conference: "Big Ten", Tier: models.TierPower, Season: 2025},
		{TeamCode: "MICH", SchoolName: "Michigan", Conference: "Big Ten", Tier: models.TierPower, Season: 2025},
		{TeamCode: "GA", SchoolName: "Georgia", Conference: "SEC", Tier: models.TierPower, Season: 2025},
	}

	for _, team := range teams {
		err := db.Teams.Upsert(ctx, team)
		require.NoError(t, err, "Should insert team")
	}

	// List all teams for the season
	allTeams, err := db.Teams.ListTeams(ctx, 2025)
	require.NoError(t, err, "Should list teams")
	assert.GreaterOrEqual(t, len(allTeams), 3, "Should have at least 3 teams")
}

func TestTeamRepository_GetNotFound(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	// Non-existent team resolves to nil, not an error
	team, err := db.Teams.GetTeam(ctx, 99999)
	require.NoError(t, err, "Missing team should not be an error")
	assert.Nil(t, team, "Missing team should be nil")
}
