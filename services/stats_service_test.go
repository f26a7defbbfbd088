package services

import (
	"context"
	"testing"
	"time"

	"numberhunt/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentStreaks(t *testing.T) {
	t.Parallel()

	w, l := models.ResultWin, models.ResultLoss
	testCases := []struct {
		description string
		results     []string
		expected    Streaks
	}{
		{"no games", nil, Streaks{}},
		{"single win", []string{w}, Streaks{Win: 1}},
		{"wins then loss", []string{w, w, w, l, w}, Streaks{Win: 3}},
		{"losses then win", []string{l, l, w}, Streaks{Loss: 2}},
		{"all losses", []string{l, l, l, l}, Streaks{Loss: 4}},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, CurrentStreaks(tc.results))
		})
	}
}

func TestDetailedStats(t *testing.T) {
	db := freshDB(t)
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	board := NewLeaderboardService(db, nil, time.Minute, time.UTC)
	board.now = func() time.Time { return now }
	user := newUsers(t, db, 1)[0]
	ctx := context.Background()

	rows := []struct {
		age      time.Duration
		role     string
		result   string
		points   int
		category string
	}{
		{60 * 24 * time.Hour, models.RoleImposter, models.ResultLoss, 0, models.CategoryLifestyle},
		{3 * time.Hour, models.RoleDetective, models.ResultLoss, 0, models.CategoryGeneral},
		{2 * time.Hour, models.RoleImposter, models.ResultWin, 3, models.CategoryLifestyle},
		{time.Hour, models.RoleDetective, models.ResultWin, 2, models.CategoryLifestyle},
	}
	for i, r := range rows {
		require.NoError(t, db.Create(&models.Outcome{
			UserID: user.ID, PlayerID: user.ID, RoomID: uuid.New(), RoundNumber: i + 1,
			Nickname: user.Username, Role: r.role, Category: r.category,
			Result: r.result, Points: r.points, CreatedAt: now.Add(-r.age),
		}).Error)
	}

	stats, err := board.DetailedStats(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.AllTime.Games)
	assert.Equal(t, 5, stats.AllTime.Score)
	assert.Equal(t, 2, stats.AllTime.ImposterGames)
	assert.InDelta(t, 50.0, stats.AllTime.ImposterSuccessRate, 0.001)

	assert.Equal(t, 3, stats.Recent.Games, "the 60 day old round is outside the window")
	assert.Equal(t, 2, stats.Recent.Wins)
	assert.Equal(t, 1, stats.Recent.DetectiveWins)
	assert.InDelta(t, 200.0/3, stats.Recent.WinRate, 0.001)

	require.Len(t, stats.Categories, 2)
	assert.Equal(t, CategoryStats{Category: models.CategoryLifestyle, Games: 3, Wins: 2, Score: 5}, stats.Categories[0])
	assert.Equal(t, CategoryStats{Category: models.CategoryGeneral, Games: 1, Wins: 0, Score: 0}, stats.Categories[1])

	assert.Equal(t, Streaks{Win: 2}, stats.Streaks)

	_, err = board.DetailedStats(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGlobalStats(t *testing.T) {
	tb := seatTable(t, 3, 1, imposterIsP2())
	ctx := context.Background()
	cache := newMemCache()
	board := NewLeaderboardService(tb.db, cache, time.Minute, time.UTC)

	_, err := tb.games.StartGame(ctx, tb.room.ID, tb.users[0].ID)
	require.NoError(t, err)
	playRound(t, tb)
	_, err = tb.games.Advance(ctx, tb.room.ID, tb.users[0].ID)
	require.NoError(t, err)

	var round models.Round
	require.NoError(t, tb.db.Where("room_id = ?", tb.room.ID).First(&round).Error)
	var question models.Question
	require.NoError(t, tb.db.First(&question, round.QuestionID).Error)

	stats, err := board.GlobalStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.TotalGames)
	assert.EqualValues(t, 1, stats.TotalRounds)
	assert.Len(t, stats.MostActive, 3)
	assert.Equal(t, []CategoryCount{{Category: question.Category, Rounds: 1}}, stats.Categories)
	assert.Zero(t, stats.ImposterWinRate, "the imposter was caught")

	_, cached := cache.Get(ctx, globalStatsCacheKey)
	assert.True(t, cached)

	// Deleting the room keeps the ledger-backed totals.
	require.NoError(t, tb.rooms.DeleteRoom(ctx, tb.room.ID, true))
	require.NoError(t, board.Recompute(ctx))
	_, cached = cache.Get(ctx, globalStatsCacheKey)
	assert.False(t, cached, "recompute invalidates global stats")

	stats, err = board.GlobalStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalGames)
	assert.EqualValues(t, 1, stats.TotalRounds)
}
