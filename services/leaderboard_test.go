package services

import (
	"testing"
	"time"

	"numberhunt/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windowFor(t *testing.T, windows []Window, period string) Window {
	t.Helper()
	for _, w := range windows {
		if w.Period == period {
			return w
		}
	}
	t.Fatalf("no window for %s", period)
	return Window{}
}

func TestPeriodWindows(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	// Thursday
	now := time.Date(2026, time.October, 15, 14, 30, 0, 0, loc)
	windows := PeriodWindows(now, loc)
	require.Len(t, windows, 4)

	daily := windowFor(t, windows, models.PeriodDaily)
	assert.Equal(t, time.Date(2026, time.October, 15, 0, 0, 0, 0, loc), daily.Start)
	assert.Equal(t, time.Date(2026, time.October, 15, 23, 59, 59, 999999999, loc), daily.End)

	weekly := windowFor(t, windows, models.PeriodWeekly)
	assert.Equal(t, time.Date(2026, time.October, 12, 0, 0, 0, 0, loc), weekly.Start)
	assert.Equal(t, now, weekly.End)

	monthly := windowFor(t, windows, models.PeriodMonthly)
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, loc), monthly.Start)

	allTime := windowFor(t, windows, models.PeriodAllTime)
	assert.True(t, allTime.Start.Equal(time.Unix(0, 0)))
	assert.Equal(t, now, allTime.End)
}

func TestPeriodWindowsWeekStartsOnMonday(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	sunday := time.Date(2026, time.October, 18, 9, 0, 0, 0, loc)
	monday := time.Date(2026, time.October, 19, 9, 0, 0, 0, loc)

	assert.Equal(t, time.Date(2026, time.October, 12, 0, 0, 0, 0, loc), windowFor(t, PeriodWindows(sunday, loc), models.PeriodWeekly).Start)
	assert.Equal(t, time.Date(2026, time.October, 19, 0, 0, 0, 0, loc), windowFor(t, PeriodWindows(monday, loc), models.PeriodWeekly).Start)
}

func TestPeriodWindowsUsesReferenceLocation(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*3600)
	// 20:00 UTC on the 15th is already the 16th in Tokyo.
	now := time.Date(2026, time.October, 15, 20, 0, 0, 0, time.UTC)

	daily := windowFor(t, PeriodWindows(now, tokyo), models.PeriodDaily)
	assert.Equal(t, 16, daily.Start.Day())
	assert.True(t, daily.Contains(now))
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	today := now.Add(-time.Hour)
	lastMonth := now.AddDate(0, -1, 0)

	outcomes := []models.Outcome{
		{UserID: 1, Role: models.RoleImposter, Result: models.ResultWin, Points: 3, CreatedAt: today},
		{UserID: 1, Role: models.RoleDetective, Result: models.ResultLoss, Points: 0, CreatedAt: today},
		{UserID: 2, Role: models.RoleDetective, Result: models.ResultWin, Points: 2, CreatedAt: today},
		{UserID: 2, Role: models.RoleDetective, Result: models.ResultWin, Points: 1, CreatedAt: today},
		{UserID: 3, Role: models.RoleDetective, Result: models.ResultWin, Points: 2, CreatedAt: today},
		{UserID: 4, Role: models.RoleImposter, Result: models.ResultWin, Points: 3, CreatedAt: lastMonth},
	}

	windows := PeriodWindows(now, time.UTC)

	daily := Aggregate(outcomes, windowFor(t, windows, models.PeriodDaily))
	require.Len(t, daily, 3)

	assert.Equal(t, uint(2), daily[0].UserID)
	assert.Equal(t, 3, daily[0].Score)
	assert.Equal(t, 2, daily[0].Wins)
	assert.Equal(t, 1, daily[0].Rank)
	assert.Equal(t, 2, daily[0].DetectiveWins)

	assert.Equal(t, uint(1), daily[1].UserID)
	assert.Equal(t, 2, daily[1].Rank)
	assert.Equal(t, 1, daily[1].ImposterGames)
	assert.Equal(t, 1, daily[1].ImposterWins)
	assert.Equal(t, 1, daily[1].DetectiveGames)
	assert.Zero(t, daily[1].DetectiveWins)

	assert.Equal(t, uint(3), daily[2].UserID)
	assert.Equal(t, 3, daily[2].Rank)

	allTime := Aggregate(outcomes, windowFor(t, windows, models.PeriodAllTime))
	require.Len(t, allTime, 4)
	// user 4 ties user 1 on score and wins and shares the dense rank.
	assert.Equal(t, uint(1), allTime[1].UserID)
	assert.Equal(t, uint(4), allTime[2].UserID)
	assert.Equal(t, allTime[1].Rank, allTime[2].Rank)
	assert.Equal(t, 3, allTime[3].Rank)
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	w := PeriodWindows(time.Now(), time.UTC)[0]
	assert.Empty(t, Aggregate(nil, w))
}
