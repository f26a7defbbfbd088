package services

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"numberhunt/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func (c *memCache) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
}

func addOutcome(t *testing.T, db *gorm.DB, user models.User, round int, role, result string, points int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Outcome{
		UserID:      user.ID,
		PlayerID:    user.ID,
		RoomID:      uuid.New(),
		RoundNumber: round,
		Nickname:    user.Username,
		Role:        role,
		Result:      result,
		Points:      points,
	}).Error)
}

func TestLeaderboardEmptyHistory(t *testing.T) {
	db := freshDB(t)
	board := NewLeaderboardService(db, nil, time.Minute, time.UTC)
	ctx := context.Background()

	require.NoError(t, board.Recompute(ctx))

	got, err := board.Get(ctx, models.PeriodAllTime, 0)
	require.NoError(t, err)
	assert.Empty(t, got.Entries)
	assert.True(t, got.PeriodStart.Equal(time.Unix(0, 0)))

	_, err = board.Get(ctx, "yearly", 0)
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestLeaderboardRecompute(t *testing.T) {
	db := freshDB(t)
	cache := newMemCache()
	board := NewLeaderboardService(db, cache, time.Minute, time.UTC)
	users := newUsers(t, db, 3)
	ctx := context.Background()

	addOutcome(t, db, users[0], 1, models.RoleDetective, models.ResultWin, 2)
	addOutcome(t, db, users[1], 1, models.RoleImposter, models.ResultLoss, 0)
	addOutcome(t, db, users[2], 1, models.RoleDetective, models.ResultWin, 2)
	require.NoError(t, board.Recompute(ctx))

	for _, period := range models.Periods {
		got, err := board.Get(ctx, period, 0)
		require.NoError(t, err)
		require.Len(t, got.Entries, 3, period)
		assert.Equal(t, []uint{users[0].ID, users[2].ID, users[1].ID},
			[]uint{got.Entries[0].UserID, got.Entries[1].UserID, got.Entries[2].UserID}, period)
		assert.Equal(t, []int{1, 1, 2},
			[]int{got.Entries[0].Rank, got.Entries[1].Rank, got.Entries[2].Rank}, period)
	}
	_, cached := cache.Get(ctx, leaderboardCacheKey+models.PeriodAllTime)
	assert.True(t, cached)

	top, err := board.Get(ctx, models.PeriodAllTime, 1)
	require.NoError(t, err)
	assert.Len(t, top.Entries, 1)

	// users[1] drops out of the ledger; their row must not linger.
	require.NoError(t, db.Where("user_id = ?", users[1].ID).Delete(&models.Outcome{}).Error)
	require.NoError(t, board.Recompute(ctx))

	_, cached = cache.Get(ctx, leaderboardCacheKey+models.PeriodAllTime)
	assert.False(t, cached, "recompute invalidates the cache")

	got, err := board.Get(ctx, models.PeriodAllTime, 0)
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	for _, e := range got.Entries {
		assert.NotEqual(t, users[1].ID, e.UserID)
		assert.Equal(t, 2, e.TotalScore)
		assert.Equal(t, 1, e.DetectiveWins)
	}

	var rows int64
	require.NoError(t, db.Model(&models.LeaderboardEntry{}).
		Where("period = ?", models.PeriodAllTime).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)
}

func TestReconcileAndResetUser(t *testing.T) {
	db := freshDB(t)
	board := NewLeaderboardService(db, nil, time.Minute, time.UTC)
	user := newUsers(t, db, 1)[0]
	ctx := context.Background()

	addOutcome(t, db, user, 1, models.RoleImposter, models.ResultWin, 3)
	addOutcome(t, db, user, 2, models.RoleDetective, models.ResultWin, 1)
	addOutcome(t, db, user, 3, models.RoleDetective, models.ResultLoss, 0)
	require.NoError(t, db.Create(&models.GameRecord{
		UserID: user.ID, RoomID: uuid.New(), RoomName: "r", Nickname: "n", FinalScore: 4,
	}).Error)

	require.NoError(t, db.Model(&user).Update("total_score", 999).Error)

	fixed, err := board.ReconcileUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, fixed.TotalScore)
	assert.Equal(t, 2, fixed.TotalWins)
	assert.Equal(t, 1, fixed.TotalImposterWins)
	assert.Equal(t, 1, fixed.TotalDetectiveWins)
	assert.Equal(t, 1, fixed.TotalGames)

	require.NoError(t, board.Recompute(ctx))
	require.NoError(t, board.ResetUser(ctx, user.ID))

	var reset models.User
	require.NoError(t, db.First(&reset, user.ID).Error)
	assert.Zero(t, reset.TotalScore)
	assert.Zero(t, reset.TotalGames)

	var rows int64
	require.NoError(t, db.Model(&models.LeaderboardEntry{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.Zero(t, rows)

	restored, err := board.ReconcileUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, restored.TotalScore, "the ledger survives a reset")

	assert.ErrorIs(t, board.ResetUser(ctx, 9999), ErrUserNotFound)
	_, err = board.ReconcileUser(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestHistory(t *testing.T) {
	db := freshDB(t)
	board := NewLeaderboardService(db, nil, time.Minute, time.UTC)
	user := newUsers(t, db, 1)[0]
	ctx := context.Background()

	for round := 1; round <= 3; round++ {
		addOutcome(t, db, user, round, models.RoleDetective, models.ResultWin, 2)
	}

	h, err := board.History(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, h.Outcomes, 2)
	assert.Equal(t, 3, h.Outcomes[0].RoundNumber)
	assert.Empty(t, h.Games)
}

func TestReconcileReportsRoleCounterDrift(t *testing.T) {
	db := freshDB(t)
	board := NewLeaderboardService(db, nil, time.Minute, time.UTC)
	user := newUsers(t, db, 1)[0]
	ctx := context.Background()

	addOutcome(t, db, user, 1, models.RoleImposter, models.ResultWin, 3)
	require.NoError(t, db.Model(&user).Updates(map[string]interface{}{
		"total_score":          3,
		"total_wins":           1,
		"total_detective_wins": 1,
	}).Error)

	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	fixed, err := board.ReconcileUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed.TotalImposterWins)
	assert.Zero(t, fixed.TotalDetectiveWins)
	assert.Contains(t, buf.String(), "user counters drifted from ledger")

	buf.Reset()
	_, err = board.ReconcileUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "drifted", "a consistent user is not reported")
}
