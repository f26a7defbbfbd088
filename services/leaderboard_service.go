package services

import (
	"context"
	"encoding/json"
	"time"

	"numberhunt/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 100
	DefaultHistoryLimit     = 50
	maxHistoryLimit         = 200

	leaderboardCacheKey = "leaderboard:"
)

type LeaderboardService struct {
	db    *gorm.DB
	cache Cache
	ttl   time.Duration
	loc   *time.Location
	now   func() time.Time
}

// NewLeaderboardService builds the aggregator. A nil cache disables caching; windows are
// computed in loc.
func NewLeaderboardService(db *gorm.DB, cache Cache, ttl time.Duration, loc *time.Location) *LeaderboardService {
	if cache == nil {
		cache = noopCache{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &LeaderboardService{db: db, cache: cache, ttl: ttl, loc: loc, now: time.Now}
}

type Leaderboard struct {
	Period      string                    `json:"period"`
	PeriodStart time.Time                 `json:"period_start"`
	PeriodEnd   time.Time                 `json:"period_end"`
	Entries     []models.LeaderboardEntry `json:"entries"`
}

type History struct {
	Outcomes []models.Outcome    `json:"outcomes"`
	Games    []models.GameRecord `json:"games"`
}

// Recompute rebuilds every period from the outcome ledger. Each (user, period,
// period_start) row is overwritten; rows for users who fell out of a window are removed.
func (s *LeaderboardService) Recompute(ctx context.Context) error {
	started := time.Now()
	windows := PeriodWindows(s.now(), s.loc)

	var outcomes []models.Outcome
	if err := s.db.WithContext(ctx).
		Select("user_id", "role", "result", "points", "created_at").
		Find(&outcomes).Error; err != nil {
		return dbError(err, nil)
	}

	userIDs := make(map[uint]struct{})
	for _, o := range outcomes {
		userIDs[o.UserID] = struct{}{}
	}
	names, err := s.usernames(ctx, userIDs)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, w := range windows {
			standings := Aggregate(outcomes, w)

			keep := make([]uint, len(standings))
			for i, st := range standings {
				keep[i] = st.UserID
			}
			stale := tx.Where("period = ? AND period_start = ?", w.Period, w.Start)
			if len(keep) > 0 {
				stale = stale.Where("user_id NOT IN ?", keep)
			}
			if err := stale.Delete(&models.LeaderboardEntry{}).Error; err != nil {
				return err
			}
			if len(standings) == 0 {
				continue
			}

			entries := make([]models.LeaderboardEntry, len(standings))
			for i, st := range standings {
				entries[i] = models.LeaderboardEntry{
					UserID:         st.UserID,
					Username:       names[st.UserID],
					Period:         w.Period,
					PeriodStart:    w.Start,
					PeriodEnd:      w.End,
					TotalGames:     st.Games,
					TotalWins:      st.Wins,
					TotalScore:     st.Score,
					ImposterGames:  st.ImposterGames,
					ImposterWins:   st.ImposterWins,
					DetectiveGames: st.DetectiveGames,
					DetectiveWins:  st.DetectiveWins,
					Rank:           st.Rank,
				}
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "period"}, {Name: "period_start"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"username", "period_end", "total_games", "total_wins", "total_score",
					"imposter_games", "imposter_wins", "detective_games", "detective_wins",
					"rank", "updated_at",
				}),
			}).Create(&entries).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dbError(err, nil)
	}

	s.invalidate(ctx)
	log.Info().Int("outcomes", len(outcomes)).Dur("took", time.Since(started)).Msg("leaderboard recomputed")
	return nil
}

func (s *LeaderboardService) usernames(ctx context.Context, ids map[uint]struct{}) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	list := make([]uint, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Unscoped().Select("id", "username").Where("id IN ?", list).Find(&users).Error; err != nil {
		return nil, dbError(err, nil)
	}
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}

func (s *LeaderboardService) invalidate(ctx context.Context) {
	keys := make([]string, 0, len(models.Periods)+1)
	for _, p := range models.Periods {
		keys = append(keys, leaderboardCacheKey+p)
	}
	s.cache.Delete(ctx, append(keys, globalStatsCacheKey)...)
}

// Get returns the newest stored standings for period, ranked.
func (s *LeaderboardService) Get(ctx context.Context, period string, limit int) (*Leaderboard, error) {
	if !models.ValidPeriod(period) {
		return nil, ErrUnknownPeriod
	}
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	board, err := s.load(ctx, period)
	if err != nil {
		return nil, err
	}

	out := *board
	if len(out.Entries) > limit {
		out.Entries = out.Entries[:limit]
	}
	return &out, nil
}

func (s *LeaderboardService) load(ctx context.Context, period string) (*Leaderboard, error) {
	key := leaderboardCacheKey + period
	if data, ok := s.cache.Get(ctx, key); ok {
		var board Leaderboard
		if err := json.Unmarshal(data, &board); err == nil {
			return &board, nil
		}
		log.Warn().Str("period", period).Msg("discarding unreadable cached leaderboard")
	}

	db := s.db.WithContext(ctx)
	board := &Leaderboard{Period: period, Entries: []models.LeaderboardEntry{}}

	var latest []models.LeaderboardEntry
	if err := db.Where("period = ?", period).Order("period_start DESC").Limit(1).Find(&latest).Error; err != nil {
		return nil, dbError(err, nil)
	}
	if len(latest) == 0 {
		for _, w := range PeriodWindows(s.now(), s.loc) {
			if w.Period == period {
				board.PeriodStart, board.PeriodEnd = w.Start, w.End
			}
		}
		return board, nil
	}

	board.PeriodStart = latest[0].PeriodStart
	board.PeriodEnd = latest[0].PeriodEnd
	if err := db.Where("period = ? AND period_start = ?", period, board.PeriodStart).
		Order("rank, user_id").
		Find(&board.Entries).Error; err != nil {
		return nil, dbError(err, nil)
	}

	if data, err := json.Marshal(board); err == nil {
		s.cache.Set(ctx, key, data, s.ttl)
	}
	return board, nil
}

// ReconcileUser rebuilds a user's running counters from the outcome ledger and game
// records, repairing any drift.
func (s *LeaderboardService) ReconcileUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return dbError(err, ErrUserNotFound)
		}

		var totals struct {
			Score         int
			Wins          int
			ImposterWins  int
			DetectiveWins int
		}
		if err := tx.Model(&models.Outcome{}).
			Select(`COALESCE(SUM(points), 0) AS score,
				COUNT(*) FILTER (WHERE result = ?) AS wins,
				COUNT(*) FILTER (WHERE result = ? AND role = ?) AS imposter_wins,
				COUNT(*) FILTER (WHERE result = ? AND role = ?) AS detective_wins`,
				models.ResultWin,
				models.ResultWin, models.RoleImposter,
				models.ResultWin, models.RoleDetective).
			Where("user_id = ?", userID).
			Scan(&totals).Error; err != nil {
			return err
		}

		var games int64
		if err := tx.Model(&models.GameRecord{}).Where("user_id = ?", userID).Count(&games).Error; err != nil {
			return err
		}

		drift := user.TotalScore != totals.Score ||
			user.TotalWins != totals.Wins ||
			user.TotalImposterWins != totals.ImposterWins ||
			user.TotalDetectiveWins != totals.DetectiveWins ||
			user.TotalGames != int(games)
		if drift {
			log.Warn().
				Uint("user", userID).
				Int("score_before", user.TotalScore).
				Int("score_after", totals.Score).
				Int("games_before", user.TotalGames).
				Int("games_after", int(games)).
				Msg("user counters drifted from ledger")
		}

		user.TotalGames = int(games)
		user.TotalWins = totals.Wins
		user.TotalImposterWins = totals.ImposterWins
		user.TotalDetectiveWins = totals.DetectiveWins
		user.TotalScore = totals.Score
		return tx.Model(&user).Select(
			"total_games", "total_wins", "total_imposter_wins", "total_detective_wins", "total_score",
		).Updates(&user).Error
	})
	if err != nil {
		return nil, dbError(err, ErrUserNotFound)
	}
	return &user, nil
}

// ResetUser zeroes a user's counters and removes their leaderboard rows. The ledger is
// untouched, so ReconcileUser or the next Recompute can restore them.
func (s *LeaderboardService) ResetUser(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"total_games":          0,
			"total_wins":           0,
			"total_imposter_wins":  0,
			"total_detective_wins": 0,
			"total_score":          0,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return tx.Where("user_id = ?", userID).Delete(&models.LeaderboardEntry{}).Error
	})
	if err != nil {
		return dbError(err, nil)
	}

	s.invalidate(ctx)
	log.Info().Uint("user", userID).Msg("user stats reset")
	return nil
}

// History lists a user's newest outcome rows and finished games.
func (s *LeaderboardService) History(ctx context.Context, userID uint, limit int) (*History, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	h := &History{Outcomes: []models.Outcome{}, Games: []models.GameRecord{}}
	db := s.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Limit(limit).Find(&h.Outcomes).Error; err != nil {
		return nil, dbError(err, nil)
	}
	if err := db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Limit(limit).Find(&h.Games).Error; err != nil {
		return nil, dbError(err, nil)
	}
	return h, nil
}
