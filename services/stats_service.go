package services

import (
	"context"
	"encoding/json"
	"time"

	"numberhunt/models"

	"gorm.io/gorm"
)

const (
	recentStatsWindow = 30 * 24 * time.Hour
	streakDepth       = 10
	mostActiveLimit   = 10

	globalStatsCacheKey = "stats:global"
)

// OutcomeTotals folds a run of outcome rows. Column names match the aggregate aliases.
type OutcomeTotals struct {
	Games               int     `json:"games"`
	Wins                int     `json:"wins"`
	Score               int     `json:"score"`
	ImposterGames       int     `json:"imposter_games"`
	ImposterWins        int     `json:"imposter_wins"`
	DetectiveGames      int     `json:"detective_games"`
	DetectiveWins       int     `json:"detective_wins"`
	WinRate             float64 `json:"win_rate" gorm:"-"`
	ImposterSuccessRate float64 `json:"imposter_success_rate" gorm:"-"`
}

type CategoryStats struct {
	Category string `json:"category"`
	Games    int    `json:"games"`
	Wins     int    `json:"wins"`
	Score    int    `json:"score"`
}

type Streaks struct {
	Win  int `json:"current_win_streak"`
	Loss int `json:"current_loss_streak"`
}

type DetailedStats struct {
	User       *models.User    `json:"user"`
	AllTime    OutcomeTotals   `json:"all_time"`
	Recent     OutcomeTotals   `json:"recent"`
	Since      time.Time       `json:"recent_since"`
	Categories []CategoryStats `json:"category_performance"`
	Streaks    Streaks         `json:"streaks"`
}

type ActiveUser struct {
	Username string `json:"username"`
	Games    int    `json:"games"`
	Score    int    `json:"score"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Rounds   int    `json:"rounds"`
}

type GlobalStats struct {
	TotalUsers      int64           `json:"total_users"`
	TotalGames      int64           `json:"total_games"`
	TotalRounds     int64           `json:"total_rounds"`
	MostActive      []ActiveUser    `json:"most_active_users"`
	Categories      []CategoryCount `json:"category_popularity"`
	ImposterWinRate float64         `json:"imposter_win_rate"`
}

// DetailedStats breaks a user's ledger down by period, role, and question category.
func (s *LeaderboardService) DetailedStats(ctx context.Context, userID uint) (*DetailedStats, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, dbError(err, ErrUserNotFound)
	}

	stats := &DetailedStats{
		User:       &user,
		Since:      s.now().Add(-recentStatsWindow),
		Categories: []CategoryStats{},
	}

	var err error
	if stats.AllTime, err = outcomeTotals(db.Where("user_id = ?", userID)); err != nil {
		return nil, err
	}
	if stats.Recent, err = outcomeTotals(db.Where("user_id = ? AND created_at >= ?", userID, stats.Since)); err != nil {
		return nil, err
	}

	if err := db.Model(&models.Outcome{}).
		Select(`category, COUNT(*) AS games,
			COUNT(*) FILTER (WHERE result = ?) AS wins,
			COALESCE(SUM(points), 0) AS score`, models.ResultWin).
		Where("user_id = ? AND category <> ''", userID).
		Group("category").
		Order("games DESC, category").
		Scan(&stats.Categories).Error; err != nil {
		return nil, dbError(err, nil)
	}

	var results []string
	if err := db.Model(&models.Outcome{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(streakDepth).
		Pluck("result", &results).Error; err != nil {
		return nil, dbError(err, nil)
	}
	stats.Streaks = CurrentStreaks(results)

	return stats, nil
}

func outcomeTotals(scoped *gorm.DB) (OutcomeTotals, error) {
	var t OutcomeTotals
	if err := scoped.Model(&models.Outcome{}).
		Select(`COUNT(*) AS games,
			COUNT(*) FILTER (WHERE result = ?) AS wins,
			COALESCE(SUM(points), 0) AS score,
			COUNT(*) FILTER (WHERE role = ?) AS imposter_games,
			COUNT(*) FILTER (WHERE role = ? AND result = ?) AS imposter_wins,
			COUNT(*) FILTER (WHERE role = ?) AS detective_games,
			COUNT(*) FILTER (WHERE role = ? AND result = ?) AS detective_wins`,
			models.ResultWin,
			models.RoleImposter,
			models.RoleImposter, models.ResultWin,
			models.RoleDetective,
			models.RoleDetective, models.ResultWin).
		Scan(&t).Error; err != nil {
		return t, dbError(err, nil)
	}
	t.WinRate = percent(t.Wins, t.Games)
	t.ImposterSuccessRate = percent(t.ImposterWins, t.ImposterGames)
	return t, nil
}

// CurrentStreaks measures the run at the head of results, newest first. Only one of the
// two streaks is ever non-zero.
func CurrentStreaks(results []string) Streaks {
	var st Streaks
	if len(results) == 0 {
		return st
	}
	run := 0
	for _, r := range results {
		if r != results[0] {
			break
		}
		run++
	}
	if results[0] == models.ResultWin {
		st.Win = run
	} else {
		st.Loss = run
	}
	return st
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// GlobalStats summarises the whole ledger. Finished games and rounds are counted from
// game records and outcomes, so deleted rooms still count.
func (s *LeaderboardService) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	if data, ok := s.cache.Get(ctx, globalStatsCacheKey); ok {
		var cached GlobalStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	db := s.db.WithContext(ctx)
	stats := &GlobalStats{MostActive: []ActiveUser{}, Categories: []CategoryCount{}}

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, dbError(err, nil)
	}
	if err := db.Model(&models.GameRecord{}).Distinct("room_id").Count(&stats.TotalGames).Error; err != nil {
		return nil, dbError(err, nil)
	}
	if err := db.Model(&models.Outcome{}).
		Select("COUNT(DISTINCT (room_id, round_number))").
		Scan(&stats.TotalRounds).Error; err != nil {
		return nil, dbError(err, nil)
	}

	if err := db.Model(&models.User{}).
		Select("username, total_games AS games, total_score AS score").
		Where("total_games > 0").
		Order("total_games DESC, total_score DESC, id").
		Limit(mostActiveLimit).
		Scan(&stats.MostActive).Error; err != nil {
		return nil, dbError(err, nil)
	}

	if err := db.Model(&models.Outcome{}).
		Select("category, COUNT(DISTINCT (room_id, round_number)) AS rounds").
		Where("category <> ''").
		Group("category").
		Order("rounds DESC, category").
		Scan(&stats.Categories).Error; err != nil {
		return nil, dbError(err, nil)
	}

	imposter, err := outcomeTotals(db.Where("role = ?", models.RoleImposter))
	if err != nil {
		return nil, err
	}
	stats.ImposterWinRate = imposter.WinRate

	if data, err := json.Marshal(stats); err == nil {
		s.cache.Set(ctx, globalStatsCacheKey, data, s.ttl)
	}
	return stats, nil
}
