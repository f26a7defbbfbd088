package models

import "time"

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodAllTime = "all_time"
)

var Periods = []string{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime}

func ValidPeriod(p string) bool {
	for _, known := range Periods {
		if p == known {
			return true
		}
	}
	return false
}

type LeaderboardEntry struct {
	ID             uint      `json:"-" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_leaderboard_user_period"`
	Username       string    `json:"username" gorm:"size:30;not null"`
	Period         string    `json:"period" gorm:"size:20;not null;uniqueIndex:idx_leaderboard_user_period;index:idx_leaderboard_period_rank"`
	PeriodStart    time.Time `json:"period_start" gorm:"not null;uniqueIndex:idx_leaderboard_user_period;index:idx_leaderboard_period_rank"`
	PeriodEnd      time.Time `json:"period_end" gorm:"not null"`
	TotalGames     int       `json:"total_games" gorm:"not null;default:0"`
	TotalWins      int       `json:"total_wins" gorm:"not null;default:0"`
	TotalScore     int       `json:"total_score" gorm:"not null;default:0"`
	ImposterGames  int       `json:"imposter_games" gorm:"not null;default:0"`
	ImposterWins   int       `json:"imposter_wins" gorm:"not null;default:0"`
	DetectiveGames int       `json:"detective_games" gorm:"not null;default:0"`
	DetectiveWins  int       `json:"detective_wins" gorm:"not null;default:0"`
	Rank           int       `json:"rank" gorm:"not null;default:0;index:idx_leaderboard_period_rank"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (e *LeaderboardEntry) WinRate() float64 {
	if e.TotalGames == 0 {
		return 0
	}
	return float64(e.TotalWins) / float64(e.TotalGames) * 100
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Question{},
		&DecoyQuestion{},
		&Room{},
		&Player{},
		&Round{},
		&Answer{},
		&Vote{},
		&Event{},
		&Outcome{},
		&GameRecord{},
		&LeaderboardEntry{},
	}
}
