package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the authenticated identity. The total_* counters are a running cache of the
// outcome ledger and can be rebuilt from it.
type User struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	Username           string         `json:"username" gorm:"size:30;uniqueIndex;not null"`
	Email              string         `json:"email" gorm:"size:254;uniqueIndex;not null"`
	PasswordHash       string         `json:"-" gorm:"not null"`
	IsAdmin            bool           `json:"is_admin" gorm:"not null;default:false"`
	Avatar             string         `json:"avatar" gorm:"size:50;not null;default:'default'"`
	TotalGames         int            `json:"total_games" gorm:"not null;default:0"`
	TotalWins          int            `json:"total_wins" gorm:"not null;default:0"`
	TotalImposterWins  int            `json:"total_imposter_wins" gorm:"not null;default:0"`
	TotalDetectiveWins int            `json:"total_detective_wins" gorm:"not null;default:0"`
	TotalScore         int            `json:"total_score" gorm:"not null;default:0"`
	LastActive         *time.Time     `json:"last_active"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u *User) WinRate() float64 {
	if u.TotalGames == 0 {
		return 0
	}
	return float64(u.TotalWins) / float64(u.TotalGames) * 100
}
