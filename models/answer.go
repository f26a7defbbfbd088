package models

import "time"

type Answer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RoundID   uint      `json:"round_id" gorm:"not null;uniqueIndex:idx_answers_round_player"`
	PlayerID  uint      `json:"player_id" gorm:"not null;uniqueIndex:idx_answers_round_player"`
	Value     int       `json:"answer" gorm:"not null"`
	CreatedAt time.Time `json:"submitted_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Player Player `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
