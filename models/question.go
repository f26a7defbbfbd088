package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CategoryLifestyle    = "lifestyle"
	CategoryPreferences  = "preferences"
	CategoryExperiences  = "experiences"
	CategoryHypothetical = "hypothetical"
	CategoryGeneral      = "general"
)

// Question is shown to every detective in a round.
type Question struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Text       string         `json:"text" gorm:"not null"`
	Category   string         `json:"category" gorm:"size:20;not null;default:'general'"`
	MinAnswer  int            `json:"min_answer" gorm:"not null"`
	MaxAnswer  int            `json:"max_answer" gorm:"not null;default:20"`
	Difficulty int            `json:"difficulty" gorm:"not null;default:1"`
	IsActive   bool           `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// DecoyQuestion is the plausible alternative handed to the imposter.
type DecoyQuestion struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Text      string         `json:"text" gorm:"not null"`
	MinAnswer int            `json:"min_answer" gorm:"not null"`
	MaxAnswer int            `json:"max_answer" gorm:"not null;default:20"`
	IsActive  bool           `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
