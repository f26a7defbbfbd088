package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoomWaiting    = "waiting"
	RoomInProgress = "in_progress"
	RoomFinished   = "finished"
)

type Room struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string     `json:"name" gorm:"size:100;not null"`
	HostID       uint       `json:"host_id" gorm:"not null;index"`
	Status       string     `json:"status" gorm:"size:20;not null;default:'waiting';index"` // waiting, in_progress, finished
	MaxPlayers   int        `json:"max_players" gorm:"not null;default:8"`
	CurrentRound int        `json:"current_round" gorm:"not null;default:0"`
	TotalRounds  int        `json:"total_rounds" gorm:"not null;default:5"`
	IsPrivate    bool       `json:"is_private" gorm:"not null;default:false"`
	RoomCode     *string    `json:"room_code,omitempty" gorm:"size:8;uniqueIndex"`
	StartedAt    *time.Time `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relationships
	Host    User     `json:"host,omitempty" gorm:"foreignKey:HostID"`
	Players []Player `json:"players,omitempty" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	Rounds  []Round  `json:"-" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	Events  []Event  `json:"-" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
