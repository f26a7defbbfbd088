package models

import (
	"time"

	"github.com/google/uuid"
)

// Player binds a user to one room. Leaving only clears IsConnected.
type Player struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_players_user_room"`
	RoomID      uuid.UUID `json:"room_id" gorm:"type:uuid;not null;uniqueIndex:idx_players_user_room;index"`
	Nickname    string    `json:"nickname" gorm:"size:50;not null"`
	Score       int       `json:"score" gorm:"not null;default:0"`
	IsConnected bool      `json:"is_connected" gorm:"not null;default:true"`
	JoinedAt    time.Time `json:"joined_at"`
	LastActive  time.Time `json:"last_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	User User `json:"-"`
}
