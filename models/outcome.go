package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleImposter  = "imposter"
	RoleDetective = "detective"

	ResultWin  = "win"
	ResultLoss = "loss"
)

// Outcome is the append-only per-player, per-round ledger row. It is keyed by user and
// room id without foreign keys so it outlives room deletion.
type Outcome struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	PlayerID    uint      `json:"player_id" gorm:"not null;uniqueIndex:idx_outcomes_player_room_round"`
	RoomID      uuid.UUID `json:"room_id" gorm:"type:uuid;not null;uniqueIndex:idx_outcomes_player_room_round"`
	RoundNumber int       `json:"round_number" gorm:"not null;uniqueIndex:idx_outcomes_player_room_round"`
	Nickname    string    `json:"nickname" gorm:"size:50;not null"`
	Role        string    `json:"role" gorm:"size:20;not null"`
	Category    string    `json:"category" gorm:"size:20;not null;index"`
	Result      string    `json:"result" gorm:"size:10;not null"`
	Points      int       `json:"points_earned" gorm:"not null;default:0"`
	WasVotedOut bool      `json:"was_voted_out" gorm:"not null;default:false"`
	CorrectVote bool      `json:"correct_vote" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// GameRecord marks that a user took part in a finished game; total_games is its count.
type GameRecord struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_game_records_user_room"`
	RoomID     uuid.UUID `json:"room_id" gorm:"type:uuid;not null;uniqueIndex:idx_game_records_user_room"`
	RoomName   string    `json:"room_name" gorm:"size:100;not null"`
	Nickname   string    `json:"nickname" gorm:"size:50;not null"`
	FinalScore int       `json:"final_score" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
}
