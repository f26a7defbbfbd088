package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EventPlayerJoined      = "player_joined"
	EventPlayerLeft        = "player_left"
	EventPlayerReconnected = "player_reconnected"
	EventGameStarted       = "game_started"
	EventRoundStarted      = "round_started"
	EventAnswerSubmitted   = "answer_submitted"
	EventDiscussionStarted = "discussion_started"
	EventVotingStarted     = "voting_started"
	EventVoteSubmitted     = "vote_submitted"
	EventRoundEnded        = "round_ended"
	EventGameEnded         = "game_ended"
	EventRoomClosed        = "room_closed"
)

var eventTypes = map[string]bool{
	EventPlayerJoined:      true,
	EventPlayerLeft:        true,
	EventPlayerReconnected: true,
	EventGameStarted:       true,
	EventRoundStarted:      true,
	EventAnswerSubmitted:   true,
	EventDiscussionStarted: true,
	EventVotingStarted:     true,
	EventVoteSubmitted:     true,
	EventRoundEnded:        true,
	EventGameEnded:         true,
	EventRoomClosed:        true,
}

func ValidEventType(t string) bool {
	return eventTypes[t]
}

type Event struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	RoomID      uuid.UUID      `json:"room_id" gorm:"type:uuid;not null;index"`
	PlayerID    *uint          `json:"player_id,omitempty" gorm:"index"`
	RoundNumber *int           `json:"round_number,omitempty" gorm:"index"`
	Type        string         `json:"event_type" gorm:"size:32;not null"`
	Payload     datatypes.JSON `json:"data" gorm:"type:jsonb;not null"`
	CreatedAt   time.Time      `json:"timestamp" gorm:"not null;index"`
}
