package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PhaseSetup      = "setup"
	PhaseAnswering  = "answering"
	PhaseDiscussion = "discussion"
	PhaseVoting     = "voting"
	PhaseResults    = "results"
	PhaseFinished   = "finished"
)

// phaseOrder is the only legal sequence; a round never moves backwards.
var phaseOrder = map[string]int{
	PhaseSetup:      0,
	PhaseAnswering:  1,
	PhaseDiscussion: 2,
	PhaseVoting:     3,
	PhaseResults:    4,
	PhaseFinished:   5,
}

// NextPhase reports whether to directly follows from.
func NextPhase(from, to string) bool {
	f, ok1 := phaseOrder[from]
	t, ok2 := phaseOrder[to]
	return ok1 && ok2 && t == f+1
}

type Round struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	RoomID              uuid.UUID  `json:"room_id" gorm:"type:uuid;not null;uniqueIndex:idx_rounds_room_number"`
	Number              int        `json:"round_number" gorm:"not null;uniqueIndex:idx_rounds_room_number"`
	QuestionID          uint       `json:"question_id" gorm:"not null"`
	DecoyQuestionID     uint       `json:"decoy_question_id" gorm:"not null"`
	ImposterID          uint       `json:"-" gorm:"not null"`
	Phase               string     `json:"phase" gorm:"size:20;not null;default:'setup'"`
	StartedAt           time.Time  `json:"started_at"`
	DiscussionStartedAt *time.Time `json:"discussion_started_at"`
	VotingStartedAt     *time.Time `json:"voting_started_at"`
	FinishedAt          *time.Time `json:"finished_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Relationships
	Question      Question      `json:"-"`
	DecoyQuestion DecoyQuestion `json:"-"`
	Imposter      Player        `json:"-" gorm:"foreignKey:ImposterID;constraint:OnDelete:CASCADE"`
	Answers       []Answer      `json:"-" gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE"`
	Votes         []Vote        `json:"-" gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE"`
}
