package models

import "time"

// Vote is one accusation edge per (round, voter). Rows are overwritten in place,
// so the row id keeps the order in which voters first cast.
type Vote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RoundID   uint      `json:"round_id" gorm:"not null;uniqueIndex:idx_votes_round_voter"`
	VoterID   uint      `json:"voter_id" gorm:"not null;uniqueIndex:idx_votes_round_voter"`
	AccusedID uint      `json:"accused_id" gorm:"not null"`
	CreatedAt time.Time `json:"submitted_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Voter   Player `json:"-" gorm:"foreignKey:VoterID;constraint:OnDelete:CASCADE"`
	Accused Player `json:"-" gorm:"foreignKey:AccusedID;constraint:OnDelete:CASCADE"`
}
