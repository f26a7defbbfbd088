package services

// VoteEdge is one accusation, listed in cast order.
type VoteEdge struct {
	VoterID   uint
	AccusedID uint
}

// Tally is the outcome of counting one round's votes.
type Tally struct {
	ImposterCaught bool          `json:"imposter_caught"`
	Winner         *uint         `json:"most_voted_player_id"`
	Counts         map[uint]int  `json:"vote_counts"`
	Order          []uint        `json:"-"`
	VoterChoices   map[uint]uint `json:"voter_choices"`
	TotalVotes     int           `json:"total_votes"`
}

// Tabulate counts accusations. The plurality winner has the strictly highest count; on a
// tie the accused who first appears in cast order wins. No votes means no winner.
func Tabulate(imposterID uint, votes []VoteEdge) Tally {
	t := Tally{
		Counts:       make(map[uint]int),
		VoterChoices: make(map[uint]uint, len(votes)),
		TotalVotes:   len(votes),
	}

	for _, v := range votes {
		if _, seen := t.Counts[v.AccusedID]; !seen {
			t.Order = append(t.Order, v.AccusedID)
		}
		t.Counts[v.AccusedID]++
		t.VoterChoices[v.VoterID] = v.AccusedID
	}

	best := 0
	for _, accused := range t.Order {
		if c := t.Counts[accused]; c > best {
			best = c
			winner := accused
			t.Winner = &winner
		}
	}

	t.ImposterCaught = t.Winner != nil && *t.Winner == imposterID
	return t
}
