package services

import "numberhunt/models"

const (
	PointsImposterEscaped = 3
	PointsDetectiveCaught = 2
	PointsDetectiveSpared = 1
)

// Award is one player's scoring decision for a round.
type Award struct {
	PlayerID    uint
	Role        string
	Result      string
	Points      int
	WasVotedOut bool
	CorrectVote bool
}

func (a Award) Won() bool { return a.Result == models.ResultWin }

// Score decides every connected player's award from the tally. It is pure; persisting
// the awards is the caller's job.
func Score(imposterID uint, tally Tally, connected []uint) []Award {
	awards := make([]Award, 0, len(connected))

	for _, pid := range connected {
		a := Award{
			PlayerID:    pid,
			Role:        models.RoleDetective,
			Result:      models.ResultLoss,
			WasVotedOut: tally.Winner != nil && *tally.Winner == pid,
		}

		if pid == imposterID {
			a.Role = models.RoleImposter
			if !tally.ImposterCaught {
				a.Points = PointsImposterEscaped
				a.Result = models.ResultWin
			}
			awards = append(awards, a)
			continue
		}

		accused, voted := tally.VoterChoices[pid]
		switch {
		case !voted:
		case tally.ImposterCaught && accused == imposterID:
			a.Points = PointsDetectiveCaught
			a.Result = models.ResultWin
			a.CorrectVote = true
		case !tally.ImposterCaught && accused != imposterID:
			a.Points = PointsDetectiveSpared
			a.Result = models.ResultWin
			a.CorrectVote = true
		}
		awards = append(awards, a)
	}

	return awards
}
