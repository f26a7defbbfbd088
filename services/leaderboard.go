package services

import (
	"sort"
	"time"

	"numberhunt/models"
)

// Window is a closed [Start, End] interval for one leaderboard period.
type Window struct {
	Period string
	Start  time.Time
	End    time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// PeriodWindows computes the four fixed windows relative to now in loc. Starts are
// truncated to midnight so a period keeps the same key across recomputations.
func PeriodWindows(now time.Time, loc *time.Location) []Window {
	now = now.In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	// time.Weekday has Sunday == 0; weeks start on Monday.
	sinceMonday := (int(now.Weekday()) + 6) % 7

	return []Window{
		{Period: models.PeriodDaily, Start: midnight, End: midnight.AddDate(0, 0, 1).Add(-time.Nanosecond)},
		{Period: models.PeriodWeekly, Start: midnight.AddDate(0, 0, -sinceMonday), End: now},
		{Period: models.PeriodMonthly, Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), End: now},
		{Period: models.PeriodAllTime, Start: time.Unix(0, 0).In(loc), End: now},
	}
}

// Standing is one identity's totals within a window.
type Standing struct {
	UserID         uint
	Games          int
	Wins           int
	Score          int
	ImposterGames  int
	ImposterWins   int
	DetectiveGames int
	DetectiveWins  int
	Rank           int
}

// Aggregate folds in-window outcomes per user, drops users with no games, orders by
// score then wins, and assigns dense ranks from 1. Ties in both keep the same rank.
func Aggregate(outcomes []models.Outcome, w Window) []Standing {
	byUser := make(map[uint]*Standing)

	for _, o := range outcomes {
		if !w.Contains(o.CreatedAt) {
			continue
		}
		s, ok := byUser[o.UserID]
		if !ok {
			s = &Standing{UserID: o.UserID}
			byUser[o.UserID] = s
		}

		won := o.Result == models.ResultWin
		s.Games++
		s.Score += o.Points
		if won {
			s.Wins++
		}
		switch o.Role {
		case models.RoleImposter:
			s.ImposterGames++
			if won {
				s.ImposterWins++
			}
		case models.RoleDetective:
			s.DetectiveGames++
			if won {
				s.DetectiveWins++
			}
		}
	}

	standings := make([]Standing, 0, len(byUser))
	for _, s := range byUser {
		standings = append(standings, *s)
	}

	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.UserID < b.UserID
	})

	rank := 0
	for i := range standings {
		if i == 0 || standings[i].Score != standings[i-1].Score || standings[i].Wins != standings[i-1].Wins {
			rank++
		}
		standings[i].Rank = rank
	}

	return standings
}
