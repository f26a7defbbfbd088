package services

import (
	"testing"

	"numberhunt/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awardsByPlayer(awards []Award) map[uint]Award {
	out := make(map[uint]Award, len(awards))
	for _, a := range awards {
		out[a.PlayerID] = a
	}
	return out
}

func totalPoints(awards []Award) int {
	sum := 0
	for _, a := range awards {
		sum += a.Points
	}
	return sum
}

func TestScore(t *testing.T) {
	t.Parallel()

	const p1, p2, p3, p4 uint = 1, 2, 3, 4

	t.Run("imposter caught by everyone", func(t *testing.T) {
		tally := Tabulate(p2, []VoteEdge{{p1, p2}, {p2, p1}, {p3, p2}})
		awards := awardsByPlayer(Score(p2, tally, []uint{p1, p2, p3}))

		require.Len(t, awards, 3)
		assert.Equal(t, Award{PlayerID: p2, Role: models.RoleImposter, Result: models.ResultLoss, WasVotedOut: true}, awards[p2])
		assert.Equal(t, 2, awards[p1].Points)
		assert.True(t, awards[p1].Won())
		assert.True(t, awards[p1].CorrectVote)
		assert.Equal(t, 2, awards[p3].Points)
		assert.Equal(t, models.RoleDetective, awards[p3].Role)
	})

	t.Run("imposter escapes", func(t *testing.T) {
		tally := Tabulate(p2, []VoteEdge{{p1, p3}, {p3, p1}, {p2, p1}})
		awards := awardsByPlayer(Score(p2, tally, []uint{p1, p2, p3}))

		assert.Equal(t, 3, awards[p2].Points)
		assert.True(t, awards[p2].Won())
		assert.False(t, awards[p2].WasVotedOut)

		assert.Equal(t, 1, awards[p1].Points)
		assert.True(t, awards[p1].Won())
		assert.True(t, awards[p1].WasVotedOut)

		assert.Equal(t, 1, awards[p3].Points)
		assert.True(t, awards[p3].Won())
	})

	t.Run("detective who voted for the escaped imposter gets nothing", func(t *testing.T) {
		tally := Tabulate(p2, []VoteEdge{{p1, p2}, {p3, p1}, {p4, p1}, {p2, p1}})
		awards := awardsByPlayer(Score(p2, tally, []uint{p1, p2, p3, p4}))

		assert.False(t, tally.ImposterCaught)
		assert.Zero(t, awards[p1].Points)
		assert.Equal(t, models.ResultLoss, awards[p1].Result)
		assert.False(t, awards[p1].CorrectVote)
	})

	t.Run("wrong guess when imposter is caught gets nothing", func(t *testing.T) {
		tally := Tabulate(p2, []VoteEdge{{p1, p2}, {p3, p2}, {p4, p3}})
		awards := awardsByPlayer(Score(p2, tally, []uint{p1, p2, p3, p4}))

		assert.True(t, tally.ImposterCaught)
		assert.Zero(t, awards[p4].Points)
		assert.Equal(t, models.ResultLoss, awards[p4].Result)
	})

	t.Run("non voters lose", func(t *testing.T) {
		tally := Tabulate(p2, nil)
		awards := awardsByPlayer(Score(p2, tally, []uint{p1, p2, p3}))

		assert.Equal(t, 3, awards[p2].Points)
		assert.Zero(t, awards[p1].Points)
		assert.Equal(t, models.ResultLoss, awards[p1].Result)
		assert.Zero(t, awards[p3].Points)
	})

	t.Run("disconnected players are not scored", func(t *testing.T) {
		tally := Tabulate(p2, []VoteEdge{{p1, p2}, {p3, p2}})
		awards := Score(p2, tally, []uint{p1, p3})

		assert.Len(t, awards, 2)
		assert.Equal(t, 4, totalPoints(awards))
	})
}

func TestScorePointsInvariant(t *testing.T) {
	t.Parallel()

	const imposter uint = 3
	players := []uint{1, 2, 3, 4, 5}
	votes := []VoteEdge{{1, 3}, {2, 4}, {3, 4}, {4, 3}, {5, 3}}

	tally := Tabulate(imposter, votes)
	awards := Score(imposter, tally, players)

	expected := 0
	if !tally.ImposterCaught {
		expected += PointsImposterEscaped
	}
	for _, v := range votes {
		if v.VoterID == imposter {
			continue
		}
		switch {
		case tally.ImposterCaught && v.AccusedID == imposter:
			expected += PointsDetectiveCaught
		case !tally.ImposterCaught && v.AccusedID != imposter:
			expected += PointsDetectiveSpared
		}
	}

	assert.True(t, tally.ImposterCaught)
	assert.Equal(t, expected, totalPoints(awards))
	assert.Equal(t, 6, totalPoints(awards))
}
