package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabulate(t *testing.T) {
	t.Parallel()

	const p1, p2, p3, p4 uint = 1, 2, 3, 4

	t.Run("everyone accuses the imposter", func(t *testing.T) {
		tally := Tabulate(p2, []VoteEdge{{p1, p2}, {p2, p1}, {p3, p2}})

		require.NotNil(t, tally.Winner)
		assert.Equal(t, p2, *tally.Winner)
		assert.True(t, tally.ImposterCaught)
		assert.Equal(t, map[uint]int{p2: 2, p1: 1}, tally.Counts)
		assert.Equal(t, 3, tally.TotalVotes)
	})

	t.Run("imposter escapes when an innocent is accused", func(t *testing.T) {
		tally := Tabulate(p2, []VoteEdge{{p1, p3}, {p3, p1}, {p2, p1}})

		require.NotNil(t, tally.Winner)
		assert.Equal(t, p1, *tally.Winner)
		assert.False(t, tally.ImposterCaught)
		assert.Equal(t, map[uint]int{p3: 1, p1: 2}, tally.Counts)
		assert.Equal(t, map[uint]uint{p1: p3, p3: p1, p2: p1}, tally.VoterChoices)
	})

	t.Run("no votes means no winner", func(t *testing.T) {
		tally := Tabulate(p2, nil)

		assert.Nil(t, tally.Winner)
		assert.False(t, tally.ImposterCaught)
		assert.Empty(t, tally.Counts)
		assert.Zero(t, tally.TotalVotes)
	})

	t.Run("tie goes to the first accused in cast order", func(t *testing.T) {
		tally := Tabulate(p4, []VoteEdge{{p1, p3}, {p2, p4}, {p3, p4}, {p4, p3}})

		require.NotNil(t, tally.Winner)
		assert.Equal(t, p3, *tally.Winner)
		assert.False(t, tally.ImposterCaught)
		assert.Equal(t, []uint{p3, p4}, tally.Order)
	})

	t.Run("tie resolved toward the imposter when named first", func(t *testing.T) {
		tally := Tabulate(p4, []VoteEdge{{p2, p4}, {p1, p3}, {p3, p4}, {p4, p3}})

		require.NotNil(t, tally.Winner)
		assert.Equal(t, p4, *tally.Winner)
		assert.True(t, tally.ImposterCaught)
	})
}
