package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPhase(t *testing.T) {
	testCases := []struct {
		from, to string
		want     bool
	}{
		{PhaseSetup, PhaseAnswering, true},
		{PhaseAnswering, PhaseDiscussion, true},
		{PhaseDiscussion, PhaseVoting, true},
		{PhaseVoting, PhaseResults, true},
		{PhaseResults, PhaseFinished, true},
		{PhaseAnswering, PhaseVoting, false},
		{PhaseVoting, PhaseDiscussion, false},
		{PhaseResults, PhaseResults, false},
		{"bogus", PhaseAnswering, false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, NextPhase(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidEventTypeAndPeriod(t *testing.T) {
	assert.True(t, ValidEventType(EventRoundEnded))
	assert.True(t, ValidEventType(EventRoomClosed))
	assert.False(t, ValidEventType("chat_message"))

	assert.True(t, ValidPeriod(PeriodAllTime))
	assert.False(t, ValidPeriod("yearly"))
}

func TestWinRate(t *testing.T) {
	u := User{}
	assert.Zero(t, u.WinRate())
	u.TotalGames, u.TotalWins = 4, 1
	assert.InDelta(t, 25.0, u.WinRate(), 0.001)
}
