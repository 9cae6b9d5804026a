package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(n int) []string {
	letters := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	return letters[:n]
}

func TestBuildSingleParticipant(t *testing.T) {
	s := Build(names(1))
	assert.Empty(t, s)
}

func TestBuildTwoParticipants(t *testing.T) {
	s := Build(names(2))
	require.Len(t, s, 1)

	m := s[0]
	assert.Equal(t, 0, m.Round)
	assert.Equal(t, 0, m.Position)
	assert.Equal(t, 1, m.MatchNumber)
	require.NotNil(t, m.Player1)
	require.NotNil(t, m.Player2)
	assert.Equal(t, "A", *m.Player1)
	assert.Equal(t, "B", *m.Player2)
	assert.Nil(t, m.Winner)
}

func TestBuildFourParticipants(t *testing.T) {
	s := Build(names(4))
	require.Len(t, s, 3)

	assert.Equal(t, 2, s.roundSize(0))
	assert.Equal(t, 1, s.roundSize(1))

	// Round 0 pairs in input order.
	assert.Equal(t, "A", *s[0].Player1)
	assert.Equal(t, "B", *s[0].Player2)
	assert.Equal(t, "C", *s[1].Player1)
	assert.Equal(t, "D", *s[1].Player2)

	// The final starts empty.
	final := s.at(1, 0)
	require.NotNil(t, final)
	assert.Nil(t, final.Player1)
	assert.Nil(t, final.Player2)
}

func TestBuildThreeParticipants(t *testing.T) {
	s := Build(names(3))
	require.Len(t, s, 3)

	// One preliminary pairing, then a full-width round 1 with C waiting on a
	// bye in position 0.
	require.Equal(t, 1, s.roundSize(0))
	require.Equal(t, 2, s.roundSize(1))

	prelim := s.at(0, 0)
	require.NotNil(t, prelim)
	assert.Equal(t, "A", *prelim.Player1)
	assert.Equal(t, "B", *prelim.Player2)

	bye := s.at(1, 0)
	require.NotNil(t, bye)
	require.NotNil(t, bye.Player1)
	assert.Equal(t, "C", *bye.Player1)
	assert.Nil(t, bye.Player2)

	// Position 1 of round 1 is padding with nothing feeding it.
	pad := s.at(1, 1)
	require.NotNil(t, pad)
	assert.Nil(t, pad.Player1)
	assert.Nil(t, pad.Player2)
}

func TestBuildFiveParticipants(t *testing.T) {
	s := Build(names(5))
	require.Len(t, s, 7)

	require.Equal(t, 1, s.roundSize(0))
	require.Equal(t, 4, s.roundSize(1))
	require.Equal(t, 2, s.roundSize(2))

	prelim := s.at(0, 0)
	require.NotNil(t, prelim)
	assert.Equal(t, "A", *prelim.Player1)
	assert.Equal(t, "B", *prelim.Player2)

	// Bye recipients C, D, E wait in player1 of round 1 positions 0..2.
	for pos, want := range []string{"C", "D", "E"} {
		m := s.at(1, pos)
		require.NotNil(t, m)
		require.NotNil(t, m.Player1, "round 1 position %d", pos)
		assert.Equal(t, want, *m.Player1)
		assert.Nil(t, m.Player2)
	}
}

func TestBuildMatchNumbersAreSequential(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 8} {
		s := Build(names(n))
		require.Len(t, s, n-1, "%d participants", n)
		for i := range s {
			assert.Equal(t, i+1, s[i].MatchNumber)
		}
	}
}

func TestBuildEightParticipants(t *testing.T) {
	s := Build(names(8))
	require.Len(t, s, 7)
	assert.Equal(t, 4, s.roundSize(0))
	assert.Equal(t, 2, s.roundSize(1))
	assert.Equal(t, 1, s.roundSize(2))

	for i := 0; i < 4; i++ {
		m := s.at(0, i)
		require.NotNil(t, m)
		assert.True(t, m.Playable())
	}
	for i := 4; i < 7; i++ {
		assert.Equal(t, 0, s[i].filledSlots())
	}
}
