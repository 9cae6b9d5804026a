package bracket

import "errors"

var (
	ErrUnknownMatch     = errors.New("match not found in bracket")
	ErrWinnerNotInMatch = errors.New("winner is not part of this match")
)

// CurrentMatch returns the playable match the pointer refers to. When the
// pointed-at match is already decided or missing it falls back to the first
// playable match of the current round, in matchNumber order. Returns nil when
// nothing in the round can be played.
func (s Structure) CurrentMatch(currentRound, currentNumber int) *Match {
	if m := s.ByNumber(currentNumber); m != nil && m.Playable() {
		return m
	}
	for i := range s {
		if s[i].Round == currentRound && s[i].Playable() {
			return &s[i]
		}
	}
	return nil
}

// NextPlayable returns the next match, by ascending matchNumber strictly
// beyond after, that has both slots filled and no winner.
func (s Structure) NextPlayable(after int) *Match {
	for i := range s {
		if s[i].MatchNumber > after && s[i].Playable() {
			return &s[i]
		}
	}
	return nil
}

// PendingManual returns the first undecided match holding exactly one player.
// Such a match cannot be bet on, but the creator may still resolve it by
// recording its lone occupant as the winner.
func (s Structure) PendingManual() *Match {
	for i := range s {
		if s[i].Winner == nil && s[i].filledSlots() == 1 {
			return &s[i]
		}
	}
	return nil
}

// Complete reports whether no further match can be played or manually
// advanced. Matches with both slots empty are structural padding and never
// block completion.
func (s Structure) Complete() bool {
	return s.NextPlayable(0) == nil && s.PendingManual() == nil
}

// RecordWinner sets the winner of the given match and propagates the name
// into the following round. Re-recording an already decided match is treated
// as a correction: the stale name is replaced where it landed, not duplicated.
func (s Structure) RecordWinner(number int, winner string) error {
	m := s.ByNumber(number)
	if m == nil {
		return ErrUnknownMatch
	}
	if !m.HasPlayer(winner) {
		return ErrWinnerNotInMatch
	}

	previous := m.Winner
	w := winner
	m.Winner = &w
	s.propagate(m, previous)
	return nil
}

// byeSeededRound1 reports whether round 1 was pre-seeded with bye recipients.
// Bye compression leaves round 0 narrower than round 1; a standard bracket
// always halves.
func (s Structure) byeSeededRound1() bool {
	return s.roundSize(1) > s.roundSize(0)
}

func (s Structure) at(round, position int) *Match {
	for i := range s {
		if s[i].Round == round && s[i].Position == position {
			return &s[i]
		}
	}
	return nil
}

func (s Structure) propagate(m *Match, previous *string) {
	winner := *m.Winner

	nextPos := m.Position / 2
	preferP1 := m.Position%2 == 0
	if m.Round == 0 && s.byeSeededRound1() {
		// Round 0 feeds a bye-seeded round 1 positionally: the winner joins
		// the bye recipient already waiting at the same position.
		nextPos = m.Position
		preferP1 = false
	}

	next := s.at(m.Round+1, nextPos)
	if next == nil {
		// This was the final; the winner is the champion.
		return
	}

	if previous != nil && *previous != winner {
		// Correction: replace the superseded name where it landed.
		if next.Player1 != nil && *next.Player1 == *previous {
			next.Player1 = &winner
			return
		}
		if next.Player2 != nil && *next.Player2 == *previous {
			next.Player2 = &winner
			return
		}
	}

	if next.HasPlayer(winner) {
		return
	}

	if preferP1 {
		if next.Player1 == nil {
			next.Player1 = &winner
			return
		}
		if next.Player2 == nil {
			next.Player2 = &winner
		}
		return
	}
	if next.Player2 == nil {
		next.Player2 = &winner
		return
	}
	if next.Player1 == nil {
		next.Player1 = &winner
	}
}
