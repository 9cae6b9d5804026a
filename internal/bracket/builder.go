package bracket

import "math"

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8
func bracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

// Build assembles the match tree for the given participant list. The bracket
// is sized to the next power of two; participants beyond that leave byes.
//
// Without byes this is the standard tree: round 0 pairs everyone in input
// order and later rounds are filled purely by winner propagation. With byes,
// round 0 holds only the preliminary pairings between participants that did
// not draw a bye, and the bye recipients wait in the player1 slots of the low
// positions of round 1; round-0 winners join them positionally.
//
// matchNumber counts from 1 across (round, position) enumeration order and is
// the only key progression uses. Bye compression makes per-round match counts
// uneven, so (round, position) alone cannot drive the current-match pointer.
//
// A single participant yields an empty structure: nothing to play.
func Build(participants []string) Structure {
	p := len(participants)
	if p == 0 {
		return Structure{}
	}

	size := bracketSize(p)
	rounds := int(math.Log2(float64(size)))
	byes := size - p

	matches := make(Structure, 0, size-1)
	number := 1

	if byes == 0 {
		for r := 0; r < rounds; r++ {
			count := size >> (r + 1)
			for pos := 0; pos < count; pos++ {
				m := Match{Round: r, Position: pos, MatchNumber: number}
				number++
				if r == 0 {
					m.Player1 = &participants[2*pos]
					m.Player2 = &participants[2*pos+1]
				}
				matches = append(matches, m)
			}
		}
		return matches
	}

	// Preliminary round between the participants that did not draw a bye.
	// P - byes is even whenever there is more than one participant.
	playing := p - byes
	for pos := 0; pos < playing/2; pos++ {
		matches = append(matches, Match{
			Round:       0,
			Position:    pos,
			MatchNumber: number,
			Player1:     &participants[2*pos],
			Player2:     &participants[2*pos+1],
		})
		number++
	}

	// Round 1 at full width, bye recipients seeded into player1 of the low
	// positions. Their player2 slots are filled by round-0 winners (same
	// position) or stay empty until the creator advances them manually.
	width := size / 2
	for pos := 0; pos < width; pos++ {
		m := Match{Round: 1, Position: pos, MatchNumber: number}
		number++
		if pos < byes {
			m.Player1 = &participants[playing+pos]
		}
		matches = append(matches, m)
	}

	for r := 2; r < rounds; r++ {
		count := size >> r
		for pos := 0; pos < count; pos++ {
			matches = append(matches, Match{Round: r, Position: pos, MatchNumber: number})
			number++
		}
	}

	return matches
}
