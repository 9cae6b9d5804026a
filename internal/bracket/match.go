package bracket

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Match is a single pairing inside a bracket. Matches are identified by
// MatchNumber, which is unique across the whole bracket; round and position
// locate the match in the tree for rendering and winner propagation.
type Match struct {
	Round       int     `json:"round"`
	Position    int     `json:"position"`
	MatchNumber int     `json:"matchNumber"`
	Player1     *string `json:"player1"`
	Player2     *string `json:"player2"`
	Winner      *string `json:"winner"`
}

// Playable reports whether the match has both slots filled and no winner yet.
func (m *Match) Playable() bool {
	return m.Player1 != nil && m.Player2 != nil && m.Winner == nil
}

// HasPlayer reports whether name occupies one of the two slots.
func (m *Match) HasPlayer(name string) bool {
	return (m.Player1 != nil && *m.Player1 == name) ||
		(m.Player2 != nil && *m.Player2 == name)
}

func (m *Match) filledSlots() int {
	n := 0
	if m.Player1 != nil {
		n++
	}
	if m.Player2 != nil {
		n++
	}
	return n
}

// Structure is the ordered match list of a bracket. It is built once at
// tournament creation; only Winner fields and propagated player slots mutate
// afterwards. It persists as a JSON column on the tournament row.
type Structure []Match

func (s Structure) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Structure) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return json.Unmarshal([]byte(v), s)
	case []byte:
		return json.Unmarshal(v, s)
	default:
		return fmt.Errorf("cannot scan %T into bracket.Structure", src)
	}
}

// ByNumber returns the match with the given matchNumber, or nil.
func (s Structure) ByNumber(number int) *Match {
	for i := range s {
		if s[i].MatchNumber == number {
			return &s[i]
		}
	}
	return nil
}

func (s Structure) roundSize(round int) int {
	n := 0
	for i := range s {
		if s[i].Round == round {
			n++
		}
	}
	return n
}
