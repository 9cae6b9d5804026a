package bracket

import (
	"time"

	"github.com/google/uuid"
)

// Bet is an immutable wager on the outcome of a single match. At most one bet
// per (user, match) is accepted; the match is always referenced by its
// bracket-wide matchNumber, never by round alone.
type Bet struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"userId"`
	TournamentID   uuid.UUID `db:"tournament_id" json:"tournamentId"`
	Round          int       `db:"round" json:"round"`
	MatchNumber    int       `db:"match_number" json:"matchNumber"`
	Amount         int       `db:"amount" json:"amount"`
	SelectedWinner string    `db:"selected_winner" json:"selectedWinner"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
