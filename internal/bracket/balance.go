package bracket

import "github.com/google/uuid"

// Balance is a tournament-scoped credit balance, used when the tournament
// runs on the independent credit model. Under the shared model the user's
// wallet is debited instead and no Balance row exists.
type Balance struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"userId"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournamentId"`
	Balance      int       `db:"balance" json:"balance"`
}
