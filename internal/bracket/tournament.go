package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentPending   TournamentStatus = "pending"
	TournamentWaiting   TournamentStatus = "waiting"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
)

type TournamentPhase string

const (
	PhaseBetting TournamentPhase = "betting"
	PhaseGame    TournamentPhase = "game"
)

type CreditModel string

const (
	CreditsShared      CreditModel = "shared"
	CreditsIndependent CreditModel = "independent"
)

type Tournament struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	CreatorID  uuid.UUID `db:"creator_id" json:"creatorId"`
	IsPublic   bool      `db:"is_public" json:"isPublic"`
	AccessCode *string   `db:"access_code" json:"-"`

	Structure Structure        `db:"structure" json:"structure"`
	Status    TournamentStatus `db:"status" json:"status"`
	Phase     *TournamentPhase `db:"phase" json:"phase"`

	CurrentRound       *int `db:"current_round" json:"currentRound"`
	CurrentMatchNumber *int `db:"current_match_number" json:"currentMatchNumber"`

	CreditModel     CreditModel `db:"credit_model" json:"creditModel"`
	StartingCredits *int        `db:"starting_credits" json:"startingCredits"`
	AdminCanBet     bool        `db:"admin_can_bet" json:"adminCanBet"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// InPhase reports whether the tournament is active and currently in phase.
func (t *Tournament) InPhase(phase TournamentPhase) bool {
	return t.Status == TournamentActive && t.Phase != nil && *t.Phase == phase
}
