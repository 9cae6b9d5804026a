package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AdamBeresnev/bracket-wager/internal/bracket"
	"github.com/AdamBeresnev/bracket-wager/internal/metrics"
	"github.com/AdamBeresnev/bracket-wager/internal/middleware"
	"github.com/AdamBeresnev/bracket-wager/internal/store"
	"github.com/AdamBeresnev/bracket-wager/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type WagerService struct {
	db    *sqlx.DB
	store *store.TournamentStore
	users *store.UserStore
	locks *TournamentLocks
}

func NewWagerService(db *sqlx.DB, store *store.TournamentStore, users *store.UserStore, locks *TournamentLocks) *WagerService {
	return &WagerService{db: db, store: store, users: users, locks: locks}
}

// PlaceBet stakes credits on the current match. A non-nil matchNumber pins
// the bet to a specific match and is rejected when that match is not the
// current one. Bets are immutable once accepted and limited to one per user
// per match. The stake comes from the user's wallet under the shared credit
// model, or from the tournament-scoped balance (provisioned on first use)
// under the independent model.
func (s *WagerService) PlaceBet(ctx context.Context, tournamentID string, matchNumber *int, amount int, selectedWinner string) (*bracket.Bet, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	unlock := s.locks.Lock(tournamentID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !tournament.InPhase(bracket.PhaseBetting) {
		return nil, ErrBettingClosed
	}
	if tournament.CreatorID == userID && !tournament.AdminCanBet {
		return nil, ErrAdminBetForbidden
	}

	match := tournament.Structure.CurrentMatch(
		utils.OrZero(tournament.CurrentRound), utils.OrZero(tournament.CurrentMatchNumber))
	if match == nil {
		return nil, ErrNoActiveMatch
	}
	if matchNumber != nil && *matchNumber != match.MatchNumber {
		return nil, ErrNoActiveMatch
	}
	if !match.HasPlayer(selectedWinner) {
		return nil, ErrInvalidSelection
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	_, err = s.store.GetBetTx(ctx, tx, userID.String(), tournamentID, match.MatchNumber)
	if err == nil {
		return nil, ErrDuplicateBet
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if err := s.debit(ctx, tx, tournament, userID, amount); err != nil {
		return nil, err
	}

	bet := &bracket.Bet{
		ID:             uuid.New(),
		UserID:         userID,
		TournamentID:   tournament.ID,
		Round:          match.Round,
		MatchNumber:    match.MatchNumber,
		Amount:         amount,
		SelectedWinner: selectedWinner,
	}
	if err := s.store.CreateBet(ctx, tx, bet); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.BetsPlaced.Inc()
	return bet, nil
}

func (s *WagerService) debit(ctx context.Context, tx *sqlx.Tx, t *bracket.Tournament, userID uuid.UUID, amount int) error {
	if t.CreditModel == bracket.CreditsIndependent {
		balance, err := s.store.GetBalanceTx(ctx, tx, userID.String(), t.ID.String())
		if errors.Is(err, sql.ErrNoRows) {
			balance = &bracket.Balance{
				ID:           uuid.New(),
				UserID:       userID,
				TournamentID: t.ID,
				Balance:      utils.OrZero(t.StartingCredits),
			}
			if err := s.store.CreateBalance(ctx, tx, balance); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		if balance.Balance < amount {
			return ErrInsufficientFunds
		}
		return s.store.AdjustBalance(ctx, tx, userID.String(), t.ID.String(), -amount)
	}

	u, err := s.users.GetUserTx(ctx, tx, userID.String())
	if err != nil {
		return err
	}
	if u.Credits < amount {
		return ErrInsufficientFunds
	}
	return s.users.AdjustCredits(ctx, tx, userID.String(), -amount)
}

// GetBets returns the bet history of a tournament, optionally narrowed to a
// single match.
func (s *WagerService) GetBets(ctx context.Context, tournamentID string, matchNumber *int) ([]bracket.Bet, error) {
	if _, err := s.store.GetTournament(ctx, tournamentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if matchNumber != nil {
		return s.store.GetBetsByMatch(ctx, tournamentID, *matchNumber)
	}
	return s.store.GetBets(ctx, tournamentID)
}
