package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/AdamBeresnev/bracket-wager/internal/bracket"
	"github.com/AdamBeresnev/bracket-wager/internal/metrics"
	"github.com/AdamBeresnev/bracket-wager/internal/middleware"
	"github.com/AdamBeresnev/bracket-wager/internal/store"
	"github.com/AdamBeresnev/bracket-wager/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

const defaultStartingCredits = 1000

type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
	users *store.UserStore
	locks *TournamentLocks
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, users *store.UserStore, locks *TournamentLocks) *TournamentService {
	return &TournamentService{db: db, store: store, users: users, locks: locks}
}

type CreateTournamentInput struct {
	Name            string
	Participants    []string
	IsPublic        bool
	AccessCode      string
	CreditModel     bracket.CreditModel
	StartingCredits int
	AdminCanBet     bool
}

type TournamentData struct {
	Tournament *bracket.Tournament
	Bets       []bracket.Bet
	Balance    *bracket.Balance
}

func (s *TournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*bracket.Tournament, error) {
	creatorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || len(input.Participants) == 0 {
		return nil, ErrInvalidBracketInput
	}

	// Participant names double as winner selections, so they must be
	// non-empty, unique, and not the reserved bye marker.
	seen := make(map[string]bool, len(input.Participants))
	participants := make([]string, 0, len(input.Participants))
	for _, p := range input.Participants {
		p = strings.TrimSpace(p)
		if p == "" || p == "BYE" || seen[p] {
			return nil, ErrInvalidBracketInput
		}
		seen[p] = true
		participants = append(participants, p)
	}

	if !input.IsPublic && strings.TrimSpace(input.AccessCode) == "" {
		return nil, ErrInvalidBracketInput
	}

	if input.CreditModel == "" {
		input.CreditModel = bracket.CreditsShared
	}
	if input.CreditModel != bracket.CreditsShared && input.CreditModel != bracket.CreditsIndependent {
		return nil, ErrInvalidBracketInput
	}

	tournament := &bracket.Tournament{
		ID:          uuid.New(),
		Name:        input.Name,
		CreatorID:   creatorID,
		IsPublic:    input.IsPublic,
		AccessCode:  utils.StringOrNil(input.AccessCode),
		Structure:   bracket.Build(participants),
		Status:      bracket.TournamentPending,
		CreditModel: input.CreditModel,
		AdminCanBet: input.AdminCanBet,
	}

	if input.CreditModel == bracket.CreditsIndependent {
		credits := input.StartingCredits
		if credits <= 0 {
			credits = defaultStartingCredits
		}
		tournament.StartingCredits = utils.Ptr(credits)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, tournament); err != nil {
		return nil, err
	}

	return tournament, tx.Commit()
}

// GetTournamentData loads a tournament with its bet history and, for
// independent-credit tournaments, the caller's bracket balance.
func (s *TournamentService) GetTournamentData(ctx context.Context, id string, accessCode string) (*TournamentData, error) {
	tournament, err := s.store.GetTournament(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := canView(ctx, tournament, accessCode); err != nil {
		return nil, err
	}

	data := &TournamentData{Tournament: tournament}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bets, err := s.store.GetBets(gctx, id)
		data.Bets = bets
		return err
	})
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok && tournament.CreditModel == bracket.CreditsIndependent {
		g.Go(func() error {
			balance, err := s.store.GetBalance(gctx, userID.String(), id)
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			data.Balance = balance
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return data, nil
}

func canView(ctx context.Context, t *bracket.Tournament, accessCode string) error {
	if t.IsPublic {
		return nil
	}
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok && userID == t.CreatorID {
		return nil
	}
	if t.AccessCode != nil && accessCode != "" {
		if accessCode == *t.AccessCode {
			return nil
		}
		return ErrAccessCodeInvalid
	}
	return ErrForbidden
}

func (s *TournamentService) GetPublicTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	return s.store.GetPublicTournaments(ctx)
}

func (s *TournamentService) GetTournamentsForUser(ctx context.Context) ([]bracket.Tournament, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}
	return s.store.GetTournamentsByCreator(ctx, userID.String())
}

// JoinTournament validates access to a private tournament and, under the
// independent credit model, provisions the caller's bracket balance.
func (s *TournamentService) JoinTournament(ctx context.Context, id string, accessCode string) (*bracket.Tournament, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !tournament.IsPublic && tournament.CreatorID != userID {
		if tournament.AccessCode == nil || accessCode != *tournament.AccessCode {
			return nil, ErrAccessCodeInvalid
		}
	}

	if tournament.CreditModel == bracket.CreditsIndependent {
		_, err := s.store.GetBalanceTx(ctx, tx, userID.String(), id)
		if errors.Is(err, sql.ErrNoRows) {
			balance := &bracket.Balance{
				ID:           uuid.New(),
				UserID:       userID,
				TournamentID: tournament.ID,
				Balance:      utils.OrZero(tournament.StartingCredits),
			}
			if err := s.store.CreateBalance(ctx, tx, balance); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
	}

	return tournament, tx.Commit()
}

// UpdateStatus moves the tournament along pending -> waiting -> active ->
// completed. Starting the tournament opens betting on the first playable
// match; a bracket with nothing to play completes immediately.
func (s *TournamentService) UpdateStatus(ctx context.Context, id string, status bracket.TournamentStatus) (*bracket.Tournament, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if tournament.CreatorID != userID {
		return nil, ErrForbidden
	}

	allowedFrom := map[bracket.TournamentStatus]bracket.TournamentStatus{
		bracket.TournamentWaiting:   bracket.TournamentPending,
		bracket.TournamentActive:    bracket.TournamentWaiting,
		bracket.TournamentCompleted: bracket.TournamentActive,
	}
	from, ok := allowedFrom[status]
	if !ok || tournament.Status != from {
		return nil, ErrInvalidStatusTransition
	}

	tournament.Status = status
	switch status {
	case bracket.TournamentActive:
		phase := bracket.PhaseBetting
		tournament.Phase = &phase
		s.advance(tournament)
	case bracket.TournamentCompleted:
		tournament.Phase = nil
		tournament.CurrentRound = nil
		tournament.CurrentMatchNumber = nil
	}

	if err := s.store.UpdateTournament(ctx, tx, tournament); err != nil {
		return nil, err
	}
	return tournament, tx.Commit()
}

// UpdatePhase closes betting on the current match, moving it into play. The
// reverse transition happens implicitly when a result is recorded.
func (s *TournamentService) UpdatePhase(ctx context.Context, id string, phase bracket.TournamentPhase) (*bracket.Tournament, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if tournament.CreatorID != userID {
		return nil, ErrForbidden
	}

	if phase != bracket.PhaseGame || !tournament.InPhase(bracket.PhaseBetting) {
		return nil, ErrInvalidPhaseTransition
	}

	current := tournament.Structure.CurrentMatch(
		utils.OrZero(tournament.CurrentRound), utils.OrZero(tournament.CurrentMatchNumber))
	if current == nil {
		return nil, ErrNoActiveMatch
	}

	game := bracket.PhaseGame
	tournament.Phase = &game

	if err := s.store.UpdateTournament(ctx, tx, tournament); err != nil {
		return nil, err
	}
	return tournament, tx.Commit()
}

// ApplyMatchResult records a winner, settles the match's betting pool, and
// advances the tournament. The current match can only be resolved during the
// game phase; a match holding a single player may be advanced manually at any
// point while the tournament is active. Re-recording a decided match is a
// correction: the bracket re-propagates but settled payouts stay put.
func (s *TournamentService) ApplyMatchResult(ctx context.Context, id string, matchNumber int, winner string) (*bracket.Tournament, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if tournament.CreatorID != userID {
		return nil, ErrForbidden
	}
	if tournament.Status != bracket.TournamentActive {
		return nil, ErrInvalidStatusTransition
	}

	match := tournament.Structure.ByNumber(matchNumber)
	if match == nil {
		return nil, ErrUnknownMatch
	}

	isCurrent := tournament.CurrentMatchNumber != nil && *tournament.CurrentMatchNumber == matchNumber
	if match.Playable() && (!isCurrent || !tournament.InPhase(bracket.PhaseGame)) {
		return nil, ErrInvalidPhaseTransition
	}

	wasResolved := match.Winner != nil
	if err := tournament.Structure.RecordWinner(matchNumber, winner); err != nil {
		switch {
		case errors.Is(err, bracket.ErrUnknownMatch):
			return nil, ErrUnknownMatch
		case errors.Is(err, bracket.ErrWinnerNotInMatch):
			return nil, ErrInvalidWinner
		}
		return nil, err
	}

	// Settlement fires only on the unresolved-to-resolved edge, so replays
	// and corrections cannot pay a pool twice.
	if !wasResolved {
		if err := s.settle(ctx, tx, tournament, matchNumber, winner); err != nil {
			return nil, err
		}
	}

	s.advance(tournament)

	if err := s.store.UpdateTournament(ctx, tx, tournament); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if !wasResolved {
		metrics.MatchesResolved.Inc()
	}
	return tournament, nil
}

// settle pays out the pari-mutuel pool for the given match. Each winning bet
// receives floor(amount * totalPool / winningPool); when nobody backed the
// winner the whole pool is forfeited.
func (s *TournamentService) settle(ctx context.Context, tx *sqlx.Tx, t *bracket.Tournament, matchNumber int, winner string) error {
	bets, err := s.store.GetBetsByMatchTx(ctx, tx, t.ID.String(), matchNumber)
	if err != nil {
		return err
	}
	if len(bets) == 0 {
		return nil
	}

	total, winning := 0, 0
	for _, b := range bets {
		total += b.Amount
		if b.SelectedWinner == winner {
			winning += b.Amount
		}
	}
	if winning == 0 {
		slog.Info("betting pool forfeited",
			"tournament", t.ID, "match", matchNumber, "pool", total)
		return nil
	}

	for _, b := range bets {
		if b.SelectedWinner != winner {
			continue
		}
		payout := b.Amount * total / winning
		if t.CreditModel == bracket.CreditsIndependent {
			err = s.store.AdjustBalance(ctx, tx, b.UserID.String(), t.ID.String(), payout)
		} else {
			err = s.users.AdjustCredits(ctx, tx, b.UserID.String(), payout)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// advance moves the current-match pointer to the next playable match and
// reopens betting, or completes the tournament when nothing is left. When
// only half-filled matches remain the pointer stays put until the creator
// advances them manually.
func (s *TournamentService) advance(t *bracket.Tournament) {
	if t.Structure.Complete() {
		t.Status = bracket.TournamentCompleted
		t.Phase = nil
		t.CurrentRound = nil
		t.CurrentMatchNumber = nil
		return
	}

	cur := utils.OrZero(t.CurrentMatchNumber)
	if m := t.Structure.ByNumber(cur); m != nil && m.Playable() {
		return
	}

	betting := bracket.PhaseBetting
	t.Phase = &betting

	next := t.Structure.NextPlayable(cur)
	if next == nil {
		slog.Warn("no playable match; waiting on manual advances",
			"tournament", t.ID, "after", cur)
		return
	}
	t.CurrentRound = utils.Ptr(next.Round)
	t.CurrentMatchNumber = utils.Ptr(next.MatchNumber)
}
