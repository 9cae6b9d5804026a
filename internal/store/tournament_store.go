package store

import (
	"context"

	"github.com/AdamBeresnev/bracket-wager/internal/bracket"
	"github.com/jmoiron/sqlx"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

const (
	createTournamentQuery = `
		INSERT INTO tournaments (id, name, creator_id, is_public, access_code, structure, status,
			phase, current_round, current_match_number, credit_model, starting_credits, admin_can_bet)
		VALUES (:id, :name, :creator_id, :is_public, :access_code, :structure, :status,
			:phase, :current_round, :current_match_number, :credit_model, :starting_credits, :admin_can_bet)
	`
	updateTournamentQuery = `
		UPDATE tournaments SET
			structure = :structure,
			status = :status,
			phase = :phase,
			current_round = :current_round,
			current_match_number = :current_match_number
		WHERE id = :id
	`
	createBetQuery = `
		INSERT INTO bets (id, user_id, tournament_id, round, match_number, amount, selected_winner)
		VALUES (:id, :user_id, :tournament_id, :round, :match_number, :amount, :selected_winner)
	`
	createBalanceQuery = `
		INSERT INTO bracket_balances (id, user_id, tournament_id, balance)
		VALUES (:id, :user_id, :tournament_id, :balance)
	`
)

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, createTournamentQuery, tournament)
	return err
}

func (s *TournamentStore) UpdateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, updateTournamentQuery, tournament)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id string) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := tx.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) GetPublicTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	err := s.db.SelectContext(ctx, &tournaments,
		"SELECT * FROM tournaments WHERE is_public = 1 ORDER BY created_at DESC")
	return tournaments, err
}

func (s *TournamentStore) GetTournamentsByCreator(ctx context.Context, creatorID string) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	err := s.db.SelectContext(ctx, &tournaments,
		"SELECT * FROM tournaments WHERE creator_id = ? ORDER BY created_at DESC", creatorID)
	return tournaments, err
}

func (s *TournamentStore) CreateBet(ctx context.Context, tx *sqlx.Tx, bet *bracket.Bet) error {
	_, err := tx.NamedExecContext(ctx, createBetQuery, bet)
	return err
}

func (s *TournamentStore) GetBets(ctx context.Context, tournamentID string) ([]bracket.Bet, error) {
	var bets []bracket.Bet
	err := s.db.SelectContext(ctx, &bets,
		"SELECT * FROM bets WHERE tournament_id = ? ORDER BY created_at ASC", tournamentID)
	return bets, err
}

func (s *TournamentStore) GetBetsByMatch(ctx context.Context, tournamentID string, matchNumber int) ([]bracket.Bet, error) {
	var bets []bracket.Bet
	err := s.db.SelectContext(ctx, &bets,
		"SELECT * FROM bets WHERE tournament_id = ? AND match_number = ? ORDER BY created_at ASC",
		tournamentID, matchNumber)
	return bets, err
}

func (s *TournamentStore) GetBet(ctx context.Context, userID, tournamentID string, matchNumber int) (*bracket.Bet, error) {
	var bet bracket.Bet
	err := s.db.GetContext(ctx, &bet,
		"SELECT * FROM bets WHERE user_id = ? AND tournament_id = ? AND match_number = ?",
		userID, tournamentID, matchNumber)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

func (s *TournamentStore) GetBetsByMatchTx(ctx context.Context, tx *sqlx.Tx, tournamentID string, matchNumber int) ([]bracket.Bet, error) {
	var bets []bracket.Bet
	err := tx.SelectContext(ctx, &bets,
		"SELECT * FROM bets WHERE tournament_id = ? AND match_number = ? ORDER BY created_at ASC",
		tournamentID, matchNumber)
	return bets, err
}

func (s *TournamentStore) GetBetTx(ctx context.Context, tx *sqlx.Tx, userID, tournamentID string, matchNumber int) (*bracket.Bet, error) {
	var bet bracket.Bet
	err := tx.GetContext(ctx, &bet,
		"SELECT * FROM bets WHERE user_id = ? AND tournament_id = ? AND match_number = ?",
		userID, tournamentID, matchNumber)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

func (s *TournamentStore) CreateBalance(ctx context.Context, tx *sqlx.Tx, balance *bracket.Balance) error {
	_, err := tx.NamedExecContext(ctx, createBalanceQuery, balance)
	return err
}

func (s *TournamentStore) GetBalance(ctx context.Context, userID, tournamentID string) (*bracket.Balance, error) {
	var balance bracket.Balance
	err := s.db.GetContext(ctx, &balance,
		"SELECT * FROM bracket_balances WHERE user_id = ? AND tournament_id = ?", userID, tournamentID)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (s *TournamentStore) GetBalanceTx(ctx context.Context, tx *sqlx.Tx, userID, tournamentID string) (*bracket.Balance, error) {
	var balance bracket.Balance
	err := tx.GetContext(ctx, &balance,
		"SELECT * FROM bracket_balances WHERE user_id = ? AND tournament_id = ?", userID, tournamentID)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (s *TournamentStore) GetBalances(ctx context.Context, tournamentID string) ([]bracket.Balance, error) {
	var balances []bracket.Balance
	err := s.db.SelectContext(ctx, &balances,
		"SELECT * FROM bracket_balances WHERE tournament_id = ?", tournamentID)
	return balances, err
}

// AdjustBalance applies a signed delta to a tournament-scoped balance inside
// the caller's transaction.
func (s *TournamentStore) AdjustBalance(ctx context.Context, tx *sqlx.Tx, userID, tournamentID string, delta int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE bracket_balances SET balance = balance + ? WHERE user_id = ? AND tournament_id = ?",
		delta, userID, tournamentID)
	return err
}
