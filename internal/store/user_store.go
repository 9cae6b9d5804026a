package store

import (
	"context"
	"time"

	users "github.com/AdamBeresnev/bracket-wager/internal/user"
	"github.com/jmoiron/sqlx"
)

type UserStore struct {
	db *sqlx.DB
}

const (
	getUserQuery           = "SELECT * FROM users WHERE id = ?"
	getUserByUsernameQuery = "SELECT * FROM users WHERE username = ?"
	createUserQuery        = `
		INSERT INTO users (id, username, password_hash, credits)
		VALUES (:id, :username, :password_hash, :credits)
	`
	claimDailyBonusQuery = `
		UPDATE users SET
			credits = credits + ?,
			last_daily_bonus = ?
		WHERE id = ?
		AND (last_daily_bonus IS NULL OR last_daily_bonus <= ?)
	`
)

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUser(ctx context.Context, id string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserQuery, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetUserTx(ctx context.Context, tx *sqlx.Tx, id string) (*users.User, error) {
	var user users.User
	err := tx.GetContext(ctx, &user, getUserQuery, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserByUsernameQuery, username)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, createUserQuery, user)
	return err
}

// AdjustCredits applies a signed delta to the user's shared wallet inside the
// caller's transaction.
func (s *UserStore) AdjustCredits(ctx context.Context, tx *sqlx.Tx, userID string, delta int) error {
	_, err := tx.ExecContext(ctx, "UPDATE users SET credits = credits + ? WHERE id = ?", delta, userID)
	return err
}

// ClaimDailyBonus credits the bonus and stamps the claim time in one guarded
// UPDATE. It reports whether a row changed, which is false when the rolling
// window has not elapsed yet.
func (s *UserStore) ClaimDailyBonus(ctx context.Context, userID string, amount int, now, cutoff time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, claimDailyBonusQuery, amount, now, userID, cutoff)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
