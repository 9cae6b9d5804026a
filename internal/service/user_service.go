package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/AdamBeresnev/bracket-wager/internal/store"
	users "github.com/AdamBeresnev/bracket-wager/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength  = 8
	dailyBonusAmount   = 100
	dailyBonusInterval = 24 * time.Hour
)

type UserService struct {
	db    *sqlx.DB
	store *store.UserStore
}

func NewUserService(db *sqlx.DB, store *store.UserStore) *UserService {
	return &UserService{db: db, store: store}
}

func (s *UserService) Register(ctx context.Context, username, password string) (*users.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < minPasswordLength {
		return nil, ErrInvalidRegistration
	}

	_, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &users.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Credits:      defaultStartingCredits,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (*users.User, error) {
	u, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*users.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// ClaimDailyBonus credits the rolling 24-hour bonus. The claim is a single
// guarded UPDATE, so two concurrent claims cannot both succeed.
func (s *UserService) ClaimDailyBonus(ctx context.Context, userID string) (*users.User, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	claimed, err := s.store.ClaimDailyBonus(ctx, userID, dailyBonusAmount, now, now.Add(-dailyBonusInterval))
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrBonusAlreadyClaimed
	}
	return s.GetUser(ctx, userID)
}
