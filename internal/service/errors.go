package service

import "errors"

var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("operation not allowed for this user")

	ErrInvalidBracketInput     = errors.New("tournament needs a name and valid participants")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
	ErrInvalidPhaseTransition  = errors.New("phase transition not allowed")
	ErrUnknownMatch            = errors.New("no such match in this tournament")
	ErrInvalidWinner           = errors.New("winner is not a player of the target match")
	ErrAccessCodeInvalid       = errors.New("access code does not match")

	ErrBettingClosed     = errors.New("betting is closed for this tournament")
	ErrAdminBetForbidden = errors.New("the creator cannot bet on this tournament")
	ErrNoActiveMatch     = errors.New("no active match to bet on")
	ErrInvalidSelection  = errors.New("selected winner is not in the current match")
	ErrInvalidAmount     = errors.New("bet amount must be positive")
	ErrDuplicateBet      = errors.New("a bet was already placed on this match")
	ErrInsufficientFunds = errors.New("not enough credits for this bet")

	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrInvalidRegistration = errors.New("username and a password of at least 8 characters are required")
	ErrBonusAlreadyClaimed = errors.New("daily bonus already claimed in the last 24 hours")
)
