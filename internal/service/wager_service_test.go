package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/bracket-wager/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceBetPreconditions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc, wagers, userService := newTestServices(db)
	_, creatorCtx := registerTestUser(t, userService, "creator")
	_, bettorCtx := registerTestUser(t, userService, "bettor")

	tournament, err := svc.CreateTournament(creatorCtx, publicInput("Cup", "A", "B", "C", "D"))
	require.NoError(t, err)
	id := tournament.ID.String()

	_, err = wagers.PlaceBet(bettorCtx, id, nil, 100, "A")
	assert.ErrorIs(t, err, ErrBettingClosed)

	startTournament(t, svc, creatorCtx, id)

	_, err = wagers.PlaceBet(creatorCtx, id, nil, 100, "A")
	assert.ErrorIs(t, err, ErrAdminBetForbidden)

	_, err = wagers.PlaceBet(bettorCtx, id, nil, 100, "Z")
	assert.ErrorIs(t, err, ErrInvalidSelection)

	// Betting is limited to players of the current match, not the bracket.
	_, err = wagers.PlaceBet(bettorCtx, id, nil, 100, "C")
	assert.ErrorIs(t, err, ErrInvalidSelection)

	// Pinning the bet to a match other than the current one is rejected.
	wrongMatch := 2
	_, err = wagers.PlaceBet(bettorCtx, id, &wrongMatch, 100, "A")
	assert.ErrorIs(t, err, ErrNoActiveMatch)

	_, err = wagers.PlaceBet(bettorCtx, id, nil, 0, "A")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = wagers.PlaceBet(bettorCtx, id, nil, 5000, "A")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	bet, err := wagers.PlaceBet(bettorCtx, id, nil, 100, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, bet.MatchNumber)
	assert.Equal(t, 0, bet.Round)
	assert.Equal(t, 100, bet.Amount)

	_, err = wagers.PlaceBet(bettorCtx, id, nil, 50, "B")
	assert.ErrorIs(t, err, ErrDuplicateBet)

	_, err = svc.UpdatePhase(creatorCtx, id, bracket.PhaseGame)
	require.NoError(t, err)
	_, err = wagers.PlaceBet(bettorCtx, id, nil, 100, "A")
	assert.ErrorIs(t, err, ErrBettingClosed)
}

func TestCreatorMayBetWhenAllowed(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc, wagers, userService := newTestServices(db)
	_, creatorCtx := registerTestUser(t, userService, "creator")

	tournament, err := svc.CreateTournament(creatorCtx, CreateTournamentInput{
		Name:         "Cup",
		Participants: []string{"A", "B"},
		IsPublic:     true,
		AdminCanBet:  true,
	})
	require.NoError(t, err)
	id := tournament.ID.String()
	startTournament(t, svc, creatorCtx, id)

	_, err = wagers.PlaceBet(creatorCtx, id, nil, 100, "A")
	require.NoError(t, err)
}

func TestPariMutuelSettlement(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc, wagers, userService := newTestServices(db)
	_, creatorCtx := registerTestUser(t, userService, "creator")
	alice, aliceCtx := registerTestUser(t, userService, "alice")
	bob, bobCtx := registerTestUser(t, userService, "bob")

	tournament, err := svc.CreateTournament(creatorCtx, publicInput("Cup", "A", "B", "C", "D"))
	require.NoError(t, err)
	id := tournament.ID.String()
	startTournament(t, svc, creatorCtx, id)

	_, err = wagers.PlaceBet(aliceCtx, id, nil, 100, "A")
	require.NoError(t, err)
	_, err = wagers.PlaceBet(bobCtx, id, nil, 300, "B")
	require.NoError(t, err)

	// Stakes are debited up front.
	u, err := userService.GetUser(context.Background(), alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 900, u.Credits)
	u, err = userService.GetUser(context.Background(), bob.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 700, u.Credits)

	_, err = svc.UpdatePhase(creatorCtx, id, bracket.PhaseGame)
	require.NoError(t, err)
	_, err = svc.ApplyMatchResult(creatorCtx, id, 1, "A")
	require.NoError(t, err)

	// Alice backed the winner with the whole winning pool: she takes the
	// full 400.
	u, err = userService.GetUser(context.Background(), alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1300, u.Credits)
	u, err = userService.GetUser(context.Background(), bob.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 700, u.Credits)
}

func TestPoolForfeitedWhenNobodyBackedWinner(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc, wagers, userService := newTestServices(db)
	_, creatorCtx := registerTestUser(t, userService, "creator")
	alice, aliceCtx := registerTestUser(t, userService, "alice")

	tournament, err := svc.CreateTournament(creatorCtx, publicInput("Cup", "A", "B"))
	require.NoError(t, err)
	id := tournament.ID.String()
	startTournament(t, svc, creatorCtx, id)

	_, err = wagers.PlaceBet(aliceCtx, id, nil, 100, "B")
	require.NoError(t, err)

	_, err = svc.UpdatePhase(creatorCtx, id, bracket.PhaseGame)
	require.NoError(t, err)
	_, err = svc.ApplyMatchResult(creatorCtx, id, 1, "A")
	require.NoError(t, err)

	u, err := userService.GetUser(context.Background(), alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 900, u.Credits)
}

func TestCorrectionDoesNotResettle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc, wagers, userService := newTestServices(db)
	_, creatorCtx := registerTestUser(t, userService, "creator")
	alice, aliceCtx := registerTestUser(t, userService, "alice")
	bob, bobCtx := registerTestUser(t, userService, "bob")

	tournament, err := svc.CreateTournament(creatorCtx, publicInput("Cup", "A", "B", "C", "D"))
	require.NoError(t, err)
	id := tournament.ID.String()
	startTournament(t, svc, creatorCtx, id)

	_, err = wagers.PlaceBet(aliceCtx, id, nil, 100, "A")
	require.NoError(t, err)
	_, err = wagers.PlaceBet(bobCtx, id, nil, 300, "B")
	require.NoError(t, err)

	_, err = svc.UpdatePhase(creatorCtx, id, bracket.PhaseGame)
	require.NoError(t, err)
	_, err = svc.ApplyMatchResult(creatorCtx, id, 1, "A")
	require.NoError(t, err)

	// Overturning the result re-propagates the bracket but never reopens
	// the settled pool.
	tournament, err = svc.ApplyMatchResult(creatorCtx, id, 1, "B")
	require.NoError(t, err)

	final := tournament.Structure.ByNumber(3)
	require.NotNil(t, final)
	require.NotNil(t, final.Player1)
	assert.Equal(t, "B", *final.Player1)

	u, err := userService.GetUser(context.Background(), alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1300, u.Credits)
	u, err = userService.GetUser(context.Background(), bob.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 700, u.Credits)
}

func TestIndependentCreditModel(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc, wagers, userService := newTestServices(db)
	_, creatorCtx := registerTestUser(t, userService, "creator")
	alice, aliceCtx := registerTestUser(t, userService, "alice")

	tournament, err := svc.CreateTournament(creatorCtx, CreateTournamentInput{
		Name:            "Cup",
		Participants:    []string{"A", "B"},
		IsPublic:        true,
		CreditModel:     bracket.CreditsIndependent,
		StartingCredits: 500,
	})
	require.NoError(t, err)
	id := tournament.ID.String()
	startTournament(t, svc, creatorCtx, id)

	// The bracket balance is provisioned lazily on the first bet.
	_, err = wagers.PlaceBet(aliceCtx, id, nil, 200, "A")
	require.NoError(t, err)

	balance, err := wagers.store.GetBalance(context.Background(), alice.ID.String(), id)
	require.NoError(t, err)
	assert.Equal(t, 300, balance.Balance)

	// A stake above the bracket balance is rejected regardless of wallet
	// credits.
	_, bettor2Ctx := registerTestUser(t, userService, "rich")
	_, err = wagers.PlaceBet(bettor2Ctx, id, nil, 600, "A")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = svc.UpdatePhase(creatorCtx, id, bracket.PhaseGame)
	require.NoError(t, err)
	_, err = svc.ApplyMatchResult(creatorCtx, id, 1, "A")
	require.NoError(t, err)

	balance, err = wagers.store.GetBalance(context.Background(), alice.ID.String(), id)
	require.NoError(t, err)
	assert.Equal(t, 500, balance.Balance)

	// The shared wallet is untouched throughout.
	u, err := userService.GetUser(context.Background(), alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1000, u.Credits)
}

func TestGetBetsFiltersByMatch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc, wagers, userService := newTestServices(db)
	_, creatorCtx := registerTestUser(t, userService, "creator")
	_, aliceCtx := registerTestUser(t, userService, "alice")

	tournament, err := svc.CreateTournament(creatorCtx, publicInput("Cup", "A", "B", "C", "D"))
	require.NoError(t, err)
	id := tournament.ID.String()
	startTournament(t, svc, creatorCtx, id)

	_, err = wagers.PlaceBet(aliceCtx, id, nil, 100, "A")
	require.NoError(t, err)

	_, err = svc.UpdatePhase(creatorCtx, id, bracket.PhaseGame)
	require.NoError(t, err)
	_, err = svc.ApplyMatchResult(creatorCtx, id, 1, "A")
	require.NoError(t, err)

	_, err = wagers.PlaceBet(aliceCtx, id, nil, 50, "C")
	require.NoError(t, err)

	all, err := wagers.GetBets(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	two := 2
	second, err := wagers.GetBets(context.Background(), id, &two)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 50, second[0].Amount)
}
