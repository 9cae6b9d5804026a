package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/bracket-wager/internal/middleware"
	"github.com/AdamBeresnev/bracket-wager/internal/store"
	users "github.com/AdamBeresnev/bracket-wager/internal/user"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	// A second pool connection would see a separate empty memory database.
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

func newTestServices(db *sqlx.DB) (*TournamentService, *WagerService, *UserService) {
	tournamentStore := store.NewTournamentStore(db)
	userStore := store.NewUserStore(db)
	locks := NewTournamentLocks()

	return NewTournamentService(db, tournamentStore, userStore, locks),
		NewWagerService(db, tournamentStore, userStore, locks),
		NewUserService(db, userStore)
}

func registerTestUser(t *testing.T, userService *UserService, username string) (*users.User, context.Context) {
	t.Helper()

	u, err := userService.Register(context.Background(), username, "password123")
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), middleware.UserIDKey, u.ID)
	return u, ctx
}
