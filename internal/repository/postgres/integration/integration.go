// Package integration provides utilities for postgres integration testing
package integration

import (
	"citygate/internal/config"
	"citygate/internal/models"
	"citygate/internal/repository"
	"citygate/internal/repository/postgres"
	"citygate/internal/testutil/db"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestContext holds a migrated test database and the repositories on top of it
type TestContext struct {
	T        *testing.T
	DB       *sql.DB
	Config   *config.Config
	Accounts repository.AccountRepository
	Access   repository.AccessRepository
	Resets   repository.PasswordResetRepository
}

// NewTestContext creates a new test context for postgres integration tests.
// It skips the test when no test database is configured or reachable.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	cfg := db.LoadTestConfig(t)
	testDB := db.SetupTestDB(t, &cfg.Database)

	return &TestContext{
		T:        t,
		DB:       testDB,
		Config:   cfg,
		Accounts: postgres.NewAccountRepository(testDB),
		Access:   postgres.NewAccessRepository(testDB),
		Resets:   postgres.NewPasswordResetRepository(testDB),
	}
}

// CreateTestAccount inserts an unverified user account
func (tc *TestContext) CreateTestAccount(name, email string) *models.Account {
	tc.T.Helper()

	account := &models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$04$abcdefghijklmnopqrstuu5Ck2Lb1VqXGZrWq7GAJi0lCVjZ0.b2",
		Role:         models.RoleUser,
		Verification: uuid.NewString(),
	}
	require.NoError(tc.T, tc.Accounts.Create(context.Background(), account), "Failed to create test account")
	return account
}

// Backdate moves created_at of a row in table back by d
func (tc *TestContext) Backdate(table string, id uuid.UUID, d time.Duration) {
	tc.T.Helper()
	_, err := tc.DB.ExecContext(context.Background(),
		"UPDATE "+table+" SET created_at = created_at - $1 * INTERVAL '1 second' WHERE id = $2",
		int64(d/time.Second), id)
	require.NoError(tc.T, err, "Failed to backdate %s", table)
}
