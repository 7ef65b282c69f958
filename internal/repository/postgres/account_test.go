package postgres_test

import (
	"citygate/internal/models"
	"citygate/internal/repository"
	"citygate/internal/repository/postgres/integration"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_Create(t *testing.T) {
	tc := integration.NewTestContext(t)
	ctx := context.Background()

	account := tc.CreateTestAccount("alice", "  Alice@Example.com ")
	require.NotEqual(t, uuid.Nil, account.ID)
	require.Equal(t, "alice@example.com", account.Email)
	require.Equal(t, 0, account.LoginAttempts)
	require.True(t, account.BlockExpires.Equal(time.Unix(0, 0)))

	t.Run("Duplicate email", func(t *testing.T) {
		dup := *account
		dup.ID = uuid.Nil
		err := tc.Accounts.Create(ctx, &dup)
		require.ErrorIs(t, err, repository.ErrEmailExists)
	})

	t.Run("Unknown role", func(t *testing.T) {
		other := *account
		other.ID = uuid.Nil
		other.Email = "mallory@example.com"
		other.Role = models.Role("superuser")
		require.ErrorIs(t, tc.Accounts.Create(ctx, &other), repository.ErrInvalidRole)

		exists, err := tc.Accounts.EmailExists(ctx, "mallory@example.com")
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("Lookups", func(t *testing.T) {
		got, err := tc.Accounts.GetByID(ctx, account.ID)
		require.NoError(t, err)
		require.Equal(t, account.Email, got.Email)

		got, err = tc.Accounts.GetByEmail(ctx, "ALICE@example.com")
		require.NoError(t, err)
		require.Equal(t, account.ID, got.ID)

		_, err = tc.Accounts.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, repository.ErrAccountNotFound)

		_, err = tc.Accounts.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, repository.ErrAccountNotFound)
	})
}

func TestAccountRepository_Save(t *testing.T) {
	tc := integration.NewTestContext(t)
	ctx := context.Background()

	account := tc.CreateTestAccount("bob", "bob@example.com")

	blockUntil := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Microsecond)
	account.LoginAttempts = 6
	account.BlockExpires = blockUntil
	account.Verified = true
	require.NoError(t, tc.Accounts.Save(ctx, account))

	got, err := tc.Accounts.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, 6, got.LoginAttempts)
	require.True(t, got.BlockExpires.Equal(blockUntil))
	require.True(t, got.Verified)

	t.Run("Unknown account", func(t *testing.T) {
		ghost := *account
		ghost.ID = uuid.New()
		require.ErrorIs(t, tc.Accounts.Save(ctx, &ghost), repository.ErrAccountNotFound)
	})
}

func TestAccountRepository_GetUnverifiedByVerification(t *testing.T) {
	tc := integration.NewTestContext(t)
	ctx := context.Background()

	account := tc.CreateTestAccount("carol", "carol@example.com")

	got, err := tc.Accounts.GetUnverifiedByVerification(ctx, account.Verification)
	require.NoError(t, err)
	require.Equal(t, account.ID, got.ID)

	got.Verified = true
	require.NoError(t, tc.Accounts.Save(ctx, got))

	_, err = tc.Accounts.GetUnverifiedByVerification(ctx, account.Verification)
	require.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_EmailExists(t *testing.T) {
	tc := integration.NewTestContext(t)
	ctx := context.Background()

	account := tc.CreateTestAccount("dave", "dave@example.com")

	exists, err := tc.Accounts.EmailExists(ctx, "DAVE@example.com")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = tc.Accounts.EmailExists(ctx, "erin@example.com")
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = tc.Accounts.EmailExistsExcludingSelf(ctx, account.ID, "dave@example.com")
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = tc.Accounts.EmailExistsExcludingSelf(ctx, uuid.New(), "dave@example.com")
	require.NoError(t, err)
	require.True(t, exists)
}
