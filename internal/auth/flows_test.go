package auth_test

import (
	"citygate/internal/auth"
	"citygate/internal/models"
	"citygate/internal/testutil"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		tc := testutil.NewTestContext(t)

		resp, err := tc.AuthService.Register(ctx, models.RegisterRequest{
			Name:     "Jane Doe",
			Email:    "Jane@Example.com",
			Password: "s3cret!",
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)
		assert.Equal(t, "jane@example.com", resp.User.Email)
		assert.Equal(t, models.RoleUser, resp.User.Role)
		assert.False(t, resp.User.Verified)
		assert.NotEmpty(t, resp.User.Verification)

		stored := tc.Account(resp.User.ID)
		assert.NotEqual(t, "s3cret!", stored.PasswordHash)
		assert.Equal(t, 0, stored.LoginAttempts)
		assert.True(t, stored.BlockExpires.Equal(time.Unix(0, 0)))

		sent := tc.EmailService.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "verification", sent[0].Kind)
		assert.Equal(t, "jane@example.com", sent[0].To)
		assert.Equal(t, stored.Verification, sent[0].Code)

		// The new account can log in right away
		_, err = tc.AuthService.Login(ctx, "jane@example.com", "s3cret!", testMeta)
		require.NoError(t, err)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.CreateTestAccount("jane", "jane@example.com", "password123", models.RoleUser)

		_, err := tc.AuthService.Register(ctx, models.RegisterRequest{
			Name:     "Jane Again",
			Email:    "JANE@example.com",
			Password: "s3cret!",
		})
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
		assert.Equal(t, auth.KindAlreadyExists, auth.KindOf(err))
	})

	t.Run("Email failure does not fail registration", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.EmailService.Err = errors.New("smtp down")

		resp, err := tc.AuthService.Register(ctx, models.RegisterRequest{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Password: "s3cret!",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("Password longer than bcrypt accepts", func(t *testing.T) {
		tc := testutil.NewTestContext(t)

		_, err := tc.AuthService.Register(ctx, models.RegisterRequest{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Password: strings.Repeat("a", 80),
		})
		assert.ErrorIs(t, err, auth.ErrValidation)
		assert.Equal(t, auth.KindValidation, auth.KindOf(err))

		exists, err := tc.Accounts.EmailExists(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Empty(t, tc.EmailService.Sent())
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		account := tc.CreateTestAccount("alice", "alice@example.com", "password123", models.RoleUser)
		token := tc.GetTestToken(account.ID)

		tc.Clock.Advance(30 * time.Minute)
		resp, err := tc.AuthService.Refresh(ctx, token, testMeta)
		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)
		assert.NotEqual(t, token, resp.Token)

		// The old token expires first, the new one stays valid
		tc.Clock.Advance(45 * time.Minute)
		_, err = tc.Tokens.ResolveAccountID(token)
		assert.ErrorIs(t, err, auth.ErrBadToken)
		id, err := tc.Tokens.ResolveAccountID(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, account.ID, id)

		records := tc.Access.Records()
		require.Len(t, records, 1)
		assert.Equal(t, "alice@example.com", records[0].Email)
	})

	t.Run("Expired token", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		account := tc.CreateTestAccount("alice", "alice@example.com", "password123", models.RoleUser)
		token := tc.GetTestToken(account.ID)

		tc.Clock.Advance(61 * time.Minute)
		_, err := tc.AuthService.Refresh(ctx, token, testMeta)
		assert.ErrorIs(t, err, auth.ErrBadToken)
		assert.Empty(t, tc.Access.Records())
	})

	t.Run("Garbage token", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		_, err := tc.AuthService.Refresh(ctx, "definitely-not-a-token", testMeta)
		assert.ErrorIs(t, err, auth.ErrBadToken)
	})

	t.Run("Account gone", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		token := tc.GetTestToken(uuid.New())
		_, err := tc.AuthService.Refresh(ctx, token, testMeta)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestService_CheckRole(t *testing.T) {
	ctx := context.Background()
	tc := testutil.NewTestContext(t)
	user := tc.CreateTestAccount("user", "user@example.com", "password123", models.RoleUser)
	admin := tc.CreateTestAccount("admin", "admin@example.com", "password123", models.RoleAdmin)

	got, err := tc.AuthService.CheckRole(ctx, admin.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	_, err = tc.AuthService.CheckRole(ctx, user.ID, models.RoleUser, models.RoleAdmin)
	require.NoError(t, err)

	_, err = tc.AuthService.CheckRole(ctx, user.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = tc.AuthService.CheckRole(ctx, uuid.New(), models.RoleAdmin)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestService_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	changeMeta := models.RequestMeta{IP: "10.9.9.9", Browser: "Firefox", Country: "NO"}
	tc := testutil.NewTestContext(t)
	account := tc.CreateTestAccount("alice", "alice@example.com", "password123", models.RoleUser)

	resp, err := tc.AuthService.VerifyEmail(ctx, account.Verification)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.True(t, resp.Verified)
	assert.True(t, tc.Account(account.ID).Verified)

	t.Run("Second use", func(t *testing.T) {
		_, err := tc.AuthService.VerifyEmail(ctx, account.Verification)
		assert.ErrorIs(t, err, auth.ErrNotFoundOrAlreadyVerified)
	})

	t.Run("Password longer than bcrypt accepts", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.CreateTestAccount("alice", "alice@example.com", "oldpassword", models.RoleUser)

		forgot, err := tc.AuthService.ForgotPassword(ctx, "alice@example.com", testMeta)
		require.NoError(t, err)

		_, err = tc.AuthService.ResetPassword(ctx, forgot.Verification, strings.Repeat("a", 80), changeMeta)
		assert.ErrorIs(t, err, auth.ErrValidation)
		assert.Equal(t, auth.KindValidation, auth.KindOf(err))

		requests := tc.Resets.All()
		require.Len(t, requests, 1)
		assert.False(t, requests[0].Used)
	})

	t.Run("Failed save gives the code back", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.CreateTestAccount("alice", "alice@example.com", "oldpassword", models.RoleUser)

		forgot, err := tc.AuthService.ForgotPassword(ctx, "alice@example.com", testMeta)
		require.NoError(t, err)

		tc.Accounts.SaveErr = errors.New("connection reset")
		_, err = tc.AuthService.ResetPassword(ctx, forgot.Verification, "newpassword", changeMeta)
		assert.ErrorIs(t, err, auth.ErrValidation)

		requests := tc.Resets.All()
		require.Len(t, requests, 1)
		assert.False(t, requests[0].Used)
		assert.Empty(t, requests[0].IPChanged)
		assert.Empty(t, requests[0].BrowserChanged)
		assert.Empty(t, requests[0].CountryChanged)

		tc.Accounts.SaveErr = nil
		_, err = tc.AuthService.Login(ctx, "alice@example.com", "oldpassword", testMeta)
		require.NoError(t, err)

		_, err = tc.AuthService.ResetPassword(ctx, forgot.Verification, "newpassword", changeMeta)
		require.NoError(t, err)
		_, err = tc.AuthService.Login(ctx, "alice@example.com", "newpassword", testMeta)
		require.NoError(t, err)
		assert.True(t, tc.Resets.All()[0].Used)
	})

	t.Run("Unknown code", func(t *testing.T) {
		_, err := tc.AuthService.VerifyEmail(ctx, uuid.NewString())
		assert.ErrorIs(t, err, auth.ErrNotFoundOrAlreadyVerified)
	})
}

func TestService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	changeMeta := models.RequestMeta{IP: "10.9.9.9", Browser: "Firefox", Country: "NO"}

	t.Run("Forgot then reset then login", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		account := tc.CreateTestAccount("alice", "a@x.com", "oldpassword", models.RoleUser)

		forgot, err := tc.AuthService.ForgotPassword(ctx, "a@x.com", testMeta)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", forgot.Email)
		assert.Equal(t, auth.MsgResetEmailSent, forgot.Msg)
		require.NotEmpty(t, forgot.Verification)

		sent := tc.EmailService.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "reset", sent[0].Kind)
		assert.Equal(t, forgot.Verification, sent[0].Code)

		reset, err := tc.AuthService.ResetPassword(ctx, forgot.Verification, "newpw", changeMeta)
		require.NoError(t, err)
		assert.Equal(t, auth.MsgPasswordChanged, reset.Msg)

		_, err = tc.AuthService.Login(ctx, "a@x.com", "newpw", testMeta)
		require.NoError(t, err)

		_, err = tc.AuthService.Login(ctx, "a@x.com", "oldpassword", testMeta)
		assert.ErrorIs(t, err, auth.ErrWrongPassword)
		assert.Equal(t, 1, tc.Account(account.ID).LoginAttempts)

		requests := tc.Resets.All()
		require.Len(t, requests, 1)
		assert.True(t, requests[0].Used)
		assert.Equal(t, "10.0.0.1", requests[0].IPRequest)
		assert.Equal(t, "SE", requests[0].CountryRequest)
		assert.Equal(t, "10.9.9.9", requests[0].IPChanged)
		assert.Equal(t, "Firefox", requests[0].BrowserChanged)
		assert.Equal(t, "NO", requests[0].CountryChanged)
	})

	t.Run("Code is single use", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.CreateTestAccount("alice", "alice@example.com", "oldpassword", models.RoleUser)

		forgot, err := tc.AuthService.ForgotPassword(ctx, "alice@example.com", testMeta)
		require.NoError(t, err)

		_, err = tc.AuthService.ResetPassword(ctx, forgot.Verification, "firstpw", changeMeta)
		require.NoError(t, err)

		_, err = tc.AuthService.ResetPassword(ctx, forgot.Verification, "secondpw", changeMeta)
		assert.ErrorIs(t, err, auth.ErrNotFoundOrAlreadyUsed)

		_, err = tc.AuthService.Login(ctx, "alice@example.com", "firstpw", testMeta)
		assert.NoError(t, err)
	})

	t.Run("Unknown email", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		_, err := tc.AuthService.ForgotPassword(ctx, "nobody@example.com", testMeta)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
		assert.Empty(t, tc.Resets.All())
		assert.Empty(t, tc.EmailService.Sent())
	})

	t.Run("Unknown code", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		_, err := tc.AuthService.ResetPassword(ctx, uuid.NewString(), "newpw", changeMeta)
		assert.ErrorIs(t, err, auth.ErrNotFoundOrAlreadyUsed)
	})

	t.Run("Verification hidden in production", func(t *testing.T) {
		cfg := testutil.TestConfig()
		cfg.API.Environment = "production"
		tc := testutil.NewTestContextWithConfig(t, cfg)
		tc.CreateTestAccount("alice", "alice@example.com", "oldpassword", models.RoleUser)

		forgot, err := tc.AuthService.ForgotPassword(ctx, "alice@example.com", testMeta)
		require.NoError(t, err)
		assert.Empty(t, forgot.Verification)
		assert.Len(t, tc.EmailService.Sent(), 1)
	})
}

func TestService_ConcurrentResetSingleWinner(t *testing.T) {
	ctx := context.Background()
	tc := testutil.NewTestContext(t)
	tc.CreateTestAccount("alice", "alice@example.com", "oldpassword", models.RoleUser)

	forgot, err := tc.AuthService.ForgotPassword(ctx, "alice@example.com", testMeta)
	require.NoError(t, err)

	const workers = 8
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := tc.AuthService.ResetPassword(ctx, forgot.Verification, "newpassword", testMeta)
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < workers; i++ {
		if err := <-errs; err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, auth.ErrNotFoundOrAlreadyUsed)
		}
	}
	assert.Equal(t, 1, succeeded)
}
