package auth

import (
	"citygate/internal/config"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, now *time.Time) *TokenService {
	t.Helper()
	svc, err := NewTokenService(config.SecurityConfig{
		JWTSecret:        "test_secret_key",
		EncryptionSecret: "test_encryption_key",
		TokenExpiration:  time.Hour,
	})
	require.NoError(t, err)
	svc.SetClock(func() time.Time { return *now })
	return svc
}

func TestTokenService_RoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 20, 13, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, &now)

	id := uuid.New()
	token, err := svc.Issue(id)
	require.NoError(t, err)

	got, err := svc.ResolveAccountID(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	// Still valid one second before expiry
	now = now.Add(time.Hour - time.Second)
	_, err = svc.ResolveAccountID(token)
	assert.NoError(t, err)
}

func TestTokenService_Rejects(t *testing.T) {
	now := time.Date(2024, 3, 20, 13, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, &now)

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	t.Run("Expired", func(t *testing.T) {
		later := now.Add(time.Hour + time.Second)
		expiring := newTestTokenService(t, &later)
		_, err := expiring.ResolveAccountID(token)
		assert.ErrorIs(t, err, ErrBadToken)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("Tampered ciphertext", func(t *testing.T) {
		raw := []byte(token)
		if raw[10] == 'A' {
			raw[10] = 'B'
		} else {
			raw[10] = 'A'
		}
		_, err := svc.ResolveAccountID(string(raw))
		assert.ErrorIs(t, err, ErrBadToken)
		assert.ErrorIs(t, err, ErrTokenDecrypt)
	})

	t.Run("Plain JWT without encryption", func(t *testing.T) {
		signed, err := svc.signer.Sign(uuid.New(), now.Add(time.Hour))
		require.NoError(t, err)
		_, err = svc.ResolveAccountID(signed)
		assert.ErrorIs(t, err, ErrBadToken)
		assert.ErrorIs(t, err, ErrTokenDecrypt)
	})

	t.Run("Encrypted but signed with another secret", func(t *testing.T) {
		foreign, err := NewSigner("wrong-secret")
		require.NoError(t, err)
		signed, err := foreign.Sign(uuid.New(), now.Add(time.Hour))
		require.NoError(t, err)
		encrypted, err := svc.codec.Encrypt(signed)
		require.NoError(t, err)

		_, err = svc.ResolveAccountID(encrypted)
		assert.ErrorIs(t, err, ErrBadToken)
		assert.ErrorIs(t, err, ErrTokenSignature)
	})

	t.Run("Bad account id claim", func(t *testing.T) {
		claims := Claims{Data: ClaimsData{ID: "not-a-uuid"}}
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Hour))
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test_secret_key"))
		require.NoError(t, err)
		encrypted, err := svc.codec.Encrypt(signed)
		require.NoError(t, err)

		_, err = svc.ResolveAccountID(encrypted)
		assert.ErrorIs(t, err, ErrBadToken)
		assert.ErrorIs(t, err, ErrTokenClaims)
	})
}
