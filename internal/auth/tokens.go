package auth

import (
	"citygate/internal/config"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// TokenService issues and resolves the signed-then-encrypted bearer tokens.
// It holds no state besides its keys, so it is safe for concurrent use.
type TokenService struct {
	signer     *Signer
	codec      *Codec
	expiration time.Duration
	now        func() time.Time
}

// NewTokenService builds the signer and codec from the security configuration
func NewTokenService(cfg config.SecurityConfig) (*TokenService, error) {
	signer, err := NewSigner(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	codec, err := NewCodec(cfg.EncryptionSecret)
	if err != nil {
		return nil, err
	}
	return &TokenService{
		signer:     signer,
		codec:      codec,
		expiration: cfg.TokenExpiration,
		now:        time.Now,
	}, nil
}

// SetClock replaces the time source, tests use it to move past expiry
func (t *TokenService) SetClock(now func() time.Time) {
	t.now = now
}

// Issue returns a token for accountID valid for the configured expiration
func (t *TokenService) Issue(accountID uuid.UUID) (string, error) {
	signed, err := t.signer.Sign(accountID, t.now().Add(t.expiration))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	encrypted, err := t.codec.Encrypt(signed)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt token: %w", err)
	}
	return encrypted, nil
}

// ResolveAccountID decrypts, verifies and checks the expiry of token, in that
// order. Any failure is reported as ErrBadToken; the stage that failed is
// wrapped alongside it and logged.
func (t *TokenService) ResolveAccountID(token string) (uuid.UUID, error) {
	signed, err := t.codec.Decrypt(token)
	if err != nil {
		log.Printf("Rejected token: %v: %v", ErrTokenDecrypt, err)
		return uuid.Nil, fmt.Errorf("%w: %w", ErrBadToken, ErrTokenDecrypt)
	}

	claims, err := t.signer.Verify(signed, t.now())
	if err != nil {
		log.Printf("Rejected token: %v", err)
		return uuid.Nil, fmt.Errorf("%w: %w", ErrBadToken, err)
	}

	id, err := uuid.Parse(claims.Data.ID)
	if err != nil {
		log.Printf("Rejected token: %v: %v", ErrTokenClaims, err)
		return uuid.Nil, fmt.Errorf("%w: %w", ErrBadToken, ErrTokenClaims)
	}
	return id, nil
}
