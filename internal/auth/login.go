package auth

import (
	"citygate/internal/models"
	"context"
	"fmt"
	"time"
)

// Login authenticates an account by email and password under the lockout
// policy. On success the attempt counter is cleared, the access is audited
// and a token is issued.
func (s *Service) Login(ctx context.Context, emailAddr, password string, meta models.RequestMeta) (*models.AuthResponse, error) {
	account, err := s.findByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if s.policy.IsBlocked(account, now) {
		return nil, ErrBlocked
	}

	if s.policy.BlockIsExpired(account, now) {
		account.LoginAttempts = 0
		if err := s.save(ctx, account); err != nil {
			return nil, err
		}
	}

	match, err := s.hasher.Compare(account.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}
	if !match {
		return nil, s.registerFailedAttempt(ctx, account, now)
	}

	account.LoginAttempts = 0
	if err := s.save(ctx, account); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, account.Email, meta)

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  s.summary(account),
	}, nil
}

// registerFailedAttempt counts a wrong password. Crossing the limit opens a
// block window and answers ErrBlocked instead of ErrWrongPassword.
func (s *Service) registerFailedAttempt(ctx context.Context, account *models.Account, now time.Time) error {
	account.LoginAttempts++
	if err := s.save(ctx, account); err != nil {
		return err
	}
	if account.LoginAttempts <= s.policy.AttemptLimit {
		return ErrWrongPassword
	}

	account.BlockExpires = s.policy.BlockUntil(now)
	if err := s.save(ctx, account); err != nil {
		return err
	}
	return ErrBlocked
}
