package auth

import (
	"citygate/internal/models"
	"citygate/internal/repository"
	"context"
	"errors"
)

// VerifyEmail marks the account holding code as verified. A code can only be
// redeemed once.
func (s *Service) VerifyEmail(ctx context.Context, code string) (*models.VerifyResponse, error) {
	account, err := s.accounts.GetUnverifiedByVerification(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrNotFoundOrAlreadyVerified
		}
		return nil, storeError("find verification", err)
	}

	account.Verified = true
	if err := s.save(ctx, account); err != nil {
		return nil, err
	}

	return &models.VerifyResponse{
		Email:    account.Email,
		Verified: true,
	}, nil
}
