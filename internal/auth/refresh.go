package auth

import (
	"citygate/internal/models"
	"context"

	"github.com/google/uuid"
)

// Refresh exchanges a valid token for a fresh one and audits the access
func (s *Service) Refresh(ctx context.Context, token string, meta models.RequestMeta) (*models.TokenResponse, error) {
	id, err := s.tokens.ResolveAccountID(token)
	if err != nil {
		return nil, err
	}

	account, err := s.findByID(ctx, id, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	fresh, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, account.Email, meta)

	return &models.TokenResponse{Token: fresh}, nil
}

// Authenticate resolves a bearer token to its account
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	id, err := s.tokens.ResolveAccountID(token)
	if err != nil {
		return nil, err
	}
	return s.findByID(ctx, id, ErrUserNotFound)
}

// CurrentAccount returns the public view of the account with the given id
func (s *Service) CurrentAccount(ctx context.Context, id uuid.UUID) (*models.AccountSummary, error) {
	account, err := s.findByID(ctx, id, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	summary := s.summary(account)
	return &summary, nil
}
