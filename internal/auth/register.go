package auth

import (
	"citygate/internal/models"
	"citygate/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Register creates an unverified account with the user role, sends the
// verification email and returns a token for the new account.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	emailAddr := repository.NormalizeEmail(req.Email)

	exists, err := s.accounts.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, storeError("check email", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	account := &models.Account{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        emailAddr,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Verification: uuid.NewString(),
		BlockExpires: time.Unix(0, 0).UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, storeError("create account", err)
	}

	if err := s.mailer.SendVerificationEmail(account.Email, account.Name, account.Verification); err != nil {
		log.Printf("Failed to send verification email to %s: %v", account.Email, err)
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  s.summary(account),
	}, nil
}
