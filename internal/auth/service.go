package auth

import (
	"citygate/internal/config"
	"citygate/internal/email"
	"citygate/internal/models"
	"citygate/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Deps holds the collaborators of the account security engine
type Deps struct {
	Accounts repository.AccountRepository
	Resets   repository.PasswordResetRepository
	Access   repository.AccessRepository
	Tokens   *TokenService
	Hasher   PasswordHasher
	Mailer   email.Sender
	// Now defaults to time.Now
	Now func() time.Time
}

// Service implements login, registration, token refresh, email verification
// and password reset on top of the repositories.
type Service struct {
	accounts repository.AccountRepository
	resets   repository.PasswordResetRepository
	auditor  *Auditor
	tokens   *TokenService
	hasher   PasswordHasher
	mailer   email.Sender
	policy   LockoutPolicy
	// exposeCodes echoes verification codes in responses outside production
	exposeCodes bool
	now         func() time.Time
}

// NewService creates a new account security service
func NewService(cfg *config.Config, deps Deps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	mailer := deps.Mailer
	if mailer == nil {
		mailer = email.NoopSender{}
	}
	hasher := deps.Hasher
	if hasher.cost == 0 {
		hasher = NewPasswordHasher(0)
	}
	if deps.Tokens != nil {
		deps.Tokens.SetClock(now)
	}

	return &Service{
		accounts:    deps.Accounts,
		resets:      deps.Resets,
		auditor:     NewAuditor(deps.Access, now),
		tokens:      deps.Tokens,
		hasher:      hasher,
		mailer:      mailer,
		policy:      NewLockoutPolicy(cfg.Security),
		exposeCodes: !cfg.IsProduction(),
		now:         now,
	}
}

// Tokens exposes the token service to the transport layer
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

func (s *Service) findByEmail(ctx context.Context, emailAddr string) (*models.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, repository.NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("find account", err)
	}
	return account, nil
}

func (s *Service) findByID(ctx context.Context, id uuid.UUID, notFound error) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, notFound
		}
		return nil, storeError("find account", err)
	}
	return account, nil
}

func (s *Service) save(ctx context.Context, account *models.Account) error {
	account.UpdatedAt = s.now()
	if err := s.accounts.Save(ctx, account); err != nil {
		return storeError("save account", err)
	}
	return nil
}

func (s *Service) summary(account *models.Account) models.AccountSummary {
	return models.NewAccountSummary(account, s.exposeCodes)
}
