package repository

import (
	"citygate/internal/models"
	"context"

	"github.com/google/uuid"
)

// AccountRepository is the credential store. Lookups return ErrAccountNotFound
// when nothing matches.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// GetUnverifiedByVerification only matches accounts with verified = false
	GetUnverifiedByVerification(ctx context.Context, code string) (*models.Account, error)
	// Save writes every mutable field of the account in a single statement
	Save(ctx context.Context, account *models.Account) error
	EmailExists(ctx context.Context, email string) (bool, error)
	EmailExistsExcludingSelf(ctx context.Context, id uuid.UUID, email string) (bool, error)
}
