package auth

import (
	"citygate/internal/models"
	"context"

	"github.com/google/uuid"
)

// CheckRole loads the account and fails with ErrUnauthorized unless its role
// is one of allowed.
func (s *Service) CheckRole(ctx context.Context, id uuid.UUID, allowed ...models.Role) (*models.Account, error) {
	account, err := s.findByID(ctx, id, ErrNotFound)
	if err != nil {
		return nil, err
	}
	for _, role := range allowed {
		if account.Role == role {
			return account, nil
		}
	}
	return nil, ErrUnauthorized
}
