package repository

import (
	"citygate/internal/models"
	"context"
	"time"

	"github.com/google/uuid"
)

// PasswordResetRepository stores forgot-password requests
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *models.PasswordResetRequest) error
	// GetUnusedByVerification returns ErrResetNotFound for unknown or used codes
	GetUnusedByVerification(ctx context.Context, code string) (*models.PasswordResetRequest, error)
	// MarkAsUsed flips used to true only if it is still false, otherwise
	// it returns ErrResetAlreadyUsed
	MarkAsUsed(ctx context.Context, id uuid.UUID, changedFrom models.RequestMeta) error
	// Release undoes a claim whose password write failed. It returns
	// ErrResetNotFound when the request is not currently used.
	Release(ctx context.Context, id uuid.UUID) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
