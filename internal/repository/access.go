package repository

import (
	"citygate/internal/models"
	"context"
	"time"
)

// AccessRepository stores the audit trail of successful authentications
type AccessRepository interface {
	Create(ctx context.Context, record *models.AccessRecord) error
	List(ctx context.Context, filter AccessFilter) ([]models.AccessRecord, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AccessFilter defines the filter options for listing access records
type AccessFilter struct {
	Email         *string    // Filter by email
	CreatedAfter  *time.Time // Filter by creation time
	CreatedBefore *time.Time // Filter by creation time
	Limit         *int       // Limit results
	Offset        *int       // Offset results
}
