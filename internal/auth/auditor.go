package auth

import (
	"citygate/internal/models"
	"citygate/internal/repository"
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Auditor appends access records. It never fails the caller: write errors are
// logged and dropped.
type Auditor struct {
	repo repository.AccessRepository
	now  func() time.Time
}

// NewAuditor creates an auditor writing to repo
func NewAuditor(repo repository.AccessRepository, now func() time.Time) *Auditor {
	if now == nil {
		now = time.Now
	}
	return &Auditor{repo: repo, now: now}
}

// Record stores one successful authentication for email
func (a *Auditor) Record(ctx context.Context, email string, meta models.RequestMeta) {
	if a == nil || a.repo == nil {
		return
	}
	record := &models.AccessRecord{
		ID:        uuid.New(),
		Email:     email,
		IP:        meta.IP,
		Browser:   meta.Browser,
		Country:   meta.Country,
		CreatedAt: a.now(),
	}
	if err := a.repo.Create(ctx, record); err != nil {
		log.Printf("Failed to record access for %s: %v", email, err)
	}
}
