package scheduler

import (
	"citygate/internal/repository"
	"context"
	"fmt"
	"log"
	"time"
)

// PurgeAccessJob deletes access records older than the retention period
type PurgeAccessJob struct {
	repo      repository.AccessRepository
	retention time.Duration
	now       func() time.Time
}

func NewPurgeAccessJob(repo repository.AccessRepository, retention time.Duration) *PurgeAccessJob {
	return &PurgeAccessJob{repo: repo, retention: retention, now: time.Now}
}

func (j *PurgeAccessJob) Name() string { return "purge-access-records" }

func (j *PurgeAccessJob) Run(ctx context.Context) error {
	deleted, err := j.repo.DeleteOlderThan(ctx, j.now().Add(-j.retention))
	if err != nil {
		return fmt.Errorf("failed to purge access records: %w", err)
	}
	log.Printf("Purged %d access records older than %s", deleted, j.retention)
	return nil
}

// PurgeResetsJob deletes password reset requests older than the retention period
type PurgeResetsJob struct {
	repo      repository.PasswordResetRepository
	retention time.Duration
	now       func() time.Time
}

func NewPurgeResetsJob(repo repository.PasswordResetRepository, retention time.Duration) *PurgeResetsJob {
	return &PurgeResetsJob{repo: repo, retention: retention, now: time.Now}
}

func (j *PurgeResetsJob) Name() string { return "purge-password-resets" }

func (j *PurgeResetsJob) Run(ctx context.Context) error {
	deleted, err := j.repo.DeleteOlderThan(ctx, j.now().Add(-j.retention))
	if err != nil {
		return fmt.Errorf("failed to purge password resets: %w", err)
	}
	log.Printf("Purged %d password reset requests older than %s", deleted, j.retention)
	return nil
}

// FuncJob adapts a plain function to Job
type FuncJob struct {
	name string
	fn   func(ctx context.Context) error
}

func NewFuncJob(name string, fn func(ctx context.Context) error) FuncJob {
	return FuncJob{name: name, fn: fn}
}

func (j FuncJob) Name() string { return j.name }

func (j FuncJob) Run(ctx context.Context) error { return j.fn(ctx) }
