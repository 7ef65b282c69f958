// Package memstore provides in-memory repositories for tests that do not need Postgres
package memstore

import (
	"citygate/internal/models"
	"citygate/internal/repository"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AccountStore is an in-memory repository.AccountRepository
type AccountStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]models.Account
	// SaveErr, when set, is returned by Save
	SaveErr error
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[uuid.UUID]models.Account)}
}

func (s *AccountStore) Create(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !account.Role.Valid() {
		return fmt.Errorf("%w: %q", repository.ErrInvalidRole, account.Role)
	}
	account.Email = repository.NormalizeEmail(account.Email)
	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return repository.ErrEmailExists
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.BlockExpires.IsZero() {
		account.BlockExpires = time.Unix(0, 0).UTC()
	}
	s.accounts[account.ID] = *account
	return nil
}

func (s *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return &account, nil
}

func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = repository.NormalizeEmail(email)
	for _, account := range s.accounts {
		if account.Email == email {
			return &account, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (s *AccountStore) GetUnverifiedByVerification(ctx context.Context, code string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.Verification == code && !account.Verified {
			return &account, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (s *AccountStore) Save(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	if _, ok := s.accounts[account.ID]; !ok {
		return repository.ErrAccountNotFound
	}
	s.accounts[account.ID] = *account
	return nil
}

func (s *AccountStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.EmailExistsExcludingSelf(ctx, uuid.Nil, email)
}

func (s *AccountStore) EmailExistsExcludingSelf(ctx context.Context, id uuid.UUID, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = repository.NormalizeEmail(email)
	for _, account := range s.accounts {
		if account.Email == email && account.ID != id {
			return true, nil
		}
	}
	return false, nil
}

// Get returns a copy of the stored account, nil if absent
func (s *AccountStore) Get(id uuid.UUID) *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil
	}
	return &account
}

// AccessStore is an in-memory repository.AccessRepository
type AccessStore struct {
	mu      sync.Mutex
	records []models.AccessRecord
	// CreateErr, when set, is returned by Create
	CreateErr error
}

func NewAccessStore() *AccessStore {
	return &AccessStore{}
}

func (s *AccessStore) Create(ctx context.Context, record *models.AccessRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		return s.CreateErr
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.records = append(s.records, *record)
	return nil
}

func (s *AccessStore) List(ctx context.Context, filter repository.AccessFilter) ([]models.AccessRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.AccessRecord
	for _, r := range s.records {
		if filter.Email != nil && r.Email != repository.NormalizeEmail(*filter.Email) {
			continue
		}
		if filter.CreatedAfter != nil && r.CreatedAt.Before(*filter.CreatedAfter) {
			continue
		}
		if filter.CreatedBefore != nil && r.CreatedAt.After(*filter.CreatedBefore) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Offset != nil {
		if *filter.Offset >= len(out) {
			return []models.AccessRecord{}, nil
		}
		out = out[*filter.Offset:]
	}
	if filter.Limit != nil && *filter.Limit < len(out) {
		out = out[:*filter.Limit]
	}
	return out, nil
}

func (s *AccessStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, r := range s.records {
		if r.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, nil
}

// Records returns a copy of every stored record in insertion order
func (s *AccessStore) Records() []models.AccessRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.AccessRecord, len(s.records))
	copy(out, s.records)
	return out
}

// ResetStore is an in-memory repository.PasswordResetRepository
type ResetStore struct {
	mu     sync.Mutex
	resets map[uuid.UUID]models.PasswordResetRequest
}

func NewResetStore() *ResetStore {
	return &ResetStore{resets: make(map[uuid.UUID]models.PasswordResetRequest)}
}

func (s *ResetStore) Create(ctx context.Context, reset *models.PasswordResetRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.resets {
		if existing.Verification == reset.Verification {
			return repository.ErrDuplicateEntry
		}
	}
	if reset.ID == uuid.Nil {
		reset.ID = uuid.New()
	}
	s.resets[reset.ID] = *reset
	return nil
}

func (s *ResetStore) GetUnusedByVerification(ctx context.Context, code string) (*models.PasswordResetRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, reset := range s.resets {
		if reset.Verification == code && !reset.Used {
			return &reset, nil
		}
	}
	return nil, repository.ErrResetNotFound
}

func (s *ResetStore) MarkAsUsed(ctx context.Context, id uuid.UUID, changedFrom models.RequestMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reset, ok := s.resets[id]
	if !ok || reset.Used {
		return repository.ErrResetAlreadyUsed
	}
	reset.Used = true
	reset.IPChanged = changedFrom.IP
	reset.BrowserChanged = changedFrom.Browser
	reset.CountryChanged = changedFrom.Country
	s.resets[id] = reset
	return nil
}

func (s *ResetStore) Release(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reset, ok := s.resets[id]
	if !ok || !reset.Used {
		return repository.ErrResetNotFound
	}
	reset.Used = false
	reset.IPChanged = ""
	reset.BrowserChanged = ""
	reset.CountryChanged = ""
	s.resets[id] = reset
	return nil
}

func (s *ResetStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, reset := range s.resets {
		if reset.CreatedAt.Before(cutoff) {
			delete(s.resets, id)
			deleted++
		}
	}
	return deleted, nil
}

// All returns a copy of every stored request
func (s *ResetStore) All() []models.PasswordResetRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PasswordResetRequest, 0, len(s.resets))
	for _, reset := range s.resets {
		out = append(out, reset)
	}
	return out
}

var (
	_ repository.AccountRepository       = (*AccountStore)(nil)
	_ repository.AccessRepository        = (*AccessStore)(nil)
	_ repository.PasswordResetRepository = (*ResetStore)(nil)
)
