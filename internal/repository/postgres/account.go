package postgres

import (
	"citygate/internal/models"
	"citygate/internal/repository"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const accountColumns = `
	id, name, email, password, role, verified, verification,
	login_attempts, block_expires, created_at, updated_at`

type accountRepository struct {
	repository.BaseRepository
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	var role string
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&role,
		&account.Verified,
		&account.Verification,
		&account.LoginAttempts,
		&account.BlockExpires,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	account.Role = models.Role(role)
	return account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING created_at, updated_at`

	if !account.Role.Valid() {
		return fmt.Errorf("%w: %q", repository.ErrInvalidRole, account.Role)
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.BlockExpires.IsZero() {
		account.BlockExpires = time.Unix(0, 0).UTC()
	}
	account.Email = repository.NormalizeEmail(account.Email)

	err := r.DB().QueryRowContext(ctx, query,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		account.Verified,
		account.Verification,
		account.LoginAttempts,
		account.BlockExpires,
		time.Now(),
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.DB().QueryRowContext(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.DB().QueryRowContext(ctx, query, repository.NormalizeEmail(email)))
}

func (r *accountRepository) GetUnverifiedByVerification(ctx context.Context, code string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE verification = $1 AND verified = false`
	return scanAccount(r.DB().QueryRowContext(ctx, query, code))
}

func (r *accountRepository) Save(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $1,
			email = $2,
			password = $3,
			role = $4,
			verified = $5,
			verification = $6,
			login_attempts = $7,
			block_expires = $8,
			updated_at = $9
		WHERE id = $10
		RETURNING updated_at`

	account.Email = repository.NormalizeEmail(account.Email)
	err := r.DB().QueryRowContext(ctx, query,
		account.Name,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		account.Verified,
		account.Verification,
		account.LoginAttempts,
		account.BlockExpires,
		time.Now(),
		account.ID,
	).Scan(&account.UpdatedAt)
	if err == sql.ErrNoRows {
		return repository.ErrAccountNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *accountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB().QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)",
		repository.NormalizeEmail(email),
	).Scan(&exists)
	return exists, err
}

func (r *accountRepository) EmailExistsExcludingSelf(ctx context.Context, id uuid.UUID, email string) (bool, error) {
	var exists bool
	err := r.DB().QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1 AND id != $2)",
		repository.NormalizeEmail(email),
		id,
	).Scan(&exists)
	return exists, err
}
