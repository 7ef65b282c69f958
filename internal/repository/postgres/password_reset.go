package postgres

import (
	"citygate/internal/models"
	"citygate/internal/repository"
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type passwordResetRepository struct {
	repository.BaseRepository
}

// NewPasswordResetRepository creates a new PostgreSQL password reset repository
func NewPasswordResetRepository(db *sql.DB) repository.PasswordResetRepository {
	return &passwordResetRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *passwordResetRepository) Create(ctx context.Context, reset *models.PasswordResetRequest) error {
	query := `
		INSERT INTO password_resets (
			id, email, verification, ip_request, browser_request, country_request,
			used, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, false, $7, $7)
		RETURNING created_at, updated_at`

	if reset.ID == uuid.Nil {
		reset.ID = uuid.New()
	}
	reset.Email = repository.NormalizeEmail(reset.Email)
	reset.Used = false

	err := r.DB().QueryRowContext(ctx, query,
		reset.ID,
		reset.Email,
		reset.Verification,
		reset.IPRequest,
		reset.BrowserRequest,
		reset.CountryRequest,
		time.Now(),
	).Scan(&reset.CreatedAt, &reset.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEntry
		}
		return err
	}
	return nil
}

func (r *passwordResetRepository) GetUnusedByVerification(ctx context.Context, code string) (*models.PasswordResetRequest, error) {
	reset := &models.PasswordResetRequest{}
	query := `
		SELECT id, email, verification, ip_request, browser_request, country_request,
		       used, ip_changed, browser_changed, country_changed, created_at, updated_at
		FROM password_resets
		WHERE verification = $1 AND used = false`

	err := r.DB().QueryRowContext(ctx, query, code).Scan(
		&reset.ID,
		&reset.Email,
		&reset.Verification,
		&reset.IPRequest,
		&reset.BrowserRequest,
		&reset.CountryRequest,
		&reset.Used,
		&reset.IPChanged,
		&reset.BrowserChanged,
		&reset.CountryChanged,
		&reset.CreatedAt,
		&reset.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrResetNotFound
	}
	if err != nil {
		return nil, err
	}
	return reset, nil
}

func (r *passwordResetRepository) MarkAsUsed(ctx context.Context, id uuid.UUID, changedFrom models.RequestMeta) error {
	query := `
		UPDATE password_resets
		SET used = true,
			ip_changed = $1,
			browser_changed = $2,
			country_changed = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND used = false`

	result, err := r.DB().ExecContext(ctx, query, changedFrom.IP, changedFrom.Browser, changedFrom.Country, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrResetAlreadyUsed
	}

	return nil
}

func (r *passwordResetRepository) Release(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE password_resets
		SET used = false,
			ip_changed = '',
			browser_changed = '',
			country_changed = '',
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND used = true`

	result, err := r.DB().ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrResetNotFound
	}

	return nil
}

func (r *passwordResetRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.DB().ExecContext(ctx, `DELETE FROM password_resets WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
