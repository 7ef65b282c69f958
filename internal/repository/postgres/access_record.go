package postgres

import (
	"citygate/internal/models"
	"citygate/internal/repository"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type accessRepository struct {
	repository.BaseRepository
}

// NewAccessRepository creates a new PostgreSQL access record repository
func NewAccessRepository(db *sql.DB) repository.AccessRepository {
	return &accessRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *accessRepository) Create(ctx context.Context, record *models.AccessRecord) error {
	query := `
		INSERT INTO access_records (id, email, ip, browser, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.Email = repository.NormalizeEmail(record.Email)

	_, err := r.DB().ExecContext(ctx, query,
		record.ID,
		record.Email,
		record.IP,
		record.Browser,
		record.Country,
		record.CreatedAt,
	)
	return err
}

func (r *accessRepository) List(ctx context.Context, filter repository.AccessFilter) ([]models.AccessRecord, error) {
	conditions := make([]string, 0)
	args := make([]interface{}, 0)
	argCount := 1

	if filter.Email != nil {
		conditions = append(conditions, fmt.Sprintf("email = $%d", argCount))
		args = append(args, repository.NormalizeEmail(*filter.Email))
		argCount++
	}
	if filter.CreatedAfter != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argCount))
		args = append(args, *filter.CreatedAfter)
		argCount++
	}
	if filter.CreatedBefore != nil {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", argCount))
		args = append(args, *filter.CreatedBefore)
		argCount++
	}

	query := `SELECT id, email, ip, browser, country, created_at FROM access_records`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, *filter.Limit)
		argCount++
	}
	if filter.Offset != nil {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, *filter.Offset)
	}

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.AccessRecord, 0)
	for rows.Next() {
		var rec models.AccessRecord
		if err := rows.Scan(&rec.ID, &rec.Email, &rec.IP, &rec.Browser, &rec.Country, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *accessRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.DB().ExecContext(ctx, `DELETE FROM access_records WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
