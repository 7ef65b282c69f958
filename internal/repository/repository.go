// Package repository defines the persistence contracts used by the account security engine
package repository

import (
	"database/sql"
	"strings"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sql.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sql.DB) BaseRepository {
	return BaseRepository{db: db}
}

// DB returns the database connection
func (r *BaseRepository) DB() *sql.DB {
	return r.db
}

// NormalizeEmail lower-cases and trims an address so lookups and writes agree
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
