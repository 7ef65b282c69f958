package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessRecord is an immutable audit entry written on every successful login or refresh
type AccessRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	IP        string    `json:"ip" db:"ip"`
	Browser   string    `json:"browser" db:"browser"`
	Country   string    `json:"country" db:"country"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
