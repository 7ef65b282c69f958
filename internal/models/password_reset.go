package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetRequest is a forgot-password record. Request* fields describe
// where the reset was asked for, Changed* fields where it was completed.
type PasswordResetRequest struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	Verification   string    `json:"-" db:"verification"`
	IPRequest      string    `json:"ip_request" db:"ip_request"`
	BrowserRequest string    `json:"browser_request" db:"browser_request"`
	CountryRequest string    `json:"country_request" db:"country_request"`
	Used           bool      `json:"used" db:"used"`
	IPChanged      string    `json:"ip_changed" db:"ip_changed"`
	BrowserChanged string    `json:"browser_changed" db:"browser_changed"`
	CountryChanged string    `json:"country_changed" db:"country_changed"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
