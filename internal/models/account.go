package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the authorization level of an account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account represents a registered identity with its credentials and lockout state
type Account struct {
	ID            uuid.UUID `json:"_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	Verified      bool      `json:"verified"`
	Verification  string    `json:"-"`
	LoginAttempts int       `json:"-"`
	BlockExpires  time.Time `json:"-"` // Unix epoch when never blocked
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AccountSummary is the redacted account shape returned to clients
type AccountSummary struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Verified     bool      `json:"verified"`
	Verification string    `json:"verification,omitempty"`
}

// NewAccountSummary builds the client view of an account. The verification
// code is only copied when exposeVerification is set (non-production).
func NewAccountSummary(a *Account, exposeVerification bool) AccountSummary {
	s := AccountSummary{
		ID:       a.ID,
		Name:     a.Name,
		Email:    a.Email,
		Role:     a.Role,
		Verified: a.Verified,
	}
	if exposeVerification {
		s.Verification = a.Verification
	}
	return s
}

// RequestMeta describes where a request came from
type RequestMeta struct {
	IP      string
	Browser string
	Country string
}
