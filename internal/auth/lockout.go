package auth

import (
	"citygate/internal/config"
	"citygate/internal/models"
	"time"
)

// LockoutPolicy decides whether an account may attempt a login.
type LockoutPolicy struct {
	AttemptLimit  int
	BlockDuration time.Duration
}

// NewLockoutPolicy builds the policy from the security configuration
func NewLockoutPolicy(cfg config.SecurityConfig) LockoutPolicy {
	return LockoutPolicy{
		AttemptLimit:  cfg.AttemptLimit,
		BlockDuration: cfg.BlockDuration,
	}
}

// IsBlocked reports whether the block window is still open at now
func (p LockoutPolicy) IsBlocked(a *models.Account, now time.Time) bool {
	return a.BlockExpires.After(now)
}

// BlockIsExpired reports whether the account crossed the limit and its block
// has since run out, which earns it a fresh attempt budget.
func (p LockoutPolicy) BlockIsExpired(a *models.Account, now time.Time) bool {
	return a.LoginAttempts > p.AttemptLimit && !a.BlockExpires.After(now)
}

// BlockUntil returns when a block starting at now ends
func (p LockoutPolicy) BlockUntil(now time.Time) time.Time {
	return now.Add(p.BlockDuration)
}
