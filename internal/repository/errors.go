package repository

import "errors"

var (
	// Common errors
	ErrInvalidRole    = errors.New("invalid role")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("email already exists")

	// Password reset errors
	ErrResetNotFound    = errors.New("password reset request not found")
	ErrResetAlreadyUsed = errors.New("password reset request already used")
)
