package auth

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error for transport mapping
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindAlreadyExists
	KindBlocked
	KindWrongPassword
	KindBadToken
	KindUnauthorized
	KindValidation
)

// Error values carry the code that is sent to clients as their message.
var (
	// NotFound
	ErrUserNotFound              = errors.New("USER_DOES_NOT_EXIST")
	ErrNotFound                  = errors.New("NOT_FOUND")
	ErrNotFoundOrAlreadyVerified = errors.New("NOT_FOUND_OR_ALREADY_VERIFIED")
	ErrNotFoundOrAlreadyUsed     = errors.New("NOT_FOUND_OR_ALREADY_USED")

	// AlreadyExists
	ErrEmailAlreadyExists = errors.New("EMAIL_ALREADY_EXISTS")

	// Conflict class
	ErrBlocked       = errors.New("BLOCKED_USER")
	ErrWrongPassword = errors.New("WRONG_PASSWORD")
	ErrBadToken      = errors.New("BAD_TOKEN")

	ErrUnauthorized = errors.New("UNAUTHORIZED")
	ErrValidation   = errors.New("VALIDATION_ERROR")
)

// Token failure causes. They are always wrapped together with ErrBadToken and
// only show up in logs.
var (
	ErrTokenDecrypt   = errors.New("token decrypt failed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenClaims    = errors.New("token claims invalid")
)

// KindOf maps err onto its Kind. Unknown errors are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrNotFoundOrAlreadyVerified),
		errors.Is(err, ErrNotFoundOrAlreadyUsed):
		return KindNotFound
	case errors.Is(err, ErrEmailAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrBlocked):
		return KindBlocked
	case errors.Is(err, ErrWrongPassword):
		return KindWrongPassword
	case errors.Is(err, ErrBadToken):
		return KindBadToken
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindInternal
	}
}

// Code returns the client facing message for err
func Code(err error) string {
	for _, known := range []error{
		ErrUserNotFound, ErrNotFound, ErrNotFoundOrAlreadyVerified, ErrNotFoundOrAlreadyUsed,
		ErrEmailAlreadyExists, ErrBlocked, ErrWrongPassword, ErrBadToken,
		ErrUnauthorized, ErrValidation,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "ERROR"
}

// storeError wraps a persistence failure so every store error surfaces as a
// validation class error.
func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrValidation, op, err)
}
