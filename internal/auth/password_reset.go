package auth

import (
	"citygate/internal/models"
	"citygate/internal/repository"
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
)

// Messages returned by the password reset flow
const (
	MsgResetEmailSent  = "RESET_EMAIL_SENT"
	MsgPasswordChanged = "PASSWORD_CHANGED"
)

// ForgotPassword records a reset request for an existing account and emails
// the single-use code.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string, meta models.RequestMeta) (*models.ForgotPasswordResponse, error) {
	account, err := s.findByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reset := &models.PasswordResetRequest{
		ID:             uuid.New(),
		Email:          account.Email,
		Verification:   uuid.NewString(),
		IPRequest:      meta.IP,
		BrowserRequest: meta.Browser,
		CountryRequest: meta.Country,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return nil, storeError("create reset request", err)
	}

	if err := s.mailer.SendPasswordResetEmail(account.Email, account.Name, reset.Verification); err != nil {
		log.Printf("Failed to send password reset email to %s: %v", account.Email, err)
	}

	resp := &models.ForgotPasswordResponse{
		Email: account.Email,
		Msg:   MsgResetEmailSent,
	}
	if s.exposeCodes {
		resp.Verification = reset.Verification
	}
	return resp, nil
}

// ResetPassword redeems a reset code and replaces the account password. The
// request is claimed before the password is written so two concurrent
// redemptions of one code cannot both succeed.
func (s *Service) ResetPassword(ctx context.Context, code, newPassword string, meta models.RequestMeta) (*models.MessageResponse, error) {
	reset, err := s.resets.GetUnusedByVerification(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrResetNotFound) {
			return nil, ErrNotFoundOrAlreadyUsed
		}
		return nil, storeError("find reset request", err)
	}

	account, err := s.findByEmail(ctx, reset.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	if err := s.resets.MarkAsUsed(ctx, reset.ID, meta); err != nil {
		if errors.Is(err, repository.ErrResetAlreadyUsed) {
			return nil, ErrNotFoundOrAlreadyUsed
		}
		return nil, storeError("mark reset used", err)
	}

	account.PasswordHash = hash
	if err := s.save(ctx, account); err != nil {
		// the password is unchanged, give the code back
		if rerr := s.resets.Release(ctx, reset.ID); rerr != nil {
			log.Printf("Failed to release reset request %s: %v", reset.ID, rerr)
		}
		return nil, err
	}

	return &models.MessageResponse{Msg: MsgPasswordChanged}, nil
}
