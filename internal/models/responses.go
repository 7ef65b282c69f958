package models

import "time"

// ErrorBody holds the machine readable error code
type ErrorBody struct {
	Msg   string `json:"msg" example:"WRONG_PASSWORD"`
	Param string `json:"param,omitempty" example:"email"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Errors ErrorBody `json:"errors"`
}

// NewErrorResponse wraps msg into an ErrorResponse
func NewErrorResponse(msg string) ErrorResponse {
	return ErrorResponse{Errors: ErrorBody{Msg: msg}}
}

// AuthResponse is returned by login and registration
type AuthResponse struct {
	Token string         `json:"token"`
	User  AccountSummary `json:"user"`
}

// TokenResponse is returned by token refresh
type TokenResponse struct {
	Token string `json:"token"`
}

// VerifyResponse confirms an email verification
type VerifyResponse struct {
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// ForgotPasswordResponse confirms a reset request. Verification is only
// populated outside production.
type ForgotPasswordResponse struct {
	Email        string `json:"email"`
	Msg          string `json:"msg" example:"RESET_EMAIL_SENT"`
	Verification string `json:"verification,omitempty"`
}

// MessageResponse represents a success response
type MessageResponse struct {
	Msg string `json:"msg" example:"PASSWORD_CHANGED"`
}

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status string    `json:"status" example:"healthy"`
	Time   time.Time `json:"time" example:"2024-03-20T13:00:00Z"`
}
