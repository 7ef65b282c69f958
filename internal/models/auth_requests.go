package models

// RegisterRequest represents a sign-up request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=100,nospaces" example:"Jane Doe"`
	Email    string `json:"email" binding:"required,email,max=254" example:"jane@example.com"`
	Password string `json:"password" binding:"required,password" example:"s3cret!"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required,min=5,max=100" example:"s3cret!"`
}

// VerifyRequest carries an email verification code
type VerifyRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"jane@example.com"`
}

// ResetPasswordRequest represents the request to complete a password reset
type ResetPasswordRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required,password"`
}
