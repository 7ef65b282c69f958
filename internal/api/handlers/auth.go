package handlers

import (
	"citygate/internal/auth"
	"citygate/internal/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextAccountKey is where the authentication middleware stores the account
const ContextAccountKey = "account"

// AuthHandler handles HTTP requests for the account security flows
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary Register account
// @Description Create an unverified account and send the verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Account details"
// @Success 201 {object} models.AuthResponse "Account created"
// @Failure 409 {object} models.ErrorResponse "EMAIL_ALREADY_EXISTS"
// @Failure 422 {object} models.ErrorResponse "Validation failed"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Login
// @Description Authenticate with email and password. Five consecutive wrong passwords block the account for two hours.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.AuthResponse "Login successful"
// @Failure 404 {object} models.ErrorResponse "USER_DOES_NOT_EXIST"
// @Failure 409 {object} models.ErrorResponse "WRONG_PASSWORD or BLOCKED_USER"
// @Failure 422 {object} models.ErrorResponse "Validation failed"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, RequestMeta(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyLink godoc
// @Summary Verify email from link
// @Description Redeem the verification code sent by email
// @Tags auth
// @Produce json
// @Param id query string true "Verification code"
// @Success 200 {object} models.VerifyResponse
// @Failure 404 {object} models.ErrorResponse "NOT_FOUND_OR_ALREADY_VERIFIED"
// @Failure 422 {object} models.ErrorResponse "Validation failed"
// @Router /auth/verify [get]
func (h *AuthHandler) VerifyLink(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.verify(c, req.ID)
}

// Verify godoc
// @Summary Verify email
// @Description Redeem the verification code sent by email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.VerifyRequest true "Verification code"
// @Success 200 {object} models.VerifyResponse
// @Failure 404 {object} models.ErrorResponse "NOT_FOUND_OR_ALREADY_VERIFIED"
// @Failure 422 {object} models.ErrorResponse "Validation failed"
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.verify(c, req.ID)
}

func (h *AuthHandler) verify(c *gin.Context, code string) {
	resp, err := h.authService.VerifyEmail(c.Request.Context(), code)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ForgotPassword godoc
// @Summary Request password reset
// @Description Record a reset request and email a single-use code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ForgotPasswordRequest true "Account email"
// @Success 200 {object} models.ForgotPasswordResponse
// @Failure 404 {object} models.ErrorResponse "USER_DOES_NOT_EXIST"
// @Failure 422 {object} models.ErrorResponse "Validation failed"
// @Router /auth/forgot [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.authService.ForgotPassword(c.Request.Context(), req.Email, RequestMeta(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ResetPassword godoc
// @Summary Reset password
// @Description Redeem a reset code and set a new password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "Reset code and new password"
// @Success 200 {object} models.MessageResponse "PASSWORD_CHANGED"
// @Failure 404 {object} models.ErrorResponse "NOT_FOUND_OR_ALREADY_USED"
// @Failure 422 {object} models.ErrorResponse "Validation failed"
// @Router /auth/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.authService.ResetPassword(c.Request.Context(), req.ID, req.Password, RequestMeta(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshToken godoc
// @Summary Refresh token
// @Description Exchange a valid bearer token for a fresh one
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} models.ErrorResponse "UNAUTHORIZED"
// @Failure 404 {object} models.ErrorResponse "USER_DOES_NOT_EXIST"
// @Failure 409 {object} models.ErrorResponse "BAD_TOKEN"
// @Router /auth/token [get]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, ok := BearerToken(c)
	if !ok {
		RespondError(c, auth.ErrUnauthorized)
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), token, RequestMeta(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Current account
// @Description Return the account the bearer token belongs to
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AccountSummary
// @Failure 401 {object} models.ErrorResponse "UNAUTHORIZED"
// @Failure 409 {object} models.ErrorResponse "BAD_TOKEN"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	account, ok := CurrentAccount(c)
	if !ok {
		RespondError(c, auth.ErrUnauthorized)
		return
	}

	summary, err := h.authService.CurrentAccount(c.Request.Context(), account.ID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// CurrentAccount returns the account stored by the authentication middleware
func CurrentAccount(c *gin.Context) (*models.Account, bool) {
	v, exists := c.Get(ContextAccountKey)
	if !exists {
		return nil, false
	}
	account, ok := v.(*models.Account)
	return account, ok && account.ID != uuid.Nil
}
