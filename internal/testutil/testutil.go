// Package testutil provides utilities for testing
package testutil

import (
	"citygate/internal/api/handlers"
	"citygate/internal/api/middleware"
	"citygate/internal/auth"
	"citygate/internal/config"
	"citygate/internal/models"
	"citygate/internal/testutil/memstore"
	"citygate/internal/validation"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestConfig returns a configuration suitable for unit tests
func TestConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{Port: "8080", Environment: config.EnvTest},
		Security: config.SecurityConfig{
			JWTSecret:        "test_secret_key",
			EncryptionSecret: "test_encryption_key",
			TokenExpiration:  60 * time.Minute,
			AttemptLimit:     5,
			BlockDuration:    2 * time.Hour,
		},
		Maintenance: config.MaintenanceConfig{
			AccessRetention: 90 * 24 * time.Hour,
			ResetRetention:  30 * 24 * time.Hour,
		},
		RateLimit: config.RateLimitConfig{Requests: 1000, Window: 60, Burst: 50},
	}
}

// Clock is a settable time source
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SentEmail is one message captured by MockEmailService
type SentEmail struct {
	Kind string // "verification" or "reset"
	To   string
	Name string
	Code string
}

// MockEmailService records emails instead of sending them
type MockEmailService struct {
	mu   sync.Mutex
	sent []SentEmail
	// Err, when set, is returned by every send
	Err error
}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

func (s *MockEmailService) SendVerificationEmail(to, name, code string) error {
	return s.record("verification", to, name, code)
}

func (s *MockEmailService) SendPasswordResetEmail(to, name, code string) error {
	return s.record("reset", to, name, code)
}

func (s *MockEmailService) record(kind, to, name, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, SentEmail{Kind: kind, To: to, Name: name, Code: code})
	return s.Err
}

// Sent returns the captured emails
func (s *MockEmailService) Sent() []SentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentEmail, len(s.sent))
	copy(out, s.sent)
	return out
}

// TestContext holds common test dependencies backed by in-memory stores
type TestContext struct {
	T              *testing.T
	Config         *config.Config
	Clock          *Clock
	Accounts       *memstore.AccountStore
	Access         *memstore.AccessStore
	Resets         *memstore.ResetStore
	EmailService   *MockEmailService
	Tokens         *auth.TokenService
	AuthService    *auth.Service
	AuthHandler    *handlers.AuthHandler
	AccessHandler  *handlers.AccessHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// NewTestContext creates a new test context with all dependencies
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()
	return NewTestContextWithConfig(t, TestConfig())
}

// NewTestContextWithConfig is NewTestContext with a caller supplied configuration
func NewTestContextWithConfig(t *testing.T, cfg *config.Config) *TestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)
	validation.Initialize()

	clock := NewClock(time.Date(2024, 3, 20, 13, 0, 0, 0, time.UTC))
	accounts := memstore.NewAccountStore()
	access := memstore.NewAccessStore()
	resets := memstore.NewResetStore()
	emailService := NewMockEmailService()

	tokens, err := auth.NewTokenService(cfg.Security)
	require.NoError(t, err, "Failed to create token service")

	authService := auth.NewService(cfg, auth.Deps{
		Accounts: accounts,
		Resets:   resets,
		Access:   access,
		Tokens:   tokens,
		Hasher:   auth.NewPasswordHasher(bcrypt.MinCost),
		Mailer:   emailService,
		Now:      clock.Now,
	})

	return &TestContext{
		T:              t,
		Config:         cfg,
		Clock:          clock,
		Accounts:       accounts,
		Access:         access,
		Resets:         resets,
		EmailService:   emailService,
		Tokens:         tokens,
		AuthService:    authService,
		AuthHandler:    handlers.NewAuthHandler(authService),
		AccessHandler:  handlers.NewAccessHandler(access),
		AuthMiddleware: middleware.NewAuthMiddleware(authService),
	}
}

// Router mounts the auth and admin routes the way the server does, without
// rate limiting.
func (tc *TestContext) Router() *gin.Engine {
	r := gin.New()
	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", tc.AuthHandler.Register)
	authGroup.POST("/login", tc.AuthHandler.Login)
	authGroup.GET("/verify", tc.AuthHandler.VerifyLink)
	authGroup.POST("/verify", tc.AuthHandler.Verify)
	authGroup.POST("/forgot", tc.AuthHandler.ForgotPassword)
	authGroup.POST("/reset", tc.AuthHandler.ResetPassword)
	authGroup.GET("/token", tc.AuthHandler.RefreshToken)
	authGroup.GET("/me", tc.AuthMiddleware.AuthRequired(), tc.AuthHandler.Me)

	admin := v1.Group("/admin")
	admin.Use(tc.AuthMiddleware.AuthRequired(), tc.AuthMiddleware.RoleRequired(models.RoleAdmin))
	admin.GET("/access", tc.AccessHandler.ListAccess)

	return r
}

// CreateTestAccount stores an account with the given credentials and returns it
func (tc *TestContext) CreateTestAccount(name, email, password string, role models.Role) *models.Account {
	tc.T.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(tc.T, err, "Failed to hash password")

	now := tc.Clock.Now()
	account := &models.Account{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Verification: uuid.NewString(),
		BlockExpires: time.Unix(0, 0).UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(tc.T, tc.Accounts.Create(context.Background(), account), "Failed to create test account")
	return account
}

// GetTestToken issues a token for the account
func (tc *TestContext) GetTestToken(accountID uuid.UUID) string {
	tc.T.Helper()
	token, err := tc.Tokens.Issue(accountID)
	require.NoError(tc.T, err, "Failed to issue test token")
	return token
}

// Account reloads an account from the store
func (tc *TestContext) Account(id uuid.UUID) *models.Account {
	tc.T.Helper()
	account := tc.Accounts.Get(id)
	require.NotNil(tc.T, account, "Account %s not found", id)
	return account
}
