package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment names recognised by APP_ENV
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Security contains lockout and token settings
	Security SecurityConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Email contains email service configuration
	Email EmailConfig
	// Maintenance contains retention settings for scheduled cleanup
	Maintenance MaintenanceConfig

	// RateLimit contains per-client request limits
	RateLimit RateLimitConfig
}

// RateLimitConfig contains per-client rate limiting settings
type RateLimitConfig struct {
	Requests int // Number of requests allowed per window
	Window   int // Time window in seconds
	Burst    int // Maximum burst size
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string
	// Port is the database server port
	Port int
	// User is the database username
	User string
	// Password is the database password
	Password string
	// DBName is the database name
	DBName string
	// SSLMode is the SSL mode for the database connection
	SSLMode string
	// MigrationsPath is the path to database migrations
	MigrationsPath string
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
	// Environment is one of development, test or production
	Environment string
}

// SecurityConfig holds the account lockout and token policy.
type SecurityConfig struct {
	// JWTSecret is the HMAC key used to sign token claims
	JWTSecret string
	// EncryptionSecret is the passphrase the token cipher key is derived from
	EncryptionSecret string
	// TokenExpiration is how long an issued token stays valid
	TokenExpiration time.Duration
	// AttemptLimit is the number of wrong passwords tolerated before blocking
	AttemptLimit int
	// BlockDuration is how long an account stays blocked
	BlockDuration time.Duration
}

// EmailConfig contains email service settings
type EmailConfig struct {
	// SMTPHost is the SMTP server hostname
	SMTPHost string
	// SMTPPort is the SMTP server port
	SMTPPort int
	// SMTPUsername is the SMTP authentication username
	SMTPUsername string
	// SMTPPassword is the SMTP authentication password
	SMTPPassword string
	// FromAddress is the email address used as sender
	FromAddress string
	// AppURL is the base URL of the application
	AppURL string
}

// MaintenanceConfig controls the cleanup scheduler
type MaintenanceConfig struct {
	// Schedule in cron format, empty disables the scheduler
	Schedule string
	// AccessRetention is how long access records are kept
	AccessRetention time.Duration
	// ResetRetention is how long password reset requests are kept
	ResetRetention time.Duration
}

// IsProduction reports whether the API runs in production mode.
func (c *Config) IsProduction() bool {
	return c.API.Environment == EnvProduction
}

// Enabled reports whether enough SMTP settings are present to send mail
func (e EmailConfig) Enabled() bool {
	return e.SMTPHost != "" && e.SMTPPort != 0 && e.FromAddress != ""
}

// DefaultSecurityConfig returns the lockout policy used when nothing is configured
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		TokenExpiration: 4320 * time.Minute,
		AttemptLimit:    5,
		BlockDuration:   2 * time.Hour,
	}
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port:        getEnvOrDefault("API_PORT", "8080"),
		Environment: strings.ToLower(getEnvOrDefault("APP_ENV", EnvDevelopment)),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "citygate"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: getEnvOrDefault("DB_MIGRATIONS_PATH", "migrations"),
	}

	defaults := DefaultSecurityConfig()
	c.Security = SecurityConfig{
		JWTSecret:        os.Getenv("JWT_SECRET"),
		EncryptionSecret: os.Getenv("ENCRYPTION_SECRET"),
		TokenExpiration:  time.Duration(getEnvAsInt("JWT_EXPIRATION_IN_MINUTES", int(defaults.TokenExpiration/time.Minute))) * time.Minute,
		AttemptLimit:     getEnvAsInt("LOGIN_ATTEMPT_LIMIT", defaults.AttemptLimit),
		BlockDuration:    getEnvAsDuration("BLOCK_DURATION", defaults.BlockDuration),
	}
	c.Email = EmailConfig{
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		FromAddress:  os.Getenv("SMTP_FROM"),
		AppURL:       os.Getenv("APP_URL"),
	}
	c.Maintenance = MaintenanceConfig{
		Schedule:        getEnvOrDefault("MAINTENANCE_SCHEDULE", "0 3 * * *"),
		AccessRetention: time.Duration(getEnvAsInt("ACCESS_RETENTION_DAYS", 90)) * 24 * time.Hour,
		ResetRetention:  time.Duration(getEnvAsInt("RESET_RETENTION_DAYS", 30)) * 24 * time.Hour,
	}

	c.RateLimit = RateLimitConfig{
		Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 1000),
		Window:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		Burst:    getEnvAsInt("RATE_LIMIT_BURST", 50),
	}

	return c.Validate()
}

// Validate checks required fields and policy bounds
func (c *Config) Validate() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Security.EncryptionSecret == "" {
		return fmt.Errorf("ENCRYPTION_SECRET is required")
	}
	if c.Security.AttemptLimit < 1 {
		return fmt.Errorf("LOGIN_ATTEMPT_LIMIT must be at least 1, got %d", c.Security.AttemptLimit)
	}
	if c.Security.BlockDuration <= 0 {
		return fmt.Errorf("BLOCK_DURATION must be positive")
	}
	if c.Security.TokenExpiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_IN_MINUTES must be positive")
	}
	switch c.API.Environment {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.API.Environment)
	}
	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsDuration accepts Go duration strings such as "2h" or "90m"
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
