package config

import (
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

// TestLoadFromEnv tests loading configuration from environment variables
func TestLoadFromEnv(t *testing.T) {
	// Load test environment
	err := godotenv.Load("../../.env.test")
	require.NoError(t, err, "Failed to load .env.test file")

	cfg := &Config{}
	err = cfg.LoadFromEnv()
	require.NoError(t, err)

	// Verify configuration values
	require.Equal(t, "8080", cfg.API.Port)
	require.Equal(t, EnvTest, cfg.API.Environment)
	require.False(t, cfg.IsProduction())
	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, "citygate_test", cfg.Database.DBName)
	require.Equal(t, "disable", cfg.Database.SSLMode)
	require.Equal(t, "test_secret_key", cfg.Security.JWTSecret)
	require.Equal(t, "test_encryption_key", cfg.Security.EncryptionSecret)
	require.Equal(t, 60*time.Minute, cfg.Security.TokenExpiration)
	require.Equal(t, 5, cfg.Security.AttemptLimit)
	require.Equal(t, 2*time.Hour, cfg.Security.BlockDuration)
	require.Equal(t, 90*24*time.Hour, cfg.Maintenance.AccessRetention)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API:      APIConfig{Port: "8080", Environment: EnvDevelopment},
			Security: SecurityConfig{JWTSecret: "a", EncryptionSecret: "b", TokenExpiration: time.Hour, AttemptLimit: 5, BlockDuration: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "Valid", mutate: func(*Config) {}},
		{name: "Missing JWT secret", mutate: func(c *Config) { c.Security.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "Missing encryption secret", mutate: func(c *Config) { c.Security.EncryptionSecret = "" }, wantErr: "ENCRYPTION_SECRET is required"},
		{name: "Zero attempt limit", mutate: func(c *Config) { c.Security.AttemptLimit = 0 }, wantErr: "LOGIN_ATTEMPT_LIMIT"},
		{name: "Negative block duration", mutate: func(c *Config) { c.Security.BlockDuration = -time.Second }, wantErr: "BLOCK_DURATION"},
		{name: "Unknown environment", mutate: func(c *Config) { c.API.Environment = "staging" }, wantErr: "unknown APP_ENV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsProduction(t *testing.T) {
	cfg := &Config{API: APIConfig{Environment: EnvProduction}}
	require.True(t, cfg.IsProduction())
}
