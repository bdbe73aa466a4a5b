package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuzara/cashcraft/pkg/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Port:           "8080",
		Env:            "development",
		StorageBackend: config.BackendMemory,
		SessionTTL:     time.Hour,
		JWTSecret:      "0123456789abcdef0123456789abcdef",
		ExchangeRate:   "7.5",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:   "valid memory backend",
			mutate: func(c *config.Config) {},
		},
		{
			name: "unknown backend",
			mutate: func(c *config.Config) {
				c.StorageBackend = "s3"
			},
			wantErr: "STORAGE_BACKEND",
		},
		{
			name: "postgres requires database url",
			mutate: func(c *config.Config) {
				c.StorageBackend = config.BackendPostgres
				c.DatabaseURL = ""
			},
			wantErr: "DATABASE_URL",
		},
		{
			name: "postgres with database url",
			mutate: func(c *config.Config) {
				c.StorageBackend = config.BackendPostgres
				c.DatabaseURL = "postgres://localhost:5432/cashcraft"
			},
		},
		{
			name: "missing jwt secret",
			mutate: func(c *config.Config) {
				c.JWTSecret = ""
			},
			wantErr: "JWT_SECRET is required",
		},
		{
			name: "short jwt secret",
			mutate: func(c *config.Config) {
				c.JWTSecret = "too-short"
			},
			wantErr: "at least 32 characters",
		},
		{
			name: "non-positive session ttl",
			mutate: func(c *config.Config) {
				c.SessionTTL = 0
			},
			wantErr: "SESSION_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("PORT", "")
	t.Setenv("EXCHANGE_RATE", "")
	t.Setenv("SESSION_TTL", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.BackendMemory, cfg.StorageBackend)
	assert.Equal(t, "7.5", cfg.ExchangeRate)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_SessionTTLOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}
