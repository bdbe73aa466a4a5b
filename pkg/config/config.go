package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend identifiers
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Storage configuration
	StorageBackend string
	RedisURL       string
	RedisPassword  string
	SQLitePath     string
	DatabaseURL    string

	// Session-scoped persistence: how long an idle ledger survives in the
	// session store before it expires (redis backend only)
	SessionTTL time.Duration

	// JWT configuration
	JWTSecret string

	// Fixed display-currency exchange rate (decimal string, e.g. "7.5")
	ExchangeRate string

	// CORS
	AllowedOrigins []string
}

// Load loads configuration from the environment, reading a .env file first
// if one is present.
func Load() (*Config, error) {
	// Missing .env is the normal case in production
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		StorageBackend: getEnv("STORAGE_BACKEND", BackendMemory),
		RedisURL:       getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "cashcraft.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		ExchangeRate:   getEnv("EXCHANGE_RATE", "7.5"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendRedis, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of memory, redis, sqlite, postgres (got %q)", c.StorageBackend)
	}

	if c.StorageBackend == BackendPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres backend")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// splitList splits a comma-separated list, trimming whitespace
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
