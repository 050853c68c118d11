// Package config handles application configuration and environment loading.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. It is rejected in production.
const DefaultJWTSecret = "dev-secret-change-in-production"

// Config holds the server and operator CLI configuration.
type Config struct {
	DBPath     string // path to the SQLite database (default "./data/ledger.db")
	ListenAddr string // HTTP listen address (default ":8080")
	LogLevel   string // debug, info, warn, error (default "info")
	LogFormat  string // text or json (default "text")
	Env        string // "development" (default) or "production"

	JWTSecret string        // HS256 secret for access tokens
	TokenTTL  time.Duration // lifetime of minted tokens (default 24h)

	AuditSchedule    string // cron spec for the reconciliation audit; empty disables it
	AuditConcurrency int    // groups reconciled in parallel per audit pass (default 4)

	TxRetryAttempts int // write transaction retries on lock conflicts (default 5)
	ReadPoolSize    int // read connections (default 4)

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables, after reading
// a .env file from the working directory if one exists. Variables already set
// in the environment win over the file.
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		DBPath:           getEnv("DB_PATH", "./data/ledger.db"),
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "text")),
		Env:              getEnv("ENV", "development"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenTTL:         24 * time.Hour,
		AuditSchedule:    os.Getenv("AUDIT_SCHEDULE"),
		AuditConcurrency: 4,
		TxRetryAttempts:  5,
		ReadPoolSize:     4,
	}

	var err error
	if cfg.TokenTTL, err = parseDurationEnv("TOKEN_TTL", cfg.TokenTTL); err != nil {
		return nil, err
	}
	if cfg.AuditConcurrency, err = parsePositiveIntEnv("AUDIT_CONCURRENCY", cfg.AuditConcurrency); err != nil {
		return nil, err
	}
	if cfg.TxRetryAttempts, err = parseIntEnv("TX_RETRY_ATTEMPTS", cfg.TxRetryAttempts); err != nil {
		return nil, err
	}
	if cfg.TxRetryAttempts < 0 {
		return nil, fmt.Errorf("TX_RETRY_ATTEMPTS must not be negative, got %d", cfg.TxRetryAttempts)
	}
	if cfg.ReadPoolSize, err = parsePositiveIntEnv("READ_POOL_SIZE", cfg.ReadPoolSize); err != nil {
		return nil, err
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET must be set when ENV=production")
		}
		cfg.JWTSecret = DefaultJWTSecret
		cfg.Warnings = append(cfg.Warnings, "JWT_SECRET not set, using insecure development default")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func parsePositiveIntEnv(key string, fallback int) (int, error) {
	n, err := parseIntEnv(key, fallback)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
