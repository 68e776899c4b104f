package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int
	AppEnv     string
	LogLevel   string

	DatabaseDriver string // "sqlite" or "postgres"
	DatabasePath   string // SQLite file, used when DatabaseDriver is "sqlite"
	DatabaseDSN    string // PostgreSQL connection string
	StoreTimeout   time.Duration

	JWTSecret         []byte
	CredentialIssuer  string
	CredentialSubject string
	CredentialTTL     time.Duration // 0 means credentials never expire
	BcryptCost        int

	AllowedOrigins      []string
	MaintenanceSchedule string // cron spec, empty disables maintenance
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DataSource returns the driver-specific connection string.
func (c *Config) DataSource() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseDSN
	}
	return c.DatabasePath
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	storeTimeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_TIMEOUT: %w", err)
	}
	if storeTimeout <= 0 {
		return nil, errors.New("STORE_TIMEOUT must be positive")
	}

	ttl, err := time.ParseDuration(getEnv("CREDENTIAL_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CREDENTIAL_TTL: %w", err)
	}
	if ttl < 0 {
		return nil, errors.New("CREDENTIAL_TTL must not be negative")
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	cfg := &Config{
		ServerPort:          port,
		AppEnv:              getEnv("APP_ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DatabaseDriver:      strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabasePath:        getEnv("DATABASE_PATH", "./notes.db"),
		DatabaseDSN:         getEnv("DATABASE_DSN", ""),
		StoreTimeout:        storeTimeout,
		JWTSecret:           []byte(secret),
		CredentialIssuer:    getEnv("CREDENTIAL_ISSUER", "notes-api"),
		CredentialSubject:   getEnv("CREDENTIAL_SUBJECT", "notes"),
		CredentialTTL:       ttl,
		BcryptCost:          cost,
		AllowedOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		MaintenanceSchedule: strings.TrimSpace(getEnv("MAINTENANCE_SCHEDULE", "@daily")),
	}

	switch cfg.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseDSN == "" {
			return nil, errors.New("DATABASE_DSN is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
