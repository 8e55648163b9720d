// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrSecretKeyNotSet is returned when BOOKSTORE_JWT_SECRET is missing or empty.
// Token signing cannot work without it, so the process refuses to start.
var ErrSecretKeyNotSet = errors.New("BOOKSTORE_JWT_SECRET is not set")

const minSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	JWTSecret     []byte
	TokenTTL      time.Duration
	TokenIssuer   string
	ListenAddr    string
	DBPath        string
	AdminEmail    string
	AdminPassword string
}

// HasAdminBootstrap returns true when both admin bootstrap variables are set.
// The composition root then ensures an ADMIN account exists at startup.
func (c *Config) HasAdminBootstrap() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// BOOKSTORE_JWT_SECRET is required and must be at least 32 bytes.
// Optional variables with defaults: BOOKSTORE_TOKEN_TTL (1h),
// BOOKSTORE_TOKEN_ISSUER (bookstore), BOOKSTORE_LISTEN_ADDR (127.0.0.1:8080),
// BOOKSTORE_DB_PATH (bookstore.db). BOOKSTORE_ADMIN_EMAIL and
// BOOKSTORE_ADMIN_PASSWORD must be set together or not at all.
func Load() (*Config, error) {
	secret := os.Getenv("BOOKSTORE_JWT_SECRET")
	if secret == "" {
		return nil, ErrSecretKeyNotSet
	}
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("BOOKSTORE_JWT_SECRET must be at least %d bytes, got %d", minSecretLength, len(secret))
	}

	tokenTTL := time.Hour
	if v, ok := os.LookupEnv("BOOKSTORE_TOKEN_TTL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("BOOKSTORE_TOKEN_TTL has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("BOOKSTORE_TOKEN_TTL must be positive, got %s", parsed)
		}
		tokenTTL = parsed
	}

	issuer := "bookstore"
	if v, ok := os.LookupEnv("BOOKSTORE_TOKEN_ISSUER"); ok && v != "" {
		issuer = v
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("BOOKSTORE_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "bookstore.db"
	if v, ok := os.LookupEnv("BOOKSTORE_DB_PATH"); ok {
		dbPath = v
	}

	adminEmail := os.Getenv("BOOKSTORE_ADMIN_EMAIL")
	adminPassword := os.Getenv("BOOKSTORE_ADMIN_PASSWORD")
	if (adminEmail == "") != (adminPassword == "") {
		return nil, errors.New("BOOKSTORE_ADMIN_EMAIL and BOOKSTORE_ADMIN_PASSWORD must be set together")
	}

	return &Config{
		JWTSecret:     []byte(secret),
		TokenTTL:      tokenTTL,
		TokenIssuer:   issuer,
		ListenAddr:    listenAddr,
		DBPath:        dbPath,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
	}, nil
}
