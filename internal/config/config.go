// Package config loads and validates application configuration from environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Optional: when empty
	// trips are kept in memory for the life of the process.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// CatalogBaseURL is the remote business catalog. Optional: when empty
	// catalog searches answer 503.
	CatalogBaseURL string

	// CatalogRPS caps outbound catalog requests per second. Defaults to 5.
	CatalogRPS float64

	// RedisURL enables the catalog listing cache when set.
	RedisURL string

	// CatalogCacheTTL is how long cached listings stay fresh. Defaults to 5m.
	CatalogCacheTTL time.Duration

	// DeeplinkSecret is the 32-byte key for listing detail tokens, given as
	// 64 hex characters. When empty a random key is generated at startup.
	DeeplinkSecret string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// PlanIdleTTL is how long an untouched planning wizard is kept before it
	// is dropped. Defaults to 30m.
	PlanIdleTTL time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Outside production a .env file in the working directory is loaded first;
// variables already set in the environment win.
// Returns one error listing every malformed variable.
func Load() (Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// A missing .env is normal.
		_ = godotenv.Load()
	}

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		CatalogBaseURL: os.Getenv("CATALOG_BASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		DeeplinkSecret: os.Getenv("DEEPLINK_SECRET"),
	}

	var errs []error
	var err error

	if cfg.CatalogRPS, err = strconv.ParseFloat(getEnv("CATALOG_RPS", "5"), 64); err != nil || cfg.CatalogRPS <= 0 {
		errs = append(errs, fmt.Errorf("CATALOG_RPS must be a positive number"))
	}
	if cfg.CatalogCacheTTL, err = time.ParseDuration(getEnv("CATALOG_CACHE_TTL", "5m")); err != nil || cfg.CatalogCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("CATALOG_CACHE_TTL must be a positive duration such as 5m"))
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES must be a positive integer"))
	}
	if cfg.PlanIdleTTL, err = time.ParseDuration(getEnv("PLAN_IDLE_TTL", "30m")); err != nil || cfg.PlanIdleTTL <= 0 {
		errs = append(errs, fmt.Errorf("PLAN_IDLE_TTL must be a positive duration such as 30m"))
	}
	if cfg.DeeplinkSecret != "" {
		if b, err := hex.DecodeString(cfg.DeeplinkSecret); err != nil || len(b) != 32 {
			errs = append(errs, fmt.Errorf("DEEPLINK_SECRET must be 64 hex characters"))
		}
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
