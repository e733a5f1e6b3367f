// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
// A .env file in the working directory is read first when present; variables
// already set in the environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Snapshot store backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendValkey   = "valkey"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Snapshot store
	StoreBackend string // "memory", "sqlite", "postgres", "valkey"
	SQLitePath   string

	// Seeded administrator
	AdminPassword string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible store and AI response cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// AI provider settings
	AIProvider    string // "gemini", "genai", "openai"
	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	AISummaryTimeout time.Duration
	AISuggestTimeout time.Duration
	AIChatTimeout    time.Duration
	AICacheTTL       time.Duration // 0 disables the response cache

	// S3-compatible backup storage
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or malformed, or unsafe in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		StoreBackend: strings.ToLower(envOrDefault("STORE_BACKEND", BackendSQLite)),
		SQLitePath:   envOrDefault("SQLITE_PATH", "data/earsip.db"),

		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "earsip"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "earsip"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider:    envOrDefault("AI_PROVIDER", "gemini"),
		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "earsip-backups"),
	}

	var err error
	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"AI_SUMMARY_TIMEOUT", 15 * time.Second, &cfg.AISummaryTimeout},
		{"AI_SUGGEST_TIMEOUT", 10 * time.Second, &cfg.AISuggestTimeout},
		{"AI_CHAT_TIMEOUT", 25 * time.Second, &cfg.AIChatTimeout},
		{"AI_CACHE_TTL", 24 * time.Hour, &cfg.AICacheTTL},
	}
	for _, d := range durations {
		if *d.dst, err = durationOrDefault(d.key, d.fallback); err != nil {
			return nil, err
		}
	}

	switch cfg.StoreBackend {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendValkey:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be memory, sqlite, postgres or valkey, got %q", cfg.StoreBackend)
	}

	if cfg.Env == "production" {
		if cfg.StoreBackend == BackendPostgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.StoreBackend == BackendMemory {
			return nil, fmt.Errorf("STORE_BACKEND=memory loses all data on restart and is not allowed in production")
		}
		if cfg.AdminPassword == "" {
			return nil, fmt.Errorf("ADMIN_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UsesValkey reports whether any component needs a Valkey connection.
func (c *Config) UsesValkey() bool {
	return c.StoreBackend == BackendValkey || c.AICacheTTL > 0
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationOrDefault parses a Go duration such as "15s" from key.
func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s must be a non-negative duration such as 15s, got %q", key, v)
	}
	return d, nil
}
