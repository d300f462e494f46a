// Package config loads application configuration from environment variables.
// All variables use the PRIMEMATH_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/abhisek/primemath/internal/curriculum"
	"github.com/abhisek/primemath/internal/llm"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Log      LogConfig
	LLM      llm.Config

	// Grade selects the curriculum level problems are drawn from.
	Grade string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr       string
	CORSOrigin string
}

// DatabaseConfig selects the store backend. A non-empty URL means
// PostgreSQL; otherwise the SQLite file at Path is used.
type DatabaseConfig struct {
	Path     string
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Redis settings. An empty URL disables the cache.
type CacheConfig struct {
	URL string
	TTL time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with PRIMEMATH_ prefix.
func Load() (*Config, error) {
	ttl, err := envDuration("PRIMEMATH_CACHE_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:       envStr("PRIMEMATH_SERVER_ADDR", ":8080"),
			CORSOrigin: envStr("PRIMEMATH_CORS_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			Path:     envStr("PRIMEMATH_DB", ""),
			URL:      envStr("PRIMEMATH_DATABASE_URL", ""),
			MaxConns: envInt("PRIMEMATH_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("PRIMEMATH_DATABASE_MIN_CONNS", 1),
		},
		Cache: CacheConfig{
			URL: envStr("PRIMEMATH_CACHE_URL", ""),
			TTL: ttl,
		},
		Log: LogConfig{
			Level:  envStr("PRIMEMATH_LOG_LEVEL", "info"),
			Format: envStr("PRIMEMATH_LOG_FORMAT", "console"),
		},
		LLM:   resolveLLM(),
		Grade: envStr("PRIMEMATH_GRADE", "PRIMARY_5"),
	}

	return cfg, nil
}

// resolveLLM prefers explicit PRIMEMATH_ settings and falls back to the
// standard provider API key variables when no provider was chosen.
func resolveLLM() llm.Config {
	cfg := llm.ConfigFromEnv()
	if os.Getenv("PRIMEMATH_LLM_PROVIDER") != "" || cfg.Validate() == nil {
		return cfg
	}
	if found, ok := llm.DiscoverConfig(); ok {
		found.Timeout = cfg.Timeout
		return found
	}
	return cfg
}

// Validate checks the settings every command depends on. Provider
// credentials are checked separately by llm.Config.Validate, since commands
// that only read the store run without a model.
func (c *Config) Validate() error {
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("PRIMEMATH_LLM_TIMEOUT must be positive")
	}
	if c.Database.URL != "" && c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("PRIMEMATH_DATABASE_MAX_CONNS (%d) is below PRIMEMATH_DATABASE_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns)
	}
	if c.Grade == "" {
		return fmt.Errorf("PRIMEMATH_GRADE must not be empty")
	}
	if len(curriculum.TopicsByGrade(curriculum.Grade(c.Grade))) == 0 {
		return fmt.Errorf("PRIMEMATH_GRADE: %w %s", curriculum.ErrCatalogEmpty, c.Grade)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
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
