package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/abhisek/primemath/internal/curriculum"
)

// clearEnv unsets all variables Load reads for a clean test.
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"PRIMEMATH_SERVER_ADDR",
		"PRIMEMATH_CORS_ORIGIN",
		"PRIMEMATH_DB",
		"PRIMEMATH_DATABASE_URL",
		"PRIMEMATH_DATABASE_MAX_CONNS",
		"PRIMEMATH_DATABASE_MIN_CONNS",
		"PRIMEMATH_CACHE_URL",
		"PRIMEMATH_CACHE_TTL",
		"PRIMEMATH_LOG_LEVEL",
		"PRIMEMATH_LOG_FORMAT",
		"PRIMEMATH_GRADE",
		"PRIMEMATH_LLM_PROVIDER",
		"PRIMEMATH_LLM_TIMEOUT",
		"PRIMEMATH_GEMINI_API_KEY",
		"PRIMEMATH_OPENAI_API_KEY",
		"PRIMEMATH_ANTHROPIC_API_KEY",
		"PRIMEMATH_OPENROUTER_API_KEY",
		"GEMINI_API_KEY",
		"GOOGLE_API_KEY",
		"OPENAI_API_KEY",
		"ANTHROPIC_API_KEY",
		"OPENROUTER_API_KEY",
	}
	for _, v := range envVars {
		// t.Setenv restores the previous value when the test ends.
		t.Setenv(v, "")
		_ = os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.CORSOrigin != "*" {
		t.Errorf("Server.CORSOrigin = %q, want *", cfg.Server.CORSOrigin)
	}
	if cfg.Database.URL != "" || cfg.Cache.URL != "" {
		t.Errorf("expected postgres and cache disabled, got %q / %q", cfg.Database.URL, cfg.Cache.URL)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("Cache.TTL = %v, want 30m", cfg.Cache.TTL)
	}
	if cfg.Grade != "PRIMARY_5" {
		t.Errorf("Grade = %q, want PRIMARY_5", cfg.Grade)
	}
	if cfg.LLM.Provider != "gemini" || cfg.LLM.Gemini.Model != "gemini-flash" {
		t.Errorf("LLM = %s/%s, want gemini/gemini-flash", cfg.LLM.Provider, cfg.LLM.Gemini.Model)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("PRIMEMATH_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("PRIMEMATH_DATABASE_URL", "postgres://u:p@db:5432/primemath")
	t.Setenv("PRIMEMATH_DATABASE_MAX_CONNS", "20")
	t.Setenv("PRIMEMATH_CACHE_URL", "redis://cache:6379/1")
	t.Setenv("PRIMEMATH_CACHE_TTL", "5m")
	t.Setenv("PRIMEMATH_LOG_FORMAT", "json")
	t.Setenv("PRIMEMATH_LLM_PROVIDER", "openai")
	t.Setenv("PRIMEMATH_OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Database.MaxConns != 20 {
		t.Errorf("Database.MaxConns = %d, want 20", cfg.Database.MaxConns)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.OpenAI.APIKey != "sk-test" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoad_DiscoversGoogleKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("PRIMEMATH_LLM_TIMEOUT", "15s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.Provider != "gemini" || cfg.LLM.Gemini.APIKey != "g-key" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.LLM.Timeout)
	}
}

func TestLoad_InvalidTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRIMEMATH_CACHE_TTL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid TTL")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"mock provider ok", func(c *Config) { c.LLM.Provider = "mock" }, false},
		{"missing key is left to the llm package", func(c *Config) {}, false},
		{"zero timeout", func(c *Config) { c.LLM.Provider = "mock"; c.LLM.Timeout = 0 }, true},
		{"pool sizes inverted", func(c *Config) {
			c.LLM.Provider = "mock"
			c.Database.URL = "postgres://x"
			c.Database.MaxConns = 1
			c.Database.MinConns = 4
		}, true},
		{"empty grade", func(c *Config) { c.LLM.Provider = "mock"; c.Grade = "" }, true},
		{"grade without topics", func(c *Config) { c.LLM.Provider = "mock"; c.Grade = "PRIMARY_6" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_UnknownGradeFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRIMEMATH_GRADE", "PRIMARY_6")
	t.Setenv("PRIMEMATH_LLM_PROVIDER", "mock")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	err = cfg.Validate()
	if !errors.Is(err, curriculum.ErrCatalogEmpty) {
		t.Fatalf("Validate() = %v, want ErrCatalogEmpty", err)
	}
}
