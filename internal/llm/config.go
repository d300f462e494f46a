package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "openrouter", "anthropic", "bedrock", "mock"
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	OpenRouter OpenRouterConfig
	Anthropic  AnthropicConfig
	Bedrock    BedrockConfig

	// Timeout bounds a single LLM request. Callers apply it as a context
	// deadline; providers never retry. Default: 60s.
	Timeout time.Duration
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// BedrockConfig holds AWS Bedrock configuration. Credentials come from the
// default AWS chain (env, shared config, instance role).
type BedrockConfig struct {
	Region string // Default: "us-east-1"
	Model  string // Default: "claude-haiku"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Bedrock: BedrockConfig{
			Region: "us-east-1",
			Model:  "claude-haiku",
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("PRIMEMATH_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if t := os.Getenv("PRIMEMATH_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}

	if k := os.Getenv("PRIMEMATH_GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("PRIMEMATH_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	if k := os.Getenv("PRIMEMATH_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("PRIMEMATH_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("PRIMEMATH_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("PRIMEMATH_OPENROUTER_API_KEY"); k != "" {
		cfg.OpenRouter.APIKey = k
	}
	if m := os.Getenv("PRIMEMATH_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	if k := os.Getenv("PRIMEMATH_ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("PRIMEMATH_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	if r := os.Getenv("PRIMEMATH_BEDROCK_REGION"); r != "" {
		cfg.Bedrock.Region = r
	}
	if m := os.Getenv("PRIMEMATH_BEDROCK_MODEL"); m != "" {
		cfg.Bedrock.Model = m
	}

	return cfg
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if k := os.Getenv(name); k != "" {
			cfg.Provider = "gemini"
			cfg.Gemini.APIKey = k
			return cfg, true
		}
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("PRIMEMATH_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("PRIMEMATH_OPENAI_API_KEY is required for the openai provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("PRIMEMATH_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("PRIMEMATH_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "bedrock":
		if c.Bedrock.Region == "" {
			return fmt.Errorf("PRIMEMATH_BEDROCK_REGION is required for the bedrock provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
