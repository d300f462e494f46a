package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/primemath/internal/store"
)

// NewProvider creates a Provider from configuration. When eventRepo is
// non-nil the provider is wrapped so every call is recorded.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "bedrock":
		base, err = NewBedrockProvider(ctx, cfg.Bedrock)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if eventRepo == nil {
		return base, nil
	}
	return WithLogging(base, cfg.Provider, eventRepo, log), nil
}
