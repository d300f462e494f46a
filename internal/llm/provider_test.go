package llm

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: `{"a":1}`, Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Text: `{"b":2}`},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Text)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Text)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var failed *ErrCompletionFailed
	if !errors.As(err, &failed) {
		t.Fatalf("expected ErrCompletionFailed, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider()
	mock.AddText("ok")

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
	if mock.Prompt(0) != "hello" {
		t.Fatalf("expected prompt 'hello', got %q", mock.Prompt(0))
	}
	if mock.Prompt(5) != "" {
		t.Fatal("expected empty prompt for unknown call")
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrCompletionFailed{Provider: "mock", StatusCode: 429}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	var failed *ErrCompletionFailed
	if !errors.As(err, &failed) {
		t.Fatalf("expected ErrCompletionFailed, got: %T", err)
	}
	if !failed.RateLimited() {
		t.Fatal("expected RateLimited() for status 429")
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestGenerateText(t *testing.T) {
	tests := []struct {
		name    string
		resp    MockResponse
		want    string
		wantErr any
	}{
		{
			name: "text",
			resp: MockResponse{Text: "a hint"},
			want: "a hint",
		},
		{
			name:    "truncated",
			resp:    MockResponse{Text: `{"problem": "Find`, StopReason: "max_tokens"},
			wantErr: new(*ErrMaxTokensExceeded),
		},
		{
			name:    "empty",
			resp:    MockResponse{Text: ""},
			wantErr: new(*ErrEmptyResponse),
		},
		{
			name:    "provider error",
			resp:    MockResponse{Err: &ErrCompletionFailed{Provider: "mock"}},
			wantErr: new(*ErrCompletionFailed),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.resp)
			got, err := GenerateText(context.Background(), mock, "prompt")
			if tt.wantErr != nil {
				if err == nil || !errors.As(err, tt.wantErr) {
					t.Fatalf("expected %T, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			if mock.Calls[0].MaxTokens != DefaultMaxTokens {
				t.Fatalf("expected MaxTokens %d, got %d", DefaultMaxTokens, mock.Calls[0].MaxTokens)
			}
		})
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeProblemGen)
	if p := PurposeFrom(ctx); p != "problem-gen" {
		t.Fatalf("expected 'problem-gen', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "k"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"openrouter without key", Config{Provider: "openrouter"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"bedrock without region", Config{Provider: "bedrock"}, true},
		{"bedrock with region", Config{Provider: "bedrock", Bedrock: BedrockConfig{Region: "us-east-1"}}, false},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PRIMEMATH_LLM_PROVIDER", "openrouter")
	t.Setenv("PRIMEMATH_OPENROUTER_API_KEY", "or-key")
	t.Setenv("PRIMEMATH_LLM_TIMEOUT", "15s")
	t.Setenv("PRIMEMATH_BEDROCK_REGION", "ap-southeast-1")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openrouter" {
		t.Errorf("Provider = %q, want openrouter", cfg.Provider)
	}
	if cfg.OpenRouter.APIKey != "or-key" {
		t.Errorf("OpenRouter.APIKey = %q", cfg.OpenRouter.APIKey)
	}
	if cfg.Timeout.Seconds() != 15 {
		t.Errorf("Timeout = %s, want 15s", cfg.Timeout)
	}
	if cfg.Bedrock.Region != "ap-southeast-1" {
		t.Errorf("Bedrock.Region = %q", cfg.Bedrock.Region)
	}
	if cfg.Gemini.Model != "gemini-flash" {
		t.Errorf("Gemini.Model default = %q", cfg.Gemini.Model)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no config without keys")
	}

	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected config")
	}
	if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("expected gemini with GOOGLE_API_KEY, got %q / %q", cfg.Provider, cfg.Gemini.APIKey)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gemini-2.5-flash")
	if c == nil {
		t.Fatal("expected pricing for gemini-2.5-flash")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-2.8) > 1e-9 {
		t.Errorf("Cost = %v, want 2.8", got)
	}
	if LookupCost("google/gemini-2.5-flash") == nil {
		t.Error("expected OpenRouter-style ID to resolve")
	}
	if LookupCost("no-such-model") != nil {
		t.Error("expected nil for unknown model")
	}
}
