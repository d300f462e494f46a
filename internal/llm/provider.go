package llm

import (
	"context"
	"fmt"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate with a Request and receive the completion text.
type Provider interface {
	// Generate sends a prompt to the LLM and returns its text response
	// verbatim. Any structure in the text is the caller's to parse.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Optional.
	System string

	// Messages is the conversation history. Every call in primemath is
	// single-turn, so this holds one user message.
	Messages []Message

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the LLM's output.
type Response struct {
	// Text is the raw completion.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// DefaultMaxTokens is the response budget used by GenerateText.
const DefaultMaxTokens = 1024

// GenerateText sends prompt as a single user message and returns the
// completion text. Truncated and empty completions are errors.
func GenerateText(ctx context.Context, p Provider, prompt string) (string, error) {
	resp, err := p.Generate(ctx, Request{
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens: DefaultMaxTokens,
	})
	if err != nil {
		return "", err
	}
	if resp.StopReason == "max_tokens" {
		return "", &ErrMaxTokensExceeded{Text: resp.Text}
	}
	if resp.Text == "" {
		return "", &ErrEmptyResponse{Model: resp.Model}
	}
	return resp.Text, nil
}

// completionFailed wraps a provider SDK error.
func completionFailed(provider string, status int, err error) error {
	return &ErrCompletionFailed{Provider: provider, StatusCode: status, Err: err}
}

// noTextError reports a response without any text part.
func noTextError(provider string) error {
	return completionFailed(provider, 0, fmt.Errorf("no text content in %s response", provider))
}
