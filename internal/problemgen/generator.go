package problemgen

import (
	"context"
	"fmt"

	"github.com/abhisek/primemath/internal/curriculum"
	"github.com/abhisek/primemath/internal/llm"
)

// Generated is a problem produced for a specific topic.
type Generated struct {
	Problem
	Topic curriculum.Topic
}

// Generator picks a topic, prompts the model and parses its response.
type Generator struct {
	provider llm.Provider
	catalog  *curriculum.Catalog
	config   Config
}

// New creates a Generator. A nil catalog means the embedded one.
func New(provider llm.Provider, catalog *curriculum.Catalog, cfg Config) *Generator {
	if catalog == nil {
		catalog = curriculum.Default()
	}
	return &Generator{provider: provider, catalog: catalog, config: cfg}
}

// Generate produces one problem for a random topic of the grade.
func (g *Generator) Generate(ctx context.Context, grade curriculum.Grade) (*Generated, error) {
	topic, err := g.catalog.RandomTopic(grade)
	if err != nil {
		return nil, err
	}
	return g.GenerateForTopic(ctx, topic)
}

// GenerateForTopic produces one problem for the given topic. The raw model
// text is available on a returned *ParseError.
func (g *Generator) GenerateForTopic(ctx context.Context, topic curriculum.Topic) (*Generated, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeProblemGen)

	req := llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: BuildPrompt(topic)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	if resp.StopReason == "max_tokens" {
		return nil, &llm.ErrMaxTokensExceeded{Text: resp.Text}
	}

	p, err := ParseProblem(resp.Text)
	if err != nil {
		return nil, err
	}

	return &Generated{Problem: p, Topic: topic}, nil
}
