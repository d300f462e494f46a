package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// bedrockModels maps friendly names to Bedrock model IDs. Only Anthropic
// models are supported since the request body uses the messages format.
var bedrockModels = map[string]string{
	"claude-haiku":  "anthropic.claude-3-haiku-20240307-v1:0",
	"claude-sonnet": "anthropic.claude-3-5-sonnet-20240620-v1:0",
}

const bedrockAnthropicVersion = "bedrock-2023-05-31"

// bedrockInvoker is the slice of the Bedrock runtime client the provider
// uses.
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockProvider implements Provider using Anthropic models on AWS Bedrock.
type BedrockProvider struct {
	client bedrockInvoker
	model  string
}

// NewBedrockProvider loads the default AWS configuration for the region and
// creates a Bedrock runtime client.
func NewBedrockProvider(ctx context.Context, cfg BedrockConfig) (*BedrockProvider, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("bedrock region is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &BedrockProvider{
		client: bedrockruntime.NewFromConfig(awsCfg),
		model:  resolveModel(cfg.Model, bedrockModels),
	}, nil
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Temperature      *float64         `json:"temperature,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
}

type bedrockMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type bedrockResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (p *BedrockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	body := bedrockRequest{
		AnthropicVersion: bedrockAnthropicVersion,
		MaxTokens:        req.MaxTokens,
		System:           req.System,
	}
	if body.MaxTokens <= 0 {
		body.MaxTokens = DefaultMaxTokens
	}
	if req.Temperature > 0 {
		body.Temperature = aws.Float64(req.Temperature)
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, bedrockMessage{Role: string(m.Role), Content: m.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal bedrock request: %w", err)
	}

	out, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.model),
		Body:        payload,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return nil, mapBedrockError(err)
	}

	var parsed bedrockResponse
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return nil, completionFailed("bedrock", 0, fmt.Errorf("decode response body: %w", err))
	}

	var b strings.Builder
	found := false
	for _, block := range parsed.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
			found = true
		}
	}
	if !found {
		return nil, noTextError("bedrock")
	}

	model := parsed.Model
	if model == "" {
		model = p.model
	}

	return &Response{
		Text: b.String(),
		Usage: Usage{
			InputTokens:  parsed.Usage.InputTokens,
			OutputTokens: parsed.Usage.OutputTokens,
			TotalTokens:  parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		},
		Model:      model,
		StopReason: mapAnthropicStopReason(parsed.StopReason),
	}, nil
}

func (p *BedrockProvider) ModelID() string {
	return p.model
}

func mapBedrockError(err error) error {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return completionFailed("bedrock", respErr.HTTPStatusCode(), err)
	}
	return completionFailed("bedrock", 0, err)
}
