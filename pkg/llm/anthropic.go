package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicParams configures the Anthropic messages provider
type AnthropicParams struct {
	APIKey    string
	Endpoint  string
	Model     string
	MaxTokens int
}

// AnthropicProvider calls the Anthropic messages API
type AnthropicProvider struct {
	client anthropic.Client
	params AnthropicParams
}

// NewAnthropicProvider makes an Anthropic provider. SDK level retries are disabled,
// fallback to another provider is the runner's job.
func NewAnthropicProvider(p AnthropicParams) *AnthropicProvider {
	opts := []option.RequestOption{option.WithAPIKey(p.APIKey), option.WithMaxRetries(0)}
	if p.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(p.Endpoint))
	}
	if p.MaxTokens <= 0 {
		p.MaxTokens = 4096
	}
	return &AnthropicProvider{client: anthropic.NewClient(opts...), params: p}
}

// Name returns provider name
func (a *AnthropicProvider) Name() string { return "anthropic" }

// Generate sends one message request and joins all text blocks of the reply
func (a *AnthropicProvider) Generate(ctx context.Context, p Prompt) (*Generation, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.params.Model),
		MaxTokens:   int64(a.params.MaxTokens),
		Temperature: anthropic.Float(p.Temperature),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(p.UserText))},
	}
	if p.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: p.SystemInstruction}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return &Generation{
		Text: sb.String(),
		UsageMetadata: map[string]any{
			"input_tokens":  msg.Usage.InputTokens,
			"output_tokens": msg.Usage.OutputTokens,
		},
	}, nil
}
