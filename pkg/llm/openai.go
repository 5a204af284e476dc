package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIParams configures an OpenAI compatible chat provider
type OpenAIParams struct {
	Name        string // reported provider name, defaults to "openai"
	APIKey      string
	Endpoint    string // custom base URL for compatible APIs (openrouter, groq, local)
	Model       string
	MaxTokens   int
	UseJSONMode bool // request json_object response format when the prompt expects json
}

// OpenAIProvider calls an OpenAI compatible chat completion API
type OpenAIProvider struct {
	client *openai.Client
	params OpenAIParams
}

// NewOpenAIProvider makes a provider for the OpenAI chat API or any compatible endpoint
func NewOpenAIProvider(p OpenAIParams) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(p.APIKey)
	if p.Endpoint != "" {
		clientConfig.BaseURL = p.Endpoint
	}
	if p.Name == "" {
		p.Name = "openai"
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(clientConfig), params: p}
}

// Name returns provider name
func (o *OpenAIProvider) Name() string { return o.params.Name }

// Generate makes a single chat completion call, no retries
func (o *OpenAIProvider) Generate(ctx context.Context, p Prompt) (*Generation, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.params.Model,
		Temperature: float32(p.Temperature),
		MaxTokens:   o.params.MaxTokens,
		User:        p.RequestID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: p.UserText},
		},
	}
	if p.ExpectJSON && o.params.UseJSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices in response")
	}

	return &Generation{
		Text: resp.Choices[0].Message.Content,
		UsageMetadata: map[string]any{
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
		},
	}, nil
}
