package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// DefaultEmbedMaxChars is the input cap for embedding requests
const DefaultEmbedMaxChars = 8192

// EmbedderParams configures OpenAIEmbedder
type EmbedderParams struct {
	APIKey   string
	Endpoint string
	Model    string
	MaxChars int
}

// OpenAIEmbedder makes text embeddings with an OpenAI compatible API
type OpenAIEmbedder struct {
	client   *openai.Client
	model    string
	maxChars int
}

// NewOpenAIEmbedder makes an embedder
func NewOpenAIEmbedder(p EmbedderParams) *OpenAIEmbedder {
	clientConfig := openai.DefaultConfig(p.APIKey)
	if p.Endpoint != "" {
		clientConfig.BaseURL = p.Endpoint
	}
	if p.MaxChars <= 0 {
		p.MaxChars = DefaultEmbedMaxChars
	}
	if p.Model == "" {
		p.Model = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbedder{client: openai.NewClientWithConfig(clientConfig), model: p.Model, maxChars: p.MaxChars}
}

// Embed returns the embedding vector of text, truncated to the configured number of characters
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if r := []rune(text); len(r) > e.maxChars {
		text = string(r[:e.maxChars])
	}
	if text == "" {
		return nil, errors.New("empty text")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("no embedding in response")
	}
	return resp.Data[0].Embedding, nil
}
