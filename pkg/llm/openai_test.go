package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Equal(t, "system text", req.Messages[0].Content)
		assert.Equal(t, "user text", req.Messages[1].Content)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
		assert.Equal(t, "req-1", req.User)

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: `{"title":"Soup"}`}}},
			Usage:   openai.Usage{PromptTokens: 120, CompletionTokens: 30, TotalTokens: 150},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := NewOpenAIProvider(OpenAIParams{APIKey: "test-key", Endpoint: server.URL + "/v1", Model: "gpt-4o-mini",
		MaxTokens: 1000, UseJSONMode: true})
	assert.Equal(t, "openai", p.Name())

	gen, err := p.Generate(context.Background(), Prompt{SystemInstruction: "system text", UserText: "user text",
		ExpectJSON: true, Temperature: 0.1, RequestID: "req-1"})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Soup"}`, gen.Text)
	assert.Equal(t, Usage{InputTokens: 120, OutputTokens: 30}, NormalizeUsage(gen.UsageMetadata))
}

func TestOpenAIProvider_NoJSONModeWhenDisabled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Nil(t, req.ResponseFormat)
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "ok"}}}})
	}))
	defer server.Close()

	p := NewOpenAIProvider(OpenAIParams{Name: "groq", APIKey: "k", Endpoint: server.URL + "/v1", Model: "m"})
	assert.Equal(t, "groq", p.Name())
	_, err := p.Generate(context.Background(), Prompt{UserText: "x", ExpectJSON: true})
	require.NoError(t, err)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"internal"}}`))
		}))
		defer server.Close()
		p := NewOpenAIProvider(OpenAIParams{APIKey: "k", Endpoint: server.URL + "/v1", Model: "m"})
		_, err := p.Generate(context.Background(), Prompt{UserText: "x"})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "chat completion"))
	})

	t.Run("no choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
		}))
		defer server.Close()
		p := NewOpenAIProvider(OpenAIParams{APIKey: "k", Endpoint: server.URL + "/v1", Model: "m"})
		_, err := p.Generate(context.Background(), Prompt{UserText: "x"})
		require.EqualError(t, err, "no choices in response")
	})
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	var gotInput string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Input, 1)
		gotInput = req.Input[0]
		assert.Equal(t, "text-embedding-3-small", req.Model)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{{"object": "embedding", "index": 0, "embedding": []float32{0.1, 0.2, 0.3}}},
			"model":  req.Model,
		})
	}))
	defer server.Close()

	e := NewOpenAIEmbedder(EmbedderParams{APIKey: "k", Endpoint: server.URL + "/v1", MaxChars: 5})
	vec, err := e.Embed(context.Background(), "abcdefghij")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "abcde", gotInput)

	_, err = e.Embed(context.Background(), "")
	require.Error(t, err)
}
