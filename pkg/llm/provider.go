// Package llm is the model adapter layer: a uniform contract over language model providers,
// sequential provider fallback, prompt construction and sanitizing of model output.
package llm

import (
	"context"
	"encoding/json"
	"strconv"
)

// Provider is a single language model backend
type Provider interface {
	Name() string
	Generate(ctx context.Context, p Prompt) (*Generation, error)
}

// Prompt is built fresh for every call, the same prompt may go to several providers in turn
type Prompt struct {
	SystemInstruction string
	UserText          string
	ExpectJSON        bool
	Temperature       float64
	RequestID         string
}

// Len is the size of the prompt in characters
func (p Prompt) Len() int {
	return len([]rune(p.SystemInstruction)) + len([]rune(p.UserText))
}

// Generation is the raw result of a provider call, usage metadata is provider specific
type Generation struct {
	Text          string
	UsageMetadata map[string]any
}

// Usage is token accounting normalized across providers
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Add returns the sum of two usages
func (u Usage) Add(o Usage) Usage {
	return Usage{InputTokens: u.InputTokens + o.InputTokens, OutputTokens: u.OutputTokens + o.OutputTokens}
}

// Response is the outcome of one provider attempt or of a whole fallback run
type Response struct {
	Output   string
	Usage    Usage
	Provider string
	Err      error
}

// usage key pairs used by known providers, openai style, anthropic style and gemini style
var usageKeys = [][2]string{
	{"prompt_tokens", "completion_tokens"},
	{"input_tokens", "output_tokens"},
	{"promptTokenCount", "candidatesTokenCount"},
}

// NormalizeUsage maps provider specific usage metadata to Usage.
// Unknown or missing keys count as zero.
func NormalizeUsage(meta map[string]any) Usage {
	for _, keys := range usageKeys {
		in, okIn := meta[keys[0]]
		out, okOut := meta[keys[1]]
		if !okIn && !okOut {
			continue
		}
		return Usage{InputTokens: toInt(in), OutputTokens: toInt(out)}
	}
	return Usage{}
}

func toInt(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int32:
		return int(val)
	case int64:
		return int(val)
	case float64:
		return int(val)
	case float32:
		return int(val)
	case json.Number:
		i, _ := val.Int64()
		return int(i)
	case string:
		i, _ := strconv.Atoi(val)
		return i
	}
	return 0
}
