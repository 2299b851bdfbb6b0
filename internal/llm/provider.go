// Package llm abstracts the external text-generation capability used by
// the conversation analyzer. Providers take a prompt plus sampling options
// and return raw text; parsing the answer is the caller's problem.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Options control sampling for a single generation call.
type Options struct {
	Temperature float64
	MaxTokens   int
}

type Provider interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

type Config struct {
	Provider         string
	Model            string
	OpenAIBaseURL    string
	OpenAIAPIKey     string
	AnthropicBaseURL string
	AnthropicAPIKey  string
}

func NewProvider(cfg Config) (Provider, error) {
	client := &http.Client{Timeout: 60 * time.Second}

	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(client, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.Model), nil
	case "claude":
		return NewClaudeProvider(client, cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
