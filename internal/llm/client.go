package llm

import (
	"context"
	"fmt"
)

// Request is one chat completion: an optional system message and a user prompt.
type Request struct {
	System string
	Prompt string
	// Temperature and MaxTokens override the client config when non-zero.
	Temperature float32
	MaxTokens   int
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete returns the text of the first completion choice
	Complete(ctx context.Context, req Request) (string, error)
	// Model returns the model name requests are sent to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config = config.withDefaults()

	switch config.Provider {
	case ProviderGroq, ProviderOpenAI:
		client, err := NewOpenAIClient(config, apiKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderGemini:
		client, err := NewGeminiClient(ctx, config, apiKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

func (r Request) temperature(c *Config) float32 {
	if r.Temperature != 0 {
		return r.Temperature
	}
	return c.Temperature
}

func (r Request) maxTokens(c *Config) int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return c.MaxTokens
}
