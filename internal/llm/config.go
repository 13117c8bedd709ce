// Package llm provides LLM configuration and chat-completion clients.
// Groq and other OpenAI-compatible endpoints share one client; Gemini has its own.
package llm

import (
	"fmt"
	"strings"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGroq is Groq's OpenAI-compatible endpoint
	ProviderGroq Provider = "groq"
	// ProviderOpenAI is any OpenAI-compatible endpoint reached through BaseURL
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Provider defaults.
const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama-3.1-8b-instant"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 32768
	DefaultTimeout     = 120 * time.Second
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Model    string
	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	BaseURL     string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultConfig returns the default configuration (Groq, llama-3.1-8b-instant)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGroq,
		Model:       DefaultGroqModel,
		BaseURL:     DefaultGroqBaseURL,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	cfg := DefaultConfig()
	cfg.Provider = ProviderGemini
	cfg.Model = DefaultGeminiModel
	cfg.BaseURL = ""
	return cfg
}

// ParseProvider validates a provider name.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGroq, ProviderOpenAI, ProviderGemini:
		return p, nil
	case "":
		return ProviderGroq, nil
	default:
		return "", fmt.Errorf("unknown LLM provider %q (want groq, openai or gemini)", s)
	}
}

// WithModel returns a copy of the config using model.
func (c *Config) WithModel(model string) *Config {
	copied := *c
	copied.Model = model
	return &copied
}

// withDefaults fills zero fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	copied := *c
	defaults := DefaultConfig()
	if copied.Provider == "" {
		copied.Provider = defaults.Provider
	}
	if copied.Model == "" {
		if copied.Provider == ProviderGemini {
			copied.Model = DefaultGeminiModel
		} else {
			copied.Model = defaults.Model
		}
	}
	if copied.BaseURL == "" && copied.Provider == ProviderGroq {
		copied.BaseURL = defaults.BaseURL
	}
	if copied.Temperature == 0 {
		copied.Temperature = defaults.Temperature
	}
	if copied.MaxTokens <= 0 {
		copied.MaxTokens = defaults.MaxTokens
	}
	if copied.Timeout <= 0 {
		copied.Timeout = defaults.Timeout
	}
	return &copied
}
