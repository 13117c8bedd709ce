package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client for OpenAI-compatible chat completion APIs such as Groq.
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint.
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	config = config.withDefaults()

	clientConfig := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Complete sends a chat completion request and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: req.temperature(c.config),
		MaxTokens:   req.maxTokens(c.config),
	})
	if err != nil {
		return "", c.apiError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &FormatError{Provider: c.config.Provider, Message: "no choices in response"}
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &FormatError{Provider: c.config.Provider, Message: "empty message content"}
	}
	return content, nil
}

func (c *OpenAIClient) apiError(err error) error {
	apiErr := &APIError{Provider: c.config.Provider, Cause: err}

	var respErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &respErr):
		apiErr.StatusCode = respErr.HTTPStatusCode
		apiErr.Message = respErr.Message
	case errors.As(err, &reqErr):
		apiErr.StatusCode = reqErr.HTTPStatusCode
	}
	return apiErr
}

// Model returns the configured model name
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *OpenAIClient) Close() error {
	return nil
}
