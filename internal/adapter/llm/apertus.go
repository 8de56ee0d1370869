package llm

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"swissvote/internal/port"
)

// ApertusClient talks to the Swisscom Apertus chat completion API,
// which is OpenAI-compatible.
type ApertusClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewApertusClient reads the API key from the named environment
// variable. A missing key is a configuration error: the caller should
// fail at startup, not at first use.
func NewApertusClient(apiKeyEnv, baseURL, model string, temperature float64, maxTokens int) (*ApertusClient, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &ApertusClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
	}, nil
}

func (c *ApertusClient) Chat(ctx context.Context, messages []port.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *ApertusClient) ModelName() string {
	return c.model
}
