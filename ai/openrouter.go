package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tweet-clock/helpers"
	"tweet-clock/models"
)

const (
	DefaultBaseURL       = "https://openrouter.ai/api/v1" // https://openrouter.ai/models
	DefaultPrimaryModel  = "openai/gpt-3.5-turbo"
	DefaultFallbackModel = "anthropic/claude-3-haiku"
)

const systemPrompt = `You are a creative and engaging tweet generator. Create a tweet that is:
- Directly related to the user's specific prompt/topic
- Under 280 characters
- Engaging, witty, and shareable
- Uses natural, conversational language
- Includes 1-3 relevant hashtags if appropriate
- Avoids generic responses like "Stay tuned for more updates"
- Makes the content specific to the topic mentioned

Example: If user says "football", don't just say "Here's a tweet about football" - actually write about football!`

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type ChatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage map[string]int `json:"usage"`
}

// Completer runs one completion against one model.
type Completer interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

type OpenRouterConfig struct {
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// OpenRouter talks to the OpenAI-compatible chat completions endpoint.
type OpenRouter struct {
	cfg    OpenRouterConfig
	client *http.Client
	logger *slog.Logger
}

func NewOpenRouter(cfg OpenRouterConfig, logger *slog.Logger) (*OpenRouter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY is not set")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &OpenRouter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

func (o *OpenRouter) Complete(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	reqBody := ChatRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Create an engaging tweet about: " + prompt},
		},
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + o.cfg.APIKey,
	}

	chatResp, err := helpers.MakeHTTPRequest[ChatResponse](
		ctx, o.client, o.logger, http.MethodPost,
		strings.TrimRight(o.cfg.BaseURL, "/")+"/chat/completions",
		headers, nil, reqBody,
	)
	if err != nil {
		return "", &models.UpstreamError{Service: "openrouter", Err: err}
	}

	if len(chatResp.Choices) == 0 {
		return "", &models.UpstreamError{Service: "openrouter", Err: fmt.Errorf("no choices in response from %s", model)}
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", &models.UpstreamError{Service: "openrouter", Err: fmt.Errorf("empty completion from %s", model)}
	}
	return content, nil
}
