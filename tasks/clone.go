package tasks

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tweet-clock/helpers"
)

type CloneConfig struct {
	BaseURL  string
	Endpoint string
	Timeout  time.Duration
}

// ClonePublisher posts to the twitter-clone API, which authenticates with an
// "api-key" header instead of a bearer token.
type ClonePublisher struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewClonePublisher(cfg CloneConfig, logger *slog.Logger) *ClonePublisher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &ClonePublisher{
		url:    strings.TrimRight(cfg.BaseURL, "/") + cfg.Endpoint,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (c *ClonePublisher) Publish(ctx context.Context, p RepostPayload) Result {
	data := map[string]any{
		"username": p.Username,
		"text":     p.Text,
	}

	headers := map[string]string{
		"api-key":      p.APIKey,
		"Content-Type": "application/json",
	}

	c.logger.Info("Posting to clone", "url", c.url, "username", p.Username)

	body, err := helpers.SendRequest(ctx, c.client, c.logger, http.MethodPost, c.url, headers, nil, data)
	if err != nil {
		var httpErr *helpers.HTTPError
		if errors.As(err, &httpErr) {
			return FailedPost(c.logger, TargetClone, httpErr.Error(), err)
		}
		return FailedPost(c.logger, TargetClone, "", err)
	}

	return SuccessPost(c.logger, TargetClone, string(body))
}
