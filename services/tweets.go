// Package services sequences generation, persistence and reposting for each
// request. It holds no state between requests.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"tweet-clock/models"
	"tweet-clock/store"
	"tweet-clock/tasks"
)

type Generator interface {
	Generate(ctx context.Context, prompt string) string
}

type TweetService struct {
	store         store.Store
	generator     Generator
	publisher     tasks.Publisher
	defaultAPIKey string
	username      string
	logger        *slog.Logger
}

type Options struct {
	Store         store.Store
	Generator     Generator // nil when the model provider is not configured
	Publisher     tasks.Publisher
	DefaultAPIKey string
	Username      string
	Logger        *slog.Logger
}

func NewTweetService(opts Options) *TweetService {
	return &TweetService{
		store:         opts.Store,
		generator:     opts.Generator,
		publisher:     opts.Publisher,
		defaultAPIKey: opts.DefaultAPIKey,
		username:      opts.Username,
		logger:        opts.Logger,
	}
}

func (s *TweetService) GeneratorAvailable() bool {
	return s.generator != nil
}

func (s *TweetService) Create(ctx context.Context, prompt string) (*models.Tweet, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, &models.ValidationError{Field: "prompt", Message: "prompt is required"}
	}
	if s.generator == nil {
		return nil, &models.UpstreamError{Service: "openrouter", Err: models.ErrGeneratorUnavailable}
	}

	content := s.generator.Generate(ctx, prompt)

	tweet, err := s.store.Create(ctx, prompt, content)
	if err != nil {
		s.logger.Error("Failed to save generated tweet", "prompt", prompt, "error", err)
		return nil, err
	}
	return tweet, nil
}

func (s *TweetService) List(ctx context.Context, opts models.ListOptions) ([]models.Tweet, error) {
	if opts.Offset < 0 {
		return nil, &models.ValidationError{Field: "skip", Message: "must not be negative"}
	}
	if opts.Limit < 0 {
		return nil, &models.ValidationError{Field: "limit", Message: "must not be negative"}
	}
	return s.store.List(ctx, opts)
}

func (s *TweetService) Get(ctx context.Context, id int64) (*models.Tweet, error) {
	tweet, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translate(id, err)
	}
	return tweet, nil
}

// Repost sends a stored tweet, optionally edited, to the external network.
// A failed post is reported in the response, not as an error.
func (s *TweetService) Repost(ctx context.Context, req models.RepostRequest) (*models.RepostResponse, error) {
	tweet, err := s.store.Get(ctx, req.TweetID)
	if err != nil {
		return nil, translate(req.TweetID, err)
	}

	content := tweet.Content
	if strings.TrimSpace(req.Content) != "" {
		content = req.Content
		if _, err := s.store.Update(ctx, tweet.ID, models.TweetUpdate{Content: &content}); err != nil {
			return nil, translate(tweet.ID, err)
		}
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = s.defaultAPIKey
	}

	result := s.publisher.Publish(ctx, tasks.RepostPayload{
		Username: s.username,
		Text:     content,
		APIKey:   apiKey,
	})

	if _, err := s.store.Update(ctx, tweet.ID, models.TweetUpdate{
		PostedToExternal: &result.Succeeded,
		ExternalResponse: &result.Response,
	}); err != nil {
		s.logger.Error("Failed to record repost outcome", "tweetId", tweet.ID, "succeeded", result.Succeeded, "error", err)
		return nil, translate(tweet.ID, err)
	}

	if !result.Succeeded {
		return &models.RepostResponse{
			Success: false,
			Message: "Failed to post to external site: " + result.Response,
		}, nil
	}
	return &models.RepostResponse{
		Success: true,
		Message: "Tweet posted successfully to external site",
	}, nil
}

func (s *TweetService) Delete(ctx context.Context, id int64) (*models.DeleteResponse, error) {
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, translate(id, err)
	}
	s.logger.Info("Tweet deleted", "tweetId", id)
	return &models.DeleteResponse{Message: "Tweet deleted successfully", DeletedID: id}, nil
}

func translate(id int64, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return &models.NotFoundError{ID: id}
	}
	return err
}
