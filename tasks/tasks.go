// Package tasks forwards stored tweets to external networks.
package tasks

import (
	"context"
	"log/slog"
)

const (
	TargetClone   = "clone"
	TargetTwitter = "twitter"
)

type RepostPayload struct {
	Username string
	Text     string
	APIKey   string
}

// Result is the outcome of one attempt. Response is the raw body on success
// and the error detail or body on failure.
type Result struct {
	Succeeded bool
	Response  string
}

// Publisher never returns an error: every failure is reported in Result.
type Publisher interface {
	Publish(ctx context.Context, p RepostPayload) Result
}

func FailedPost(logger *slog.Logger, platform string, response string, err error) Result {
	logger.Error("Failed to post on "+platform, "type", "posting", "platform", platform, "error", err.Error())
	if response == "" {
		response = err.Error()
	}
	return Result{Succeeded: false, Response: response}
}

func SuccessPost(logger *slog.Logger, platform string, response string) Result {
	logger.Info("Successfully posted on "+platform, "type", "posting", "platform", platform)
	return Result{Succeeded: true, Response: response}
}
