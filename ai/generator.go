// Package ai turns prompts into tweets through a remote model with a
// primary, fallback and template chain.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// TweetGenerator never fails: when both models fail it answers from a template.
type TweetGenerator struct {
	completer     Completer
	primaryModel  string
	fallbackModel string
	logger        *slog.Logger
}

func NewTweetGenerator(completer Completer, primaryModel, fallbackModel string, logger *slog.Logger) *TweetGenerator {
	if primaryModel == "" {
		primaryModel = DefaultPrimaryModel
	}
	if fallbackModel == "" {
		fallbackModel = DefaultFallbackModel
	}
	return &TweetGenerator{
		completer:     completer,
		primaryModel:  primaryModel,
		fallbackModel: fallbackModel,
		logger:        logger,
	}
}

func (g *TweetGenerator) Generate(ctx context.Context, prompt string) string {
	g.logger.Info("Generating tweet", "prompt", prompt)

	for _, step := range []struct {
		stage string
		model string
	}{
		{"primary", g.primaryModel},
		{"fallback", g.fallbackModel},
	} {
		g.logger.Info("Using model", "stage", step.stage, "model", step.model)

		content, err := g.completer.Complete(ctx, step.model, prompt)
		if err != nil {
			g.logger.Error("Model failed", "stage", step.stage, "model", step.model, "error", err)
			continue
		}

		g.logger.Info("Generated tweet", "stage", step.stage, "model", step.model, "content", content)
		return content
	}

	g.logger.Warn("All models failed, using template", "prompt", prompt)
	return TemplateTweet(prompt)
}

const (
	cricketTemplate  = "🏏 Cricket is more than just a sport - it's a passion that unites nations! From the thrill of a perfect cover drive to the tension of a last-over finish, every match tells a story. #Cricket #LoveForCricket #Sport"
	footballTemplate = "⚽ Football is more than just a game - it's passion, teamwork, and unforgettable moments! Whether you're on the field or cheering from the stands, every match brings new excitement. #Football #BeautifulGame #Passion"
	genericTemplate  = "🎯 Here's a tweet about %[1]s: Exploring new ideas and sharing insights about %[1]s! Always learning, always growing. #Innovation #Learning #Growth"
)

// TemplateTweet is the deterministic last resort. The keyword cases are
// kept for compatibility with existing clients.
func TemplateTweet(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "cricket"):
		return cricketTemplate
	case strings.Contains(lower, "football"):
		return footballTemplate
	default:
		return fmt.Sprintf(genericTemplate, prompt)
	}
}
