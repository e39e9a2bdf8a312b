package controllers

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"tweet-clock/helpers"
	"tweet-clock/models"
	"tweet-clock/services"
)

type TweetController struct {
	svc    *services.TweetService
	logger *slog.Logger
}

func NewTweetController(svc *services.TweetService, logger *slog.Logger) *TweetController {
	return &TweetController{svc: svc, logger: logger}
}

func SetupTweetRoutes(se *core.ServeEvent, c *TweetController) {
	se.Router.GET("/{$}", c.Root)
	se.Router.GET("/health", c.Health)
	se.Router.POST("/generate-tweet", c.GenerateTweet)
	se.Router.GET("/tweets", c.ListTweets)
	se.Router.GET("/tweets/{id}", c.GetTweet)
	se.Router.DELETE("/tweets/{id}", c.DeleteTweet)
	se.Router.POST("/post-to-external", c.PostToExternal)
}

func (c *TweetController) GenerateTweet(e *core.RequestEvent) error {
	var req models.GenerateRequest
	if err := e.BindBody(&req); err != nil {
		return e.BadRequestError("Invalid request body", err)
	}

	tweet, err := c.svc.Create(e.Request.Context(), req.Prompt)
	if err != nil {
		return helpers.Error(e, c.logger, err)
	}

	c.logger.Info("Tweet generated", "tweetId", tweet.ID)
	return helpers.Success(e, tweet)
}

func (c *TweetController) ListTweets(e *core.RequestEvent) error {
	query := e.Request.URL.Query()

	skip, err := intParam(query.Get("skip"), "skip")
	if err != nil {
		return helpers.Error(e, c.logger, err)
	}
	limit, err := intParam(query.Get("limit"), "limit")
	if err != nil {
		return helpers.Error(e, c.logger, err)
	}

	opts := models.ListOptions{
		Offset: skip,
		Limit:  limit,
		Newest: strings.EqualFold(query.Get("order"), "desc"),
	}

	tweets, err := c.svc.List(e.Request.Context(), opts)
	if err != nil {
		return helpers.Error(e, c.logger, err)
	}
	return helpers.Success(e, tweets)
}

func (c *TweetController) GetTweet(e *core.RequestEvent) error {
	id, err := idParam(e)
	if err != nil {
		return helpers.Error(e, c.logger, err)
	}

	tweet, err := c.svc.Get(e.Request.Context(), id)
	if err != nil {
		return helpers.Error(e, c.logger, err)
	}
	return helpers.Success(e, tweet)
}

func (c *TweetController) DeleteTweet(e *core.RequestEvent) error {
	id, err := idParam(e)
	if err != nil {
		return helpers.Error(e, c.logger, err)
	}

	resp, err := c.svc.Delete(e.Request.Context(), id)
	if err != nil {
		return helpers.Error(e, c.logger, err)
	}
	return helpers.Success(e, resp)
}

func (c *TweetController) PostToExternal(e *core.RequestEvent) error {
	var req models.RepostRequest
	if err := e.BindBody(&req); err != nil {
		return e.BadRequestError("Invalid request body", err)
	}
	if req.TweetID <= 0 {
		return helpers.Error(e, c.logger, &models.ValidationError{Field: "tweet_id", Message: "tweet_id is required"})
	}

	resp, err := c.svc.Repost(e.Request.Context(), req)
	if err != nil {
		return helpers.Error(e, c.logger, err)
	}

	c.logger.Info("Repost finished", "tweetId", req.TweetID, "success", resp.Success)
	return helpers.Success(e, resp)
}

func idParam(e *core.RequestEvent) (int64, error) {
	id, err := strconv.ParseInt(e.Request.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &models.ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &models.ValidationError{Field: name, Message: "must be a non-negative integer"}
	}
	return n, nil
}
