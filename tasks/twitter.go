package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/michimani/gotwi"
	"github.com/michimani/gotwi/tweet/managetweet"
	"github.com/michimani/gotwi/tweet/managetweet/types"
)

// TwitterPublisher posts through the Twitter v2 API with an OAuth1 user
// context. The API key carries "<oauth token> <oauth token secret>"; the
// consumer key pair is read by gotwi from GOTWI_API_KEY and GOTWI_API_KEY_SECRET.
type TwitterPublisher struct {
	timeout time.Duration
	logger  *slog.Logger
}

func NewTwitterPublisher(timeout time.Duration, logger *slog.Logger) *TwitterPublisher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TwitterPublisher{timeout: timeout, logger: logger}
}

func (t *TwitterPublisher) Publish(ctx context.Context, p RepostPayload) Result {
	tokens := strings.Fields(p.APIKey)
	if len(tokens) != 2 {
		return FailedPost(t.logger, TargetTwitter, "", errors.New(`api key must be "<oauth token> <oauth token secret>"`))
	}

	in := &gotwi.NewClientInput{
		AuthenticationMethod: gotwi.AuthenMethodOAuth1UserContext,
		OAuthToken:           tokens[0],
		OAuthTokenSecret:     tokens[1],
	}

	client, err := gotwi.NewClient(in)
	if err != nil {
		return FailedPost(t.logger, TargetTwitter, "", err)
	}

	var post types.CreateInput
	post.Text = gotwi.String(p.Text)

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	res, err := managetweet.Create(ctx, client, &post)
	if err != nil {
		return FailedPost(t.logger, TargetTwitter, "", err)
	}

	raw, err := json.Marshal(res)
	if err != nil {
		raw = []byte(gotwi.StringValue(res.Data.ID))
	}

	t.logger.Info("Tweet created", "tweetId", gotwi.StringValue(res.Data.ID), "username", p.Username)
	return SuccessPost(t.logger, TargetTwitter, string(raw))
}
