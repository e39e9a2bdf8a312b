package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tweet-clock/models"
)

const (
	redisSeqKey     = "tweets:seq"
	redisOrderKey   = "tweets:by_id"
	redisCreatedKey = "tweets:by_created"
)

func redisTweetKey(id int64) string {
	return "tweet:" + strconv.FormatInt(id, 10)
}

// RedisStore keeps one hash per tweet plus two sorted sets used for
// insertion order and created_at order. Ids come from INCR and are never reused.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Migrate(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return storageErr("migrate", err)
	}
	return nil
}

func (s *RedisStore) Create(ctx context.Context, prompt, content string) (*models.Tweet, error) {
	id, err := s.rdb.Incr(ctx, redisSeqKey).Result()
	if err != nil {
		return nil, storageErr("create", err)
	}

	tweet := models.Tweet{
		ID:        id,
		Prompt:    prompt,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisTweetKey(id), map[string]any{
			"id":                 id,
			"prompt":             prompt,
			"content":            content,
			"created_at":         tweet.CreatedAt.Format(time.RFC3339Nano),
			"posted_to_external": "0",
		})
		pipe.ZAdd(ctx, redisOrderKey, redis.Z{Score: float64(id), Member: id})
		pipe.ZAdd(ctx, redisCreatedKey, redis.Z{Score: float64(tweet.CreatedAt.UnixMicro()), Member: id})
		return nil
	})
	if err != nil {
		return nil, storageErr("create", err)
	}
	return &tweet, nil
}

func (s *RedisStore) List(ctx context.Context, opts models.ListOptions) ([]models.Tweet, error) {
	start := int64(opts.Offset)
	stop := int64(-1)
	if opts.Limit > 0 {
		stop = start + int64(opts.Limit) - 1
	}

	var (
		ids []string
		err error
	)
	if opts.Newest {
		ids, err = s.rdb.ZRevRange(ctx, redisCreatedKey, start, stop).Result()
	} else {
		ids, err = s.rdb.ZRange(ctx, redisOrderKey, start, stop).Result()
	}
	if err != nil {
		return nil, storageErr("list", err)
	}

	tweets := make([]models.Tweet, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, storageErr("list", fmt.Errorf("bad tweet id %q: %w", raw, err))
		}
		tweet, err := s.Get(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			// deleted between the range read and the hash read
			continue
		}
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, *tweet)
	}
	return tweets, nil
}

func (s *RedisStore) Get(ctx context.Context, id int64) (*models.Tweet, error) {
	fields, err := s.rdb.HGetAll(ctx, redisTweetKey(id)).Result()
	if err != nil {
		return nil, storageErr("get", err)
	}
	if len(fields) == 0 {
		return nil, notFound(id)
	}

	tweet, err := parseRedisTweet(id, fields)
	if err != nil {
		return nil, storageErr("get", err)
	}
	return tweet, nil
}

func (s *RedisStore) Update(ctx context.Context, id int64, fields models.TweetUpdate) (*models.Tweet, error) {
	key := redisTweetKey(id)

	values := map[string]any{}
	if fields.Content != nil {
		values["content"] = *fields.Content
	}
	if fields.PostedToExternal != nil {
		values["posted_to_external"] = redisBool(*fields.PostedToExternal)
	}
	if fields.ExternalResponse != nil {
		values["external_response"] = *fields.ExternalResponse
	}

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound(id)
		}
		if len(values) == 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, values)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, storageErr("update", err)
	}
	return s.Get(ctx, id)
}

func (s *RedisStore) Delete(ctx context.Context, id int64) error {
	var del *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, redisTweetKey(id))
		pipe.ZRem(ctx, redisOrderKey, id)
		pipe.ZRem(ctx, redisCreatedKey, id)
		return nil
	})
	if err != nil {
		return storageErr("delete", err)
	}
	if del.Val() == 0 {
		return notFound(id)
	}
	return nil
}

func parseRedisTweet(id int64, fields map[string]string) (*models.Tweet, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("parsing created_at of tweet %d: %w", id, err)
	}

	tweet := &models.Tweet{
		ID:               id,
		Prompt:           fields["prompt"],
		Content:          fields["content"],
		CreatedAt:        createdAt,
		PostedToExternal: fields["posted_to_external"] == "1",
	}
	if resp, ok := fields["external_response"]; ok {
		tweet.ExternalResponse = &resp
	}
	return tweet, nil
}

func redisBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
