package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/tools/types"

	"tweet-clock/models"
)

const tweetsTable = "tweets"

// AUTOINCREMENT keeps deleted ids from being handed out again.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tweets (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    prompt             TEXT NOT NULL,
    content            TEXT NOT NULL,
    created_at         TEXT NOT NULL,
    posted_to_external BOOLEAN NOT NULL DEFAULT FALSE,
    external_response  TEXT
)`

const sqliteIndex = `CREATE INDEX IF NOT EXISTS idx_tweets_created_at ON tweets(created_at)`

type sqlTweet struct {
	ID               int64          `db:"id"`
	Prompt           string         `db:"prompt"`
	Content          string         `db:"content"`
	CreatedAt        types.DateTime `db:"created_at"`
	PostedToExternal bool           `db:"posted_to_external"`
	ExternalResponse sql.NullString `db:"external_response"`
}

func (t sqlTweet) toModel() models.Tweet {
	tweet := models.Tweet{
		ID:               t.ID,
		Prompt:           t.Prompt,
		Content:          t.Content,
		CreatedAt:        t.CreatedAt.Time(),
		PostedToExternal: t.PostedToExternal,
	}
	if t.ExternalResponse.Valid {
		resp := t.ExternalResponse.String
		tweet.ExternalResponse = &resp
	}
	return tweet
}

// SQLStore keeps tweets in SQLite through dbx. It serves both the app's
// embedded data.db and standalone sqlite:// files.
type SQLStore struct {
	db dbx.Builder
}

func NewSQLStore(db dbx.Builder) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range []string{sqliteSchema, sqliteIndex} {
		if _, err := s.db.NewQuery(stmt).WithContext(ctx).Execute(); err != nil {
			return storageErr("migrate", err)
		}
	}
	return nil
}

func (s *SQLStore) Create(ctx context.Context, prompt, content string) (*models.Tweet, error) {
	res, err := s.db.Insert(tweetsTable, dbx.Params{
		"prompt":             prompt,
		"content":            content,
		"created_at":         types.NowDateTime(),
		"posted_to_external": false,
	}).WithContext(ctx).Execute()
	if err != nil {
		return nil, storageErr("create", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, storageErr("create", err)
	}
	return s.Get(ctx, id)
}

func (s *SQLStore) List(ctx context.Context, opts models.ListOptions) ([]models.Tweet, error) {
	q := s.db.Select("*").From(tweetsTable).WithContext(ctx)
	if opts.Newest {
		q = q.OrderBy("created_at DESC", "id DESC")
	} else {
		q = q.OrderBy("id ASC")
	}
	if opts.Offset > 0 {
		q = q.Offset(int64(opts.Offset))
	}
	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}

	var rows []sqlTweet
	if err := q.All(&rows); err != nil {
		return nil, storageErr("list", err)
	}

	tweets := make([]models.Tweet, 0, len(rows))
	for _, row := range rows {
		tweets = append(tweets, row.toModel())
	}
	return tweets, nil
}

func (s *SQLStore) Get(ctx context.Context, id int64) (*models.Tweet, error) {
	var row sqlTweet
	err := s.db.Select("*").
		From(tweetsTable).
		Where(dbx.HashExp{"id": id}).
		WithContext(ctx).
		One(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr("get", err)
	}

	tweet := row.toModel()
	return &tweet, nil
}

func (s *SQLStore) Update(ctx context.Context, id int64, fields models.TweetUpdate) (*models.Tweet, error) {
	if fields.IsEmpty() {
		return s.Get(ctx, id)
	}

	params := dbx.Params{}
	if fields.Content != nil {
		params["content"] = *fields.Content
	}
	if fields.PostedToExternal != nil {
		params["posted_to_external"] = *fields.PostedToExternal
	}
	if fields.ExternalResponse != nil {
		params["external_response"] = *fields.ExternalResponse
	}

	res, err := s.db.Update(tweetsTable, params, dbx.HashExp{"id": id}).WithContext(ctx).Execute()
	if err != nil {
		return nil, storageErr("update", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, storageErr("update", err)
	}
	if affected == 0 {
		return nil, notFound(id)
	}
	return s.Get(ctx, id)
}

func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.Delete(tweetsTable, dbx.HashExp{"id": id}).WithContext(ctx).Execute()
	if err != nil {
		return storageErr("delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete", err)
	}
	if affected == 0 {
		return notFound(id)
	}
	return nil
}
