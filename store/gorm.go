package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tweet-clock/models"
)

type gormTweet struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	Prompt           string    `gorm:"column:prompt;not null;type:text"`
	Content          string    `gorm:"column:content;not null;type:text"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;index"`
	PostedToExternal bool      `gorm:"column:posted_to_external;not null"`
	ExternalResponse *string   `gorm:"column:external_response;type:text"`
}

func (gormTweet) TableName() string {
	return tweetsTable
}

func (t gormTweet) toModel() models.Tweet {
	return models.Tweet{
		ID:               t.ID,
		Prompt:           t.Prompt,
		Content:          t.Content,
		CreatedAt:        t.CreatedAt,
		PostedToExternal: t.PostedToExternal,
		ExternalResponse: t.ExternalResponse,
	}
}

// GormStore keeps tweets in Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&gormTweet{}); err != nil {
		return storageErr("migrate", err)
	}
	return nil
}

func (s *GormStore) Create(ctx context.Context, prompt, content string) (*models.Tweet, error) {
	row := gormTweet{
		Prompt:    prompt,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, storageErr("create", err)
	}

	tweet := row.toModel()
	return &tweet, nil
}

func (s *GormStore) List(ctx context.Context, opts models.ListOptions) ([]models.Tweet, error) {
	q := s.db.WithContext(ctx).Model(&gormTweet{})
	if opts.Newest {
		q = q.Order("created_at DESC").Order("id DESC")
	} else {
		q = q.Order("id ASC")
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	var rows []gormTweet
	if err := q.Find(&rows).Error; err != nil {
		return nil, storageErr("list", err)
	}

	tweets := make([]models.Tweet, 0, len(rows))
	for _, row := range rows {
		tweets = append(tweets, row.toModel())
	}
	return tweets, nil
}

func (s *GormStore) Get(ctx context.Context, id int64) (*models.Tweet, error) {
	var row gormTweet
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr("get", err)
	}

	tweet := row.toModel()
	return &tweet, nil
}

func (s *GormStore) Update(ctx context.Context, id int64, fields models.TweetUpdate) (*models.Tweet, error) {
	if fields.IsEmpty() {
		return s.Get(ctx, id)
	}

	values := map[string]any{}
	if fields.Content != nil {
		values["content"] = *fields.Content
	}
	if fields.PostedToExternal != nil {
		values["posted_to_external"] = *fields.PostedToExternal
	}
	if fields.ExternalResponse != nil {
		values["external_response"] = *fields.ExternalResponse
	}

	res := s.db.WithContext(ctx).Model(&gormTweet{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return nil, storageErr("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound(id)
	}
	return s.Get(ctx, id)
}

func (s *GormStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&gormTweet{}, id)
	if res.Error != nil {
		return storageErr("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}
