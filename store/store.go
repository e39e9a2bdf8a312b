// Package store persists generated tweets. Every backend honors the same
// contract: missing rows match models.ErrNotFound and every other fault is a
// *models.StorageError.
package store

import (
	"context"
	"fmt"

	"tweet-clock/models"
)

type Store interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, prompt, content string) (*models.Tweet, error)
	List(ctx context.Context, opts models.ListOptions) ([]models.Tweet, error)
	Get(ctx context.Context, id int64) (*models.Tweet, error)
	Update(ctx context.Context, id int64, fields models.TweetUpdate) (*models.Tweet, error)
	Delete(ctx context.Context, id int64) error
}

func notFound(id int64) error {
	return fmt.Errorf("tweet %d: %w", id, models.ErrNotFound)
}

func storageErr(op string, err error) error {
	return &models.StorageError{Op: op, Err: err}
}
