package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet-clock/models"
)

func ptr[T any](v T) *T {
	return &v
}

// runStoreContract exercises the behavior every backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create then list includes the tweet once", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Create(ctx, "football", "goal!")
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.PostedToExternal)
		assert.Nil(t, created.ExternalResponse)

		tweets, err := s.List(ctx, models.ListOptions{})
		require.NoError(t, err)
		count := 0
		for _, tw := range tweets {
			if tw.ID == created.ID {
				count++
				assert.Equal(t, "football", tw.Prompt)
				assert.Equal(t, "goal!", tw.Content)
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("get missing is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, 4242)
		assert.ErrorIs(t, err, models.ErrNotFound)

		var storageErr *models.StorageError
		assert.False(t, errors.As(err, &storageErr))
	})

	t.Run("partial update", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Create(ctx, "cats", "cats are great")
		require.NoError(t, err)

		updated, err := s.Update(ctx, created.ID, models.TweetUpdate{Content: ptr("cats rule")})
		require.NoError(t, err)
		assert.Equal(t, "cats rule", updated.Content)
		assert.Equal(t, "cats", updated.Prompt)
		assert.False(t, updated.PostedToExternal)

		updated, err = s.Update(ctx, created.ID, models.TweetUpdate{
			PostedToExternal: ptr(true),
			ExternalResponse: ptr(`{"ok":true}`),
		})
		require.NoError(t, err)
		assert.Equal(t, "cats rule", updated.Content)
		assert.True(t, updated.PostedToExternal)
		require.NotNil(t, updated.ExternalResponse)
		assert.Equal(t, `{"ok":true}`, *updated.ExternalResponse)
		assert.Equal(t, created.ID, updated.ID)
	})

	t.Run("update missing is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Update(ctx, 999, models.TweetUpdate{Content: ptr("x")})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("delete removes and ids are not reused", func(t *testing.T) {
		s := newStore(t)
		first, err := s.Create(ctx, "a", "a")
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, first.ID))
		assert.ErrorIs(t, s.Delete(ctx, first.ID), models.ErrNotFound)

		_, err = s.Get(ctx, first.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)

		tweets, err := s.List(ctx, models.ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, tweets)

		second, err := s.Create(ctx, "b", "b")
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("ordering and paging", func(t *testing.T) {
		s := newStore(t)
		var ids []int64
		for _, p := range []string{"one", "two", "three", "four"} {
			tw, err := s.Create(ctx, p, p)
			require.NoError(t, err)
			ids = append(ids, tw.ID)
		}

		all, err := s.List(ctx, models.ListOptions{})
		require.NoError(t, err)
		require.Len(t, all, 4)
		for i, tw := range all {
			assert.Equal(t, ids[i], tw.ID)
		}

		page, err := s.List(ctx, models.ListOptions{Offset: 1, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, ids[1], page[0].ID)
		assert.Equal(t, ids[2], page[1].ID)

		tail, err := s.List(ctx, models.ListOptions{Offset: 3})
		require.NoError(t, err)
		require.Len(t, tail, 1)
		assert.Equal(t, ids[3], tail[0].ID)

		newest, err := s.List(ctx, models.ListOptions{Newest: true, Limit: 1})
		require.NoError(t, err)
		require.Len(t, newest, 1)
		assert.Equal(t, ids[3], newest[0].ID)
	})
}
