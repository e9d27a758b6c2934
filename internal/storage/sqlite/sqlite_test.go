package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ButyrinIA/blogapi/internal/models"
	"github.com/ButyrinIA/blogapi/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "blog.db")

	store, err := New(ctx, path)
	require.NoError(t, err, "Не удалось инициализировать SQLiteStorage")
	defer store.Close()

	t.Run("Load without snapshot", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, storage.ErrNoSnapshot)
	})

	t.Run("Save and Load keep order", func(t *testing.T) {
		posts := []models.Post{
			{ID: "z", Title: "Z", Tag: "t", Author: "a", Date: "2024-01-02", Content: "c"},
			{ID: "a", Title: "A", Tag: "t", Author: "a", Date: "2024-01-01", Content: "c"},
		}

		require.NoError(t, store.Save(ctx, posts))
		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, posts, loaded)
	})

	t.Run("Save replaces snapshot", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, []models.Post{{ID: "only", Title: "T"}}))
		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Post{{ID: "only", Title: "T"}}, loaded)
	})

	t.Run("Duplicate ids are rejected", func(t *testing.T) {
		err := store.Save(ctx, []models.Post{{ID: "dup"}, {ID: "dup"}})
		assert.Error(t, err)

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Post{{ID: "only", Title: "T"}}, loaded, "Снимок не должен меняться при сбое транзакции")
	})

	t.Run("Reopen keeps snapshot", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, []models.Post{}))

		reopened, err := New(ctx, path)
		require.NoError(t, err)
		defer reopened.Close()

		loaded, err := reopened.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})
}
