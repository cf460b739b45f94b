package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{
			ID:        "c1",
			DocID:     "data.json",
			Text:      "Transaction: CVS spent -19516 cents USD on 2025-09-21",
			Embedding: []float32{0.1, -0.2, 0.3},
			Metadata:  map[string]any{"source": "json", "pos": float64(0)},
		},
		{
			ID:        "c2",
			DocID:     "data.json",
			Text:      "Transaction: Netflix spent -17054 cents USD on 2025-09-21",
			Embedding: []float32{-0.4, 0.5, 0.6},
			Metadata:  map[string]any{"source": "json", "pos": float64(1)},
		},
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and round-trips chunks", func(t *testing.T) {
		store := setupTestStore(t)
		require.NoError(t, store.ReplaceAll(ctx, testChunks()))

		chunks, err := store.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, chunks, 2)

		assert.Equal(t, "c1", chunks[0].ID)
		assert.Equal(t, "data.json", chunks[0].DocID)
		assert.Equal(t, "Transaction: CVS spent -19516 cents USD on 2025-09-21", chunks[0].Text)
		assert.Equal(t, []float32{0.1, -0.2, 0.3}, chunks[0].Embedding)
		assert.Equal(t, "json", chunks[0].Metadata["source"])
	})

	t.Run("replaces previous corpus entirely", func(t *testing.T) {
		store := setupTestStore(t)
		require.NoError(t, store.ReplaceAll(ctx, testChunks()))

		replacement := []domain.Chunk{{
			ID: "c3", DocID: "other.json", Text: "new corpus",
			Embedding: []float32{1, 2, 3},
		}}
		require.NoError(t, store.ReplaceAll(ctx, replacement))

		chunks, err := store.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "c3", chunks[0].ID)
	})

	t.Run("empty replace clears the corpus", func(t *testing.T) {
		store := setupTestStore(t)
		require.NoError(t, store.ReplaceAll(ctx, testChunks()))
		require.NoError(t, store.ReplaceAll(ctx, nil))

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		store := setupTestStore(t)
		chunks := []domain.Chunk{
			{ID: "z", Text: "last alphabetically, first inserted", Embedding: []float32{1}},
			{ID: "a", Text: "first alphabetically, last inserted", Embedding: []float32{2}},
		}
		require.NoError(t, store.ReplaceAll(ctx, chunks))

		got, err := store.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "z", got[0].ID)
		assert.Equal(t, "a", got[1].ID)
	})
}

func TestStore_Count(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, store.ReplaceAll(ctx, testChunks()))

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.ReplaceAll(ctx, testChunks()))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	chunks, err := reopened.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}
