package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
)

func corpusChunks() []domain.Chunk {
	return []domain.Chunk{
		{ID: "c1", DocID: "doc", Text: "groceries at whole foods", Embedding: []float32{1, 0, 0}},
		{ID: "c2", DocID: "doc", Text: "netflix subscription", Embedding: []float32{0, 1, 0}},
		{ID: "c3", DocID: "doc", Text: "cvs pharmacy run", Embedding: []float32{0.9, 0.1, 0}},
	}
}

func TestSearchService_BruteForce(t *testing.T) {
	ctx := context.Background()
	embedding := &mockEmbeddingService{embedding: []float32{1, 0, 0}}
	store := &mockChunkStore{chunks: corpusChunks()}
	svc := NewSearchService(embedding, store, domain.SearchSettings{Backend: domain.SearchBackendBruteForce})

	t.Run("orders by descending similarity", func(t *testing.T) {
		hits, err := svc.Search(ctx, "groceries", 3)
		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, "c1", hits[0].ID)
		assert.Equal(t, "c3", hits[1].ID)
		assert.Equal(t, "c2", hits[2].ID)
		for i := 1; i < len(hits); i++ {
			assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
		}
	})

	t.Run("identical vector scores near one", func(t *testing.T) {
		hits, err := svc.Search(ctx, "groceries", 1)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	})

	t.Run("truncates to k", func(t *testing.T) {
		hits, err := svc.Search(ctx, "groceries", 2)
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("k larger than corpus returns full corpus", func(t *testing.T) {
		hits, err := svc.Search(ctx, "groceries", 10)
		require.NoError(t, err)
		assert.Len(t, hits, 3)
	})

	t.Run("empty corpus returns empty result", func(t *testing.T) {
		empty := NewSearchService(embedding, &mockChunkStore{}, domain.SearchSettings{})
		hits, err := empty.Search(ctx, "anything", 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("rejects non-positive k", func(t *testing.T) {
		_, err := svc.Search(ctx, "groceries", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects empty query", func(t *testing.T) {
		_, err := svc.Search(ctx, "", 5)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("propagates embed failure", func(t *testing.T) {
		failing := NewSearchService(&mockEmbeddingService{embedErr: errors.New("api down")}, store, domain.SearchSettings{})
		_, err := failing.Search(ctx, "groceries", 5)
		assert.Error(t, err)
	})

	t.Run("propagates store failure", func(t *testing.T) {
		failing := NewSearchService(embedding, &mockChunkStore{listErr: errors.New("db gone")}, domain.SearchSettings{})
		_, err := failing.Search(ctx, "groceries", 5)
		assert.Error(t, err)
	})
}

func TestSearchService_ANN(t *testing.T) {
	ctx := context.Background()
	embedding := &mockEmbeddingService{embedding: []float32{1, 0, 0}}

	t.Run("delegates to vector index", func(t *testing.T) {
		store := &mockVectorStore{hits: []domain.SearchHit{
			{ID: "c1", Score: 0.95},
			{ID: "c3", Score: 0.80},
		}}
		svc := NewSearchService(embedding, store, domain.SearchSettings{Backend: domain.SearchBackendANN})

		hits, err := svc.Search(ctx, "groceries", 2)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "c1", hits[0].ID)
		assert.Equal(t, 2, store.lastK)
	})

	t.Run("candidate pool floor is 200", func(t *testing.T) {
		store := &mockVectorStore{}
		svc := NewSearchService(embedding, store, domain.SearchSettings{Backend: domain.SearchBackendANN})

		_, err := svc.Search(ctx, "groceries", 3)
		require.NoError(t, err)
		assert.Equal(t, 200, store.lastCand)
	})

	t.Run("candidate pool scales with k", func(t *testing.T) {
		store := &mockVectorStore{}
		svc := NewSearchService(embedding, store, domain.SearchSettings{Backend: domain.SearchBackendANN})

		_, err := svc.Search(ctx, "groceries", 10)
		require.NoError(t, err)
		assert.Equal(t, 400, store.lastCand)
	})

	t.Run("store without index reports unsupported", func(t *testing.T) {
		svc := NewSearchService(embedding, &mockChunkStore{}, domain.SearchSettings{Backend: domain.SearchBackendANN})
		_, err := svc.Search(ctx, "groceries", 5)
		assert.ErrorIs(t, err, domain.ErrANNUnsupported)
	})
}

func TestCosine(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := []float32{0.3, 0.4, 0.5}
		assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	})

	t.Run("zero vector does not NaN", func(t *testing.T) {
		score := Cosine([]float32{0, 0}, []float32{1, 0})
		assert.False(t, math.IsNaN(score))
		assert.Equal(t, 0.0, score)
	})
}
