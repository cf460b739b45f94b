package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/finassist-cli/internal/logger"
)

const (
	// cosineEpsilon guards the denominator against zero vectors.
	cosineEpsilon = 1e-12

	// minCandidates is the floor for the ANN candidate pool.
	minCandidates = 200
)

// SearchService embeds a query and retrieves the k most similar chunks,
// either via the store's ANN index or by brute-force cosine over the full
// corpus.
type SearchService struct {
	embedding driven.EmbeddingService
	store     driven.ChunkStore
	cfg       domain.SearchSettings
}

// NewSearchService creates a new search service.
func NewSearchService(
	embedding driven.EmbeddingService,
	store driven.ChunkStore,
	cfg domain.SearchSettings,
) *SearchService {
	if cfg.Backend == "" {
		cfg.Backend = domain.SearchBackendBruteForce
	}
	return &SearchService{
		embedding: embedding,
		store:     store,
		cfg:       cfg,
	}
}

// Search returns up to k hits for the query, ordered by descending
// similarity. An empty corpus yields an empty result, not an error.
func (s *SearchService) Search(ctx context.Context, query string, k int) ([]domain.SearchHit, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", domain.ErrInvalidInput, k)
	}
	if s.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}

	vector, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	switch s.cfg.Backend {
	case domain.SearchBackendANN:
		return s.searchANN(ctx, vector, k)
	case domain.SearchBackendBruteForce:
		return s.searchBruteForce(ctx, vector, k)
	default:
		return nil, fmt.Errorf("%w: unknown search backend %q", domain.ErrInvalidInput, s.cfg.Backend)
	}
}

// searchANN delegates to the store's vector index. The candidate pool
// scales with k so recall stays stable for larger result sizes.
func (s *SearchService) searchANN(ctx context.Context, vector []float32, k int) ([]domain.SearchHit, error) {
	searcher, ok := s.store.(driven.VectorSearcher)
	if !ok {
		return nil, fmt.Errorf("%w: store backend has no vector index", domain.ErrANNUnsupported)
	}

	numCandidates := 40 * k
	if numCandidates < minCandidates {
		numCandidates = minCandidates
	}
	logger.Debug("ANN search: k=%d numCandidates=%d", k, numCandidates)

	hits, err := searcher.SearchVector(ctx, vector, k, numCandidates)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return hits, nil
}

// searchBruteForce scores every chunk in the corpus against the query
// vector and keeps the top k.
func (s *SearchService) searchBruteForce(ctx context.Context, vector []float32, k int) ([]domain.SearchHit, error) {
	chunks, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list corpus: %w", err)
	}
	logger.Debug("Brute-force search over %d chunks", len(chunks))

	hits := make([]domain.SearchHit, 0, len(chunks))
	for i := range chunks {
		hits = append(hits, domain.SearchHit{
			ID:       chunks[i].ID,
			Text:     chunks[i].Text,
			Score:    Cosine(vector, chunks[i].Embedding),
			Metadata: chunks[i].Metadata,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Cosine computes cosine similarity between two vectors, accumulating in
// float64. A zero vector scores zero rather than dividing by zero.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		na += av * av
		nb += bv * bv
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + cosineEpsilon)
}
