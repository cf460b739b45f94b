package driven

import (
	"context"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
)

// ChunkStore persists the chunk corpus. Ingestion is always a full-corpus
// replace; there is no incremental upsert.
type ChunkStore interface {
	// ReplaceAll atomically replaces the entire corpus with the given
	// chunks. Implementations must stage the new corpus so that a failure
	// mid-replace leaves the previous corpus intact and a concurrent
	// reader never observes a partially written generation.
	ReplaceAll(ctx context.Context, chunks []domain.Chunk) error

	// ListAll returns every persisted chunk. Used by the brute-force
	// search path, which scores the full corpus per query.
	ListAll(ctx context.Context) ([]domain.Chunk, error)

	// Count returns the number of persisted chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// VectorSearcher is an optional ChunkStore capability: server-side
// approximate nearest neighbour search over the stored embeddings.
// Stores that cannot serve it simply do not implement the interface and
// the ANN search strategy reports domain.ErrANNUnsupported.
type VectorSearcher interface {
	// SearchVector returns up to k hits ranked by the backend's own
	// relevance score, descending. numCandidates bounds the candidate
	// pool the backend narrows down from.
	SearchVector(ctx context.Context, vector []float32, k, numCandidates int) ([]domain.SearchHit, error)
}
