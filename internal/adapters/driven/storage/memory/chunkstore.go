// Package memory provides in-memory store implementations, used for tests
// and ephemeral runs where nothing should touch disk.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore. The
// corpus is held as an immutable snapshot swapped under a mutex, so a
// replace is atomic with respect to concurrent readers.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{}
}

// ReplaceAll swaps in a new corpus snapshot.
func (s *ChunkStore) ReplaceAll(_ context.Context, chunks []domain.Chunk) error {
	snapshot := make([]domain.Chunk, len(chunks))
	copy(snapshot, chunks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = snapshot
	return nil
}

// ListAll returns the current corpus snapshot.
func (s *ChunkStore) ListAll(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out, nil
}

// Count returns the number of stored chunks.
func (s *ChunkStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Close is a no-op for the in-memory store.
func (s *ChunkStore) Close() error {
	return nil
}
