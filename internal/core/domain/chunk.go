package domain

// Chunk is the atomic unit of retrieval: a bounded-length piece of text
// together with its embedding vector and free-form metadata.
type Chunk struct {
	// ID is the unique identifier, assigned at persistence time.
	ID string

	// DocID identifies the source document or batch the chunk came from.
	DocID string

	// Text is the chunk content. Never empty for a persisted chunk.
	Text string

	// Embedding is the vector representation. Its length must equal the
	// index-wide dimensionality configured for the embedding model.
	Embedding []float32

	// Metadata contains arbitrary key-value pairs (source kind, position).
	Metadata map[string]any
}

// Valid reports whether the chunk satisfies the persistence invariants:
// non-empty text and an embedding of the given dimensionality.
func (c *Chunk) Valid(dimensions int) bool {
	return c.Text != "" && len(c.Embedding) == dimensions
}
