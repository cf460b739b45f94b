package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as a
	// missing source path or a non-positive topK. Reported to the caller,
	// never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and similarity search are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the language model service is not
	// configured. Generative answers are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrStoreUnavailable indicates the chunk store is not configured.
	ErrStoreUnavailable = errors.New("chunk store unavailable")

	// ErrANNUnsupported indicates the configured chunk store cannot serve
	// server-side vector search, so the ANN strategy cannot be used.
	ErrANNUnsupported = errors.New("store does not support ANN search")

	// ErrUpstream indicates a call to an external collaborator (embedding,
	// LLM, store, bank API) failed or returned non-success. Propagated as
	// a failed operation; the core does not retry or degrade.
	ErrUpstream = errors.New("upstream call failed")
)
