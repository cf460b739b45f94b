// Package sqlite provides a SQLite-backed chunk store. Embeddings are
// stored as packed little-endian float32 blobs alongside the chunk text,
// and every corpus replace runs in a single transaction so readers never
// see a half-written generation.
package sqlite
