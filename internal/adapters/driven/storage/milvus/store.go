// Package milvus provides a Milvus-backed chunk store with server-side
// approximate nearest neighbour search. The corpus lives in generation
// collections published under a stable alias; a replace builds the next
// generation, swaps the alias, and drops the old one, so queries always
// hit a complete corpus.
package milvus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/finassist-cli/internal/logger"
)

var (
	_ driven.ChunkStore     = (*Store)(nil)
	_ driven.VectorSearcher = (*Store)(nil)
)

// Default configuration values.
const (
	DefaultCollection = "chunks"
	DefaultTimeout    = 30 * time.Second

	// HNSW index construction parameters.
	hnswM              = 64
	hnswEfConstruction = 128

	maxTextLength = 65535
)

// Config holds configuration for the Milvus chunk store.
type Config struct {
	// Address is the Milvus server address (host:port, required).
	Address string

	// Database is the Milvus database name (default: "default").
	Database string

	// Collection is the alias the current corpus generation is published
	// under (default: "chunks").
	Collection string

	// Dimensions is the embedding vector size (required).
	Dimensions int
}

// Store is a Milvus-backed chunk store.
type Store struct {
	client     *milvusclient.Client
	collection string
	dimensions int
}

// NewStore connects to Milvus and creates a new chunk store.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("milvus: address is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("milvus: dimensions must be positive")
	}
	if cfg.Database == "" {
		cfg.Database = "default"
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address: cfg.Address,
		DBName:  cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to milvus at %s: %w", cfg.Address, err)
	}

	return &Store{
		client:     client,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
	}, nil
}

// Close closes the Milvus connection.
func (s *Store) Close() error {
	return s.client.Close(context.Background())
}

// chunkFields returns the collection schema fields.
func (s *Store) chunkFields() []*entity.Field {
	dim := fmt.Sprintf("%d", s.dimensions)
	return []*entity.Field{
		{
			Name:        "id",
			DataType:    entity.FieldTypeVarChar,
			TypeParams:  map[string]string{"max_length": "256"},
			PrimaryKey:  true,
			AutoID:      false,
			Description: "Chunk unique ID (primary key)",
		},
		{
			Name:        "text",
			DataType:    entity.FieldTypeVarChar,
			TypeParams:  map[string]string{"max_length": "65535"},
			Description: "Chunk content",
		},
		{
			Name:        "vector",
			DataType:    entity.FieldTypeFloatVector,
			TypeParams:  map[string]string{"dim": dim},
			Description: "Chunk embedding vector",
		},
		{
			Name:        "document_id",
			DataType:    entity.FieldTypeVarChar,
			TypeParams:  map[string]string{"max_length": "256"},
			Description: "Source document ID",
		},
		{
			Name:        "metadata",
			DataType:    entity.FieldTypeJSON,
			Description: "Additional metadata (JSON)",
		},
	}
}

// generationName returns a fresh collection name for the next corpus
// generation.
func (s *Store) generationName() string {
	return fmt.Sprintf("%s_gen_%d", s.collection, time.Now().UnixNano())
}

// ReplaceAll builds a new generation collection, inserts the chunks, and
// swaps the alias to it. Readers keep hitting the previous generation
// until the swap; a failure before the swap leaves the alias untouched.
func (s *Store) ReplaceAll(ctx context.Context, chunks []domain.Chunk) error {
	generation := s.generationName()

	schema := &entity.Schema{
		CollectionName: generation,
		Description:    "Chunk corpus generation",
		AutoID:         false,
		Fields:         s.chunkFields(),
	}

	err := s.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(generation, schema).
		WithIndexOptions(
			milvusclient.NewCreateIndexOption(generation, "vector",
				index.NewHNSWIndex(entity.COSINE, hnswM, hnswEfConstruction)),
		))
	if err != nil {
		return fmt.Errorf("creating generation collection: %w", err)
	}

	if len(chunks) > 0 {
		if err := s.insert(ctx, generation, chunks); err != nil {
			// Best effort cleanup of the failed generation.
			_ = s.client.DropCollection(ctx, milvusclient.NewDropCollectionOption(generation))
			return err
		}
	}

	if _, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(generation)); err != nil {
		return fmt.Errorf("loading generation collection: %w", err)
	}

	if err := s.publish(ctx, generation); err != nil {
		return err
	}

	s.dropOldGenerations(ctx, generation)
	logger.Debug("Published generation %s with %d chunks", generation, len(chunks))
	return nil
}

// insert writes the chunks into the given collection.
func (s *Store) insert(ctx context.Context, collection string, chunks []domain.Chunk) error {
	ids := make([]string, len(chunks))
	texts := make([]string, len(chunks))
	vectors := make([][]float32, len(chunks))
	documentIDs := make([]string, len(chunks))
	metadataList := make([][]byte, len(chunks))

	for i := range chunks {
		ids[i] = chunks[i].ID
		texts[i] = truncate(chunks[i].Text, maxTextLength)
		vectors[i] = chunks[i].Embedding
		documentIDs[i] = chunks[i].DocID

		metaBytes, err := marshalMetadata(chunks[i].Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata for %s: %w", chunks[i].ID, err)
		}
		metadataList[i] = metaBytes
	}

	columns := []column.Column{
		column.NewColumnVarChar("id", ids),
		column.NewColumnVarChar("text", texts),
		column.NewColumnFloatVector("vector", s.dimensions, vectors),
		column.NewColumnVarChar("document_id", documentIDs),
		column.NewColumnJSONBytes("metadata", metadataList),
	}

	if _, err := s.client.Insert(ctx, milvusclient.NewColumnBasedInsertOption(collection, columns...)); err != nil {
		return fmt.Errorf("inserting chunks: %w", err)
	}
	return nil
}

// publish points the corpus alias at the given generation.
func (s *Store) publish(ctx context.Context, generation string) error {
	if err := s.client.CreateAlias(ctx, milvusclient.NewCreateAliasOption(generation, s.collection)); err != nil {
		// Alias already points at a previous generation; re-point it.
		if err := s.client.AlterAlias(ctx, milvusclient.NewAlterAliasOption(s.collection, generation)); err != nil {
			return fmt.Errorf("publishing generation %s: %w", generation, err)
		}
	}
	return nil
}

// dropOldGenerations removes superseded generation collections. Failures
// are logged and ignored; a leftover generation costs storage, not
// correctness.
func (s *Store) dropOldGenerations(ctx context.Context, current string) {
	names, err := s.client.ListCollections(ctx, milvusclient.NewListCollectionOption())
	if err != nil {
		logger.Warn("Listing collections for cleanup: %v", err)
		return
	}

	prefix := s.collection + "_gen_"
	for _, name := range names {
		if name == current || !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := s.client.DropCollection(ctx, milvusclient.NewDropCollectionOption(name)); err != nil {
			logger.Warn("Dropping old generation %s: %v", name, err)
		}
	}
}

// SearchVector runs approximate nearest neighbour search over the current
// generation. numCandidates maps to the HNSW search-time ef parameter.
func (s *Store) SearchVector(ctx context.Context, vector []float32, k, numCandidates int) ([]domain.SearchHit, error) {
	annParam := index.NewHNSWAnnParam(numCandidates)

	opt := milvusclient.NewSearchOption(s.collection, k, []entity.Vector{entity.FloatVector(vector)}).
		WithANNSField("vector").
		WithOutputFields("id", "text", "metadata").
		WithConsistencyLevel(entity.ClBounded).
		WithAnnParam(annParam)

	results, err := s.client.Search(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("searching collection %s: %w", s.collection, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	return decodeHits(results[0].Fields, results[0].Scores)
}

// ListAll returns every chunk in the current generation.
func (s *Store) ListAll(ctx context.Context) ([]domain.Chunk, error) {
	result, err := s.client.Query(ctx, milvusclient.NewQueryOption(s.collection).
		WithFilter(`id != ""`).
		WithOutputFields("id", "text", "vector", "document_id", "metadata").
		WithConsistencyLevel(entity.ClStrong))
	if err != nil {
		if isCollectionMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying collection %s: %w", s.collection, err)
	}

	return decodeChunks(result.Fields)
}

// Count returns the number of chunks in the current generation.
func (s *Store) Count(ctx context.Context) (int, error) {
	result, err := s.client.Query(ctx, milvusclient.NewQueryOption(s.collection).
		WithOutputFields("count(*)").
		WithConsistencyLevel(entity.ClStrong))
	if err != nil {
		if isCollectionMissing(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("counting collection %s: %w", s.collection, err)
	}

	col := result.GetColumn("count(*)")
	if col == nil || col.Len() == 0 {
		return 0, nil
	}
	val, err := col.Get(0)
	if err != nil {
		return 0, fmt.Errorf("reading count: %w", err)
	}
	count, ok := val.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected count type %T", val)
	}
	return int(count), nil
}

// decodeHits converts search result columns into hits. Scores come from
// the backend in rank order.
func decodeHits(columns []column.Column, scores []float32) ([]domain.SearchHit, error) {
	if len(columns) == 0 {
		return nil, nil
	}

	n := columns[0].Len()
	hits := make([]domain.SearchHit, n)
	for i := 0; i < n && i < len(scores); i++ {
		hits[i].Score = float64(scores[i])
	}

	for _, col := range columns {
		switch col.Name() {
		case "id":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					return nil, fmt.Errorf("reading id: %w", err)
				}
				if str, ok := val.(string); ok {
					hits[i].ID = str
				}
			}
		case "text":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					return nil, fmt.Errorf("reading text: %w", err)
				}
				if str, ok := val.(string); ok {
					hits[i].Text = str
				}
			}
		case "metadata":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil || val == nil {
					continue
				}
				hits[i].Metadata = unmarshalMetadata(val)
			}
		}
	}

	return hits, nil
}

// decodeChunks converts query result columns into chunks.
func decodeChunks(columns []column.Column) ([]domain.Chunk, error) {
	if len(columns) == 0 {
		return nil, nil
	}

	n := columns[0].Len()
	chunks := make([]domain.Chunk, n)

	for _, col := range columns {
		switch col.Name() {
		case "id":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					return nil, fmt.Errorf("reading id: %w", err)
				}
				if str, ok := val.(string); ok {
					chunks[i].ID = str
				}
			}
		case "text":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					return nil, fmt.Errorf("reading text: %w", err)
				}
				if str, ok := val.(string); ok {
					chunks[i].Text = str
				}
			}
		case "document_id":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					continue
				}
				if str, ok := val.(string); ok {
					chunks[i].DocID = str
				}
			}
		case "vector":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					return nil, fmt.Errorf("reading vector: %w", err)
				}
				switch v := val.(type) {
				case []float32:
					chunks[i].Embedding = v
				case entity.FloatVector:
					chunks[i].Embedding = v
				}
			}
		case "metadata":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil || val == nil {
					continue
				}
				chunks[i].Metadata = unmarshalMetadata(val)
			}
		}
	}

	return chunks, nil
}

// Helper functions

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if len(metadata) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(metadata)
}

func unmarshalMetadata(val any) map[string]any {
	var raw []byte
	switch v := val.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return nil
	}

	var metadata map[string]any
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return nil
	}
	return metadata
}

// isCollectionMissing reports whether the error indicates the alias has
// never been published (no ingest has run yet).
func isCollectionMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "can't find collection") ||
		strings.Contains(msg, "collection not found") ||
		strings.Contains(msg, "not exist")
}
