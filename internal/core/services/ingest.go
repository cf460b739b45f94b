package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/finassist-cli/internal/chunker"
	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/finassist-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// remoteDocID labels chunks produced by the remote ingest path.
const remoteDocID = "remote-apis"

// IngestService builds the retrieval corpus from a local JSON file or the
// remote bank APIs. Every ingest replaces the whole corpus: the new
// generation is staged by the store and swapped in atomically, so a failed
// ingest leaves the previous corpus untouched.
type IngestService struct {
	embedding driven.EmbeddingService
	store     driven.ChunkStore
	bank      driven.BankAPI
	cfg       domain.IngestSettings
}

// NewIngestService creates a new ingest service. The bank client is only
// required for the remote path and may be nil otherwise.
func NewIngestService(
	embedding driven.EmbeddingService,
	store driven.ChunkStore,
	bank driven.BankAPI,
	cfg domain.IngestSettings,
) *IngestService {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = domain.DefaultMaxChars
	}
	return &IngestService{
		embedding: embedding,
		store:     store,
		bank:      bank,
		cfg:       cfg,
	}
}

// IngestFile ingests a local JSON document: every textual and numeric leaf
// value is flattened in document order, chunked, embedded in one batch,
// and written as the new corpus. Returns the number of chunks written.
func (s *IngestService) IngestFile(ctx context.Context, path string) (int, error) {
	logger.Section("Ingest File")

	if path == "" {
		path = s.cfg.DefaultPath
	}
	if path == "" {
		return 0, fmt.Errorf("%w: no path provided and no default configured", domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: file not found: %s", domain.ErrInvalidInput, path)
		}
		return 0, fmt.Errorf("read source file: %w", err)
	}

	tokens, err := flattenJSON(data)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed JSON in %s: %v", domain.ErrInvalidInput, path, err)
	}
	logger.Debug("Flattened %d tokens from %s", len(tokens), path)

	return s.indexTokens(ctx, tokens, filepath.Base(path), "json")
}

// IngestRemote ingests account and transaction data fetched from the bank
// APIs: token, accounts, transactions, each record rendered into a
// descriptive sentence before chunking.
func (s *IngestService) IngestRemote(ctx context.Context, params driving.RemoteIngestParams) (int, error) {
	logger.Section("Ingest Remote")

	if s.bank == nil {
		return 0, fmt.Errorf("ingest remote: %w", domain.ErrStoreUnavailable)
	}
	if params.Username == "" || params.Password == "" {
		return 0, fmt.Errorf("%w: missing username/password", domain.ErrInvalidInput)
	}

	req := s.tokenRequest(params)
	token, err := s.bank.FetchToken(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("fetch token: %w", err)
	}
	logger.Debug("Token acquired from %s", req.TokenURL)

	accountsURL := firstNonEmpty(params.AccountsURL, s.cfg.Remote.AccountsURL)
	accounts, err := s.bank.FetchAccounts(ctx, accountsURL, token)
	if err != nil {
		return 0, fmt.Errorf("fetch accounts: %w", err)
	}

	transactionsURL := firstNonEmpty(params.TransactionsURL, s.cfg.Remote.TransactionsURL)
	txns, err := s.bank.FetchTransactions(ctx, transactionsURL, token)
	if err != nil {
		return 0, fmt.Errorf("fetch transactions: %w", err)
	}
	logger.Info("Fetched %d accounts, %d transactions", len(accounts), len(txns))

	docs := make([]string, 0, len(accounts)+len(txns))
	for i := range accounts {
		docs = append(docs, accountSentence(&accounts[i]))
	}
	for i := range txns {
		docs = append(docs, transactionSentence(&txns[i]))
	}

	return s.indexTokens(ctx, docs, remoteDocID, "apis")
}

// indexTokens chunks the tokens, embeds them in one batch, and replaces
// the corpus. Embedding failure or a count/dimensionality mismatch aborts
// before the store is touched.
func (s *IngestService) indexTokens(ctx context.Context, tokens []string, docID, source string) (int, error) {
	if s.embedding == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	if s.store == nil {
		return 0, domain.ErrStoreUnavailable
	}

	texts := chunker.Split(tokens, s.cfg.MaxChars)
	logger.Debug("Chunked into %d chunks (maxChars=%d)", len(texts), s.cfg.MaxChars)

	if len(texts) == 0 {
		if err := s.store.ReplaceAll(ctx, nil); err != nil {
			return 0, fmt.Errorf("replace corpus: %w", err)
		}
		return 0, nil
	}

	vectors, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("%w: embedding count mismatch: got %d, want %d",
			domain.ErrUpstream, len(vectors), len(texts))
	}

	dims := s.embedding.Dimensions()
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		if len(vectors[i]) != dims {
			return 0, fmt.Errorf("%w: embedding dimensionality mismatch at chunk %d: got %d, want %d",
				domain.ErrUpstream, i, len(vectors[i]), dims)
		}
		chunks[i] = domain.Chunk{
			ID:        uuid.New().String(),
			DocID:     docID,
			Text:      text,
			Embedding: vectors[i],
			Metadata:  map[string]any{"source": source, "pos": i},
		}
	}

	if err := s.store.ReplaceAll(ctx, chunks); err != nil {
		return 0, fmt.Errorf("replace corpus: %w", err)
	}

	logger.Info("Ingested %d chunks (docId=%s)", len(chunks), docID)
	return len(chunks), nil
}

// tokenRequest merges per-request parameters with the configured remote
// defaults.
func (s *IngestService) tokenRequest(params driving.RemoteIngestParams) driven.TokenRequest {
	return driven.TokenRequest{
		TokenURL:     firstNonEmpty(params.TokenURL, s.cfg.Remote.TokenURL),
		ClientID:     firstNonEmpty(params.ClientID, s.cfg.Remote.ClientID),
		ClientSecret: firstNonEmpty(params.ClientSecret, s.cfg.Remote.ClientSecret),
		Scope:        firstNonEmpty(params.Scope, s.cfg.Remote.Scope),
		Username:     params.Username,
		Password:     params.Password,
	}
}

// accountSentence renders an account into a descriptive string for
// retrieval.
func accountSentence(a *driven.Account) string {
	balance := "unknown"
	if a.BalanceCents != nil {
		balance = fmt.Sprintf("%d", *a.BalanceCents)
	}
	created := a.CreatedAt
	if created == "" {
		created = "unknown"
	}
	return fmt.Sprintf("Account %s (%s) at %s, balance: %s cents, currency: %s, created: %s",
		a.ID, a.Name, a.Institution, balance, a.Currency, created)
}

// transactionSentence renders a transaction into a descriptive string.
// Amounts stay cents-as-integer; the timestamp is normalised to
// YYYY-MM-DD.
func transactionSentence(t *driven.Transaction) string {
	merchant := t.Merchant
	if merchant == "" {
		merchant = "unknown-merchant"
	}
	var amount int64
	if t.AmountCents != nil {
		amount = *t.AmountCents
	}
	currency := t.Currency
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("Transaction: %s spent %d cents %s on %s (account %s) note: %s",
		merchant, amount, currency, normalizeDate(t.OccurredAt), t.AccountID, t.Note)
}

// normalizeDate reduces an ISO-8601 timestamp to its YYYY-MM-DD date part.
func normalizeDate(ts string) string {
	if len(ts) < 10 {
		return "unknown-date"
	}
	date := ts[:10]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "unknown-date"
	}
	return date
}

// flattenJSON walks the JSON document in order and collects every textual
// and numeric leaf value. Object keys, booleans, and nulls are dropped.
func flattenJSON(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	// Track whether the innermost container is an object and whether the
	// next scalar token is a key or a value.
	type frame struct {
		object    bool
		expectKey bool
	}
	var stack []frame
	var out []string

	valueDone := func() {
		if len(stack) > 0 && stack[len(stack)-1].object {
			stack[len(stack)-1].expectKey = true
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, frame{object: true, expectKey: true})
			case '[':
				stack = append(stack, frame{})
			case '}', ']':
				stack = stack[:len(stack)-1]
				valueDone()
			}
		case string:
			if len(stack) > 0 && stack[len(stack)-1].object && stack[len(stack)-1].expectKey {
				stack[len(stack)-1].expectKey = false
				continue
			}
			if s := strings.TrimSpace(v); s != "" {
				out = append(out, s)
			}
			valueDone()
		case json.Number:
			out = append(out, v.String())
			valueDone()
		default:
			// bool or null: dropped
			if len(stack) > 0 && stack[len(stack)-1].object && stack[len(stack)-1].expectKey {
				continue
			}
			valueDone()
		}
	}

	return out, nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
