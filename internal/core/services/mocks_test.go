package services

import (
	"context"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// embedFn, when set, lets tests assign a distinct vector per text.
type mockEmbeddingService struct {
	embedding []float32
	embedFn   func(text string) []float32
	embedErr  error
	dims      int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.embedFn != nil {
		return m.embedFn(text), nil
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, t := range texts {
		if m.embedFn != nil {
			result[i] = m.embedFn(t)
		} else {
			result[i] = m.embedding
		}
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 3
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response    string
	generateErr error
	lastPrompt  string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.lastPrompt = prompt
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockChunkStore implements driven.ChunkStore for testing.
type mockChunkStore struct {
	chunks     []domain.Chunk
	replaceErr error
	listErr    error
	replaced   [][]domain.Chunk
}

func (m *mockChunkStore) ReplaceAll(_ context.Context, chunks []domain.Chunk) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = append(m.replaced, chunks)
	m.chunks = chunks
	return nil
}

func (m *mockChunkStore) ListAll(_ context.Context) ([]domain.Chunk, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.chunks, nil
}

func (m *mockChunkStore) Count(_ context.Context) (int, error) {
	return len(m.chunks), nil
}

func (m *mockChunkStore) Close() error {
	return nil
}

// mockVectorStore is a chunk store with an ANN index.
type mockVectorStore struct {
	mockChunkStore
	hits      []domain.SearchHit
	searchErr error
	lastK     int
	lastCand  int
}

func (m *mockVectorStore) SearchVector(_ context.Context, _ []float32, k, numCandidates int) ([]domain.SearchHit, error) {
	m.lastK = k
	m.lastCand = numCandidates
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k < len(m.hits) {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

// mockBankAPI implements driven.BankAPI for testing.
type mockBankAPI struct {
	token        string
	accounts     []driven.Account
	transactions []driven.Transaction
	tokenErr     error
	accountsErr  error
	txnErr       error
	lastRequest  driven.TokenRequest
}

func (m *mockBankAPI) FetchToken(_ context.Context, req driven.TokenRequest) (string, error) {
	m.lastRequest = req
	if m.tokenErr != nil {
		return "", m.tokenErr
	}
	return m.token, nil
}

func (m *mockBankAPI) FetchAccounts(_ context.Context, _ string, _ string) ([]driven.Account, error) {
	if m.accountsErr != nil {
		return nil, m.accountsErr
	}
	return m.accounts, nil
}

func (m *mockBankAPI) FetchTransactions(_ context.Context, _ string, _ string) ([]driven.Transaction, error) {
	if m.txnErr != nil {
		return nil, m.txnErr
	}
	return m.transactions, nil
}
