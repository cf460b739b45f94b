package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driven"
)

func newTestAnswerService(store *mockChunkStore, llm *mockLLMService) *AnswerService {
	embedding := &mockEmbeddingService{embedding: []float32{1, 0, 0}}
	search := NewSearchService(embedding, store, domain.SearchSettings{Backend: domain.SearchBackendBruteForce})
	var llmSvc driven.LLMService
	if llm != nil {
		llmSvc = llm
	}
	return NewAnswerService(search, llmSvc, nil, AnswerConfig{
		DefaultTopK: 5,
		DefaultMode: domain.AnswerModeGenerative,
	})
}

func TestAnswerService_Generative(t *testing.T) {
	ctx := context.Background()
	store := &mockChunkStore{chunks: []domain.Chunk{
		{ID: "c1", Text: "Transaction: CVS spent -19516 cents USD on 2025-09-21", Embedding: []float32{1, 0, 0}},
	}}

	t.Run("builds prompt from hits and returns answer", func(t *testing.T) {
		llm := &mockLLMService{response: "You spent $195.16 at CVS."}
		svc := newTestAnswerService(store, llm)

		answer, err := svc.Ask(ctx, "What did I spend at CVS?", 0, "")
		require.NoError(t, err)
		assert.Equal(t, "You spent $195.16 at CVS.", answer)

		assert.Contains(t, llm.lastPrompt, "You are a helpful financial assistant.")
		assert.Contains(t, llm.lastPrompt, "Document c1 (score: ")
		assert.Contains(t, llm.lastPrompt, "Transaction: CVS spent -19516 cents USD on 2025-09-21")
		assert.Contains(t, llm.lastPrompt, "QUESTION: What did I spend at CVS?")
		assert.True(t, strings.HasSuffix(llm.lastPrompt, "ANSWER:"))
	})

	t.Run("no LLM configured", func(t *testing.T) {
		svc := newTestAnswerService(store, nil)

		_, err := svc.Ask(ctx, "question", 0, domain.AnswerModeGenerative)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("propagates LLM failure", func(t *testing.T) {
		llm := &mockLLMService{generateErr: errors.New("model offline")}
		svc := newTestAnswerService(store, llm)

		_, err := svc.Ask(ctx, "question", 0, domain.AnswerModeGenerative)
		assert.Error(t, err)
	})

	t.Run("rejects empty question", func(t *testing.T) {
		svc := newTestAnswerService(store, &mockLLMService{})
		_, err := svc.Ask(ctx, "   ", 0, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		svc := newTestAnswerService(store, &mockLLMService{})
		_, err := svc.Ask(ctx, "question", 0, domain.AnswerMode("oracle"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestAnswerService_Deterministic(t *testing.T) {
	ctx := context.Background()

	cvs := domain.Chunk{
		ID:        "c1",
		Text:      "Transaction: CVS spent -19516 cents USD on 2025-09-21 (account acc-1) note: groceries",
		Embedding: []float32{1, 0, 0},
	}
	netflix := domain.Chunk{
		ID:        "c2",
		Text:      "Transaction: Netflix spent -17054 cents USD on 2025-09-21 (account acc-1) note: groceries bundle",
		Embedding: []float32{0.9, 0.1, 0},
	}
	unrelated := domain.Chunk{
		ID:        "c3",
		Text:      "Transaction: Uber spent -2300 cents USD on 2025-09-20 (account acc-1) note: ride",
		Embedding: []float32{0, 1, 0},
	}

	t.Run("single matching transaction", func(t *testing.T) {
		store := &mockChunkStore{chunks: []domain.Chunk{cvs, unrelated}}
		svc := newTestAnswerService(store, nil)

		answer, err := svc.Ask(ctx, "How much did I spend on groceries on 2025-09-21?", 5, domain.AnswerModeDeterministic)
		require.NoError(t, err)
		assert.Equal(t, "On 2025-09-21, you spent $195.16 on groceries.\n\nDetails:\n- 2025-09-21 at CVS: $195.16", answer)
	})

	t.Run("multiple matching transactions aggregate", func(t *testing.T) {
		store := &mockChunkStore{chunks: []domain.Chunk{cvs, netflix, unrelated}}
		svc := newTestAnswerService(store, nil)

		answer, err := svc.Ask(ctx, "How much did I spend on groceries on 2025-09-21?", 5, domain.AnswerModeDeterministic)
		require.NoError(t, err)
		assert.Contains(t, answer, "On 2025-09-21, you spent a total of $365.70 on groceries across 2 transactions.")
		assert.Contains(t, answer, "- 2025-09-21 at CVS: $195.16")
		assert.Contains(t, answer, "- 2025-09-21 at Netflix: $170.54")
	})

	t.Run("date filter excludes other days", func(t *testing.T) {
		store := &mockChunkStore{chunks: []domain.Chunk{cvs, netflix}}
		svc := newTestAnswerService(store, nil)

		answer, err := svc.Ask(ctx, "How much did I spend on groceries on 2025-09-22?", 5, domain.AnswerModeDeterministic)
		require.NoError(t, err)
		assert.Equal(t, "I couldn't find any grocery transactions on 2025-09-22.", answer)
	})

	t.Run("no matches without a date", func(t *testing.T) {
		store := &mockChunkStore{chunks: []domain.Chunk{unrelated}}
		svc := newTestAnswerService(store, nil)

		answer, err := svc.Ask(ctx, "What were my subscription fees?", 5, domain.AnswerModeDeterministic)
		require.NoError(t, err)
		assert.Equal(t, "I couldn't find matching transactions in the retrieved context.", answer)
	})

	t.Run("empty corpus", func(t *testing.T) {
		store := &mockChunkStore{}
		svc := newTestAnswerService(store, nil)

		answer, err := svc.Ask(ctx, "How much did I spend on groceries on 2025-09-21?", 5, domain.AnswerModeDeterministic)
		require.NoError(t, err)
		assert.Equal(t, "I couldn't find any grocery transactions on 2025-09-21.", answer)
	})

	t.Run("deterministic output is stable", func(t *testing.T) {
		store := &mockChunkStore{chunks: []domain.Chunk{cvs, netflix, unrelated}}
		svc := newTestAnswerService(store, nil)

		first, err := svc.Ask(ctx, "How much did I spend on groceries on 2025-09-21?", 5, domain.AnswerModeDeterministic)
		require.NoError(t, err)
		second, err := svc.Ask(ctx, "How much did I spend on groceries on 2025-09-21?", 5, domain.AnswerModeDeterministic)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("works without an LLM", func(t *testing.T) {
		store := &mockChunkStore{chunks: []domain.Chunk{cvs}}
		svc := newTestAnswerService(store, nil)

		_, err := svc.Ask(ctx, "groceries on 2025-09-21", 5, domain.AnswerModeDeterministic)
		assert.NoError(t, err)
	})
}
