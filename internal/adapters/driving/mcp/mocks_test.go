package mcp

import (
	"context"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driving"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer   string
	err      error
	lastTopK int
	lastMode domain.AnswerMode
}

func (m *mockAnswerService) Ask(_ context.Context, _ string, topK int, mode domain.AnswerMode) (string, error) {
	m.lastTopK = topK
	m.lastMode = mode
	return m.answer, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	count    int
	err      error
	lastPath string
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (int, error) {
	m.lastPath = path
	return m.count, m.err
}

func (m *mockIngestService) IngestRemote(_ context.Context, _ driving.RemoteIngestParams) (int, error) {
	return m.count, m.err
}
