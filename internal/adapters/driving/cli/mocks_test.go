package cli

import (
	"context"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockAnswerService struct {
	answer   string
	askErr   error
	lastTopK int
	lastMode domain.AnswerMode
}

func (m *mockAnswerService) Ask(_ context.Context, _ string, topK int, mode domain.AnswerMode) (string, error) {
	m.lastTopK = topK
	m.lastMode = mode
	if m.askErr != nil {
		return "", m.askErr
	}
	return m.answer, nil
}

type mockIngestService struct {
	count      int
	ingestErr  error
	lastPath   string
	lastParams driving.RemoteIngestParams
}

func (m *mockIngestService) IngestFile(_ context.Context, path string) (int, error) {
	m.lastPath = path
	if m.ingestErr != nil {
		return 0, m.ingestErr
	}
	return m.count, nil
}

func (m *mockIngestService) IngestRemote(_ context.Context, params driving.RemoteIngestParams) (int, error) {
	m.lastParams = params
	if m.ingestErr != nil {
		return 0, m.ingestErr
	}
	return m.count, nil
}

type mockConfigStore struct {
	values map[string]any
	setErr error
	path   string
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if v, ok := m.values[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	if v, ok := m.values[key].(float64); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return m.path }

// setupTestServices installs mock services and marks wiring as done so
// command executions skip the real initialization. The returned cleanup
// restores the previous state.
func setupTestServices() func() {
	oldConfig := configStore
	oldIngest := ingestService
	oldAnswer := answerService
	oldReady := servicesReady

	configStore = &mockConfigStore{path: "/tmp/config.toml"}
	ingestService = &mockIngestService{count: 3}
	answerService = &mockAnswerService{answer: "On 2025-09-21, you spent $195.16 on groceries."}
	servicesReady = true

	return func() {
		configStore = oldConfig
		ingestService = oldIngest
		answerService = oldAnswer
		servicesReady = oldReady
	}
}
