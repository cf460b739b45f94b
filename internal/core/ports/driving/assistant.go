// Package driving provides interfaces for application entry points
// (primary/inbound ports). The CLI, HTTP, and MCP adapters all drive the
// core through these contracts.
package driving

import (
	"context"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
)

// RemoteIngestParams carries the per-request parameters of a remote
// ingest. Endpoint and client fields override the configured defaults;
// Username and Password are always required.
type RemoteIngestParams struct {
	TokenURL        string
	ClientID        string
	ClientSecret    string
	Scope           string
	Username        string
	Password        string
	AccountsURL     string
	TransactionsURL string
}

// IngestService builds the retrieval corpus. Every ingest is a full-corpus
// replace: no chunk survives re-ingestion under its old identifier.
type IngestService interface {
	// IngestFile ingests a local JSON document and returns the number of
	// chunks written.
	IngestFile(ctx context.Context, path string) (int, error)

	// IngestRemote ingests account and transaction data fetched from the
	// remote bank APIs and returns the number of chunks written.
	IngestRemote(ctx context.Context, params RemoteIngestParams) (int, error)
}

// AnswerService answers natural-language financial questions from the
// indexed corpus.
type AnswerService interface {
	// Ask retrieves the topK most similar chunks for the question and
	// composes an answer using the given mode. A non-positive topK falls
	// back to the configured default; an empty mode falls back to the
	// configured default mode.
	Ask(ctx context.Context, question string, topK int, mode domain.AnswerMode) (string, error)
}
