package mcp

import (
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions over the indexed corpus.
	Answer driving.AnswerService

	// Ingest builds the corpus. Optional; the ingest tool reports an
	// error when it is absent.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
