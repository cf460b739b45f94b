// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants ask questions over the indexed corpus and trigger
// ingestion through the same driving ports the CLI and HTTP API use.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
