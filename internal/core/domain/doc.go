// Package domain contains the core business entities for the finance
// assistant: chunks, search hits, extracted facts, and application settings.
// It has no dependencies on infrastructure packages.
package domain
