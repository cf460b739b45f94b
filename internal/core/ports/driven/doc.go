// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the embedding provider, the language model,
// the chunk store, and the bank API client. The core consumes these
// contracts but does not own their implementations.
package driven
