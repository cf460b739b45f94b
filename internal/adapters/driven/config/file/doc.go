// Package file provides a TOML-backed configuration store. Nested tables
// are flattened into dot-notation keys, so "embedding.api_key" addresses
// the api_key entry of the [embedding] table.
package file
