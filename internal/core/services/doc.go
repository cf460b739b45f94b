// Package services contains the application core: corpus ingestion,
// similarity search, and answer composition. Services depend only on the
// driven ports and are wired with concrete adapters at startup.
package services
