package domain

// DefaultTopK is the number of hits retrieved when a request does not
// specify one.
const DefaultTopK = 5

// DefaultMaxChars is the default chunk size in characters.
const DefaultMaxChars = 800

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// APIKey authenticates against the provider.
	APIKey string

	// BaseURL is the API base URL. Empty means the provider default.
	BaseURL string

	// Model is the embedding model name.
	Model string

	// Dimensions is the vector size. Fixed per deployment; every chunk in
	// the index carries a vector of this length.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.APIKey != ""
}

// LLMSettings holds language model provider configuration.
type LLMSettings struct {
	// APIKey authenticates against the provider.
	APIKey string

	// BaseURL is the API base URL. Empty means the provider default.
	BaseURL string

	// Model is the chat model name.
	Model string

	// Temperature controls generation randomness.
	Temperature float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.APIKey != ""
}

// StoreSettings holds chunk store configuration.
type StoreSettings struct {
	// Backend selects the store implementation: "sqlite" or "milvus".
	Backend string

	// DataDir is where the SQLite database lives. Empty means
	// ~/.finassist/data.
	DataDir string

	// MilvusAddress is the Milvus server address (host:port).
	MilvusAddress string

	// MilvusDatabase is the Milvus database name.
	MilvusDatabase string

	// Collection is the logical corpus name. For Milvus it is the alias
	// the current generation collection is published under; for SQLite it
	// is informational.
	Collection string
}

// SearchSettings holds similarity search configuration.
type SearchSettings struct {
	// Backend selects the search strategy.
	Backend SearchBackend

	// TopK is the default number of hits when a request omits it.
	TopK int
}

// AnswerSettings holds answer composition configuration.
type AnswerSettings struct {
	// Mode is the default answer strategy. Requests may override it.
	Mode AnswerMode
}

// RemoteIngestSettings holds the remote bank API endpoints used by the
// remote ingest path. Every field can be overridden per request.
type RemoteIngestSettings struct {
	// TokenURL is the OAuth token endpoint.
	TokenURL string

	// ClientID and ClientSecret identify this service to the identity
	// provider.
	ClientID     string
	ClientSecret string

	// Scope is the OAuth scope to request, if any.
	Scope string

	// AccountsURL and TransactionsURL are the resource endpoints.
	AccountsURL     string
	TransactionsURL string
}

// IngestSettings holds ingestion configuration.
type IngestSettings struct {
	// DefaultPath is the JSON file ingested when a request omits a path.
	DefaultPath string

	// MaxChars is the chunk size in characters.
	MaxChars int

	// Remote holds the bank API endpoints.
	Remote RemoteIngestSettings
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds language model provider settings.
	LLM LLMSettings

	// Store holds chunk store settings.
	Store StoreSettings

	// Search holds similarity search settings.
	Search SearchSettings

	// Answer holds answer composition settings.
	Answer AnswerSettings

	// Ingest holds ingestion settings.
	Ingest IngestSettings
}

// DefaultAppSettings returns settings with sensible defaults. Provider
// credentials are left unconfigured and must come from the config file.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
		},
		LLM: LLMSettings{
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
		},
		Store: StoreSettings{
			Backend:        "sqlite",
			MilvusDatabase: "default",
			Collection:     "chunks",
		},
		Search: SearchSettings{
			Backend: SearchBackendBruteForce,
			TopK:    DefaultTopK,
		},
		Answer: AnswerSettings{
			Mode: AnswerModeGenerative,
		},
		Ingest: IngestSettings{
			MaxChars: DefaultMaxChars,
			Remote: RemoteIngestSettings{
				TokenURL:        "http://localhost:8081/realms/finance/protocol/openid-connect/token",
				ClientID:        "gateway",
				AccountsURL:     "http://localhost:9009/api/accounts",
				TransactionsURL: "http://localhost:9004/api/transactions",
			},
		},
	}
}
