package file

import (
	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driven"
)

// LoadSettings builds application settings from the config store, applying
// defaults for anything the file does not set.
func LoadSettings(store driven.ConfigStore) domain.AppSettings {
	settings := domain.DefaultAppSettings()

	if v := store.GetString("embedding.api_key"); v != "" {
		settings.Embedding.APIKey = v
	}
	if v := store.GetString("embedding.base_url"); v != "" {
		settings.Embedding.BaseURL = v
	}
	if v := store.GetString("embedding.model"); v != "" {
		settings.Embedding.Model = v
	}
	if v := store.GetInt("embedding.dimensions"); v > 0 {
		settings.Embedding.Dimensions = v
	}

	if v := store.GetString("llm.api_key"); v != "" {
		settings.LLM.APIKey = v
	}
	if v := store.GetString("llm.base_url"); v != "" {
		settings.LLM.BaseURL = v
	}
	if v := store.GetString("llm.model"); v != "" {
		settings.LLM.Model = v
	}
	if v := store.GetFloat("llm.temperature"); v > 0 {
		settings.LLM.Temperature = v
	}

	if v := store.GetString("store.backend"); v != "" {
		settings.Store.Backend = v
	}
	if v := store.GetString("store.data_dir"); v != "" {
		settings.Store.DataDir = v
	}
	if v := store.GetString("store.milvus_address"); v != "" {
		settings.Store.MilvusAddress = v
	}
	if v := store.GetString("store.milvus_database"); v != "" {
		settings.Store.MilvusDatabase = v
	}
	if v := store.GetString("store.collection"); v != "" {
		settings.Store.Collection = v
	}

	if v := store.GetString("search.backend"); v != "" {
		settings.Search.Backend = domain.SearchBackend(v)
	}
	if v := store.GetInt("search.top_k"); v > 0 {
		settings.Search.TopK = v
	}

	if v := store.GetString("answer.mode"); v != "" {
		settings.Answer.Mode = domain.AnswerMode(v)
	}

	if v := store.GetString("ingest.default_path"); v != "" {
		settings.Ingest.DefaultPath = v
	}
	if v := store.GetInt("ingest.max_chars"); v > 0 {
		settings.Ingest.MaxChars = v
	}
	if v := store.GetString("ingest.remote.token_url"); v != "" {
		settings.Ingest.Remote.TokenURL = v
	}
	if v := store.GetString("ingest.remote.client_id"); v != "" {
		settings.Ingest.Remote.ClientID = v
	}
	if v := store.GetString("ingest.remote.client_secret"); v != "" {
		settings.Ingest.Remote.ClientSecret = v
	}
	if v := store.GetString("ingest.remote.scope"); v != "" {
		settings.Ingest.Remote.Scope = v
	}
	if v := store.GetString("ingest.remote.accounts_url"); v != "" {
		settings.Ingest.Remote.AccountsURL = v
	}
	if v := store.GetString("ingest.remote.transactions_url"); v != "" {
		settings.Ingest.Remote.TransactionsURL = v
	}

	return settings
}
