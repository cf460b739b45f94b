// Package cli provides the command-line interface. Commands share a set
// of services wired from configuration during startup; commands that need
// an unconfigured service fail with a pointer at the missing setting.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finassist-cli/internal/adapters/driven/bankapi"
	configfile "github.com/custodia-labs/finassist-cli/internal/adapters/driven/config/file"
	embeddingopenai "github.com/custodia-labs/finassist-cli/internal/adapters/driven/embedding/openai"
	llmopenai "github.com/custodia-labs/finassist-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/finassist-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/finassist-cli/internal/adapters/driven/storage/milvus"
	"github.com/custodia-labs/finassist-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/finassist-cli/internal/core/services"
	"github.com/custodia-labs/finassist-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Shared services, wired by initServices.
var (
	configStore   driven.ConfigStore
	appSettings   domain.AppSettings
	chunkStore    driven.ChunkStore
	ingestService driving.IngestService
	answerService driving.AnswerService

	// servicesReady is set once wiring has happened so repeated command
	// executions (and tests that inject their own services) skip it.
	servicesReady bool
)

var rootCmd = &cobra.Command{
	Use:   "finassist",
	Short: "Financial question answering over your transaction data",
	Long: `Finassist ingests financial documents and bank API data into a local
retrieval corpus and answers natural-language questions about it, either
generatively via an LLM or deterministically from extracted facts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		switch {
		case servicesReady:
			return nil
		case cmd.Name() == "version" || cmd.Name() == "help":
			return nil
		case cmd.Parent() != nil && cmd.Parent().Name() == "config":
			// Config commands only need the store, not the full wiring.
			return initConfig()
		default:
			return initServices(cmd.Context())
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.finassist)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initConfig opens the config store and loads settings. It is all the
// config commands need; everything else goes through initServices.
func initConfig() error {
	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	configStore = store
	appSettings = configfile.LoadSettings(configStore)
	return nil
}

// initServices wires the driven adapters and core services from
// configuration. Providers without credentials are left nil; commands
// nil-check what they need.
func initServices(ctx context.Context) error {
	if err := initConfig(); err != nil {
		return err
	}

	var err error

	var embedding driven.EmbeddingService
	if appSettings.Embedding.IsConfigured() {
		embedding, err = embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey:     appSettings.Embedding.APIKey,
			BaseURL:    appSettings.Embedding.BaseURL,
			Model:      appSettings.Embedding.Model,
			Dimensions: appSettings.Embedding.Dimensions,
		})
		if err != nil {
			return fmt.Errorf("creating embedding service: %w", err)
		}
	} else {
		logger.Debug("Embedding provider not configured (embedding.api_key)")
	}

	var llm driven.LLMService
	if appSettings.LLM.IsConfigured() {
		llm, err = llmopenai.NewLLMService(llmopenai.Config{
			APIKey:  appSettings.LLM.APIKey,
			BaseURL: appSettings.LLM.BaseURL,
			Model:   appSettings.LLM.Model,
		})
		if err != nil {
			return fmt.Errorf("creating LLM service: %w", err)
		}
	} else {
		logger.Debug("LLM provider not configured (llm.api_key)")
	}

	chunkStore, err = openChunkStore(ctx)
	if err != nil {
		return err
	}

	bank := bankapi.NewClient(bankapi.Config{})

	if embedding != nil && chunkStore != nil {
		ingestService = services.NewIngestService(embedding, chunkStore, bank, appSettings.Ingest)

		search := services.NewSearchService(embedding, chunkStore, appSettings.Search)
		answerService = services.NewAnswerService(search, llm, services.NewKnownAmounts(), services.AnswerConfig{
			DefaultTopK: appSettings.Search.TopK,
			DefaultMode: appSettings.Answer.Mode,
			Temperature: appSettings.LLM.Temperature,
		})
	}

	servicesReady = true
	return nil
}

// openChunkStore opens the configured store backend.
func openChunkStore(ctx context.Context) (driven.ChunkStore, error) {
	switch appSettings.Store.Backend {
	case "sqlite", "":
		store, err := sqlite.NewStore(appSettings.Store.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil
	case "milvus":
		store, err := milvus.NewStore(ctx, milvus.Config{
			Address:    appSettings.Store.MilvusAddress,
			Database:   appSettings.Store.MilvusDatabase,
			Collection: appSettings.Store.Collection,
			Dimensions: appSettings.Embedding.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("opening milvus store: %w", err)
		}
		return store, nil
	case "memory":
		return memory.NewChunkStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", appSettings.Store.Backend)
	}
}
