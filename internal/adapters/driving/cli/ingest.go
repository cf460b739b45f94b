package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finassist-cli/internal/core/ports/driving"
)

var remoteParams driving.RemoteIngestParams

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a JSON document into the corpus",
	Long: `Flattens a JSON document into text, splits it into chunks, embeds each
chunk, and replaces the corpus with the result. Ingestion is a full
replace: nothing from a previous ingest survives.

Without a path argument the configured default file (ingest.default_path)
is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

var ingestRemoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Ingest account and transaction data from the bank APIs",
	Long: `Authenticates against the identity provider with the resource owner
password grant, fetches accounts and transactions from the configured
bank APIs, renders them into sentences, and replaces the corpus with the
embedded result.

Endpoint and client flags override the configured defaults; --username
and --password are always required.`,
	RunE: runIngestRemote,
}

func init() {
	ingestRemoteCmd.Flags().StringVar(&remoteParams.TokenURL, "token-url", "", "OAuth token endpoint")
	ingestRemoteCmd.Flags().StringVar(&remoteParams.ClientID, "client-id", "", "OAuth client id")
	ingestRemoteCmd.Flags().StringVar(&remoteParams.ClientSecret, "client-secret", "", "OAuth client secret")
	ingestRemoteCmd.Flags().StringVar(&remoteParams.Scope, "scope", "", "OAuth scope")
	ingestRemoteCmd.Flags().StringVar(&remoteParams.Username, "username", "", "resource owner username")
	ingestRemoteCmd.Flags().StringVar(&remoteParams.Password, "password", "", "resource owner password")
	ingestRemoteCmd.Flags().StringVar(&remoteParams.AccountsURL, "accounts-url", "", "accounts API endpoint")
	ingestRemoteCmd.Flags().StringVar(&remoteParams.TransactionsURL, "transactions-url", "", "transactions API endpoint")
	ingestCmd.AddCommand(ingestRemoteCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured (set embedding.api_key)")
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	count, err := ingestService.IngestFile(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("ingesting file: %w", err)
	}

	cmd.Printf("Ingested %d chunks.\n", count)
	return nil
}

func runIngestRemote(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured (set embedding.api_key)")
	}

	count, err := ingestService.IngestRemote(cmd.Context(), remoteParams)
	if err != nil {
		return fmt.Errorf("ingesting from bank APIs: %w", err)
	}

	cmd.Printf("Ingested %d chunks from the bank APIs.\n", count)
	return nil
}
