package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
)

var (
	askTopK          int
	askDeterministic bool
	askJSON          bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your financial data",
	Long: `Retrieves the most relevant chunks from the indexed corpus and composes
an answer. By default the answer is generated by the configured LLM; with
--deterministic it is synthesized purely from facts extracted out of the
retrieved context, without any LLM call.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (0 = configured default)")
	askCmd.Flags().BoolVar(&askDeterministic, "deterministic", false, "answer from extracted facts instead of the LLM")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if answerService == nil {
		return errors.New("answer service not configured (set embedding.api_key)")
	}

	mode := domain.AnswerMode("")
	if askDeterministic {
		mode = domain.AnswerModeDeterministic
	}

	answer, err := answerService.Ask(cmd.Context(), question, askTopK, mode)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(map[string]string{"answer": answer}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer)
	return nil
}
