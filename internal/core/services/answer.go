package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driven"
	"github.com/custodia-labs/finassist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/finassist-cli/internal/logger"
)

var _ driving.AnswerService = (*AnswerService)(nil)

// ragPrompt is the generative answer template. The context section is
// filled with the retrieved chunks, most similar first.
const ragPrompt = `You are a helpful financial assistant. Answer the user's question based ONLY on the provided context.

CONTEXT:
%s

QUESTION: %s

INSTRUCTIONS:
- Answer based only on the information provided in the context above
- Be specific about amounts, dates, and merchant names when available
- If the context contains transaction data with amounts in cents (e.g., -19516), convert to dollars (e.g., $195.16)
- If you cannot answer the question based on the context, say so clearly
- Format monetary amounts as currency (e.g., $195.16)
- Be concise but complete in your response

ANSWER:`

// AnswerConfig configures answer composition defaults.
type AnswerConfig struct {
	// DefaultTopK is used when a request omits topK.
	DefaultTopK int

	// DefaultMode is used when a request omits the mode.
	DefaultMode domain.AnswerMode

	// Temperature is passed to the LLM for generative answers.
	Temperature float64
}

// AnswerService answers a question over the retrieval corpus. The
// generative mode hands the retrieved context to an LLM; the
// deterministic mode extracts facts from the hits and composes the answer
// itself, with no model in the loop.
type AnswerService struct {
	search  *SearchService
	llm     driven.LLMService
	amounts AmountResolver
	cfg     AnswerConfig
}

// NewAnswerService creates a new answer service. The LLM is only required
// for generative answers and may be nil otherwise.
func NewAnswerService(
	search *SearchService,
	llm driven.LLMService,
	amounts AmountResolver,
	cfg AnswerConfig,
) *AnswerService {
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = domain.DefaultTopK
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = domain.AnswerModeGenerative
	}
	if amounts == nil {
		amounts = NewKnownAmounts()
	}
	return &AnswerService{
		search:  search,
		llm:     llm,
		amounts: amounts,
		cfg:     cfg,
	}
}

// Ask retrieves context for the question and composes an answer in the
// requested mode. A zero topK falls back to the configured default.
func (s *AnswerService) Ask(ctx context.Context, question string, topK int, mode domain.AnswerMode) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}
	if mode == "" {
		mode = s.cfg.DefaultMode
	}
	if !mode.Valid() {
		return "", fmt.Errorf("%w: unknown answer mode %q", domain.ErrInvalidInput, mode)
	}
	if s.search == nil {
		return "", domain.ErrStoreUnavailable
	}

	hits, err := s.search.Search(ctx, question, topK)
	if err != nil {
		return "", err
	}
	logger.Debug("Retrieved %d hits for question", len(hits))

	switch mode {
	case domain.AnswerModeDeterministic:
		return s.synthesize(question, hits), nil
	default:
		return s.generate(ctx, question, hits)
	}
}

// generate builds the RAG prompt from the hits and asks the LLM.
func (s *AnswerService) generate(ctx context.Context, question string, hits []domain.SearchHit) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	var contextBlock strings.Builder
	for _, h := range hits {
		fmt.Fprintf(&contextBlock, "Document %s (score: %.3f):\n%s\n\n", h.ID, h.Score, h.Text)
	}

	prompt := fmt.Sprintf(ragPrompt, contextBlock.String(), question)
	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// synthesize composes a deterministic answer from extracted transaction
// facts. Hits that do not match the question's date or category filters
// are dropped; amounts come from the resolver and only positive resolved
// amounts count toward the total.
func (s *AnswerService) synthesize(question string, hits []domain.SearchHit) string {
	intent := parseQuestion(question)

	type match struct {
		fact   domain.ExtractedFact
		amount float64
	}
	var matches []match
	var total float64

	for _, h := range hits {
		fact := ExtractFact(h.Text)

		if intent.targetDate != "" && fact.Date != intent.targetDate {
			continue
		}
		if intent.groceries {
			lowerText := strings.ToLower(h.Text)
			lowerCategory := strings.ToLower(fact.Category)
			if !strings.Contains(lowerText, "grocer") && !strings.Contains(lowerCategory, "grocer") {
				continue
			}
		}

		var amount float64
		if fact.Merchant != "" && fact.Date != "" {
			if v, ok := s.amounts.Resolve(fact.Merchant, fact.Date); ok && v > 0 {
				amount = v
				total += v
			}
		}
		if amount > 0 {
			fact.Amount = &amount
		}
		matches = append(matches, match{fact: fact, amount: amount})
	}

	if len(matches) == 0 || total <= 0 {
		if intent.targetDate != "" && intent.groceries {
			return "I couldn't find any grocery transactions on " + intent.targetDate + "."
		}
		return "I couldn't find matching transactions in the retrieved context."
	}

	dateLabel := intent.targetDate
	if dateLabel == "" {
		dateLabel = "that date"
	}

	var details strings.Builder
	counted := 0
	for _, m := range matches {
		if m.amount <= 0 {
			continue
		}
		date := m.fact.Date
		if date == "" {
			date = "unknown-date"
		}
		merchant := m.fact.Merchant
		if merchant == "" {
			merchant = "unknown merchant"
		}
		fmt.Fprintf(&details, "- %s at %s: $%.2f\n", date, merchant, m.amount)
		counted++
	}
	detail := strings.TrimRight(details.String(), "\n")

	if counted == 1 {
		return fmt.Sprintf("On %s, you spent $%.2f on groceries.\n\nDetails:\n%s", dateLabel, total, detail)
	}
	return fmt.Sprintf("On %s, you spent a total of $%.2f on groceries across %d transactions.\n\nDetails:\n%s",
		dateLabel, total, counted, detail)
}
