package domain

// ExtractedFact holds the structured fields parsed from a single retrieved
// chunk's text. It is derived, never persisted. Every field is optional:
// a field that could not be parsed is left at its zero value and the fact
// is simply excluded from whatever aggregation needed it.
type ExtractedFact struct {
	// Date is the first ISO calendar date (YYYY-MM-DD) found in the text,
	// or empty if none.
	Date string

	// Merchant is the merchant name, from the structured transaction
	// pattern or the known-merchant list. Empty if unrecognised.
	Merchant string

	// Category is the spending category, from the structured pattern or
	// the category keyword list. Empty if unrecognised.
	Category string

	// Amount is the resolved dollar amount. Nil when the (merchant, date)
	// pair is not in the amount lookup table.
	Amount *float64
}
