package domain

// SearchBackend selects the similarity search strategy.
type SearchBackend string

const (
	// SearchBackendANN delegates to a server-side approximate nearest
	// neighbour search (Milvus). Fast at scale, approximate recall.
	SearchBackendANN SearchBackend = "ann"

	// SearchBackendBruteForce scans the whole corpus in-process and ranks
	// by cosine similarity. Exact, O(N*D) per query; intended for small
	// corpora and as a correctness fallback.
	SearchBackendBruteForce SearchBackend = "bruteforce"
)

// Valid reports whether the backend is a known strategy.
func (b SearchBackend) Valid() bool {
	return b == SearchBackendANN || b == SearchBackendBruteForce
}

// SearchHit is a read-only projection of a chunk returned by similarity
// search.
type SearchHit struct {
	// ID is the matched chunk's identifier.
	ID string

	// Text is the chunk content.
	Text string

	// Score is the similarity score, higher is better. The scale is
	// backend-relative: the ANN backend surfaces its native relevance
	// score, the brute-force backend a raw cosine in [-1, 1]. Scores are
	// not comparable across backends.
	Score float64

	// Metadata is the chunk's stored metadata.
	Metadata map[string]any
}

// AnswerMode selects how retrieved context is turned into an answer.
type AnswerMode string

const (
	// AnswerModeGenerative formats the hits into a prompt and delegates
	// to the language model.
	AnswerModeGenerative AnswerMode = "generative"

	// AnswerModeDeterministic runs the rule-based extraction and
	// aggregation engine instead of the language model.
	AnswerModeDeterministic AnswerMode = "deterministic"
)

// Valid reports whether the mode is a known answer strategy.
func (m AnswerMode) Valid() bool {
	return m == AnswerModeGenerative || m == AnswerModeDeterministic
}
