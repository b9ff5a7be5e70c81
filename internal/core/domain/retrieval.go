package domain

// RetrievalMode selects the retrieval strategy.
type RetrievalMode string

const (
	// ModeDense uses vector similarity search only.
	ModeDense RetrievalMode = "dense"

	// ModeHybrid fuses lexical (BM25) and vector rankings.
	ModeHybrid RetrievalMode = "hybrid"
)

// RetrievalOutcome is the result of a retrieve call. Degradation (falling
// back to dense-only because the lexical or rerank stage was unavailable)
// is an expected path and is reported as a value, never as an error.
type RetrievalOutcome struct {
	// Results is the final ranked passage list, highest relevance first.
	Results []ScoredChunk

	// Degraded is true when the configured mode could not be honoured
	// and the retriever fell back to dense-only search.
	Degraded bool

	// Reason describes why the retriever degraded, for logs.
	Reason string
}

// RetrievalConfig holds the tuning knobs of the hybrid retriever.
type RetrievalConfig struct {
	// Mode is dense or hybrid.
	Mode RetrievalMode

	// KVector is the number of dense candidates to fetch.
	KVector int

	// KBM25 is the number of lexical candidates to fetch.
	KBM25 int

	// KFinal caps the result list after fusion/reranking.
	KFinal int

	// FusionWeights is [lexical, dense]. Equal weighting by default.
	FusionWeights [2]float64

	// RerankEnabled turns on cross-encoder rescoring of fused candidates.
	RerankEnabled bool
}

// Normalise applies defaults to unset fields.
func (c RetrievalConfig) Normalise() RetrievalConfig {
	if c.Mode == "" {
		c.Mode = ModeHybrid
	}
	if c.KVector <= 0 {
		c.KVector = 5
	}
	if c.KBM25 <= 0 {
		c.KBM25 = 5
	}
	if c.KFinal <= 0 {
		c.KFinal = 5
	}
	if c.FusionWeights[0] == 0 && c.FusionWeights[1] == 0 {
		c.FusionWeights = [2]float64{0.5, 0.5}
	}
	return c
}
