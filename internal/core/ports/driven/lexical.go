package driven

import "github.com/docchat-labs/docchat-cli/internal/core/domain"

// LexicalScorer ranks chunks by term-based relevance (BM25-style scoring)
// over raw chunk text. Scorers are immutable once built and may be cached
// per chunk set.
type LexicalScorer interface {
	// Search returns the top k chunks for the query, ordered by
	// descending lexical score.
	Search(query string, k int) []domain.ScoredChunk
}

// LexicalScorerFactory builds a scorer over a chunk set.
type LexicalScorerFactory func(chunks []domain.Chunk) LexicalScorer
