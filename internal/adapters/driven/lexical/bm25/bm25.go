// Package bm25 provides an in-memory BM25 lexical scorer over a chunk
// set. It is built once per ingested document and cached by the
// retriever; scoring allocates nothing shared and is safe for concurrent
// use.
package bm25

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure Scorer implements the interface.
var _ driven.LexicalScorer = (*Scorer)(nil)

// BM25 free parameters. Standard Okapi defaults.
const (
	k1 = 1.5
	b  = 0.75
)

// Scorer ranks chunks by Okapi BM25.
type Scorer struct {
	chunks    []domain.Chunk
	docTerms  []map[string]int
	docLens   []int
	avgDocLen float64
	docFreq   map[string]int
}

// New builds a scorer over the chunk set.
func New(chunks []domain.Chunk) *Scorer {
	s := &Scorer{
		chunks:   chunks,
		docTerms: make([]map[string]int, len(chunks)),
		docLens:  make([]int, len(chunks)),
		docFreq:  make(map[string]int),
	}

	total := 0
	for i, chunk := range chunks {
		terms := tokenize(chunk.Content)
		counts := make(map[string]int, len(terms))
		for _, term := range terms {
			counts[term]++
		}
		s.docTerms[i] = counts
		s.docLens[i] = len(terms)
		total += len(terms)

		for term := range counts {
			s.docFreq[term]++
		}
	}

	if len(chunks) > 0 {
		s.avgDocLen = float64(total) / float64(len(chunks))
	}

	return s
}

// Search returns the top k chunks for the query by descending BM25 score.
// Chunks that match no query term are omitted.
func (s *Scorer) Search(query string, k int) []domain.ScoredChunk {
	terms := tokenize(query)
	if len(terms) == 0 || len(s.chunks) == 0 || k <= 0 {
		return nil
	}

	n := float64(len(s.chunks))
	scored := make([]domain.ScoredChunk, 0, len(s.chunks))

	for i, chunk := range s.chunks {
		score := 0.0
		for _, term := range terms {
			tf := float64(s.docTerms[i][term])
			if tf == 0 {
				continue
			}
			df := float64(s.docFreq[term])
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			norm := 1 - b + b*float64(s.docLens[i])/s.avgDocLen
			score += idf * tf * (k1 + 1) / (tf + k1*norm)
		}
		if score > 0 {
			scored = append(scored, domain.ScoredChunk{Chunk: chunk, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.ID < scored[j].Chunk.ID
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// tokenize lowercases and splits on non-alphanumeric runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
