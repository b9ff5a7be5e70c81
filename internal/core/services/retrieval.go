package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// Ensure HybridRetriever implements the interface.
var _ driving.Retriever = (*HybridRetriever)(nil)

// rrfK is the reciprocal rank fusion constant. Higher values flatten the
// contribution difference between adjacent ranks.
const rrfK = 60

// HybridRetriever answers queries by fusing lexical and dense rankings,
// with an optional cross-encoder rerank stage. Dense search is the floor:
// when a later stage is unavailable the retriever degrades to dense-only
// and reports it in the outcome rather than failing the query.
type HybridRetriever struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	scorer   driven.LexicalScorer
	reranker driven.RerankService
	cfg      domain.RetrievalConfig
}

// NewHybridRetriever creates a retriever over an index and its chunk set.
// The lexical scorer is built once here and reused for every query.
// reranker may be nil; scorerFactory may be nil to force dense-only.
func NewHybridRetriever(
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	scorerFactory driven.LexicalScorerFactory,
	reranker driven.RerankService,
	cfg domain.RetrievalConfig,
) *HybridRetriever {
	r := &HybridRetriever{
		index:    index,
		embedder: embedder,
		reranker: reranker,
		cfg:      cfg.Normalise(),
	}
	if scorerFactory != nil {
		r.scorer = scorerFactory(index.Chunks())
	}
	return r
}

// Retrieve runs the configured retrieval strategy for the query.
func (r *HybridRetriever) Retrieve(ctx context.Context, query string) (domain.RetrievalOutcome, error) {
	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return domain.RetrievalOutcome{}, fmt.Errorf("%w: embedding query: %v", domain.ErrEmbedding, err)
	}

	dense, err := r.index.Search(ctx, queryVec, r.cfg.KVector)
	if err != nil {
		return domain.RetrievalOutcome{}, fmt.Errorf("dense search: %w", err)
	}
	logger.Debug("Dense search returned %d candidates", len(dense))

	if r.cfg.Mode == domain.ModeDense {
		return domain.RetrievalOutcome{Results: truncate(dense, r.cfg.KFinal)}, nil
	}

	if r.scorer == nil {
		logger.Warn("Hybrid mode requested but no lexical scorer available, using dense only")
		return domain.RetrievalOutcome{
			Results:  truncate(dense, r.cfg.KFinal),
			Degraded: true,
			Reason:   "lexical scorer unavailable",
		}, nil
	}

	lexical := r.scorer.Search(query, r.cfg.KBM25)
	logger.Debug("Lexical search returned %d candidates", len(lexical))

	fused := fuse(lexical, dense, r.cfg.FusionWeights)

	if r.cfg.RerankEnabled {
		if r.reranker == nil {
			logger.Warn("Rerank enabled but no reranker configured, keeping fused order")
			return domain.RetrievalOutcome{
				Results:  truncate(fused, r.cfg.KFinal),
				Degraded: true,
				Reason:   "reranker unavailable",
			}, nil
		}

		reranked, err := r.rerank(ctx, query, fused)
		if err != nil {
			logger.Warn("Rerank failed, degrading to dense-only: %v", err)
			return domain.RetrievalOutcome{
				Results:  truncate(dense, r.cfg.KFinal),
				Degraded: true,
				Reason:   fmt.Sprintf("rerank failed: %v", err),
			}, nil
		}
		return domain.RetrievalOutcome{Results: truncate(reranked, r.cfg.KFinal)}, nil
	}

	return domain.RetrievalOutcome{Results: truncate(fused, r.cfg.KFinal)}, nil
}

// fuse combines two ranked lists by weighted reciprocal rank. A candidate
// appearing in only one list still contributes its single weighted term;
// nothing is dropped before final truncation. Ties break on chunk ID.
func fuse(lexical, dense []domain.ScoredChunk, weights [2]float64) []domain.ScoredChunk {
	scores := make(map[string]float64)
	chunks := make(map[string]domain.Chunk)

	accumulate := func(ranked []domain.ScoredChunk, weight float64) {
		for rank, sc := range ranked {
			scores[sc.Chunk.ID] += weight / float64(rrfK+rank+1)
			chunks[sc.Chunk.ID] = sc.Chunk
		}
	}
	accumulate(lexical, weights[0])
	accumulate(dense, weights[1])

	fused := make([]domain.ScoredChunk, 0, len(scores))
	for id, score := range scores {
		fused = append(fused, domain.ScoredChunk{Chunk: chunks[id], Score: score})
	}

	sort.SliceStable(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].Chunk.ID < fused[j].Chunk.ID
	})
	return fused
}

// rerank rescores every fused candidate with the cross-encoder. The rerank
// order supersedes the fusion order entirely.
func (r *HybridRetriever) rerank(ctx context.Context, query string, candidates []domain.ScoredChunk) ([]domain.ScoredChunk, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	passages := make([]string, len(candidates))
	for i, c := range candidates {
		passages[i] = c.Chunk.Content
	}

	scores, err := r.reranker.Rerank(ctx, query, passages)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(candidates) {
		return nil, fmt.Errorf("got %d rerank scores for %d candidates", len(scores), len(candidates))
	}

	reranked := make([]domain.ScoredChunk, len(candidates))
	for i, c := range candidates {
		reranked[i] = domain.ScoredChunk{Chunk: c.Chunk, Score: scores[i]}
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		if reranked[i].Score != reranked[j].Score {
			return reranked[i].Score > reranked[j].Score
		}
		return reranked[i].Chunk.ID < reranked[j].Chunk.ID
	})
	return reranked, nil
}

func truncate(results []domain.ScoredChunk, k int) []domain.ScoredChunk {
	if len(results) > k {
		return results[:k]
	}
	return results
}
