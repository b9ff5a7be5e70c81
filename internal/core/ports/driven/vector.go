package driven

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// VectorIndex is an in-memory similarity index over {chunk, embedding}
// pairs. Vectors are owned exclusively by the index that computed them and
// are never mutated after creation.
type VectorIndex interface {
	// Search finds the k most similar chunks to the query vector,
	// ordered by descending cosine similarity. Returns at most k hits.
	Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error)

	// Save persists the index under dir and returns the artifact path.
	// The directory is created if absent. Failures wrap
	// domain.ErrPersistence.
	Save(dir string) (string, error)

	// Len returns the number of indexed chunks.
	Len() int

	// Chunks returns the indexed chunks in insertion order. Callers use
	// this to rebuild lexical structures after a reload.
	Chunks() []domain.Chunk

	// Close releases resources.
	Close() error
}

// IndexStore builds and rehydrates vector indexes. A loaded index must
// answer the same query contract as a freshly built one.
type IndexStore interface {
	// Build embeds every chunk via the embedding service and constructs
	// an index. Embedding failures wrap domain.ErrEmbedding with the
	// underlying cause preserved.
	Build(ctx context.Context, chunks []domain.Chunk, embedder EmbeddingService) (VectorIndex, error)

	// Load rehydrates an index previously written by Save. The caller
	// must supply the same embedding capability used at build time;
	// dimension mismatch is the caller's responsibility.
	Load(dir string) (VectorIndex, error)
}
