package bm25

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

func chunksOf(texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{ID: string(rune('a' + i)), Content: text, Position: i}
	}
	return chunks
}

func TestSearch_RanksMatchingChunkFirst(t *testing.T) {
	scorer := New(chunksOf(
		"the quick brown fox jumps over the lazy dog",
		"payment gateway integration guide",
		"a fox and a hound",
	))

	results := scorer.Search("payment gateway", 3)
	require.NotEmpty(t, results)
	assert.Equal(t, "payment gateway integration guide", results[0].Chunk.Content)
}

func TestSearch_OmitsNonMatching(t *testing.T) {
	scorer := New(chunksOf("alpha beta", "gamma delta"))

	results := scorer.Search("alpha", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "alpha beta", results[0].Chunk.Content)
}

func TestSearch_RespectsK(t *testing.T) {
	scorer := New(chunksOf("fox one", "fox two", "fox three", "fox four"))

	results := scorer.Search("fox", 2)
	assert.Len(t, results, 2)
}

func TestSearch_EmptyQuery(t *testing.T) {
	scorer := New(chunksOf("alpha"))
	assert.Nil(t, scorer.Search("   ", 5))
}

func TestSearch_EmptyCorpus(t *testing.T) {
	scorer := New(nil)
	assert.Nil(t, scorer.Search("alpha", 5))
}

func TestSearch_RareTermOutweighsCommon(t *testing.T) {
	scorer := New(chunksOf(
		"database database database replication",
		"database snapshot",
		"snapshot restore procedure",
	))

	// "restore" appears in one chunk only; that chunk must win for the
	// combined query even though "database" is frequent elsewhere.
	results := scorer.Search("snapshot restore", 3)
	require.NotEmpty(t, results)
	assert.Equal(t, "snapshot restore procedure", results[0].Chunk.Content)
}

func TestSearch_DeterministicTieBreak(t *testing.T) {
	scorer := New(chunksOf("same words here", "same words here"))

	first := scorer.Search("same words", 2)
	second := scorer.Search("same words", 2)
	require.Len(t, first, 2)
	assert.Equal(t, first[0].Chunk.ID, second[0].Chunk.ID)
	assert.Equal(t, "a", first[0].Chunk.ID)
}
