// Package sqlite provides a brute-force cosine similarity index with
// SQLite persistence. Vectors live in memory; Save writes chunks and
// embeddings to an index.db artifact that Load rehydrates byte-for-byte.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// IndexFileName is the persisted artifact inside a vector store directory.
const IndexFileName = "index.db"

// Ensure interfaces are implemented.
var (
	_ driven.VectorIndex = (*Index)(nil)
	_ driven.IndexStore  = (*Store)(nil)
)

// Index holds chunks and their embeddings and answers similarity queries
// by exhaustive cosine scan. Immutable after construction.
type Index struct {
	chunks  []domain.Chunk
	vectors [][]float32
	norms   []float64
}

// Search returns the k nearest chunks to the query vector by cosine
// similarity, highest first. Ties break on chunk ID for determinism.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}
	if k <= 0 || len(idx.chunks) == 0 {
		return nil, nil
	}

	queryNorm := vectorNorm(query)
	if queryNorm == 0 {
		return nil, nil
	}

	scored := make([]domain.ScoredChunk, 0, len(idx.chunks))
	for i, vec := range idx.vectors {
		if len(vec) != len(query) {
			return nil, fmt.Errorf("%w: query dimension %d, index dimension %d",
				domain.ErrInvalidInput, len(query), len(vec))
		}
		if idx.norms[i] == 0 {
			continue
		}

		var dot float64
		for j, q := range query {
			dot += float64(q) * float64(vec[j])
		}
		scored = append(scored, domain.ScoredChunk{
			Chunk: idx.chunks[i],
			Score: dot / (queryNorm * idx.norms[i]),
		})
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
	return scored, nil
}

// Save persists the index as dir/index.db and returns the artifact path.
func (idx *Index) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("%w: creating vector store directory: %v", domain.ErrPersistence, err)
	}

	dbPath := filepath.Join(dir, IndexFileName)

	// Start from a clean file so a rebuilt index never merges with stale rows
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("%w: removing stale index: %v", domain.ErrPersistence, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return "", fmt.Errorf("%w: opening index database: %v", domain.ErrPersistence, err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			id        TEXT PRIMARY KEY,
			content   TEXT NOT NULL,
			source    TEXT NOT NULL,
			position  INTEGER NOT NULL,
			page      INTEGER NOT NULL,
			row_index INTEGER NOT NULL,
			embedding BLOB NOT NULL
		)
	`); err != nil {
		return "", fmt.Errorf("%w: creating chunks table: %v", domain.ErrPersistence, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("%w: beginning transaction: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Prepare(`
		INSERT INTO chunks (id, content, source, position, page, row_index, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("%w: preparing statement: %v", domain.ErrPersistence, err)
	}
	defer stmt.Close()

	for i, chunk := range idx.chunks {
		blob := float32SliceToBytes(idx.vectors[i])
		if _, err := stmt.Exec(chunk.ID, chunk.Content, chunk.Source,
			chunk.Position, chunk.Page, chunk.Row, blob); err != nil {
			return "", fmt.Errorf("%w: saving chunk %s: %v", domain.ErrPersistence, chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: committing transaction: %v", domain.ErrPersistence, err)
	}

	return dbPath, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Close releases resources. The in-memory index holds none.
func (idx *Index) Close() error {
	return nil
}

// Chunks returns the indexed chunks in insertion order.
func (idx *Index) Chunks() []domain.Chunk {
	out := make([]domain.Chunk, len(idx.chunks))
	copy(out, idx.chunks)
	return out
}

// Store builds and loads indexes.
type Store struct{}

// NewStore creates an index store.
func NewStore() *Store {
	return &Store{}
}

// Build embeds every chunk and constructs an index over the results.
func (s *Store) Build(ctx context.Context, chunks []domain.Chunk, embedder driven.EmbeddingService) (driven.VectorIndex, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding %d chunks: %v", domain.ErrEmbedding, len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbedding, len(vectors), len(chunks))
	}

	return newIndex(chunks, vectors), nil
}

// Load rehydrates an index from dir/index.db.
func (s *Store) Load(dir string) (driven.VectorIndex, error) {
	dbPath := filepath.Join(dir, IndexFileName)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%w: index artifact %s", domain.ErrNotFound, dbPath)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening index database: %v", domain.ErrPersistence, err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT id, content, source, position, page, row_index, embedding
		FROM chunks ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	var vectors [][]float32
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.Content, &chunk.Source,
			&chunk.Position, &chunk.Page, &chunk.Row, &blob); err != nil {
			return nil, fmt.Errorf("%w: scanning chunk: %v", domain.ErrPersistence, err)
		}
		chunks = append(chunks, chunk)
		vectors = append(vectors, bytesToFloat32Slice(blob))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading chunks: %v", domain.ErrPersistence, err)
	}

	return newIndex(chunks, vectors), nil
}

func newIndex(chunks []domain.Chunk, vectors [][]float32) *Index {
	norms := make([]float64, len(vectors))
	for i, vec := range vectors {
		norms[i] = vectorNorm(vec)
	}
	return &Index{chunks: chunks, vectors: vectors, norms: norms}
}

func vectorNorm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
