// Package services contains the core application services: document
// ingestion, hybrid retrieval, session management and grounded chat.
package services

import (
	"context"
	"fmt"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// IngestionPipeline turns an uploaded file into a persisted, queryable
// index: load, split, embed, save.
type IngestionPipeline struct {
	loader   driven.DocumentLoader
	splitter driven.ChunkSplitter
	store    driven.IndexStore
	embedder driven.EmbeddingService
}

// NewIngestionPipeline creates a pipeline over the given stages.
func NewIngestionPipeline(
	loader driven.DocumentLoader,
	splitter driven.ChunkSplitter,
	store driven.IndexStore,
	embedder driven.EmbeddingService,
) *IngestionPipeline {
	return &IngestionPipeline{
		loader:   loader,
		splitter: splitter,
		store:    store,
		embedder: embedder,
	}
}

// Process runs the full pipeline on filePath and persists the index under
// saveDir. It returns the artifact path, the chunk set and the live index
// so callers can query without reloading from disk. Stage errors propagate
// unchanged.
func (p *IngestionPipeline) Process(ctx context.Context, filePath, saveDir string) (string, []domain.Chunk, driven.VectorIndex, error) {
	logger.Section("Ingestion")

	units, tag, err := p.loader.Load(ctx, filePath)
	if err != nil {
		return "", nil, nil, fmt.Errorf("loading document: %w", err)
	}
	logger.Info("Loaded %d units from %s (%s)", len(units), filePath, tag)

	chunks := p.splitter.Split(units, tag)
	if len(chunks) == 0 {
		return "", nil, nil, fmt.Errorf("%w: document produced no chunks", domain.ErrInvalidInput)
	}
	logger.Info("Split into %d chunks", len(chunks))

	index, err := p.store.Build(ctx, chunks, p.embedder)
	if err != nil {
		return "", nil, nil, fmt.Errorf("building index: %w", err)
	}
	logger.Info("Indexed %d chunks with model %s", index.Len(), p.embedder.ModelName())

	path, err := index.Save(saveDir)
	if err != nil {
		index.Close() //nolint:errcheck
		return "", nil, nil, fmt.Errorf("saving index: %w", err)
	}
	logger.Info("Index saved to %s", path)

	return path, chunks, index, nil
}
