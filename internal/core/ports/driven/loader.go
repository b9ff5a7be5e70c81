package driven

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// DocumentLoader reads a file from disk and produces ordered raw text
// units tagged with their origin. Loaders are stateless: loading the same
// file twice yields identical unit sequences.
type DocumentLoader interface {
	// Load parses the file at path into raw units.
	// Returns domain.ErrNotFound if the path does not exist and
	// domain.ErrUnsupportedFormat for extensions no loader handles.
	Load(ctx context.Context, path string) ([]domain.RawUnit, domain.FormatTag, error)
}

// ChunkSplitter turns raw units into bounded, overlapping chunks using a
// format-aware strategy.
type ChunkSplitter interface {
	// Split chunks the units. Output ordering matches input ordering.
	// An unknown format tag falls back to the prose path with a logged
	// warning, never an error.
	Split(units []domain.RawUnit, tag domain.FormatTag) []domain.Chunk
}
