package loaders

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/loaders/csv"
	"github.com/docchat-labs/docchat-cli/internal/loaders/pdf"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.DocumentLoader = (*Registry)(nil)

// Registry dispatches file loading on extension. Only PDF and CSV are
// supported; any other extension is rejected at load time.
type Registry struct {
	pdf *pdf.Loader
	csv *csv.Loader
}

// New creates a registry with the default format loaders.
func New() *Registry {
	return &Registry{
		pdf: pdf.New(),
		csv: csv.New(),
	}
}

// NewWithRunner creates a registry whose PDF loader uses the given
// command runner. Useful for testing.
func NewWithRunner(runner driven.CommandRunner) *Registry {
	return &Registry{
		pdf: pdf.NewWithRunner(runner),
		csv: csv.New(),
	}
}

// Load reads the file at path into raw units.
func (r *Registry) Load(ctx context.Context, path string) ([]domain.RawUnit, domain.FormatTag, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("file %s: %w", path, domain.ErrNotFound)
		}
		return nil, "", fmt.Errorf("stat %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		units, err := r.pdf.Load(ctx, path)
		if err != nil {
			return nil, "", err
		}
		logger.Info("Loaded %d pages from PDF: %s", len(units), filepath.Base(path))
		return units, domain.FormatPDF, nil

	case ".csv":
		units, err := r.csv.Load(ctx, path)
		if err != nil {
			return nil, "", err
		}
		logger.Info("Loaded %d rows from CSV: %s", len(units), filepath.Base(path))
		return units, domain.FormatCSV, nil

	default:
		return nil, "", fmt.Errorf("file %s: %w", path, domain.ErrUnsupportedFormat)
	}
}
