// Package pdf extracts paginated text from PDF files.
package pdf

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Loader extracts text from PDFs via pdftotext. Pages arrive separated by
// form feed characters; each page becomes one RawUnit.
type Loader struct {
	runner driven.CommandRunner
}

// New creates a PDF loader using the system pdftotext binary.
func New() *Loader {
	return &Loader{runner: execRunner{}}
}

// NewWithRunner creates a PDF loader with a custom command runner.
func NewWithRunner(runner driven.CommandRunner) *Loader {
	return &Loader{runner: runner}
}

// Load extracts one RawUnit per page, preserving page order.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawUnit, error) {
	out, err := l.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext %s: %w", path, err)
	}

	source := filepath.Base(path)
	pages := strings.Split(string(out), "\f")

	// pdftotext emits a trailing form feed after the last page
	if n := len(pages); n > 0 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}

	units := make([]domain.RawUnit, 0, len(pages))
	for i, page := range pages {
		units = append(units, domain.RawUnit{
			Text:   strings.TrimRight(page, "\n"),
			Source: source,
			Page:   i + 1,
		})
	}

	return units, nil
}
