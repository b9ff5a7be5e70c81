// Package csv loads tabular files row by row.
package csv

import (
	"context"
	enccsv "encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// Loader reads comma-separated UTF-8 files with `"` quoting. Each data row
// becomes one RawUnit whose text folds the header into `column: value`
// lines, so a row stays meaningful in isolation.
type Loader struct{}

// New creates a CSV loader.
func New() *Loader {
	return &Loader{}
}

// Load extracts one RawUnit per data row, preserving row order.
func (l *Loader) Load(_ context.Context, path string) ([]domain.RawUnit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := enccsv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	source := filepath.Base(path)

	units := make([]domain.RawUnit, 0, len(records)-1)
	for i, record := range records[1:] {
		units = append(units, domain.RawUnit{
			Text:   renderRow(header, record),
			Source: source,
			Row:    i,
		})
	}

	return units, nil
}

// renderRow formats a record as `column: value` lines.
func renderRow(header, record []string) string {
	var b strings.Builder
	for i, value := range record {
		if i > 0 {
			b.WriteString("\n")
		}
		if i < len(header) {
			b.WriteString(header[i])
		} else {
			b.WriteString(fmt.Sprintf("column_%d", i))
		}
		b.WriteString(": ")
		b.WriteString(value)
	}
	return b.String()
}
