package splitter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

func proseUnits(texts ...string) []domain.RawUnit {
	units := make([]domain.RawUnit, len(texts))
	for i, text := range texts {
		units[i] = domain.RawUnit{Text: text, Source: "doc.pdf", Page: i + 1}
	}
	return units
}

func rowUnits(n int) []domain.RawUnit {
	units := make([]domain.RawUnit, n)
	for i := range units {
		units[i] = domain.RawUnit{Text: "row " + strings.Repeat("x", i), Source: "data.csv", Row: i}
	}
	return units
}

func TestSplit_ShortProseSingleChunk(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(10))

	chunks := s.Split(proseUnits("a short paragraph"), domain.FormatPDF)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short paragraph", chunks[0].Content)
	assert.Equal(t, 1, chunks[0].Page)
}

func TestSplit_ProseRespectsSizeTolerance(t *testing.T) {
	// Build paragraphs well under the chunk size so the coarse separator
	// suffices; every chunk must stay within chunkSize + overlap.
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString(strings.Repeat("word ", 8))
		b.WriteString("\n\n")
	}

	s := New(WithChunkSize(120), WithOverlap(20))
	chunks := s.Split(proseUnits(b.String()), domain.FormatPDF)

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Content), 120+20, "chunk exceeds size tolerance: %q", c.Content)
	}
}

func TestSplit_ProseOverlapCarriesContext(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta. ", 30)
	s := New(WithChunkSize(100), WithOverlap(20))

	chunks := s.Split(proseUnits(text), domain.FormatPDF)
	require.Greater(t, len(chunks), 1)

	// Each chunk after the first starts with the tail of its predecessor.
	for i := 1; i < len(chunks); i++ {
		prefix := chunks[i].Content[:10]
		assert.Contains(t, chunks[i-1].Content, prefix)
	}
}

func TestSplit_DescendsOnlyWhenNeeded(t *testing.T) {
	// A single line longer than the chunk size has no paragraph or line
	// boundary; the splitter must descend to sentence splitting.
	text := strings.Repeat("one sentence here. ", 20)
	s := New(WithChunkSize(80), WithOverlap(0))

	chunks := s.Split(proseUnits(text), domain.FormatPDF)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Content), 80)
	}
}

func TestSplit_HardCutWhenNoSeparator(t *testing.T) {
	text := strings.Repeat("x", 250)
	s := New(WithChunkSize(100), WithOverlap(0))

	chunks := s.Split(proseUnits(text), domain.FormatPDF)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0].Content, 100)
	assert.Len(t, chunks[1].Content, 100)
	assert.Len(t, chunks[2].Content, 50)
}

func TestSplit_CSVGrouping(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		groupSize int
		want      int
	}{
		{"even rows", 4, 2, 2},
		{"odd rows leaves smaller last group", 3, 2, 2},
		{"single row", 1, 2, 1},
		{"group of three", 7, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithGroupSize(tt.groupSize))
			chunks := s.Split(rowUnits(tt.rows), domain.FormatCSV)
			assert.Len(t, chunks, tt.want)
		})
	}
}

func TestSplit_CSVKeepsRowOrder(t *testing.T) {
	units := []domain.RawUnit{
		{Text: "first", Source: "d.csv", Row: 0},
		{Text: "second", Source: "d.csv", Row: 1},
		{Text: "third", Source: "d.csv", Row: 2},
	}
	s := New(WithGroupSize(2))

	chunks := s.Split(units, domain.FormatCSV)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first\n\nsecond", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Row)
	assert.Equal(t, "third", chunks[1].Content)
	assert.Equal(t, 2, chunks[1].Row)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, 1, chunks[1].Position)
}

func TestSplit_UnknownTagFallsBackToProse(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(0))

	chunks := s.Split(proseUnits("some text"), domain.FormatTag("docx"))
	require.Len(t, chunks, 1)
	assert.Equal(t, "some text", chunks[0].Content)
}

func TestSplit_MultibyteOverlapStaysValidUTF8(t *testing.T) {
	text := strings.Repeat("Hôm nay trời đẹp. Tài liệu này viết bằng tiếng Việt. ", 10)

	for overlap := 1; overlap <= 32; overlap++ {
		s := New(WithChunkSize(64), WithOverlap(overlap))
		chunks := s.Split(proseUnits(text), domain.FormatPDF)
		require.NotEmpty(t, chunks)
		for i, c := range chunks {
			assert.True(t, utf8.ValidString(c.Content),
				"overlap=%d chunk %d invalid UTF-8: %q", overlap, i, c.Content)
		}
	}
}

func TestSplit_MultibyteHardCutStaysValidUTF8(t *testing.T) {
	// No separator anywhere, forcing hard cuts through 3-byte runes.
	text := strings.Repeat("ệ", 200)
	s := New(WithChunkSize(100), WithOverlap(0))

	chunks := s.Split(proseUnits(text), domain.FormatPDF)
	require.Greater(t, len(chunks), 1)

	var rebuilt strings.Builder
	for i, c := range chunks {
		assert.True(t, utf8.ValidString(c.Content), "chunk %d invalid UTF-8: %q", i, c.Content)
		rebuilt.WriteString(c.Content)
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestNew_OverlapClampedToChunkSize(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(100))
	assert.Equal(t, 25, s.overlap)
}
