package domain

// FormatTag identifies the format of a loaded file.
type FormatTag string

const (
	// FormatPDF marks paginated document content.
	FormatPDF FormatTag = "pdf"

	// FormatCSV marks tabular row content.
	FormatCSV FormatTag = "csv"
)

// RawUnit is one unit of raw text produced by a document loader:
// a single page for PDFs, a single data row for CSVs.
// RawUnits are immutable once produced.
type RawUnit struct {
	// Text is the extracted text content of the unit.
	Text string

	// Source is the base name of the file the unit came from.
	Source string

	// Page is the 1-based page number for paginated formats.
	Page int

	// Row is the 0-based data row index for tabular formats.
	Row int
}

// Chunk is the atomic retrieval item: a bounded span of one RawUnit or a
// grouping of several consecutive RawUnits.
// Chunks are immutable once produced.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Content is the text content of this chunk.
	Content string

	// Source is the base name of the originating file.
	Source string

	// Position is the ordinal position within the chunk sequence.
	Position int

	// Page is the page number of the first contributing unit (PDF).
	Page int

	// Row is the row index of the first contributing unit (CSV).
	Row int
}

// ScoredChunk pairs a chunk with a relevance score. Score semantics depend
// on the stage that produced it (cosine similarity, BM25, fused rank or
// reranker score); the sequence is always ordered highest relevance first.
type ScoredChunk struct {
	Chunk Chunk

	Score float64
}
