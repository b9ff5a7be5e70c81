// Package splitter turns raw document units into bounded, overlapping
// chunks. Prose content is split by recursive separator descent; tabular
// content is grouped row-wise to keep structurally related rows together.
package splitter

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// Ensure Splitter implements the interface.
var _ driven.ChunkSplitter = (*Splitter)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultGroupSize is the default number of CSV rows per chunk.
const DefaultGroupSize = 2

// separators, coarsest first. Only descend to a finer separator when a
// piece still exceeds the chunk size; the empty separator is a hard cut.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter chunks raw units with a format-aware strategy.
type Splitter struct {
	chunkSize int
	overlap   int
	groupSize int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent prose chunks.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithGroupSize sets the number of consecutive CSV rows per chunk.
func WithGroupSize(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.groupSize = n
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		groupSize: DefaultGroupSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split chunks the units. Output ordering matches input ordering.
func (s *Splitter) Split(units []domain.RawUnit, tag domain.FormatTag) []domain.Chunk {
	switch tag {
	case domain.FormatCSV:
		return s.groupRows(units)
	case domain.FormatPDF:
		return s.splitProse(units)
	default:
		logger.Warn("Unknown format tag %q, falling back to prose splitting", tag)
		return s.splitProse(units)
	}
}

// groupRows concatenates every groupSize consecutive rows into one chunk.
// Deliberately not size-bounded: keeping related rows together wins over
// strict chunk-size adherence.
func (s *Splitter) groupRows(units []domain.RawUnit) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, (len(units)+s.groupSize-1)/s.groupSize)

	for start := 0; start < len(units); start += s.groupSize {
		end := start + s.groupSize
		if end > len(units) {
			end = len(units)
		}

		texts := make([]string, 0, end-start)
		for _, u := range units[start:end] {
			texts = append(texts, u.Text)
		}

		chunks = append(chunks, domain.Chunk{
			ID:       uuid.New().String(),
			Content:  strings.Join(texts, "\n\n"),
			Source:   units[start].Source,
			Position: len(chunks),
			Row:      units[start].Row,
		})
	}

	return chunks
}

// splitProse splits each unit recursively and applies overlap between
// adjacent chunks of the same unit.
func (s *Splitter) splitProse(units []domain.RawUnit) []domain.Chunk {
	var chunks []domain.Chunk

	for _, unit := range units {
		pieces := s.split(unit.Text, separators)
		pieces = s.applyOverlap(pieces)

		for _, piece := range pieces {
			if strings.TrimSpace(piece) == "" {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				ID:       uuid.New().String(),
				Content:  piece,
				Source:   unit.Source,
				Position: len(chunks),
				Page:     unit.Page,
			})
		}
	}

	return chunks
}

// split breaks text into pieces of at most chunkSize characters, using the
// coarsest separator that suffices. A piece may exceed the target only
// when no separator boundary permits a smaller split.
func (s *Splitter) split(text string, seps []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	if len(seps) == 0 || seps[0] == "" {
		return s.hardSplit(text)
	}

	sep, rest := seps[0], seps[1:]
	parts := strings.SplitAfter(text, sep)
	if len(parts) == 1 {
		// Separator absent, descend to the next finer one
		return s.split(text, rest)
	}

	return s.pack(parts, rest)
}

// pack greedily merges parts into pieces near chunkSize, recursing into
// any single part that is itself oversized.
func (s *Splitter) pack(parts, rest []string) []string {
	var pieces []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			pieces = append(pieces, cur.String())
			cur.Reset()
		}
	}

	for _, part := range parts {
		if len(part) > s.chunkSize {
			flush()
			pieces = append(pieces, s.split(part, rest)...)
			continue
		}
		if cur.Len()+len(part) > s.chunkSize {
			flush()
		}
		cur.WriteString(part)
	}
	flush()

	return pieces
}

// hardSplit cuts when no separator helps. Cuts land on rune boundaries so
// multibyte text never yields invalid UTF-8.
func (s *Splitter) hardSplit(text string) []string {
	var pieces []string
	for start := 0; start < len(text); {
		end := start + s.chunkSize
		if end >= len(text) {
			pieces = append(pieces, text[start:])
			break
		}
		for end > start && !utf8.RuneStart(text[end]) {
			end--
		}
		if end == start {
			// Chunk size smaller than one rune: take the whole rune.
			_, n := utf8.DecodeRuneInString(text[start:])
			end = start + n
		}
		pieces = append(pieces, text[start:end])
		start = end
	}
	return pieces
}

// applyOverlap prefixes each piece after the first with the tail of its
// predecessor, preserving context across split boundaries.
func (s *Splitter) applyOverlap(pieces []string) []string {
	if s.overlap == 0 || len(pieces) < 2 {
		return pieces
	}

	out := make([]string, len(pieces))
	out[0] = pieces[0]
	for i := 1; i < len(pieces); i++ {
		prev := pieces[i-1]
		tail := prev
		if len(prev) > s.overlap {
			cut := len(prev) - s.overlap
			// Never start the tail mid-rune.
			for cut < len(prev) && !utf8.RuneStart(prev[cut]) {
				cut++
			}
			tail = prev[cut:]
		}
		out[i] = tail + pieces[i]
	}
	return out
}
