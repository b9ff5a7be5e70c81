package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested file or session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedFormat indicates a file extension the loaders cannot
	// handle. Only PDF and CSV are accepted.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbedding indicates the embedding backend failed while building
	// or querying an index. The underlying cause is always wrapped.
	ErrEmbedding = errors.New("embedding failed")

	// ErrPersistence indicates an index could not be saved or loaded.
	ErrPersistence = errors.New("index persistence failed")

	// ErrNoDocument indicates a conversation was queried before any
	// document was ingested into its session.
	ErrNoDocument = errors.New("no document ingested")
)
