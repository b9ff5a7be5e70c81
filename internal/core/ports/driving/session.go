package driving

import (
	"context"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

// SessionService manages document-grounded conversation sessions and the
// idempotent ingestion of their documents.
type SessionService interface {
	// GetOrCreate loads the session with the given ID, or creates a new
	// session directory tree and metadata record when sessionID is
	// empty or unknown.
	GetOrCreate(userID, sessionID string) (*domain.Session, error)

	// Ingest copies the upload into the session, builds the index and
	// retriever, and marks the session ready. It never returns an error
	// to the caller: internal failures are logged and reported as
	// false.
	Ingest(ctx context.Context, session *domain.Session, filePath string) bool

	// Restore rebuilds a session's retriever from persisted state after
	// a process restart. Reports false if no document was uploaded, the
	// uploads directory does not contain exactly one file, or the
	// vector store is empty.
	Restore(ctx context.Context, session *domain.Session) bool

	// Retriever returns the retriever attached to a session, or nil.
	Retriever(session *domain.Session) Retriever

	// SaveTranscript persists the session transcript.
	SaveTranscript(session *domain.Session) error

	// SummarizeTitle derives a short session title from the first
	// question and persists it.
	SummarizeTitle(session *domain.Session, firstQuestion string)

	// Delete removes all on-disk and in-memory state of a session.
	// Deleting an absent session is not an error; it reports false.
	Delete(session *domain.Session) bool

	// ListSessions enumerates session metadata for a user, newest
	// first.
	ListSessions(userID string) []domain.SessionMetadata
}
