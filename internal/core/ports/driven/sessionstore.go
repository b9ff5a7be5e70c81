package driven

import "github.com/docchat-labs/docchat-cli/internal/core/domain"

// SessionStore owns the on-disk layout of conversations:
//
//	<base>/user_<id>/session_<id>/{uploads/, vector_store/,
//	                               metadata.json, chat_history.json}
//
// Every path it derives is a pure function of (base, user, session).
type SessionStore interface {
	// EnsureLayout creates the session directory tree if absent.
	EnsureLayout(userID, sessionID string) error

	// VectorDir returns the vector store directory of a session.
	VectorDir(userID, sessionID string) string

	// SaveMetadata writes the metadata record of a session.
	SaveMetadata(meta domain.SessionMetadata) error

	// LoadMetadata reads the metadata record of a session.
	// Returns domain.ErrNotFound if no record exists.
	LoadMetadata(userID, sessionID string) (domain.SessionMetadata, error)

	// ListMetadata enumerates the metadata of every session under a
	// user's root. Corrupt records are skipped with a logged warning.
	ListMetadata(userID string) []domain.SessionMetadata

	// CopyUpload copies a file into the session's uploads directory and
	// returns the destination path.
	CopyUpload(userID, sessionID, srcPath string) (string, error)

	// Uploads lists the files currently in the uploads directory.
	Uploads(userID, sessionID string) ([]string, error)

	// VectorStoreEmpty reports whether the vector store directory is
	// missing or contains no artifacts.
	VectorStoreEmpty(userID, sessionID string) bool

	// SaveTranscript persists the transcript as chat_history.json.
	SaveTranscript(userID, sessionID string, t *domain.Transcript) error

	// LoadTranscript reads chat_history.json. A missing file yields an
	// empty transcript, not an error.
	LoadTranscript(userID, sessionID string) (*domain.Transcript, error)

	// Delete removes the entire session subtree. Reports false when the
	// session directory does not exist.
	Delete(userID, sessionID string) bool

	// Exists reports whether the session directory exists.
	Exists(userID, sessionID string) bool
}
