package domain

// TimeFormat is the timestamp layout used in session metadata.
const TimeFormat = "2006-01-02 15:04:05"

// SessionMetadata is the persisted metadata record of a session. It is the
// single source of truth for whether a session has been initialised with a
// document.
type SessionMetadata struct {
	SessionID    string `json:"session_id"`
	UserID       string `json:"user_id"`
	Title        string `json:"title"`
	CreatedAt    string `json:"created_at"`
	FileUploaded bool   `json:"file_uploaded"`
	FileName     string `json:"file_name,omitempty"`
}

// Session is one user's document-grounded conversation. A session
// exclusively owns its index, retriever and transcript; no mutable state is
// shared across sessions.
type Session struct {
	ID     string
	UserID string

	// Metadata mirrors the persisted metadata.json record.
	Metadata SessionMetadata

	// Chunks is the chunk set of the ingested document, re-derived on
	// restore (only the index is persisted).
	Chunks []Chunk

	// Transcript is the conversation history, the sole owner of turns.
	Transcript *Transcript
}

// Ready reports whether the session has a successfully ingested document.
func (s *Session) Ready() bool {
	return s != nil && s.Metadata.FileUploaded
}
