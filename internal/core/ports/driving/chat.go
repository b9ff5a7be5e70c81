package driving

import "context"

// ChatService conducts a grounded conversation over one session.
// Ask and Stream are safe to call before ingestion: they answer with a
// fixed "upload a document first" reply and never touch the LLM backend.
// Callers must serialise access per session.
type ChatService interface {
	// Ask answers a question, blocking until the full answer is ready.
	// Both sides of the exchange are appended to the transcript and
	// persisted; backend failures surface as a fixed apology string.
	Ask(ctx context.Context, question string) string

	// Stream answers a question as a lazy sequence of text fragments.
	// The accumulated response is appended to the transcript and
	// persisted once the stream ends; a mid-stream failure yields one
	// fallback fragment and still persists the partial response.
	Stream(ctx context.Context, question string) <-chan string

	// ClearHistory empties the in-memory transcript. Persisted history
	// is untouched until the next explicit save.
	ClearHistory()
}
