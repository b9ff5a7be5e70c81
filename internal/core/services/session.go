package services

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driving"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// Ensure SessionManager implements the interface.
var _ driving.SessionService = (*SessionManager)(nil)

// DefaultTitle is the title of a session before its first question.
const DefaultTitle = "New Chat"

// titleWords is how many words of the first question become the title.
const titleWords = 5

// SessionManager owns session lifecycle: creation, ingestion, restore
// after restart, deletion and listing. Each session exclusively owns its
// retriever; the manager only maps session IDs to them.
type SessionManager struct {
	store         driven.SessionStore
	pipeline      *IngestionPipeline
	indexStore    driven.IndexStore
	embedder      driven.EmbeddingService
	scorerFactory driven.LexicalScorerFactory
	reranker      driven.RerankService
	retrievalCfg  domain.RetrievalConfig

	mu         sync.Mutex
	retrievers map[string]driving.Retriever
}

// NewSessionManager creates a session manager. reranker may be nil.
func NewSessionManager(
	store driven.SessionStore,
	pipeline *IngestionPipeline,
	indexStore driven.IndexStore,
	embedder driven.EmbeddingService,
	scorerFactory driven.LexicalScorerFactory,
	reranker driven.RerankService,
	retrievalCfg domain.RetrievalConfig,
) *SessionManager {
	return &SessionManager{
		store:         store,
		pipeline:      pipeline,
		indexStore:    indexStore,
		embedder:      embedder,
		scorerFactory: scorerFactory,
		reranker:      reranker,
		retrievalCfg:  retrievalCfg.Normalise(),
		retrievers:    make(map[string]driving.Retriever),
	}
}

// GetOrCreate loads an existing session or creates a fresh one. The
// transcript is loaded alongside the metadata so conversation history
// survives restarts.
func (m *SessionManager) GetOrCreate(userID, sessionID string) (*domain.Session, error) {
	if sessionID != "" {
		meta, err := m.store.LoadMetadata(userID, sessionID)
		if err == nil {
			transcript, err := m.store.LoadTranscript(userID, sessionID)
			if err != nil {
				logger.Warn("Loading transcript for session %s: %v", sessionID, err)
				transcript = domain.NewTranscript()
			}
			return &domain.Session{
				ID:         sessionID,
				UserID:     userID,
				Metadata:   meta,
				Transcript: transcript,
			}, nil
		}
		logger.Debug("Session %s not found, creating it", sessionID)
	} else {
		sessionID = uuid.New().String()
	}

	meta := domain.SessionMetadata{
		SessionID:    sessionID,
		UserID:       userID,
		Title:        DefaultTitle,
		CreatedAt:    time.Now().Format(domain.TimeFormat),
		FileUploaded: false,
	}

	if err := m.store.EnsureLayout(userID, sessionID); err != nil {
		return nil, err
	}
	if err := m.store.SaveMetadata(meta); err != nil {
		return nil, err
	}

	return &domain.Session{
		ID:         sessionID,
		UserID:     userID,
		Metadata:   meta,
		Transcript: domain.NewTranscript(),
	}, nil
}

// Ingest copies the file into the session, runs the pipeline and attaches
// a retriever. Failures are logged and reported as false, never as an
// error; the session stays in its previous state.
func (m *SessionManager) Ingest(ctx context.Context, session *domain.Session, filePath string) bool {
	uploaded, err := m.store.CopyUpload(session.UserID, session.ID, filePath)
	if err != nil {
		logger.Error("Copying upload: %v", err)
		return false
	}

	vectorDir := m.store.VectorDir(session.UserID, session.ID)
	_, chunks, index, err := m.pipeline.Process(ctx, uploaded, vectorDir)
	if err != nil {
		logger.Error("Ingestion failed: %v", err)
		return false
	}

	session.Chunks = chunks
	m.attach(session.ID, index)

	session.Metadata.FileUploaded = true
	session.Metadata.FileName = filepath.Base(filePath)
	if err := m.store.SaveMetadata(session.Metadata); err != nil {
		logger.Error("Saving metadata after ingest: %v", err)
		session.Metadata.FileUploaded = false
		session.Metadata.FileName = ""
		session.Chunks = nil
		m.detach(session.ID)
		return false
	}

	logger.Info("Session %s ready with %d chunks", session.ID, len(chunks))
	return true
}

// Restore rebuilds a session's retriever from persisted state. It refuses
// unless a document was uploaded, the uploads directory holds exactly one
// file and the vector store has artifacts.
func (m *SessionManager) Restore(ctx context.Context, session *domain.Session) bool {
	if err := ctx.Err(); err != nil {
		return false
	}
	if !session.Metadata.FileUploaded {
		logger.Debug("Session %s has no uploaded document", session.ID)
		return false
	}

	uploads, err := m.store.Uploads(session.UserID, session.ID)
	if err != nil || len(uploads) != 1 {
		logger.Warn("Session %s uploads directory does not hold exactly one file", session.ID)
		return false
	}
	if m.store.VectorStoreEmpty(session.UserID, session.ID) {
		logger.Warn("Session %s vector store is empty", session.ID)
		return false
	}

	index, err := m.indexStore.Load(m.store.VectorDir(session.UserID, session.ID))
	if err != nil {
		logger.Error("Loading index for session %s: %v", session.ID, err)
		return false
	}

	session.Chunks = index.Chunks()
	m.attach(session.ID, index)

	transcript, err := m.store.LoadTranscript(session.UserID, session.ID)
	if err != nil {
		logger.Warn("Loading transcript for session %s: %v", session.ID, err)
		transcript = domain.NewTranscript()
	}
	session.Transcript = transcript

	logger.Info("Session %s restored with %d chunks, %d turns", session.ID, len(session.Chunks), transcript.Len())
	return true
}

// attach builds and registers the retriever for a session's index.
func (m *SessionManager) attach(sessionID string, index driven.VectorIndex) {
	retriever := NewHybridRetriever(index, m.embedder, m.scorerFactory, m.reranker, m.retrievalCfg)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.retrievers[sessionID] = retriever
}

// detach drops a session's retriever, if any.
func (m *SessionManager) detach(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.retrievers, sessionID)
}

// Retriever returns the retriever attached to a session, or nil.
func (m *SessionManager) Retriever(session *domain.Session) driving.Retriever {
	if session == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retrievers[session.ID]
}

// SaveTranscript persists the session transcript.
func (m *SessionManager) SaveTranscript(session *domain.Session) error {
	return m.store.SaveTranscript(session.UserID, session.ID, session.Transcript)
}

// SummarizeTitle derives the session title from the first question: its
// first five words. Applied once; later questions never retitle.
func (m *SessionManager) SummarizeTitle(session *domain.Session, firstQuestion string) {
	if session.Metadata.Title != DefaultTitle {
		return
	}

	words := strings.Fields(firstQuestion)
	if len(words) == 0 {
		return
	}
	if len(words) > titleWords {
		words = words[:titleWords]
	}

	session.Metadata.Title = strings.Join(words, " ")
	if err := m.store.SaveMetadata(session.Metadata); err != nil {
		logger.Warn("Saving title: %v", err)
	}
}

// Delete removes all on-disk and in-memory state of a session.
func (m *SessionManager) Delete(session *domain.Session) bool {
	if session == nil {
		return false
	}

	m.mu.Lock()
	delete(m.retrievers, session.ID)
	m.mu.Unlock()

	return m.store.Delete(session.UserID, session.ID)
}

// ListSessions enumerates session metadata for a user, newest first.
// Records missing a title or creation time get defaults.
func (m *SessionManager) ListSessions(userID string) []domain.SessionMetadata {
	metas := m.store.ListMetadata(userID)

	for i := range metas {
		if metas[i].Title == "" {
			metas[i].Title = DefaultTitle
		}
		if metas[i].CreatedAt == "" {
			metas[i].CreatedAt = "unknown"
		}
	}

	// Store order is oldest first; callers want the latest on top.
	for i, j := 0, len(metas)-1; i < j; i, j = i+1, j-1 {
		metas[i], metas[j] = metas[j], metas[i]
	}
	return metas
}
