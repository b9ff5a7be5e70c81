// Package file implements session persistence on the local filesystem.
//
// Layout:
//
//	<base>/user_<id>/session_<id>/
//	    uploads/            copied source documents
//	    vector_store/       persisted index artifacts
//	    metadata.json       session metadata record
//	    chat_history.json   conversation turns
package file

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
	"github.com/docchat-labs/docchat-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.SessionStore = (*Store)(nil)

// File and directory names inside a session.
const (
	uploadsDirName     = "uploads"
	vectorDirName      = "vector_store"
	metadataFileName   = "metadata.json"
	transcriptFileName = "chat_history.json"
)

// Store persists sessions under a base directory.
type Store struct {
	base string
}

// New creates a session store rooted at base.
func New(base string) *Store {
	return &Store{base: base}
}

// sessionDir derives the directory of one session.
func (s *Store) sessionDir(userID, sessionID string) string {
	return filepath.Join(s.base, "user_"+userID, "session_"+sessionID)
}

// EnsureLayout creates the session directory tree if absent.
func (s *Store) EnsureLayout(userID, sessionID string) error {
	dir := s.sessionDir(userID, sessionID)
	for _, sub := range []string{uploadsDirName, vectorDirName} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0700); err != nil {
			return fmt.Errorf("%w: creating session layout: %v", domain.ErrPersistence, err)
		}
	}
	return nil
}

// VectorDir returns the vector store directory of a session.
func (s *Store) VectorDir(userID, sessionID string) string {
	return filepath.Join(s.sessionDir(userID, sessionID), vectorDirName)
}

// SaveMetadata writes the metadata record of a session.
func (s *Store) SaveMetadata(meta domain.SessionMetadata) error {
	if err := s.EnsureLayout(meta.UserID, meta.SessionID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshalling metadata: %v", domain.ErrPersistence, err)
	}

	path := filepath.Join(s.sessionDir(meta.UserID, meta.SessionID), metadataFileName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("%w: writing metadata: %v", domain.ErrPersistence, err)
	}
	return nil
}

// LoadMetadata reads the metadata record of a session.
func (s *Store) LoadMetadata(userID, sessionID string) (domain.SessionMetadata, error) {
	path := filepath.Join(s.sessionDir(userID, sessionID), metadataFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.SessionMetadata{}, fmt.Errorf("%w: metadata for session %s", domain.ErrNotFound, sessionID)
		}
		return domain.SessionMetadata{}, fmt.Errorf("%w: reading metadata: %v", domain.ErrPersistence, err)
	}

	var meta domain.SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return domain.SessionMetadata{}, fmt.Errorf("%w: parsing metadata: %v", domain.ErrPersistence, err)
	}
	return meta, nil
}

// ListMetadata enumerates the metadata of every session under a user's
// root, sorted by creation time then session ID. Corrupt records are
// skipped with a warning.
func (s *Store) ListMetadata(userID string) []domain.SessionMetadata {
	userDir := filepath.Join(s.base, "user_"+userID)

	entries, err := os.ReadDir(userDir)
	if err != nil {
		return nil
	}

	var metas []domain.SessionMetadata
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "session_") {
			continue
		}
		sessionID := strings.TrimPrefix(entry.Name(), "session_")

		meta, err := s.LoadMetadata(userID, sessionID)
		if err != nil {
			logger.Warn("Skipping session %s: %v", sessionID, err)
			continue
		}
		metas = append(metas, meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		if metas[i].CreatedAt != metas[j].CreatedAt {
			return metas[i].CreatedAt < metas[j].CreatedAt
		}
		return metas[i].SessionID < metas[j].SessionID
	})
	return metas
}

// CopyUpload copies a file into the session's uploads directory.
func (s *Store) CopyUpload(userID, sessionID, srcPath string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, srcPath)
		}
		return "", fmt.Errorf("%w: opening upload: %v", domain.ErrPersistence, err)
	}
	defer src.Close()

	if err := s.EnsureLayout(userID, sessionID); err != nil {
		return "", err
	}

	dstPath := filepath.Join(s.sessionDir(userID, sessionID), uploadsDirName, filepath.Base(srcPath))
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("%w: creating upload copy: %v", domain.ErrPersistence, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("%w: copying upload: %v", domain.ErrPersistence, err)
	}
	return dstPath, nil
}

// Uploads lists the files currently in the uploads directory, sorted by
// name.
func (s *Store) Uploads(userID, sessionID string) ([]string, error) {
	dir := filepath.Join(s.sessionDir(userID, sessionID), uploadsDirName)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading uploads: %v", domain.ErrPersistence, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// VectorStoreEmpty reports whether the vector store directory is missing
// or holds no artifacts.
func (s *Store) VectorStoreEmpty(userID, sessionID string) bool {
	entries, err := os.ReadDir(s.VectorDir(userID, sessionID))
	if err != nil {
		return true
	}
	return len(entries) == 0
}

// SaveTranscript persists the transcript as chat_history.json.
func (s *Store) SaveTranscript(userID, sessionID string, t *domain.Transcript) error {
	if err := s.EnsureLayout(userID, sessionID); err != nil {
		return err
	}

	turns := t.Turns()
	if turns == nil {
		turns = []domain.Turn{}
	}

	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshalling transcript: %v", domain.ErrPersistence, err)
	}

	path := filepath.Join(s.sessionDir(userID, sessionID), transcriptFileName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("%w: writing transcript: %v", domain.ErrPersistence, err)
	}
	return nil
}

// LoadTranscript reads chat_history.json. Missing file yields an empty
// transcript.
func (s *Store) LoadTranscript(userID, sessionID string) (*domain.Transcript, error) {
	path := filepath.Join(s.sessionDir(userID, sessionID), transcriptFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewTranscript(), nil
		}
		return nil, fmt.Errorf("%w: reading transcript: %v", domain.ErrPersistence, err)
	}

	var turns []domain.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("%w: parsing transcript: %v", domain.ErrPersistence, err)
	}
	return domain.TranscriptFromTurns(turns), nil
}

// Delete removes the entire session subtree.
func (s *Store) Delete(userID, sessionID string) bool {
	dir := s.sessionDir(userID, sessionID)
	if _, err := os.Stat(dir); err != nil {
		return false
	}
	if err := os.RemoveAll(dir); err != nil {
		logger.Warn("Deleting session %s: %v", sessionID, err)
		return false
	}
	return true
}

// Exists reports whether the session directory exists.
func (s *Store) Exists(userID, sessionID string) bool {
	info, err := os.Stat(s.sessionDir(userID, sessionID))
	return err == nil && info.IsDir()
}
