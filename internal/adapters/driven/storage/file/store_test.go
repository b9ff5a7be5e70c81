package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/core/domain"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir())
}

func TestEnsureLayout_CreatesTree(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.EnsureLayout("u1", "s1"))

	assert.True(t, s.Exists("u1", "s1"))
	assert.DirExists(t, s.VectorDir("u1", "s1"))
	assert.DirExists(t, filepath.Join(s.sessionDir("u1", "s1"), uploadsDirName))
}

func TestMetadata_RoundTrip(t *testing.T) {
	s := newStore(t)
	meta := domain.SessionMetadata{
		SessionID:    "s1",
		UserID:       "u1",
		Title:        "tax report questions",
		CreatedAt:    "2026-08-28 10:30:00",
		FileUploaded: true,
		FileName:     "report.pdf",
	}

	require.NoError(t, s.SaveMetadata(meta))

	got, err := s.LoadMetadata("u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, meta, got)
}

func TestLoadMetadata_Missing(t *testing.T) {
	s := newStore(t)

	_, err := s.LoadMetadata("u1", "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMetadata_SkipsCorruptRecords(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SaveMetadata(domain.SessionMetadata{
		SessionID: "good", UserID: "u1", CreatedAt: "2026-08-28 09:00:00",
	}))

	require.NoError(t, s.EnsureLayout("u1", "bad"))
	corrupt := filepath.Join(s.sessionDir("u1", "bad"), metadataFileName)
	require.NoError(t, os.WriteFile(corrupt, []byte("{broken"), 0600))

	metas := s.ListMetadata("u1")
	require.Len(t, metas, 1)
	assert.Equal(t, "good", metas[0].SessionID)
}

func TestListMetadata_SortedByCreation(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SaveMetadata(domain.SessionMetadata{
		SessionID: "later", UserID: "u1", CreatedAt: "2026-08-28 12:00:00",
	}))
	require.NoError(t, s.SaveMetadata(domain.SessionMetadata{
		SessionID: "earlier", UserID: "u1", CreatedAt: "2026-08-28 08:00:00",
	}))

	metas := s.ListMetadata("u1")
	require.Len(t, metas, 2)
	assert.Equal(t, "earlier", metas[0].SessionID)
	assert.Equal(t, "later", metas[1].SessionID)
}

func TestCopyUpload_CopiesIntoSession(t *testing.T) {
	s := newStore(t)
	src := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF content"), 0600))

	dst, err := s.CopyUpload("u1", "s1", src)
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF content", string(data))

	uploads, err := s.Uploads("u1", "s1")
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, dst, uploads[0])
}

func TestCopyUpload_MissingSource(t *testing.T) {
	s := newStore(t)

	_, err := s.CopyUpload("u1", "s1", filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUploads_EmptyWhenNoLayout(t *testing.T) {
	s := newStore(t)

	uploads, err := s.Uploads("u1", "never-created")
	require.NoError(t, err)
	assert.Empty(t, uploads)
}

func TestVectorStoreEmpty(t *testing.T) {
	s := newStore(t)
	assert.True(t, s.VectorStoreEmpty("u1", "s1"))

	require.NoError(t, s.EnsureLayout("u1", "s1"))
	assert.True(t, s.VectorStoreEmpty("u1", "s1"))

	artifact := filepath.Join(s.VectorDir("u1", "s1"), "index.db")
	require.NoError(t, os.WriteFile(artifact, []byte("db"), 0600))
	assert.False(t, s.VectorStoreEmpty("u1", "s1"))
}

func TestTranscript_RoundTrip(t *testing.T) {
	s := newStore(t)

	tr := domain.NewTranscript()
	tr.AddHuman("what is in the report?")
	tr.AddAI("it covers quarterly revenue")

	require.NoError(t, s.SaveTranscript("u1", "s1", tr))

	got, err := s.LoadTranscript("u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, tr.Turns(), got.Turns())
}

func TestLoadTranscript_MissingYieldsEmpty(t *testing.T) {
	s := newStore(t)

	got, err := s.LoadTranscript("u1", "s1")
	require.NoError(t, err)
	assert.Zero(t, got.Len())
}

func TestSaveTranscript_EmptyWritesArray(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SaveTranscript("u1", "s1", domain.NewTranscript()))

	data, err := os.ReadFile(filepath.Join(s.sessionDir("u1", "s1"), transcriptFileName))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.EnsureLayout("u1", "s1"))

	assert.True(t, s.Delete("u1", "s1"))
	assert.False(t, s.Exists("u1", "s1"))
	assert.False(t, s.Delete("u1", "s1"), "second delete reports false")
}
