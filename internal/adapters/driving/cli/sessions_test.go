package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsList_EmptyState(t *testing.T) {
	withTestConfig(t)

	out, err := execute(t, "sessions", "list")
	assert.NoError(t, err)
	assert.Contains(t, out, "No sessions.")
}

func TestSessionsDelete_UnknownSession(t *testing.T) {
	withTestConfig(t)

	_, err := execute(t, "sessions", "delete", "no-such-session")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSessionsList_ShowsCreatedSession(t *testing.T) {
	withTestConfig(t)

	require.NoError(t, ensureServices())
	session, err := sessionService.GetOrCreate("default", "")
	require.NoError(t, err)

	out, execErr := execute(t, "sessions", "list")
	assert.NoError(t, execErr)
	assert.Contains(t, out, session.ID)
	assert.Contains(t, out, "no document")
}
