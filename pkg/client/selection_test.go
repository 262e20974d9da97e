package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSelectionStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	store := NewFileSelectionStore(path)

	id, err := store.LoadSelection()
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, store.SaveSelection("chat-1"))
	require.NoError(t, store.SaveSelection("chat-2"))

	id, err = store.LoadSelection()
	require.NoError(t, err)
	assert.Equal(t, "chat-2", id)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "selectedChatId: chat-2\n", string(raw))
}

func TestFileSelectionStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selectedChatId: [unterminated"), 0o600))

	_, err := NewFileSelectionStore(path).LoadSelection()
	assert.Error(t, err)
}
