package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepchat/internal/config"
	"deepchat/internal/repository/storage"
)

func TestSeedAndClear(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{StorageDriver: config.StorageMemory}
	cfg.Webhook.DedupeTTL = time.Hour

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, logger)
	require.NoError(t, err)

	require.NoError(t, seed(ctx, store, []string{"🌟", "🚀"}, "user_dev", "dev@example.com", "Dev", 3))

	u, err := store.Users.GetUser(ctx, "user_dev")
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", u.Email)

	chats, err := store.Chats.ListChats(ctx, "user_dev")
	require.NoError(t, err)
	require.Len(t, chats, 3)
	for _, c := range chats {
		assert.Len(t, c.Messages, 2*len(sampleTurns))
		assert.Contains(t, []string{"New Chat 🌟", "New Chat 🚀"}, c.Name)
	}

	n, err := clearChats(ctx, store, "user_dev")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	chats, err = store.Chats.ListChats(ctx, "user_dev")
	require.NoError(t, err)
	assert.Empty(t, chats)
}
