// Package memory provides process-local repositories for development and tests.
// Data is lost on restart.
package memory

import (
	"context"
	"sync"

	"deepchat/internal/domain/models"
)

// Store holds all in-memory collections behind a single lock
type Store struct {
	mu    sync.RWMutex
	chats map[string]*models.Chat
	users map[string]*models.User
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		chats: make(map[string]*models.Chat),
		users: make(map[string]*models.User),
	}
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// cloneChat deep-copies a chat so callers never share the stored slice
func cloneChat(c *models.Chat) *models.Chat {
	out := *c
	out.Messages = make([]models.Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return &out
}
