package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"deepchat/internal/domain"
	"deepchat/internal/domain/models"
	"deepchat/internal/domain/repositories"
)

type chatRepository struct {
	store *Store
}

// NewChatRepository creates a chat repository backed by store
func NewChatRepository(store *Store) repositories.ChatRepository {
	return &chatRepository{store: store}
}

func (r *chatRepository) CreateChat(ctx context.Context, chat *models.Chat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}
	r.store.chats[chat.ID] = cloneChat(chat)
	return nil
}

// lookup returns the stored chat if it exists and is owned by userID.
// Caller must hold the lock.
func (r *chatRepository) lookup(chatID, userID string) (*models.Chat, error) {
	c, ok := r.store.chats[chatID]
	if !ok || c.UserID != userID {
		return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	return c, nil
}

func (r *chatRepository) GetChat(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, err := r.lookup(chatID, userID)
	if err != nil {
		return nil, err
	}
	return cloneChat(c), nil
}

func (r *chatRepository) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	chats := []models.Chat{}
	for _, c := range r.store.chats {
		if c.UserID == userID {
			chats = append(chats, *cloneChat(c))
		}
	}
	return chats, nil
}

func (r *chatRepository) RenameChat(ctx context.Context, chatID, userID, name string, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, err := r.lookup(chatID, userID)
	if err != nil {
		return err
	}
	c.Name = name
	c.UpdatedAt = updatedAt
	return nil
}

func (r *chatRepository) DeleteChat(ctx context.Context, chatID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, err := r.lookup(chatID, userID); err != nil {
		return err
	}
	delete(r.store.chats, chatID)
	return nil
}

func (r *chatRepository) AppendMessages(ctx context.Context, chatID, userID string, messages []models.Message, updatedAt time.Time) (*models.Chat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, err := r.lookup(chatID, userID)
	if err != nil {
		return nil, err
	}
	c.Messages = append(c.Messages, messages...)
	c.UpdatedAt = updatedAt
	return cloneChat(c), nil
}
