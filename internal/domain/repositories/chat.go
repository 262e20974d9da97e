package repositories

import (
	"context"
	"time"

	"deepchat/internal/domain/models"
)

// ChatRepository defines the interface for chat data access.
// Every method except CreateChat filters on both chat ID and owner, so a
// chat owned by someone else is indistinguishable from a missing one.
type ChatRepository interface {
	// CreateChat inserts a new chat and sets its ID
	CreateChat(ctx context.Context, chat *models.Chat) error

	// GetChat retrieves a chat by ID (scoped to user)
	// Returns domain.ErrNotFound if not found
	GetChat(ctx context.Context, chatID, userID string) (*models.Chat, error)

	// ListChats retrieves all chats owned by the user, in no particular order
	// Returns empty slice if no chats found
	ListChats(ctx context.Context, userID string) ([]models.Chat, error)

	// RenameChat sets the chat's name
	// Returns domain.ErrNotFound if no chat matched
	RenameChat(ctx context.Context, chatID, userID, name string, updatedAt time.Time) error

	// DeleteChat removes the chat
	// Returns domain.ErrNotFound if no chat matched
	DeleteChat(ctx context.Context, chatID, userID string) error

	// AppendMessages atomically appends messages, in order, to the chat's
	// message list and returns the updated chat. Concurrent appends to the
	// same chat never overwrite each other.
	// Returns domain.ErrNotFound if no chat matched
	AppendMessages(ctx context.Context, chatID, userID string, messages []models.Message, updatedAt time.Time) (*models.Chat, error)
}
