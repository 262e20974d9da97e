package services

import (
	"context"

	"deepchat/internal/domain/models"
)

// ChatService defines chat directory operations, all scoped to the caller
type ChatService interface {
	// CreateChat creates an empty chat with a decorative name
	CreateChat(ctx context.Context, userID string) (*models.Chat, error)

	// GetChat retrieves a single chat owned by the caller
	GetChat(ctx context.Context, chatID, userID string) (*models.Chat, error)

	// ListChats retrieves every chat owned by the caller
	ListChats(ctx context.Context, userID string) ([]models.Chat, error)

	// RenameChat changes only the chat's name
	RenameChat(ctx context.Context, req *RenameChatRequest) error

	// DeleteChat removes a chat owned by the caller
	DeleteChat(ctx context.Context, chatID, userID string) error
}

// PromptService defines the chat mutation flow: one prompt in, one reply out
type PromptService interface {
	// SendPrompt forwards the prompt to the completion gateway and appends
	// the user message and the assistant reply to the chat.
	// Returns the assistant message.
	SendPrompt(ctx context.Context, req *SendPromptRequest) (*models.Message, error)
}

// RenameChatRequest is the DTO for renaming a chat
type RenameChatRequest struct {
	ChatID  string `json:"id"`
	UserID  string `json:"-"` // Set by handler from auth context, not from request body
	NewName string `json:"newName"`
}

// SendPromptRequest is the DTO for sending a prompt
type SendPromptRequest struct {
	ChatID string `json:"chatId"`
	UserID string `json:"-"` // Set by handler from auth context, not from request body
	Prompt string `json:"prompt"`
}
