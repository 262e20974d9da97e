package chat

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"deepchat/internal/config"
	"deepchat/internal/domain"
	"deepchat/internal/domain/models"
	"deepchat/internal/domain/repositories"
	"deepchat/internal/domain/services"
)

// chatNamePrefix precedes the decorative label in new chat names
const chatNamePrefix = "New Chat "

// chatService implements the ChatService interface
type chatService struct {
	chatRepo repositories.ChatRepository
	labels   []string
	logger   *slog.Logger

	now       func() time.Time
	pickLabel func(n int) int
}

// NewChatService creates a new chat directory service. labels is the
// decorative set new chat names are drawn from.
func NewChatService(
	chatRepo repositories.ChatRepository,
	labels []string,
	logger *slog.Logger,
) services.ChatService {
	return &chatService{
		chatRepo:  chatRepo,
		labels:    labels,
		logger:    logger,
		now:       time.Now,
		pickLabel: rand.IntN,
	}
}

// CreateChat creates an empty chat named "New Chat <label>"
func (s *chatService) CreateChat(ctx context.Context, userID string) (*models.Chat, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	now := s.now()
	chat := &models.Chat{
		UserID:    userID,
		Name:      s.newChatName(),
		Messages:  []models.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.chatRepo.CreateChat(ctx, chat); err != nil {
		return nil, err
	}

	s.logger.Info("chat created",
		"id", chat.ID,
		"name", chat.Name,
		"user_id", userID,
	)

	return chat, nil
}

func (s *chatService) newChatName() string {
	if len(s.labels) == 0 {
		return strings.TrimSpace(chatNamePrefix)
	}
	return chatNamePrefix + s.labels[s.pickLabel(len(s.labels))]
}

// GetChat retrieves a chat owned by the caller
func (s *chatService) GetChat(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	if strings.TrimSpace(chatID) == "" {
		return nil, fmt.Errorf("%w: chat id is required", domain.ErrValidation)
	}
	return s.chatRepo.GetChat(ctx, chatID, userID)
}

// ListChats retrieves all chats owned by the caller
func (s *chatService) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	return s.chatRepo.ListChats(ctx, userID)
}

// RenameChat changes the chat's name. Renaming to the current name succeeds.
func (s *chatService) RenameChat(ctx context.Context, req *services.RenameChatRequest) error {
	if err := s.validateRenameRequest(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	name := strings.TrimSpace(req.NewName)
	if err := s.chatRepo.RenameChat(ctx, req.ChatID, req.UserID, name, s.now()); err != nil {
		return err
	}

	s.logger.Info("chat renamed",
		"id", req.ChatID,
		"name", name,
		"user_id", req.UserID,
	)

	return nil
}

// DeleteChat removes a chat owned by the caller
func (s *chatService) DeleteChat(ctx context.Context, chatID, userID string) error {
	if strings.TrimSpace(chatID) == "" {
		return fmt.Errorf("%w: chat id is required", domain.ErrValidation)
	}

	if err := s.chatRepo.DeleteChat(ctx, chatID, userID); err != nil {
		return err
	}

	s.logger.Info("chat deleted",
		"id", chatID,
		"user_id", userID,
	)

	return nil
}

// validateRenameRequest validates a rename chat request
func (s *chatService) validateRenameRequest(req *services.RenameChatRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ChatID, validation.Required),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.NewName,
			validation.Required,
			validation.By(notBlank("name")),
			validation.By(maxTrimmedLength(config.MaxChatNameLength)),
		),
	)
}
