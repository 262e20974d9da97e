package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"deepchat/internal/config"
	"deepchat/internal/domain"
	"deepchat/internal/domain/models"
	"deepchat/internal/domain/repositories"
	"deepchat/internal/domain/services"
)

// promptService implements the PromptService interface
type promptService struct {
	chatRepo repositories.ChatRepository
	gateway  services.CompletionGateway
	logger   *slog.Logger

	now func() time.Time
}

// NewPromptService creates a new prompt service
func NewPromptService(
	chatRepo repositories.ChatRepository,
	gateway services.CompletionGateway,
	logger *slog.Logger,
) services.PromptService {
	return &promptService{
		chatRepo: chatRepo,
		gateway:  gateway,
		logger:   logger,
		now:      time.Now,
	}
}

// SendPrompt asks the completion gateway for a reply to the prompt, then
// appends the user message and the reply to the chat in one write. Nothing
// is persisted when the gateway fails.
func (s *promptService) SendPrompt(ctx context.Context, req *services.SendPromptRequest) (*models.Message, error) {
	if err := s.validateSendRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	prompt := strings.TrimSpace(req.Prompt)

	acceptedAt := s.now()

	// Ownership check before spending a completion call
	if _, err := s.chatRepo.GetChat(ctx, req.ChatID, req.UserID); err != nil {
		return nil, err
	}

	reply, err := s.gateway.Complete(ctx, prompt)
	if err != nil {
		if !errors.Is(err, domain.ErrUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
		}
		return nil, err
	}

	repliedAt := s.now()
	if repliedAt.Before(acceptedAt) {
		repliedAt = acceptedAt
	}

	userMsg := models.NewMessage(models.RoleUser, prompt, acceptedAt)
	assistantMsg := models.NewMessage(models.RoleAssistant, reply, repliedAt)

	if _, err := s.chatRepo.AppendMessages(ctx, req.ChatID, req.UserID, []models.Message{userMsg, assistantMsg}, repliedAt); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted while the completion was in flight
			return nil, err
		}
		s.logger.Error("reply lost: failed to persist messages",
			"id", req.ChatID,
			"user_id", req.UserID,
			"error", err,
		)
		return nil, fmt.Errorf("persist messages: %w", err)
	}

	s.logger.Info("prompt answered",
		"id", req.ChatID,
		"user_id", req.UserID,
		"model", s.gateway.Model(),
		"latency_ms", repliedAt.Sub(acceptedAt).Milliseconds(),
	)

	return &assistantMsg, nil
}

// validateSendRequest validates a send prompt request
func (s *promptService) validateSendRequest(req *services.SendPromptRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ChatID, validation.Required),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Prompt,
			validation.Required,
			validation.By(notBlank("prompt")),
			validation.Length(0, config.MaxPromptLength),
		),
	)
}
