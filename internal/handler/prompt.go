package handler

import (
	"log/slog"
	"net/http"

	"deepchat/internal/domain/models"
	"deepchat/internal/domain/services"
	"deepchat/internal/httputil"
)

// PromptHandler handles the send-prompt route
type PromptHandler struct {
	promptService services.PromptService
	logger        *slog.Logger
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(promptService services.PromptService, logger *slog.Logger) *PromptHandler {
	return &PromptHandler{
		promptService: promptService,
		logger:        logger,
	}
}

// PromptResponse wraps the assistant reply
type PromptResponse struct {
	Status int             `json:"status"`
	Data   *models.Message `json:"data"`
}

// SendPrompt sends the caller's prompt and returns the assistant reply
// POST /api/chat/ai {chatId, prompt}
func (h *PromptHandler) SendPrompt(w http.ResponseWriter, r *http.Request) {
	var req services.SendPromptRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondBadBody(w, r, err)
		return
	}
	req.UserID = httputil.GetUserID(r)

	reply, err := h.promptService.SendPrompt(r.Context(), &req)
	if err != nil {
		h.logger.Warn("send prompt failed",
			"id", req.ChatID,
			"user_id", req.UserID,
			"request_id", httputil.RequestIDFromContext(r.Context()),
			"error", err,
		)
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, PromptResponse{
		Status: http.StatusOK,
		Data:   reply,
	})
}
