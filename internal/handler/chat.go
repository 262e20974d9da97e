package handler

import (
	"log/slog"
	"net/http"

	"deepchat/internal/domain/services"
	"deepchat/internal/httputil"
)

// ChatHandler handles chat directory HTTP requests
type ChatHandler struct {
	chatService services.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService services.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// chatIDRequest is the body of the delete route
type chatIDRequest struct {
	ID string `json:"id"`
}

// CreateChat creates an empty chat for the caller
// POST /api/chat/create
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	chat, err := h.chatService.CreateChat(r.Context(), userID)
	if err != nil {
		h.logFailure(r, "create chat", err)
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chat)
}

// ListChats retrieves every chat owned by the caller
// GET /api/chat/getchat
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	chats, err := h.chatService.ListChats(r.Context(), userID)
	if err != nil {
		h.logFailure(r, "list chats", err)
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chats)
}

// GetChat retrieves a single chat by ID
// GET /api/chat/{id}
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	chat, err := h.chatService.GetChat(r.Context(), chatID, userID)
	if err != nil {
		h.logFailure(r, "get chat", err)
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chat)
}

// RenameChat changes a chat's name
// POST /api/chat/rename {id, newName}
func (h *ChatHandler) RenameChat(w http.ResponseWriter, r *http.Request) {
	var req services.RenameChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondBadBody(w, r, err)
		return
	}
	req.UserID = httputil.GetUserID(r)

	if err := h.chatService.RenameChat(r.Context(), &req); err != nil {
		h.logFailure(r, "rename chat", err)
		handleError(w, r, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Chat renamed successfully")
}

// DeleteChat removes a chat
// DELETE /api/chat/delete {id}
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	var req chatIDRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondBadBody(w, r, err)
		return
	}

	if err := h.chatService.DeleteChat(r.Context(), req.ID, httputil.GetUserID(r)); err != nil {
		h.logFailure(r, "delete chat", err)
		handleError(w, r, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Chat deleted successfully")
}

func (h *ChatHandler) logFailure(r *http.Request, op string, err error) {
	h.logger.Warn(op+" failed",
		"user_id", httputil.GetUserID(r),
		"request_id", httputil.RequestIDFromContext(r.Context()),
		"error", err,
	)
}
