package handler

import "net/http"

// Public paths skip session authentication
const (
	HealthPath  = "/health"
	WebhookPath = "/api/clerk"
)

// PublicPaths lists routes reachable without a session token
var PublicPaths = []string{HealthPath, WebhookPath}

// Handlers groups every HTTP handler the server exposes
type Handlers struct {
	Chat    *ChatHandler
	Prompt  *PromptHandler
	Webhook *WebhookHandler
	Health  *HealthHandler
}

// RegisterRoutes mounts all routes on mux (Go 1.22+ method patterns)
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET "+HealthPath, h.Health.HealthCheck)

	// Chat directory
	mux.HandleFunc("POST /api/chat/create", h.Chat.CreateChat)
	mux.HandleFunc("GET /api/chat/getchat", h.Chat.ListChats)
	mux.HandleFunc("POST /api/chat/rename", h.Chat.RenameChat)
	mux.HandleFunc("DELETE /api/chat/delete", h.Chat.DeleteChat)
	mux.HandleFunc("GET /api/chat/{id}", h.Chat.GetChat)

	// Chat mutation
	mux.HandleFunc("POST /api/chat/ai", h.Prompt.SendPrompt)

	// Identity webhook (signature-verified, no session)
	mux.HandleFunc("POST "+WebhookPath, h.Webhook.HandleIdentityEvent)
}
