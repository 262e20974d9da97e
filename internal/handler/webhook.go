package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"deepchat/internal/auth"
	"deepchat/internal/domain/services"
	"deepchat/internal/httputil"
)

// WebhookHandler receives identity-provider lifecycle notifications
type WebhookHandler struct {
	verifier        auth.WebhookVerifier
	identityService services.IdentityService
	logger          *slog.Logger
}

// NewWebhookHandler creates a webhook handler. A nil verifier means no signing
// secret is configured and every request is answered with 500.
func NewWebhookHandler(verifier auth.WebhookVerifier, identityService services.IdentityService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier:        verifier,
		identityService: identityService,
		logger:          logger,
	}
}

// HandleIdentityEvent verifies and applies one notification
// POST /api/clerk
func (h *WebhookHandler) HandleIdentityEvent(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		h.logger.Error("webhook received but SIGNING_SECRET is not configured")
		httputil.RespondProblem(w, r, http.StatusInternalServerError, "Server configuration error")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, httputil.MaxBodyBytes))
	if err != nil {
		respondBadBody(w, r, err)
		return
	}

	if err := h.verifier.Verify(payload, r.Header); err != nil {
		h.logger.Warn("webhook rejected", "error", err)
		detail := "Webhook verification failed"
		if errors.Is(err, auth.ErrMissingSignatureHeaders) {
			detail = "Missing Svix headers"
		}
		httputil.RespondProblem(w, r, http.StatusBadRequest, detail)
		return
	}

	var evt services.IdentityEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		httputil.RespondProblem(w, r, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	deliveryID := r.Header.Get(auth.HeaderSvixID)
	result, err := h.identityService.HandleEvent(r.Context(), deliveryID, &evt)
	if err != nil {
		h.logger.Error("identity event failed",
			"type", evt.Type,
			"delivery_id", deliveryID,
			"error", err,
		)
		handleError(w, r, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, result.Message)
}
