package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"deepchat/internal/domain/repositories"
	"deepchat/internal/httputil"
)

// HealthHandler reports storage liveness
type HealthHandler struct {
	checkers map[string]repositories.HealthChecker
	logger   *slog.Logger
}

// NewHealthHandler creates a health handler over named dependencies
func NewHealthHandler(checkers map[string]repositories.HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{checkers: checkers, logger: logger}
}

// HealthResponse lists the overall state and each dependency's state
type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HealthCheck pings every dependency concurrently
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Dependencies: make(map[string]string, len(h.checkers))}
	status := http.StatusOK

	var mu sync.Mutex
	var g errgroup.Group
	for name, checker := range h.checkers {
		g.Go(func() error {
			err := checker.Ping(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				h.logger.Error("health check failed", "dependency", name, "error", err)
				resp.Dependencies[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				return nil
			}
			resp.Dependencies[name] = "ok"
			return nil
		})
	}
	_ = g.Wait()

	httputil.RespondJSON(w, status, resp)
}
