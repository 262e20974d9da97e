package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"deepchat/internal/auth"
	"deepchat/internal/catalog"
	"deepchat/internal/config"
	"deepchat/internal/handler"
	"deepchat/internal/middleware"
	"deepchat/internal/observability"
	"deepchat/internal/repository/storage"
	"deepchat/internal/service/chat"
	"deepchat/internal/service/completion"
	"deepchat/internal/service/identity"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, logCloser := config.NewLogger(cfg)
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.StorageDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Environment,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	if cfg.Auth.JWKSURL == "" {
		log.Fatalf("CLERK_JWKS_URL is required")
	}
	jwtVerifier, err := auth.NewJWTVerifier(cfg.Auth.JWKSURL, cfg.AuthorizedParties(), logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// A nil interface (not a typed nil) makes the webhook answer 500
	var webhookVerifier auth.WebhookVerifier
	if cfg.Webhook.SigningSecret != "" {
		v, err := auth.NewSvixVerifier(cfg.Webhook.SigningSecret)
		if err != nil {
			log.Fatalf("Failed to create webhook verifier: %v", err)
		}
		webhookVerifier = v
	} else {
		logger.Warn("SIGNING_SECRET not set, identity webhook disabled")
	}

	registry, err := catalog.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	gateway, err := completion.NewGateway(cfg, registry, logger)
	if err != nil {
		log.Fatalf("Failed to set up completion gateway: %v", err)
	}
	logger.Info("completion gateway ready", "model", gateway.Model())

	// Services
	chatService := chat.NewChatService(store.Chats, registry.Labels(), logger)
	promptService := chat.NewPromptService(store.Chats, gateway, logger)
	identityService := identity.NewIdentityService(store.Users, store.Ledger, logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Chat:    handler.NewChatHandler(chatService, logger),
		Prompt:  handler.NewPromptHandler(promptService, logger),
		Webhook: handler.NewWebhookHandler(webhookVerifier, identityService, logger),
		Health:  handler.NewHealthHandler(store.Checkers, logger),
	})

	// Apply middleware in reverse order (they wrap each other)
	// Order: RequestID → AccessLog → CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(jwtVerifier, logger, handler.PublicPaths...)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOriginList(),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)
	h = middleware.AccessLog(logger)(h)
	h = middleware.RequestID(h)
	h = otelhttp.NewHandler(h, "deepchat")

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout(cfg.LLM.Timeout),
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	store.Close(shutdownCtx, logger)
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

// writeTimeout leaves room for a full completion call. With no completion
// timeout the server does not cap writes either.
func writeTimeout(completion time.Duration) time.Duration {
	if completion <= 0 {
		return 0
	}
	return completion + 15*time.Second
}
