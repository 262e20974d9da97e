package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/haowjy/meridian-llm-go/providers/anthropic"
	"github.com/haowjy/meridian-llm-go/providers/lorem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"deepchat/internal/catalog"
	"deepchat/internal/config"
	"deepchat/internal/domain"
	"deepchat/internal/domain/services"
)

var tracer = otel.Tracer("deepchat/internal/service/completion")

// NewGateway builds the completion gateway for cfg.LLM.Model. Unknown models and
// missing API keys fail here so the server refuses to start.
func NewGateway(cfg *config.Config, registry *catalog.Registry, logger *slog.Logger) (services.CompletionGateway, error) {
	info, err := ParseModel(cfg.LLM.Model)
	if err != nil {
		return nil, err
	}

	if _, found, err := registry.GetModel(info.Provider, info.Model); err != nil {
		return nil, err
	} else if !found {
		logger.Warn("completion model not in catalog, using it anyway",
			"provider", info.Provider,
			"model", info.Model,
		)
	}

	var inner services.CompletionGateway
	switch info.Provider {
	case ProviderOpenRouter:
		if cfg.LLM.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable not set")
		}
		inner = NewOpenRouterGateway(cfg.LLM.OpenRouterBaseURL, cfg.LLM.OpenRouterAPIKey, info.Model)

	case ProviderAnthropic:
		if cfg.LLM.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		provider, err := anthropic.NewProvider(cfg.LLM.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
		}
		inner = NewProviderGateway(provider, ProviderAnthropic, info.Model)

	case ProviderLorem:
		inner = NewProviderGateway(lorem.NewProvider(), ProviderLorem, info.Model)

	default:
		return nil, fmt.Errorf("unsupported provider: %s", info.Provider)
	}

	logger.Info("completion gateway configured",
		"provider", info.Provider,
		"model", info.Model,
		"timeout", cfg.LLM.Timeout,
	)

	return NewInstrumentedGateway(inner, cfg.LLM.Timeout, logger), nil
}

// InstrumentedGateway applies the per-call timeout, traces each call and maps
// every failure to domain.ErrUnavailable.
type InstrumentedGateway struct {
	next    services.CompletionGateway
	timeout time.Duration
	logger  *slog.Logger
}

// NewInstrumentedGateway wraps next. A zero timeout means no deadline beyond the caller's.
func NewInstrumentedGateway(next services.CompletionGateway, timeout time.Duration, logger *slog.Logger) *InstrumentedGateway {
	return &InstrumentedGateway{
		next:    next,
		timeout: timeout,
		logger:  logger,
	}
}

func (g *InstrumentedGateway) Model() string {
	return g.next.Model()
}

func (g *InstrumentedGateway) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "completion.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("completion.model", g.next.Model()),
		attribute.Int("completion.prompt_length", len(prompt)),
	)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := g.next.Complete(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		g.logger.Error("completion failed",
			"model", g.next.Model(),
			"duration", elapsed,
			"timed_out", errors.Is(err, context.DeadlineExceeded),
			"error", err,
		)
		if errors.Is(err, domain.ErrUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: completion provider: %v", domain.ErrUnavailable, err)
	}

	span.SetAttributes(attribute.Int("completion.reply_length", len(reply)))
	g.logger.Debug("completion succeeded",
		"model", g.next.Model(),
		"duration", elapsed,
	)
	return reply, nil
}
