package services

import "context"

// CompletionGateway forwards a single prompt to a language-model provider.
// Only the prompt is sent; no conversation history is forwarded.
// Implementations return domain.ErrUnavailable (wrapped) on any provider failure.
type CompletionGateway interface {
	Complete(ctx context.Context, prompt string) (string, error)

	// Model returns the model identifier used for every call
	Model() string
}
