package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenRouterGateway sends single-shot completions to OpenRouter's
// OpenAI-compatible chat completions endpoint.
type OpenRouterGateway struct {
	client *openai.Client
	model  string
}

// NewOpenRouterGateway creates a gateway for the given OpenRouter model
// (the part after "openrouter/", e.g. "deepseek/deepseek-chat-v3-0324:free").
func NewOpenRouterGateway(baseURL, apiKey, model string) *OpenRouterGateway {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		// One round trip per prompt.
		option.WithMaxRetries(0),
	)
	return &OpenRouterGateway{
		client: client,
		model:  model,
	}
}

// Model returns the OpenRouter model identifier.
func (g *OpenRouterGateway) Model() string {
	return ProviderOpenRouter + "/" + g.model
}

// Complete forwards only the given prompt as a single user message.
func (g *OpenRouterGateway) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model: openai.F(openai.ChatModel(g.model)),
	})
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("openrouter returned an empty reply")
	}
	return content, nil
}
