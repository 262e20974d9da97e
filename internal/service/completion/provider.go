package completion

import (
	"context"
	"fmt"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"
)

// generator is the subset of llmprovider.Provider the gateway calls.
type generator interface {
	GenerateResponse(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.GenerateResponse, error)
}

// ProviderGateway adapts a meridian-llm-go provider (anthropic, lorem) to a
// single-prompt completion call.
type ProviderGateway struct {
	provider     generator
	providerName string
	model        string
}

// NewProviderGateway wraps a library provider for the given model.
func NewProviderGateway(provider generator, providerName, model string) *ProviderGateway {
	return &ProviderGateway{
		provider:     provider,
		providerName: providerName,
		model:        model,
	}
}

// Model returns the model identifier this gateway was configured with.
func (g *ProviderGateway) Model() string {
	return g.model
}

// Complete sends the prompt as one user text block and joins the text blocks of the reply.
func (g *ProviderGateway) Complete(ctx context.Context, prompt string) (string, error) {
	req := &llmprovider.GenerateRequest{
		Messages: []llmprovider.Message{
			{
				Role: "user",
				Blocks: []*llmprovider.Block{
					{BlockType: "text", TextContent: &prompt},
				},
			},
		},
		Model: g.model,
	}

	resp, err := g.provider.GenerateResponse(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", g.providerName, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%s returned no response", g.providerName)
	}

	var sb strings.Builder
	for _, block := range resp.Blocks {
		if block == nil || block.BlockType != "text" || block.TextContent == nil {
			continue
		}
		sb.WriteString(*block.TextContent)
	}

	content := sb.String()
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%s returned an empty reply", g.providerName)
	}
	return content, nil
}
