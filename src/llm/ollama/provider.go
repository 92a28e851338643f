package ollama

import (
	"context"
)

// Provider adapts the Ollama client to the generation capability used by
// the chat and ingestion pipelines: one model for completions, one for
// embeddings.
type Provider struct {
	client         *Client
	model          string
	embeddingModel string
	temperature    float64
	maxTokens      int
}

func NewProvider(client *Client, model, embeddingModel string, temperature float64, maxTokens int) *Provider {
	return &Provider{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
		temperature:    temperature,
		maxTokens:      maxTokens,
	}
}

func (p *Provider) Name() string {
	return "Ollama"
}

func (p *Provider) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	return p.client.GetEmbedding(ctx, p.embeddingModel, text)
}

func (p *Provider) Generate(ctx context.Context, system, prompt string) (string, error) {
	options := map[string]interface{}{
		"temperature": p.temperature,
	}
	if p.maxTokens > 0 {
		options["num_predict"] = p.maxTokens
	}
	return p.client.Generate(ctx, p.model, system, prompt, options)
}
