package cmd

import (
	"fmt"
	"net/http"
	"time"

	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"

	"pdfchat/src/config"
	"pdfchat/src/core/chat"
	"pdfchat/src/core/ingest"
	"pdfchat/src/core/vectorstore"
	"pdfchat/src/llm/ollama"
	"pdfchat/src/llm/openai"
	"pdfchat/src/storage/qdrant"
	"pdfchat/src/storage/weaviate"
)

// buildStore constructs the configured vector store backend.
func buildStore(cfg *config.Config) (vectorstore.Store, error) {
	if err := cfg.ValidateVectorStore(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendQdrant:
		return qdrant.NewStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, nil), nil
	case config.BackendWeaviate:
		wc := weaviateClient.New(weaviateClient.Config{
			Host:   cfg.Weaviate.Host,
			Scheme: cfg.Weaviate.Scheme,
		})
		return weaviate.NewStore(wc), nil
	default:
		return nil, fmt.Errorf("%w: unknown vector store backend %q", config.ErrConfig, cfg.Backend)
	}
}

// providerFactory returns the per-session provider constructor. Provider
// settings are validated lazily so a missing OPENAI_API_KEY only matters
// when a session actually selects openai.
func providerFactory(cfg *config.Config) chat.ProviderFactory {
	return func(name string) (chat.LLMProvider, error) {
		switch name {
		case config.ProviderOllama:
			if err := cfg.ValidateOllama(); err != nil {
				return nil, err
			}
			client := ollama.NewClient(cfg.Ollama.URL, &http.Client{
				Timeout: 120 * time.Second,
			})
			return ollama.NewProvider(
				client,
				cfg.Ollama.Model,
				cfg.Ollama.EmbeddingModel,
				cfg.Generation.Temperature,
				cfg.Generation.MaxTokens,
			), nil
		case config.ProviderOpenAI:
			if err := cfg.ValidateOpenAI(); err != nil {
				return nil, err
			}
			return openai.NewProvider(openai.Config{
				Token:          cfg.OpenAI.APIKey,
				BaseURL:        cfg.OpenAI.BaseURL,
				Model:          cfg.OpenAI.Model,
				EmbeddingModel: cfg.OpenAI.EmbeddingModel,
				Temperature:    cfg.Generation.Temperature,
				MaxTokens:      cfg.Generation.MaxTokens,
			})
		default:
			return nil, fmt.Errorf("%w: unknown provider %q", config.ErrConfig, name)
		}
	}
}

// ingestConfig maps the loaded settings onto the pipeline parameters.
func ingestConfig(cfg *config.Config) ingest.Config {
	return ingest.Config{
		ChunkSize:    cfg.RAG.ChunkSize,
		ChunkOverlap: cfg.RAG.ChunkOverlap,
		Metric:       cfg.RAG.Metric,
		ReadyPolls:   cfg.RAG.ReadyPolls,
		PollInterval: cfg.RAG.PollInterval,
	}
}
