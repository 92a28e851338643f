package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"

	"pdfchat/src/config"
)

func setRAGDefaults() {
	viper.Set("rag.chunk_size", 1000)
	viper.Set("rag.chunk_overlap", 200)
	viper.Set("rag.retrieval_k", 3)
	viper.Set("rag.index_name", "pdf_documents")
	viper.Set("rag.metric", "cosine")
}

func TestLoadReadsViperState(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("server.port", "9000")
	viper.Set("server.shutdown_timeout", "10s")
	viper.Set("vectorstore.backend", "qdrant")
	viper.Set("qdrant.url", "http://qdrant:6333")
	viper.Set("ollama.url", "http://ollama:11434/api")
	viper.Set("rag.poll_interval", "2s")

	cfg := config.Load()
	if cfg.Server.Port != "9000" {
		t.Errorf("Server.Port = %q", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Backend != config.BackendQdrant {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.Qdrant.URL != "http://qdrant:6333" {
		t.Errorf("Qdrant.URL = %q", cfg.Qdrant.URL)
	}
	if cfg.RAG.PollInterval != 2*time.Second {
		t.Errorf("RAG.PollInterval = %v", cfg.RAG.PollInterval)
	}
}

func TestValidateVectorStore(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		url     string
		host    string
		wantErr bool
	}{
		{name: "qdrant configured", backend: "qdrant", url: "http://localhost:6333"},
		{name: "qdrant missing url", backend: "qdrant", wantErr: true},
		{name: "weaviate configured", backend: "weaviate", host: "localhost:8080"},
		{name: "weaviate missing host", backend: "weaviate", wantErr: true},
		{name: "unknown backend", backend: "pinecone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()
			viper.Set("vectorstore.backend", tt.backend)
			viper.Set("qdrant.url", tt.url)
			viper.Set("weaviate.host", tt.host)

			err := config.Load().ValidateVectorStore()
			if tt.wantErr {
				if !errors.Is(err, config.ErrConfig) {
					t.Errorf("ValidateVectorStore error = %v, want ErrConfig", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateVectorStore returned error: %v", err)
			}
		})
	}
}

func TestValidateRAG(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func()
		wantErr bool
	}{
		{name: "valid", mutate: func() {}},
		{name: "zero chunk size", mutate: func() { viper.Set("rag.chunk_size", 0) }, wantErr: true},
		{name: "overlap equals size", mutate: func() { viper.Set("rag.chunk_overlap", 1000) }, wantErr: true},
		{name: "negative overlap", mutate: func() { viper.Set("rag.chunk_overlap", -1) }, wantErr: true},
		{name: "zero k", mutate: func() { viper.Set("rag.retrieval_k", 0) }, wantErr: true},
		{name: "missing index name", mutate: func() { viper.Set("rag.index_name", "") }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()
			setRAGDefaults()
			tt.mutate()

			err := config.Load().ValidateRAG()
			if tt.wantErr {
				if !errors.Is(err, config.ErrConfig) {
					t.Errorf("ValidateRAG error = %v, want ErrConfig", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateRAG returned error: %v", err)
			}
		})
	}
}

func TestValidateProviders(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg := config.Load()
	if err := cfg.ValidateOllama(); !errors.Is(err, config.ErrConfig) {
		t.Errorf("ValidateOllama without settings = %v, want ErrConfig", err)
	}
	if err := cfg.ValidateOpenAI(); !errors.Is(err, config.ErrConfig) {
		t.Errorf("ValidateOpenAI without key = %v, want ErrConfig", err)
	}

	viper.Set("ollama.url", "http://localhost:11434/api")
	viper.Set("ollama.model", "llama3")
	viper.Set("ollama.embedding_model", "nomic-embed-text")
	if err := config.Load().ValidateOllama(); err != nil {
		t.Errorf("ValidateOllama returned error: %v", err)
	}
}

func TestOptionalServices(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg := config.Load()
	if cfg.ArchiveEnabled() || cfg.RegistryEnabled() {
		t.Error("optional services enabled without configuration")
	}

	viper.Set("minio.endpoint", "localhost:9000")
	viper.Set("postgres.host", "localhost")
	viper.Set("postgres.port", "5432")
	viper.Set("postgres.user", "postgres")
	viper.Set("postgres.password", "secret")
	viper.Set("postgres.db", "pdfchat")

	cfg = config.Load()
	if !cfg.ArchiveEnabled() || !cfg.RegistryEnabled() {
		t.Error("optional services disabled despite configuration")
	}
	want := "host=localhost user=postgres password=secret dbname=pdfchat port=5432 sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Errorf("PostgresDSN = %q, want %q", got, want)
	}
}
