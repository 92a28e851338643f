package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ErrConfig marks configuration that is missing or invalid. It is fatal to
// initialization and surfaced immediately.
var ErrConfig = errors.New("invalid configuration")

// Provider names selectable per session.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Vector store backend names.
const (
	BackendQdrant   = "qdrant"
	BackendWeaviate = "weaviate"
)

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

type OllamaConfig struct {
	URL            string
	Model          string
	EmbeddingModel string
}

type OpenAIConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	EmbeddingModel string
}

type QdrantConfig struct {
	URL    string
	APIKey string
}

type WeaviateConfig struct {
	Host   string
	Scheme string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	PDFBucket string
	UseSSL    bool
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

// RAGConfig holds the ingestion and retrieval parameters.
type RAGConfig struct {
	ChunkSize    int
	ChunkOverlap int
	RetrievalK   int
	IndexName    string
	Metric       string
	ReadyPolls   int
	PollInterval time.Duration
	MemoryWindow int
}

type GenerationConfig struct {
	Temperature float64
	MaxTokens   int
}

// Config is the validated settings snapshot the rest of the application
// consumes. It is materialized once from viper at startup.
type Config struct {
	Server     ServerConfig
	Backend    string
	Ollama     OllamaConfig
	OpenAI     OpenAIConfig
	Qdrant     QdrantConfig
	Weaviate   WeaviateConfig
	Minio      MinioConfig
	Postgres   PostgresConfig
	RAG        RAGConfig
	Generation GenerationConfig
}

// Load materializes a Config from the current viper state.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            viper.GetString("server.port"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
		Backend: viper.GetString("vectorstore.backend"),
		Ollama: OllamaConfig{
			URL:            viper.GetString("ollama.url"),
			Model:          viper.GetString("ollama.model"),
			EmbeddingModel: viper.GetString("ollama.embedding_model"),
		},
		OpenAI: OpenAIConfig{
			BaseURL:        viper.GetString("openai.base_url"),
			APIKey:         viper.GetString("openai.api_key"),
			Model:          viper.GetString("openai.model"),
			EmbeddingModel: viper.GetString("openai.embedding_model"),
		},
		Qdrant: QdrantConfig{
			URL:    viper.GetString("qdrant.url"),
			APIKey: viper.GetString("qdrant.api_key"),
		},
		Weaviate: WeaviateConfig{
			Host:   viper.GetString("weaviate.host"),
			Scheme: viper.GetString("weaviate.scheme"),
		},
		Minio: MinioConfig{
			Endpoint:  viper.GetString("minio.endpoint"),
			AccessKey: viper.GetString("minio.access_key"),
			SecretKey: viper.GetString("minio.secret_key"),
			PDFBucket: viper.GetString("minio.pdf_bucket"),
			UseSSL:    viper.GetBool("minio.use_ssl"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("postgres.host"),
			Port:     viper.GetString("postgres.port"),
			User:     viper.GetString("postgres.user"),
			Password: viper.GetString("postgres.password"),
			DB:       viper.GetString("postgres.db"),
		},
		RAG: RAGConfig{
			ChunkSize:    viper.GetInt("rag.chunk_size"),
			ChunkOverlap: viper.GetInt("rag.chunk_overlap"),
			RetrievalK:   viper.GetInt("rag.retrieval_k"),
			IndexName:    viper.GetString("rag.index_name"),
			Metric:       viper.GetString("rag.metric"),
			ReadyPolls:   viper.GetInt("rag.ready_polls"),
			PollInterval: viper.GetDuration("rag.poll_interval"),
			MemoryWindow: viper.GetInt("rag.memory_window"),
		},
		Generation: GenerationConfig{
			Temperature: viper.GetFloat64("generation.temperature"),
			MaxTokens:   viper.GetInt("generation.max_tokens"),
		},
	}
}

// ValidateOllama checks the settings required to use the ollama provider.
func (c *Config) ValidateOllama() error {
	if c.Ollama.URL == "" {
		return fmt.Errorf("%w: ollama URL not set", ErrConfig)
	}
	if c.Ollama.Model == "" || c.Ollama.EmbeddingModel == "" {
		return fmt.Errorf("%w: ollama model names not set", ErrConfig)
	}
	return nil
}

// ValidateOpenAI checks the settings required to use the openai provider.
func (c *Config) ValidateOpenAI() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY not set in environment", ErrConfig)
	}
	if c.OpenAI.Model == "" || c.OpenAI.EmbeddingModel == "" {
		return fmt.Errorf("%w: openai model names not set", ErrConfig)
	}
	return nil
}

// ValidateVectorStore checks the settings of the selected backend.
func (c *Config) ValidateVectorStore() error {
	switch c.Backend {
	case BackendQdrant:
		if c.Qdrant.URL == "" {
			return fmt.Errorf("%w: qdrant URL not set", ErrConfig)
		}
	case BackendWeaviate:
		if c.Weaviate.Host == "" {
			return fmt.Errorf("%w: weaviate host not set", ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown vector store backend %q", ErrConfig, c.Backend)
	}
	return nil
}

// ValidateRAG checks the chunking and retrieval parameters.
func (c *Config) ValidateRAG() error {
	if c.RAG.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrConfig)
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("%w: chunk overlap must be in [0, chunk size)", ErrConfig)
	}
	if c.RAG.RetrievalK <= 0 {
		return fmt.Errorf("%w: retrieval k must be positive", ErrConfig)
	}
	if c.RAG.IndexName == "" {
		return fmt.Errorf("%w: index name not set", ErrConfig)
	}
	return nil
}

// ArchiveEnabled reports whether uploaded PDFs should be kept in object
// storage. An empty endpoint disables the archive.
func (c *Config) ArchiveEnabled() bool {
	return c.Minio.Endpoint != ""
}

// RegistryEnabled reports whether ingestion records should be written to
// PostgreSQL. An empty host disables the registry.
func (c *Config) RegistryEnabled() bool {
	return c.Postgres.Host != ""
}

// PostgresDSN renders the connection string for gorm.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Postgres.Host, c.Postgres.User, c.Postgres.Password, c.Postgres.DB, c.Postgres.Port)
}
