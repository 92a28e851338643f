package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for the server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Map environment variables to Viper keys for the model providers
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("ollama.model", "OLLAMA_MODEL")
	viper.BindEnv("ollama.embedding_model", "OLLAMA_EMBEDDING_MODEL")
	viper.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("openai.model", "OPENAI_MODEL")
	viper.BindEnv("openai.embedding_model", "OPENAI_EMBEDDING_MODEL")

	// Map environment variables to Viper keys for the vector stores
	viper.BindEnv("vectorstore.backend", "VECTORSTORE_BACKEND")
	viper.BindEnv("qdrant.url", "QDRANT_URL")
	viper.BindEnv("qdrant.api_key", "QDRANT_API_KEY")
	viper.BindEnv("weaviate.host", "WEAVIATE_HOST")
	viper.BindEnv("weaviate.scheme", "WEAVIATE_SCHEME")

	// Map environment variables to Viper keys for MinIO
	viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("minio.pdf_bucket", "MINIO_PDF_BUCKET")

	// Map environment variables to Viper keys for PostgreSQL
	viper.BindEnv("postgres.host", "POSTGRES_HOST")
	viper.BindEnv("postgres.port", "POSTGRES_PORT")
	viper.BindEnv("postgres.user", "POSTGRES_USER")
	viper.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	viper.BindEnv("postgres.db", "POSTGRES_DB")

	// Set default values for the server
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")

	// Set default values for the model providers
	viper.SetDefault("ollama.url", "http://localhost:11434/api")
	viper.SetDefault("ollama.model", "llama3")
	viper.SetDefault("ollama.embedding_model", "nomic-embed-text")
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("openai.embedding_model", "text-embedding-3-small")

	// Set default values for the vector stores
	viper.SetDefault("vectorstore.backend", "qdrant")
	viper.SetDefault("qdrant.url", "http://localhost:6333")
	viper.SetDefault("weaviate.scheme", "http")

	// Set default values for MinIO. An empty endpoint disables archiving.
	viper.SetDefault("minio.pdf_bucket", "uploaded-documents")

	// Set default values for PostgreSQL. An empty host disables the
	// ingestion registry.
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.password", "postgres")
	viper.SetDefault("postgres.db", "pdfchat")

	// Set default values for chunking, retrieval and generation
	viper.SetDefault("rag.chunk_size", 1000)
	viper.SetDefault("rag.chunk_overlap", 200)
	viper.SetDefault("rag.retrieval_k", 3)
	viper.SetDefault("rag.index_name", "pdf-chatbot-index")
	viper.SetDefault("rag.metric", "cosine")
	viper.SetDefault("rag.ready_polls", 30)
	viper.SetDefault("rag.poll_interval", "1s")
	viper.SetDefault("rag.memory_window", 10)
	viper.SetDefault("generation.temperature", 0.7)
	viper.SetDefault("generation.max_tokens", 800)
}
