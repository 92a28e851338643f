package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	v1 "pdfchat/handler/http/v1"
	"pdfchat/src/config"
	"pdfchat/src/core/chat"
	"pdfchat/src/log"
	"pdfchat/src/storage/minioctrl"
	"pdfchat/src/storage/postgres/documentctrl"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the PDF chat server",
	Long:  `The serve command starts an HTTP server that provides the PDF chat API.`,
	Run:   RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer(cmd *cobra.Command, args []string) {
	cfg := config.Load()
	if err := cfg.ValidateRAG(); err != nil {
		log.Error(err, "Invalid RAG configuration")
		return
	}

	store, err := buildStore(cfg)
	if err != nil {
		log.Error(err, "Failed to create vector store")
		return
	}

	answerer := chat.NewAnswerer(store, cfg.RAG.RetrievalK)
	manager := chat.NewManager(answerer, providerFactory(cfg), cfg.RAG.MemoryWindow)

	handler := v1.NewHandler(manager, store, ingestConfig(cfg), cfg.RAG.IndexName)

	// Object storage archive for raw uploads, when configured
	if cfg.ArchiveEnabled() {
		archive, err := minioctrl.NewMinioService(
			cfg.Minio.Endpoint,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Error(err, "Failed to create MinIO client")
			return
		}
		if err := archive.EnsureBucketExists(context.Background(), cfg.Minio.PDFBucket); err != nil {
			log.Error(err, "Failed to ensure PDF bucket exists")
			return
		}
		handler = handler.WithArchive(archive, cfg.Minio.PDFBucket)
	}

	// Ingestion registry in PostgreSQL, when configured
	var db *gorm.DB
	if cfg.RegistryEnabled() {
		db, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{})
		if err != nil {
			log.Error(err, "Failed to connect to database")
			return
		}
		registry, err := documentctrl.NewDocumentService(db)
		if err != nil {
			log.Error(err, "Failed to create document registry")
			return
		}
		handler = handler.WithRegistry(registry)
	}

	// Setup gin router
	r := gin.Default()

	// Register routes
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			return
		}
	}()
	log.Info("Server listening", "port", cfg.Server.Port, "backend", cfg.Backend)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			log.Error(err, "Failed to get underlying *sql.DB")
		} else if err := sqlDB.Close(); err != nil {
			log.Error(err, "Error closing database connection")
		}
	}

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
