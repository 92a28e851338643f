package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfchat/src/config"
	"pdfchat/src/core/chat"
	"pdfchat/src/core/ingest"
	"pdfchat/src/core/vectorstore"
	"pdfchat/src/storage/minioctrl"
	"pdfchat/src/storage/postgres/documentctrl"
)

type Handler struct {
	manager   *chat.Manager
	store     vectorstore.Store
	ingestCfg ingest.Config
	indexName string

	// Optional services; nil when not configured.
	archive       *minioctrl.MinioService
	archiveBucket string
	registry      *documentctrl.DocumentService
}

func NewHandler(manager *chat.Manager, store vectorstore.Store, ingestCfg ingest.Config, indexName string) *Handler {
	return &Handler{
		manager:   manager,
		store:     store,
		ingestCfg: ingestCfg,
		indexName: indexName,
	}
}

// WithArchive enables archiving of uploaded PDFs to object storage.
func (h *Handler) WithArchive(svc *minioctrl.MinioService, bucket string) *Handler {
	h.archive = svc
	h.archiveBucket = bucket
	return h
}

// WithRegistry enables recording of successful ingestions in PostgreSQL.
func (h *Handler) WithRegistry(svc *documentctrl.DocumentService) *Handler {
	h.registry = svc
	return h
}

// RegisterRoutes registers all v1 API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// Session routes
	v1.POST("/sessions", h.CreateSession)
	v1.GET("/sessions/:id/status", h.GetStatus)
	v1.PUT("/sessions/:id/model", h.SetModel)
	v1.PUT("/sessions/:id/persona", h.SetPersona)
	v1.POST("/sessions/:id/reset", h.Reset)

	// Document routes
	v1.POST("/sessions/:id/documents", h.ProcessDocument)
	v1.GET("/documents", h.ListDocuments)
	v1.GET("/documents/:docId/download", h.DownloadDocument)
	v1.DELETE("/documents/:docId", h.DeleteDocument)

	// Chat routes
	v1.POST("/sessions/:id/chat", h.Chat)
	v1.GET("/sessions/:id/history", h.GetHistory)

	// System routes
	v1.GET("/personas", h.ListPersonas)
	v1.GET("/indexes", h.ListIndexes)
	v1.GET("/health", h.CheckHealth)
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func sendError(c *gin.Context, status int, err error) {
	var code string
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		code = "SESSION_NOT_FOUND"
		status = http.StatusNotFound
	case errors.Is(err, config.ErrConfig):
		code = "INVALID_CONFIG"
		status = http.StatusBadRequest
	case errors.Is(err, ingest.ErrExtraction), errors.Is(err, ingest.ErrChunking):
		code = "UNPROCESSABLE_DOCUMENT"
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ingest.ErrIndexMismatch):
		code = "INDEX_MISMATCH"
		status = http.StatusConflict
	case errors.Is(err, ingest.ErrEmbedding),
		errors.Is(err, ingest.ErrProvision),
		errors.Is(err, ingest.ErrIndexTimeout),
		errors.Is(err, ingest.ErrUpload):
		code = "UPSTREAM_ERROR"
		status = http.StatusBadGateway
	default:
		switch status {
		case http.StatusBadRequest:
			code = "INVALID_REQUEST"
		case http.StatusNotFound:
			code = "NOT_FOUND"
		default:
			code = "INTERNAL_ERROR"
			status = http.StatusInternalServerError
		}
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
