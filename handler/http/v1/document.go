package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pdfchat/src/core/ingest"
	"pdfchat/src/log"
	"pdfchat/src/storage/postgres/documentctrl"
)

type ProcessDocumentResponse struct {
	Filename     string `json:"filename"`
	IndexName    string `json:"index_name"`
	Pages        int    `json:"pages"`
	Chunks       int    `json:"chunks"`
	Dimension    int    `json:"dimension"`
	IndexCreated bool   `json:"index_created"`
}

// ProcessDocument godoc
// @Summary Ingest a PDF into the session's retrieval index
// @Tags documents
// @Accept multipart/form-data
// @Param id path string true "Session ID"
// @Param file formData file true "PDF file"
// @Produce json
// @Success 201 {object} ProcessDocumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /sessions/{id}/documents [post]
func (h *Handler) ProcessDocument(c *gin.Context) {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		sendError(c, http.StatusNotFound, err)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		sendError(c, http.StatusBadRequest, fmt.Errorf("file upload required: %w", err))
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		sendError(c, http.StatusBadRequest, errors.New("only PDF files are supported"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		sendError(c, http.StatusInternalServerError, fmt.Errorf("failed to read file: %w", err))
		return
	}

	sess.Acquire()
	defer sess.Release()

	provider := sess.Provider()
	if provider == nil {
		sendError(c, http.StatusBadRequest, errors.New("no model initialized for this session"))
		return
	}

	pipeline := ingest.NewPipeline(provider, h.store, h.ingestCfg)
	observe := func(ev ingest.ProgressEvent) {
		log.Info("ingestion progress", "session", sess.ID, "stage", ev.Stage, "detail", ev.Detail)
	}

	summary, err := pipeline.Ingest(c.Request.Context(), data, header.Filename, h.indexName, observe)
	if err != nil {
		sendError(c, http.StatusBadGateway, err)
		return
	}
	sess.SetActiveIndex(summary.IndexName)

	h.archiveAndRecord(c, data, header.Filename, summary)

	sendJSON(c, http.StatusCreated, ProcessDocumentResponse{
		Filename:     header.Filename,
		IndexName:    summary.IndexName,
		Pages:        summary.Pages,
		Chunks:       summary.Chunks,
		Dimension:    summary.Dimension,
		IndexCreated: summary.IndexCreated,
	})
}

// ListDocuments godoc
// @Summary List ingested documents, newest first
// @Tags documents
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Produce json
// @Success 200 {array} documentctrl.Document
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /documents [get]
func (h *Handler) ListDocuments(c *gin.Context) {
	if h.registry == nil {
		sendError(c, http.StatusBadRequest, errors.New("document registry not configured"))
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	docs, err := h.registry.List(c.Request.Context(), limit, offset)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	sendJSON(c, http.StatusOK, docs)
}

// DownloadDocument godoc
// @Summary Download the archived copy of an ingested document
// @Tags documents
// @Param docId path int true "Document ID"
// @Produce application/pdf
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /documents/{docId}/download [get]
func (h *Handler) DownloadDocument(c *gin.Context) {
	if h.registry == nil || h.archive == nil {
		sendError(c, http.StatusBadRequest, errors.New("document archive not configured"))
		return
	}

	id, err := strconv.ParseInt(c.Param("docId"), 10, 64)
	if err != nil {
		sendError(c, http.StatusBadRequest, fmt.Errorf("invalid document id: %w", err))
		return
	}

	doc, err := h.registry.GetByID(c.Request.Context(), id)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	if doc == nil {
		sendError(c, http.StatusNotFound, errors.New("document not found"))
		return
	}

	bucket, object := h.archive.GetBucketAndObjectFromURL(doc.MinioURL)
	if bucket == "" {
		sendError(c, http.StatusNotFound, errors.New("document has no archived copy"))
		return
	}

	data, err := h.archive.GetObject(c.Request.Context(), bucket, object)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// DeleteDocument godoc
// @Summary Remove an ingestion record and its archived copy
// @Tags documents
// @Param docId path int true "Document ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /documents/{docId} [delete]
func (h *Handler) DeleteDocument(c *gin.Context) {
	if h.registry == nil {
		sendError(c, http.StatusBadRequest, errors.New("document registry not configured"))
		return
	}

	id, err := strconv.ParseInt(c.Param("docId"), 10, 64)
	if err != nil {
		sendError(c, http.StatusBadRequest, fmt.Errorf("invalid document id: %w", err))
		return
	}

	doc, err := h.registry.GetByID(c.Request.Context(), id)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	if doc == nil {
		sendError(c, http.StatusNotFound, errors.New("document not found"))
		return
	}

	// The archived copy goes best effort; the record is authoritative.
	if h.archive != nil && doc.MinioURL != "" {
		bucket, object := h.archive.GetBucketAndObjectFromURL(doc.MinioURL)
		if bucket != "" {
			if err := h.archive.DeleteObject(c.Request.Context(), bucket, object); err != nil {
				log.Error(err, "failed to delete archived PDF", "document", doc.ID)
			}
		}
	}

	if err := h.registry.Delete(c.Request.Context(), id); err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// archiveAndRecord keeps the raw upload and its ingestion record. Both are
// best effort; a failure here never fails the ingestion.
func (h *Handler) archiveAndRecord(c *gin.Context, data []byte, filename string, summary *ingest.Summary) {
	ctx := c.Request.Context()

	var minioURL string
	if h.archive != nil {
		objectName := fmt.Sprintf("%s/%s", summary.IndexName, filename)
		if err := h.archive.PutObject(ctx, h.archiveBucket, objectName, data, "application/pdf"); err != nil {
			log.Error(err, "failed to archive uploaded PDF", "filename", filename)
		} else {
			minioURL = fmt.Sprintf("%s/%s", h.archiveBucket, objectName)
		}
	}

	if h.registry != nil {
		_, err := h.registry.Create(ctx, &documentctrl.Document{
			Filename:  filename,
			IndexName: summary.IndexName,
			Pages:     summary.Pages,
			Chunks:    summary.Chunks,
			MinioURL:  minioURL,
		})
		if err != nil {
			log.Error(err, "failed to record ingestion", "filename", filename)
		}
	}
}
