package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfchat/src/core/chat"
)

type ChatRequest struct {
	Question string `json:"question" binding:"required"`
	UseRAG   bool   `json:"use_rag"`
}

// Chat godoc
// @Summary Ask a question within a session
// @Tags chat
// @Accept json
// @Param id path string true "Session ID"
// @Param request body ChatRequest true "Question"
// @Produce json
// @Success 200 {object} chat.Answer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	answer, err := h.manager.Ask(c.Request.Context(), c.Param("id"), req.Question, req.UseRAG)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	sendJSON(c, http.StatusOK, answer)
}

type HistoryResponse struct {
	SessionID string      `json:"session_id"`
	Turns     []chat.Turn `json:"turns"`
}

// GetHistory godoc
// @Summary Return the session's conversation log
// @Tags chat
// @Param id path string true "Session ID"
// @Produce json
// @Success 200 {object} HistoryResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		sendError(c, http.StatusNotFound, err)
		return
	}
	sendJSON(c, http.StatusOK, HistoryResponse{
		SessionID: sess.ID,
		Turns:     sess.History(),
	})
}
