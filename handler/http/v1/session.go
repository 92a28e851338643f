package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pdfchat/src/core/chat"
)

type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	Persona   string    `json:"persona"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSession godoc
// @Summary Open a new chat session
// @Tags sessions
// @Produce json
// @Success 201 {object} CreateSessionResponse
// @Router /sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	sess := h.manager.Create()
	sendJSON(c, http.StatusCreated, CreateSessionResponse{
		SessionID: sess.ID,
		Persona:   sess.PersonaName(),
		CreatedAt: sess.CreatedAt,
	})
}

// GetStatus godoc
// @Summary Report session readiness and state
// @Tags sessions
// @Param id path string true "Session ID"
// @Produce json
// @Success 200 {object} chat.Status
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		sendError(c, http.StatusNotFound, err)
		return
	}
	sendJSON(c, http.StatusOK, sess.Status())
}

type SetModelRequest struct {
	Provider string `json:"provider" binding:"required"`
}

// SetModel godoc
// @Summary Initialize or switch the session's generation provider
// @Tags sessions
// @Accept json
// @Param id path string true "Session ID"
// @Param request body SetModelRequest true "Provider selection"
// @Produce json
// @Success 200 {object} chat.Status
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/model [put]
func (h *Handler) SetModel(c *gin.Context) {
	var req SetModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := h.manager.SetModel(c.Param("id"), req.Provider); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		sendError(c, http.StatusNotFound, err)
		return
	}
	sendJSON(c, http.StatusOK, sess.Status())
}

type SetPersonaRequest struct {
	// Persona selects a preset by name. Instruction supplies a custom
	// system prompt instead; exactly one must be set.
	Persona     string `json:"persona"`
	Instruction string `json:"instruction"`
}

// SetPersona godoc
// @Summary Change the session persona, clearing the conversation
// @Tags sessions
// @Accept json
// @Param id path string true "Session ID"
// @Param request body SetPersonaRequest true "Persona selection"
// @Produce json
// @Success 200 {object} chat.Status
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/persona [put]
func (h *Handler) SetPersona(c *gin.Context) {
	var req SetPersonaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		sendError(c, http.StatusNotFound, err)
		return
	}

	switch {
	case req.Persona != "" && req.Instruction != "":
		sendError(c, http.StatusBadRequest, errors.New("set either persona or instruction, not both"))
		return
	case req.Persona != "":
		instruction, ok := chat.LookupPersona(req.Persona)
		if !ok {
			sendError(c, http.StatusBadRequest, fmt.Errorf("unknown persona %q", req.Persona))
			return
		}
		sess.SetPersona(req.Persona, instruction)
	case req.Instruction != "":
		sess.SetPersona("Custom", req.Instruction)
	default:
		sendError(c, http.StatusBadRequest, errors.New("persona or instruction required"))
		return
	}

	sendJSON(c, http.StatusOK, sess.Status())
}

type ResetRequest struct {
	// Scope is "chat" to clear only the conversation, or "all" to also
	// drop the provider and active index.
	Scope string `json:"scope"`
}

// Reset godoc
// @Summary Clear session conversation state
// @Tags sessions
// @Accept json
// @Param id path string true "Session ID"
// @Param request body ResetRequest true "Reset scope"
// @Produce json
// @Success 200 {object} chat.Status
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/reset [post]
func (h *Handler) Reset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	sess, err := h.manager.Get(c.Param("id"))
	if err != nil {
		sendError(c, http.StatusNotFound, err)
		return
	}

	switch req.Scope {
	case "", "chat":
		sess.NewChat()
	case "all":
		sess.ClearAll()
	default:
		sendError(c, http.StatusBadRequest, fmt.Errorf("unknown reset scope %q", req.Scope))
		return
	}

	sendJSON(c, http.StatusOK, sess.Status())
}
