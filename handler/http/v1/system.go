package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfchat/src/core/chat"
)

// ListPersonas godoc
// @Summary List the preset personas
// @Tags system
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /personas [get]
func (h *Handler) ListPersonas(c *gin.Context) {
	sendJSON(c, http.StatusOK, gin.H{"personas": chat.PersonaNames()})
}

// ListIndexes godoc
// @Summary List the indexes present in the vector store
// @Tags system
// @Produce json
// @Success 200 {object} map[string][]string
// @Failure 502 {object} ErrorResponse
// @Router /indexes [get]
func (h *Handler) ListIndexes(c *gin.Context) {
	names, err := h.store.ListIndexes(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusBadGateway, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	sendJSON(c, http.StatusOK, gin.H{"indexes": names})
}

// CheckHealth godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) CheckHealth(c *gin.Context) {
	sendJSON(c, http.StatusOK, gin.H{"status": "ok"})
}
