package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/solstice-backend/internal/logger"
	"github.com/yungbote/solstice-backend/internal/services"
)

type ContentHandler struct {
	log         *logger.Logger
	connections services.ConnectionService
}

func NewContentHandler(baseLog *logger.Logger, connections services.ConnectionService) *ContentHandler {
	return &ContentHandler{
		log:         baseLog.With("handler", "ContentHandler"),
		connections: connections,
	}
}

// Sync pulls the caller's latest content from the named platform into their
// collection and returns the newly stored items.
func (h *ContentHandler) Sync(c *gin.Context) {
	platform := c.Param("platform")
	items, err := h.connections.Sync(c.Request.Context(), nil, platform)
	if err != nil {
		h.log.Error("Sync failed", "error", err, "platform", platform)
		respondDomainError(c, "sync_connection_failed", err)
		return
	}
	RespondOK(c, gin.H{"items": items})
}

func (h *ContentHandler) ListCollection(c *gin.Context) {
	items, err := h.connections.ListCollection(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("ListCollection failed", "error", err)
		respondDomainError(c, "list_content_failed", err)
		return
	}
	RespondOK(c, gin.H{"items": items})
}
