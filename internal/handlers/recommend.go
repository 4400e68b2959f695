package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/solstice-backend/internal/logger"
	"github.com/yungbote/solstice-backend/internal/services"
)

type RecommendHandler struct {
	log             *logger.Logger
	recommendations services.RecommendationService
}

func NewRecommendHandler(baseLog *logger.Logger, recommendations services.RecommendationService) *RecommendHandler {
	return &RecommendHandler{
		log:             baseLog.With("handler", "RecommendHandler"),
		recommendations: recommendations,
	}
}

type recommendRequest struct {
	Tags []string `json:"tags" binding:"required"`
}

func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	recs, err := h.recommendations.Recommend(c.Request.Context(), nil, req.Tags)
	if err != nil {
		h.log.Error("Recommend failed", "error", err)
		respondDomainError(c, "recommend_failed", err)
		return
	}
	RespondOK(c, gin.H{"routines": recs})
}
