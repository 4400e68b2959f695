package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/solstice-backend/internal/logger"
	"github.com/yungbote/solstice-backend/internal/services"
	"github.com/yungbote/solstice-backend/internal/types"
)

type ParseHandler struct {
	log          *logger.Logger
	segmentation services.SegmentationService
	cues         services.CueService
}

func NewParseHandler(log *logger.Logger, segmentation services.SegmentationService, cues services.CueService) *ParseHandler {
	return &ParseHandler{
		log:          log.With("handler", "ParseHandler"),
		segmentation: segmentation,
		cues:         cues,
	}
}

type parseRequest struct {
	URL string `json:"url" binding:"required"`
}

// Parse turns a source URL into an ordered card sequence. The result is never
// empty for a parseable URL; service outages degrade to the fallback card.
func (h *ParseHandler) Parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	cards, err := h.segmentation.Segment(c.Request.Context(), req.URL)
	if err != nil {
		respondDomainError(c, "parse_failed", err)
		return
	}
	RespondOK(c, gin.H{"cards": cards})
}

type cueRequest struct {
	Card cueRequestCard `json:"card" binding:"required"`
}

type cueRequestCard struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	MediaReference string `json:"media_reference"`
	StartOffset    *int   `json:"start_offset"`
	EndOffset      *int   `json:"end_offset"`
	Duration       int    `json:"duration"`
}

func (rc cueRequestCard) toCard() *types.Card {
	return &types.Card{
		ID:             uuid.New(),
		Title:          rc.Title,
		Description:    rc.Description,
		SourceType:     types.SourceTypeCustom,
		MediaReference: rc.MediaReference,
		StartOffset:    rc.StartOffset,
		EndOffset:      rc.EndOffset,
		Duration:       rc.Duration,
	}
}

// SuggestCues returns cue suggestions for one card. Suggestions are not
// attached to anything; the client decides what to merge.
func (h *ParseHandler) SuggestCues(c *gin.Context) {
	var req cueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	card := req.Card.toCard()
	cues, err := h.cues.SuggestCues(c.Request.Context(), card)
	if err != nil {
		respondDomainError(c, "cue_generation_failed", err)
		return
	}
	RespondOK(c, gin.H{"cues": cues})
}
