package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/solstice-backend/internal/logger"
	"github.com/yungbote/solstice-backend/internal/services"
	"github.com/yungbote/solstice-backend/internal/types"
)

type RoutineHandler struct {
	log      *logger.Logger
	routines services.RoutineService
}

func NewRoutineHandler(baseLog *logger.Logger, routines services.RoutineService) *RoutineHandler {
	return &RoutineHandler{
		log:      baseLog.With("handler", "RoutineHandler"),
		routines: routines,
	}
}

// Save creates a routine when no id is supplied and updates it otherwise.
func (h *RoutineHandler) Save(c *gin.Context) {
	var r types.Routine
	if err := c.ShouldBindJSON(&r); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	saved, err := h.routines.Save(c.Request.Context(), nil, &r)
	if err != nil {
		h.log.Error("Save failed", "error", err)
		respondDomainError(c, "save_routine_failed", err)
		return
	}
	RespondOK(c, gin.H{"routine": saved})
}

func (h *RoutineHandler) List(c *gin.Context) {
	routines, err := h.routines.ListMine(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("List failed", "error", err)
		respondDomainError(c, "list_routines_failed", err)
		return
	}
	RespondOK(c, gin.H{"routines": routines})
}

func (h *RoutineHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_routine_id", err)
		return
	}
	r, err := h.routines.Get(c.Request.Context(), nil, id)
	if err != nil {
		respondDomainError(c, "get_routine_failed", err)
		return
	}
	RespondOK(c, gin.H{"routine": r})
}

func (h *RoutineHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_routine_id", err)
		return
	}
	if err := h.routines.Delete(c.Request.Context(), nil, id); err != nil {
		respondDomainError(c, "delete_routine_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

type reorderRequest struct {
	CardIDs []uuid.UUID `json:"card_ids" binding:"required"`
}

// Reorder replaces a routine's card order with the supplied permutation.
func (h *RoutineHandler) Reorder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_routine_id", err)
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	r, err := h.routines.Reorder(c.Request.Context(), nil, id, req.CardIDs)
	if err != nil {
		h.log.Error("Reorder failed", "error", err, "routine_id", id)
		respondDomainError(c, "reorder_routine_failed", err)
		return
	}
	RespondOK(c, gin.H{"routine": r})
}

type generateRequest struct {
	Prompt   string `json:"prompt"`
	Keyword  string `json:"keyword"`
	MaxCards int    `json:"max_cards"`
}

// Generate builds an unsaved routine either from a free-text prompt or from
// the caller's synced content collection. Prompt wins when both are present.
func (h *RoutineHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	var (
		r   *types.Routine
		err error
	)
	if req.Prompt != "" {
		r, err = h.routines.GenerateFromPrompt(c.Request.Context(), req.Prompt)
	} else {
		r, err = h.routines.GenerateFromCollection(c.Request.Context(), nil, req.Keyword, req.MaxCards)
	}
	if err != nil {
		h.log.Error("Generate failed", "error", err)
		respondDomainError(c, "generate_routine_failed", err)
		return
	}
	RespondOK(c, gin.H{"routine": r})
}
