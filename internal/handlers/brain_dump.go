package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mindmesh/mindmesh-api/internal/errors"
	"github.com/mindmesh/mindmesh-api/internal/middleware"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/services"
)

// BrainDumpHandler coordinates brain-dump HTTP handlers.
type BrainDumpHandler struct {
	dumpService *services.BrainDumpService
}

// NewBrainDumpHandler creates a new BrainDumpHandler.
func NewBrainDumpHandler(dumpService *services.BrainDumpService) *BrainDumpHandler {
	return &BrainDumpHandler{
		dumpService: dumpService,
	}
}

// ListDumps returns the user's brain dumps. ?unprocessed=true narrows to
// entries awaiting classification.
func (h *BrainDumpHandler) ListDumps(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	unprocessedOnly := c.Query("unprocessed") == "true"

	dumps, err := h.dumpService.List(userID, unprocessedOnly)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch brain dumps")
		return
	}

	c.JSON(http.StatusOK, gin.H{"brain_dumps": dumps})
}

// CreateDump captures one free-text or voice-transcribed thought.
func (h *BrainDumpHandler) CreateDump(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateDumpRequest struct {
		Content string `json:"content" binding:"required"`
		Type    string `json:"type"`
	}

	var req CreateDumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dump, err := h.dumpService.Create(userID, req.Content, models.BrainDumpType(req.Type))
	if err != nil {
		respondBrainDumpError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dump)
}

// SyncDumps uploads a batch of captures taken while offline. Entries that
// fail validation are reported individually; the rest are stored.
func (h *BrainDumpHandler) SyncDumps(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SyncDumpsRequest struct {
		Entries []services.BatchEntry `json:"entries" binding:"required"`
	}

	var req SyncDumpsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.dumpService.SyncBatch(userID, req.Entries)
	if err != nil {
		respondBrainDumpError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ProcessDump runs AI classification over one brain dump and marks it
// processed.
func (h *BrainDumpHandler) ProcessDump(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	dumpID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.dumpService.Process(c.Request.Context(), dumpID, userID)
	if err != nil {
		respondBrainDumpError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteDump removes a brain dump.
func (h *BrainDumpHandler) DeleteDump(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	dumpID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.dumpService.Delete(dumpID, userID); err != nil {
		respondBrainDumpError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Brain dump deleted successfully",
	})
}

func respondBrainDumpError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBrainDumpNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotBrainDumpOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrBatchTooLarge):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
