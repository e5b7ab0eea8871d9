package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mindmesh/mindmesh-api/internal/errors"
	"github.com/mindmesh/mindmesh-api/internal/middleware"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/services"
)

// SyncHandler exposes the reconciliation run over HTTP.
type SyncHandler struct {
	syncService *services.SyncService
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncService *services.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
	}
}

// RunSync executes one reconciliation pass over the user's active
// integrations. The optional body narrows the run to one system or one
// direction. Per-item failures are reported in the result, not as an HTTP
// error.
func (h *SyncHandler) RunSync(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type RunSyncRequest struct {
		System    string `json:"system"`
		Direction string `json:"direction"`
	}

	var req RunSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.SyncInput{UserID: userID}

	if req.System != "" {
		system, err := services.ParseSystem(req.System)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		input.System = &system
	}

	if req.Direction != "" {
		direction := models.SyncDirection(req.Direction)
		switch direction {
		case models.DirectionImport, models.DirectionExport, models.DirectionBoth:
			input.Direction = &direction
		default:
			apierrors.BadRequest(c, "Invalid direction")
			return
		}
	}

	result, err := h.syncService.Run(c.Request.Context(), input)
	if err != nil {
		apierrors.InternalError(c, "Sync run failed")
		return
	}

	c.JSON(http.StatusOK, result)
}
