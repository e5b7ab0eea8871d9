package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mindmesh/mindmesh-api/internal/errors"
	"github.com/mindmesh/mindmesh-api/internal/middleware"
	"github.com/mindmesh/mindmesh-api/internal/services"
)

// FocusHandler coordinates focus-session HTTP handlers.
type FocusHandler struct {
	focusService *services.FocusService
}

// NewFocusHandler creates a new FocusHandler.
func NewFocusHandler(focusService *services.FocusService) *FocusHandler {
	return &FocusHandler{
		focusService: focusService,
	}
}

// ListSessions returns the user's focus sessions.
func (h *FocusHandler) ListSessions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	sessions, err := h.focusService.ListSessions(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch focus sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// StartSession begins a new focus session, optionally tied to a task.
func (h *FocusHandler) StartSession(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type StartSessionRequest struct {
		TaskID          *uint64 `json:"task_id"`
		DurationMinutes int     `json:"duration_minutes" binding:"required"`
		Notes           string  `json:"notes"`
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.focusService.StartSession(services.StartSessionInput{
		UserID:          userID,
		TaskID:          req.TaskID,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		respondFocusError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// CompleteSession marks a focus session finished.
func (h *FocusHandler) CompleteSession(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.focusService.CompleteSession(sessionID, userID)
	if err != nil {
		respondFocusError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func respondFocusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFocusSessionNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotFocusSessionOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidDuration):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
