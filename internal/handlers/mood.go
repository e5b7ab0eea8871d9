package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mindmesh/mindmesh-api/internal/errors"
	"github.com/mindmesh/mindmesh-api/internal/middleware"
	"github.com/mindmesh/mindmesh-api/internal/services"
)

// MoodHandler coordinates mood-tracking HTTP handlers.
type MoodHandler struct {
	moodService *services.MoodService
}

// NewMoodHandler creates a new MoodHandler.
func NewMoodHandler(moodService *services.MoodService) *MoodHandler {
	return &MoodHandler{
		moodService: moodService,
	}
}

// ListEntries returns the user's mood entries, newest first. Supports a
// ?days= lookback window.
func (h *MoodHandler) ListEntries(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var since *time.Time
	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			apierrors.BadRequest(c, "Invalid days")
			return
		}
		cutoff := time.Now().AddDate(0, 0, -days)
		since = &cutoff
	}

	entries, err := h.moodService.ListEntries(userID, since)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch mood entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// CreateEntry records a new mood check-in.
func (h *MoodHandler) CreateEntry(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateMoodRequest struct {
		MoodScore   int    `json:"mood_score" binding:"required"`
		EnergyLevel int    `json:"energy_level" binding:"required"`
		FocusLevel  int    `json:"focus_level" binding:"required"`
		Notes       string `json:"notes"`
	}

	var req CreateMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.moodService.CreateEntry(services.CreateMoodInput{
		UserID:      userID,
		MoodScore:   req.MoodScore,
		EnergyLevel: req.EnergyLevel,
		FocusLevel:  req.FocusLevel,
		Notes:       req.Notes,
	})
	if err != nil {
		respondMoodError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// UpdateEntry replaces an existing mood entry's scores and notes.
func (h *MoodHandler) UpdateEntry(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateMoodRequest struct {
		MoodScore   int    `json:"mood_score" binding:"required"`
		EnergyLevel int    `json:"energy_level" binding:"required"`
		FocusLevel  int    `json:"focus_level" binding:"required"`
		Notes       string `json:"notes"`
	}

	var req UpdateMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.moodService.UpdateEntry(entryID, userID, services.CreateMoodInput{
		MoodScore:   req.MoodScore,
		EnergyLevel: req.EnergyLevel,
		FocusLevel:  req.FocusLevel,
		Notes:       req.Notes,
	})
	if err != nil {
		respondMoodError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteEntry removes a mood entry.
func (h *MoodHandler) DeleteEntry(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.moodService.DeleteEntry(entryID, userID); err != nil {
		respondMoodError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Mood entry deleted successfully",
	})
}

// GetAverages returns mean mood, energy and focus over a lookback window
// (default 7 days). With no entries in the window the averages are null.
func (h *MoodHandler) GetAverages(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			apierrors.BadRequest(c, "Invalid days")
			return
		}
		days = parsed
	}

	averages, err := h.moodService.Averages(userID, days)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute averages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":     days,
		"averages": averages,
	})
}

// GetTrend reports whether recent mood is improving, declining or stable.
func (h *MoodHandler) GetTrend(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	trend, err := h.moodService.RecentTrend(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute trend")
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

func respondMoodError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMoodEntryNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotMoodOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidMoodScore):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
