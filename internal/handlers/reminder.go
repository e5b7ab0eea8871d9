package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mindmesh/mindmesh-api/internal/errors"
	"github.com/mindmesh/mindmesh-api/internal/middleware"
	"github.com/mindmesh/mindmesh-api/internal/services"
)

// ReminderHandler coordinates reminder HTTP handlers.
type ReminderHandler struct {
	reminderService *services.ReminderService
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
	}
}

// ListReminders returns all of the user's reminders.
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	reminders, err := h.reminderService.ListReminders(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch reminders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

// ActiveReminders returns reminders that are due and not dismissed.
func (h *ReminderHandler) ActiveReminders(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	reminders, err := h.reminderService.ActiveReminders(userID, time.Now())
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch reminders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

// CreateReminder creates a new reminder.
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateReminderRequest struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description"`
		RemindAt    time.Time `json:"remind_at" binding:"required"`
	}

	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	reminder, err := h.reminderService.CreateReminder(services.CreateReminderInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		RemindAt:    req.RemindAt,
	})
	if err != nil {
		respondReminderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reminder)
}

// DismissReminder marks a reminder dismissed.
func (h *ReminderHandler) DismissReminder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	reminderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reminder, err := h.reminderService.Dismiss(reminderID, userID)
	if err != nil {
		respondReminderError(c, err)
		return
	}

	c.JSON(http.StatusOK, reminder)
}

// SnoozeReminder dismisses a reminder and creates a successor shifted by
// the requested number of minutes.
func (h *ReminderHandler) SnoozeReminder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	reminderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type SnoozeRequest struct {
		Minutes int `json:"minutes" binding:"required"`
	}

	var req SnoozeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	successor, err := h.reminderService.Snooze(reminderID, userID, req.Minutes)
	if err != nil {
		respondReminderError(c, err)
		return
	}

	c.JSON(http.StatusOK, successor)
}

// DeleteReminder removes a reminder.
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	reminderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reminderService.DeleteReminder(reminderID, userID); err != nil {
		respondReminderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reminder deleted successfully",
	})
}

func respondReminderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrReminderNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotReminderOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidSnooze),
		errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrReminderDismissed):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
