package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mindmesh/mindmesh-api/internal/errors"
	"github.com/mindmesh/mindmesh-api/internal/middleware"
	"github.com/mindmesh/mindmesh-api/internal/store"
)

// SettingsHandler coordinates user-settings HTTP handlers.
type SettingsHandler struct {
	settingsStore *store.SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsStore *store.SettingsStore) *SettingsHandler {
	return &SettingsHandler{
		settingsStore: settingsStore,
	}
}

// GetSettings returns the user's settings, creating defaults on first use.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	settings, err := h.settingsStore.Get(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings applies a partial settings update.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateSettingsRequest struct {
		Theme                *string `json:"theme"`
		ReduceMotion         *bool   `json:"reduce_motion"`
		NotificationsEnabled *bool   `json:"notifications_enabled"`
		TTSVoiceID           *string `json:"tts_voice_id"`
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsStore.Get(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch settings")
		return
	}

	if req.Theme != nil {
		switch *req.Theme {
		case "light", "dark", "system":
			settings.Theme = *req.Theme
		default:
			apierrors.BadRequest(c, "Invalid theme")
			return
		}
	}
	if req.ReduceMotion != nil {
		settings.ReduceMotion = *req.ReduceMotion
	}
	if req.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.TTSVoiceID != nil {
		settings.TTSVoiceID = *req.TTSVoiceID
	}

	if err := h.settingsStore.Update(userID, settings); err != nil {
		apierrors.InternalError(c, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// SubscriptionHandler surfaces paywall state and the developer override.
type SubscriptionHandler struct {
	subscriptionStore *store.SubscriptionStore
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionStore *store.SubscriptionStore) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionStore: subscriptionStore,
	}
}

// GetSubscription returns the user's resolved subscription state.
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, h.subscriptionStore.Get(userID))
}

// SetOverride toggles the developer-mode override that unlocks premium
// features without billing.
func (h *SubscriptionHandler) SetOverride(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type OverrideRequest struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}

	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sub, err := h.subscriptionStore.SetDeveloperOverride(userID, *req.Enabled)
	if err != nil {
		apierrors.InternalError(c, "Failed to persist override")
		return
	}

	c.JSON(http.StatusOK, sub)
}
