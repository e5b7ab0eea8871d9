package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mindmesh/mindmesh-api/internal/errors"
	"github.com/mindmesh/mindmesh-api/internal/logger"
	"github.com/mindmesh/mindmesh-api/internal/middleware"
	"github.com/mindmesh/mindmesh-api/internal/services"
	"github.com/mindmesh/mindmesh-api/internal/store"
)

// TTSHandler proxies text-to-speech synthesis. Upstream failures degrade
// to HTTP 200 with audio omitted so read-aloud stays optional for the
// client rather than an error state.
type TTSHandler struct {
	ttsService    *services.TTSService
	settingsStore *store.SettingsStore
	log           logger.Logger
}

// NewTTSHandler creates a new TTSHandler.
func NewTTSHandler(ttsService *services.TTSService, settingsStore *store.SettingsStore, log logger.Logger) *TTSHandler {
	return &TTSHandler{
		ttsService:    ttsService,
		settingsStore: settingsStore,
		log:           log,
	}
}

// Synthesize converts text to speech audio. The user's configured voice is
// used unless the request overrides it.
func (h *TTSHandler) Synthesize(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SynthesizeRequest struct {
		Text    string `json:"text" binding:"required"`
		VoiceID string `json:"voice_id"`
		ModelID string `json:"model_id"`
	}

	var req SynthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if h.ttsService == nil {
		apierrors.ServiceUnavailable(c, "TTS service is not configured")
		return
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		if settings, err := h.settingsStore.Get(userID); err == nil {
			voiceID = settings.TTSVoiceID
		}
	}

	result, err := h.ttsService.Synthesize(c.Request.Context(), req.Text, voiceID, req.ModelID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyText) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		h.log.Warnf("tts synthesis failed, serving silent fallback: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"audio_base64": "",
			"content_type": "audio/mpeg",
			"size":         0,
			"degraded":     true,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
