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

// IntegrationHandler coordinates external-system connection handlers.
type IntegrationHandler struct {
	integrationService *services.IntegrationService
}

// NewIntegrationHandler creates a new IntegrationHandler.
func NewIntegrationHandler(integrationService *services.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{
		integrationService: integrationService,
	}
}

// ListIntegrations returns the user's connected external systems. Tokens
// are never serialized.
func (h *IntegrationHandler) ListIntegrations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	integrations, err := h.integrationService.List(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch integrations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"integrations": integrations})
}

// BeginAuth returns the provider consent URL for the requested system.
func (h *IntegrationHandler) BeginAuth(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	system, err := services.ParseSystem(c.Param("provider"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	url, err := h.integrationService.AuthURL(system, userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to build authorization URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_url": url})
}

// AuthCallback completes the OAuth round trip. The owning user is carried
// in the signed state parameter, so this endpoint does not require a
// session; unsigned or tampered states are rejected before any exchange.
func (h *IntegrationHandler) AuthCallback(c *gin.Context) {
	system, err := services.ParseSystem(c.Param("provider"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	code := c.Query("code")
	if code == "" {
		apierrors.BadRequest(c, "Missing authorization code")
		return
	}

	userID, err := h.integrationService.VerifyState(c.Query("state"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid state parameter")
		return
	}

	integration, err := h.integrationService.CompleteAuth(c.Request.Context(), system, userID, code)
	if err != nil {
		apierrors.InternalError(c, "Failed to complete authorization")
		return
	}

	c.JSON(http.StatusOK, integration)
}

// UpdateSyncRules replaces an integration's import/export configuration.
func (h *IntegrationHandler) UpdateSyncRules(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	system, err := services.ParseSystem(c.Param("provider"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	var rules models.SyncRules
	if err := c.ShouldBindJSON(&rules); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	integration, err := h.integrationService.UpdateSyncRules(userID, system, rules)
	if err != nil {
		respondIntegrationError(c, err)
		return
	}

	c.JSON(http.StatusOK, integration)
}

// Disconnect removes an integration. Sync mappings are kept so already
// imported items are not duplicated on reconnect.
func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	system, err := services.ParseSystem(c.Param("provider"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	if err := h.integrationService.Disconnect(userID, system); err != nil {
		respondIntegrationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Integration disconnected successfully",
	})
}

func respondIntegrationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrIntegrationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUnknownSystem):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
