package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/providers"
	"github.com/mindmesh/mindmesh-api/internal/repository"
	"github.com/mindmesh/mindmesh-api/internal/utils"
)

var (
	ErrIntegrationNotFound = errors.New("integration not found")
	ErrUnknownSystem       = errors.New("unknown external system")
)

// IntegrationService handles connecting and disconnecting external systems.
// Tokens are stored server-side only and never returned to the client.
type IntegrationService struct {
	syncRepo  repository.SyncRepository
	exchanger *providers.OAuthExchanger
	state     *utils.OAuthStateCodec
}

// NewIntegrationService creates a new IntegrationService
func NewIntegrationService(syncRepo repository.SyncRepository, exchanger *providers.OAuthExchanger, state *utils.OAuthStateCodec) *IntegrationService {
	return &IntegrationService{syncRepo: syncRepo, exchanger: exchanger, state: state}
}

// ParseSystem validates an external system tag.
func ParseSystem(raw string) (models.ExternalSystem, error) {
	system := models.ExternalSystem(raw)
	switch system {
	case models.SystemGoogleCalendar, models.SystemNotion:
		return system, nil
	default:
		return "", ErrUnknownSystem
	}
}

// AuthURL returns the provider consent URL for the user. The embedded state
// is signed so the callback can trust it without a session.
func (s *IntegrationService) AuthURL(system models.ExternalSystem, userID uint64) (string, error) {
	url, err := s.exchanger.AuthURL(system, s.state.Mint(userID))
	if err != nil {
		return "", fmt.Errorf("failed to build auth url: %w", err)
	}
	return url, nil
}

// VerifyState authenticates a callback state parameter and returns the user
// it was minted for. States not produced by AuthURL are rejected.
func (s *IntegrationService) VerifyState(state string) (uint64, error) {
	return s.state.Verify(state)
}

// CompleteAuth exchanges the callback code and stores (or refreshes) the
// integration row.
func (s *IntegrationService) CompleteAuth(ctx context.Context, system models.ExternalSystem, userID uint64, code string) (*models.Integration, error) {
	accessToken, refreshToken, expiresAt, err := s.exchanger.Exchange(ctx, system, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange failed: %w", err)
	}

	integration, err := s.syncRepo.FindIntegration(userID, system)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		integration = &models.Integration{
			UserID:          userID,
			IntegrationType: system,
			SyncRules:       models.SyncRules{ImportEnabled: true, ExportEnabled: true},
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up integration: %w", err)
	}

	integration.AccessToken = accessToken
	if refreshToken != "" {
		integration.RefreshToken = refreshToken
	}
	integration.TokenExpiresAt = expiresAt
	integration.IsActive = true

	if err := s.syncRepo.SaveIntegration(integration); err != nil {
		return nil, fmt.Errorf("failed to save integration: %w", err)
	}
	return integration, nil
}

// List returns the user's integrations, active or not.
func (s *IntegrationService) List(userID uint64) ([]models.Integration, error) {
	integrations, err := s.syncRepo.ListIntegrations(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	return integrations, nil
}

// UpdateSyncRules replaces the integration's sync-rule configuration.
func (s *IntegrationService) UpdateSyncRules(userID uint64, system models.ExternalSystem, rules models.SyncRules) (*models.Integration, error) {
	integration, err := s.syncRepo.FindIntegration(userID, system)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntegrationNotFound
		}
		return nil, fmt.Errorf("failed to find integration: %w", err)
	}

	integration.SyncRules = rules
	if err := s.syncRepo.SaveIntegration(integration); err != nil {
		return nil, fmt.Errorf("failed to update sync rules: %w", err)
	}
	return integration, nil
}

// Disconnect removes the integration. Sync mappings are kept so a later
// reconnect does not re-import already-imported items.
func (s *IntegrationService) Disconnect(userID uint64, system models.ExternalSystem) error {
	if _, err := s.syncRepo.FindIntegration(userID, system); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIntegrationNotFound
		}
		return fmt.Errorf("failed to find integration: %w", err)
	}
	if err := s.syncRepo.DeleteIntegration(userID, system); err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}
	return nil
}

// EnsureFreshToken refreshes an expired access token in place.
func (s *IntegrationService) EnsureFreshToken(ctx context.Context, integration *models.Integration) error {
	if integration.TokenExpiresAt == nil || integration.TokenExpiresAt.After(time.Now()) {
		return nil
	}

	accessToken, expiresAt, err := s.exchanger.Refresh(ctx, integration)
	if err != nil {
		return err
	}
	integration.AccessToken = accessToken
	integration.TokenExpiresAt = expiresAt
	return s.syncRepo.SaveIntegration(integration)
}
