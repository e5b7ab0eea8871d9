package providers

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mindmesh/mindmesh-api/internal/config"
	"github.com/mindmesh/mindmesh-api/internal/models"
)

// OAuthExchanger performs the authorization-code flows for the calendar and
// workspace providers. It is the only place tokens are minted; the resulting
// Integration row never leaves the server.
type OAuthExchanger struct {
	google *oauth2.Config
	notion *oauth2.Config
}

func NewOAuthExchanger(cfg *config.Config) *OAuthExchanger {
	return &OAuthExchanger{
		google: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/calendar.events",
			},
			Endpoint: google.Endpoint,
		},
		notion: &oauth2.Config{
			ClientID:     cfg.NotionClientID,
			ClientSecret: cfg.NotionClientSecret,
			RedirectURL:  cfg.NotionRedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   "https://api.notion.com/v1/oauth/authorize",
				TokenURL:  "https://api.notion.com/v1/oauth/token",
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
	}
}

func (e *OAuthExchanger) configFor(system models.ExternalSystem) (*oauth2.Config, error) {
	switch system {
	case models.SystemGoogleCalendar:
		return e.google, nil
	case models.SystemNotion:
		return e.notion, nil
	default:
		return nil, fmt.Errorf("unknown external system: %s", system)
	}
}

// AuthURL returns the provider consent URL for the given state token.
func (e *OAuthExchanger) AuthURL(system models.ExternalSystem, state string) (string, error) {
	cfg, err := e.configFor(system)
	if err != nil {
		return "", err
	}
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline}
	if system == models.SystemNotion {
		opts = []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("owner", "user")}
	}
	return cfg.AuthCodeURL(state, opts...), nil
}

// Exchange trades an authorization code for tokens.
func (e *OAuthExchanger) Exchange(ctx context.Context, system models.ExternalSystem, code string) (accessToken, refreshToken string, expiresAt *time.Time, err error) {
	cfg, err := e.configFor(system)
	if err != nil {
		return "", "", nil, err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return "", "", nil, fmt.Errorf("token exchange failed: %w", err)
	}

	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		expiresAt = &expiry
	}
	return token.AccessToken, token.RefreshToken, expiresAt, nil
}

// Refresh renews an expired access token using the stored refresh token.
func (e *OAuthExchanger) Refresh(ctx context.Context, integration *models.Integration) (string, *time.Time, error) {
	cfg, err := e.configFor(integration.IntegrationType)
	if err != nil {
		return "", nil, err
	}
	if integration.RefreshToken == "" {
		return "", nil, fmt.Errorf("integration has no refresh token")
	}

	src := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: integration.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return "", nil, fmt.Errorf("token refresh failed: %w", err)
	}

	var expiresAt *time.Time
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		expiresAt = &expiry
	}
	return token.AccessToken, expiresAt, nil
}
