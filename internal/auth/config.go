package auth

import (
	"fmt"
	"time"

	"teamspace-backend/internal/config"
)

// GoogleProvider is the provider key for Google Drive imports
const GoogleProvider = "google"

// AuthConfig holds all authentication configuration for the application
type AuthConfig struct {
	JWTSecret    string                    `yaml:"jwt_secret" json:"jwt_secret"`
	Issuer       string                    `yaml:"issuer" json:"issuer"`
	SessionTTL   time.Duration             `yaml:"session_ttl" json:"session_ttl"`
	StateTTL     time.Duration             `yaml:"state_ttl" json:"state_ttl"`
	CookieName   string                    `yaml:"cookie_name" json:"cookie_name"`
	SecureCookie bool                      `yaml:"secure_cookie" json:"secure_cookie"`
	Providers    map[string]ProviderConfig `yaml:"providers" json:"providers"`
}

// ProviderConfig holds configuration for a specific provider
type ProviderConfig struct {
	ClientID     string `yaml:"client_id" json:"client_id"`
	ClientSecret string `yaml:"client_secret" json:"client_secret"`
	RedirectURL  string `yaml:"redirect_url" json:"redirect_url"`
	APIKey       string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	AppID        string `yaml:"app_id,omitempty" json:"app_id,omitempty"`
}

// NewAuthConfig derives the authentication configuration from the application config.
// The Google provider is only registered when its client credentials are present.
func NewAuthConfig(cfg *config.Config) *AuthConfig {
	authConfig := &AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		Issuer:       "teamspace-backend",
		SessionTTL:   time.Duration(cfg.SessionTTLHours) * time.Hour,
		StateTTL:     10 * time.Minute,
		CookieName:   cfg.SessionCookieName,
		SecureCookie: cfg.IsProduction(),
		Providers:    map[string]ProviderConfig{},
	}

	if cfg.GoogleConfigured() {
		authConfig.Providers[GoogleProvider] = ProviderConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			APIKey:       cfg.GoogleAPIKey,
			AppID:        cfg.GoogleAppID,
		}
	}

	return authConfig
}

// GetProvider returns the configuration for a specific provider
func (c *AuthConfig) GetProvider(provider string) (*ProviderConfig, error) {
	providerConfig, exists := c.Providers[provider]
	if !exists {
		return nil, fmt.Errorf("provider '%s' not found", provider)
	}

	return &providerConfig, nil
}

// ValidateConfig validates the authentication configuration
func (c *AuthConfig) ValidateConfig() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	if c.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}

	for providerName, provider := range c.Providers {
		if provider.ClientID == "" {
			return fmt.Errorf("client_id is required for provider '%s'", providerName)
		}
		if provider.ClientSecret == "" {
			return fmt.Errorf("client_secret is required for provider '%s'", providerName)
		}
		if provider.RedirectURL == "" {
			return fmt.Errorf("redirect_url is required for provider '%s'", providerName)
		}
	}

	return nil
}
