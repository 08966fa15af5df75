package auth

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DriveReadOnlyScope grants read access to file metadata and content
const DriveReadOnlyScope = "https://www.googleapis.com/auth/drive.readonly"

// NewGoogleOAuthConfig returns the OAuth2 client used for Drive imports,
// or nil when the Google provider is not configured.
func NewGoogleOAuthConfig(config *AuthConfig) *oauth2.Config {
	provider, err := config.GetProvider(GoogleProvider)
	if err != nil {
		return nil
	}

	return &oauth2.Config{
		ClientID:     provider.ClientID,
		ClientSecret: provider.ClientSecret,
		RedirectURL:  provider.RedirectURL,
		Scopes:       []string{DriveReadOnlyScope},
		Endpoint:     google.Endpoint,
	}
}
