// Package linkedin builds LinkedIn authorization URLs for the social sign-in
// and sign-up flows. The code exchange itself happens server side; this
// package only produces the redirect and validates its configuration.
package linkedin

import (
	"golang.org/x/oauth2"
	oauthlinkedin "golang.org/x/oauth2/linkedin"

	"github.com/chafiksabiry/go-authflow/social"
)

// DefaultScopes returns the OpenID Connect scopes LinkedIn expects today.
func DefaultScopes() []string {
	return []string{"openid", "profile", "email"}
}

// LegacyScopes returns the pre-OIDC scope set still accepted by older apps.
func LegacyScopes() []string {
	return []string{"r_liteprofile", "r_emailaddress"}
}

// Config holds the LinkedIn OAuth application settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	// UseLegacyScopes switches the default scope set to the legacy one when
	// Scopes is empty.
	UseLegacyScopes bool
}

// Provider implements social.Provider for LinkedIn.
type Provider struct {
	oauth oauth2.Config
}

// New validates the configuration and returns a provider. A missing client
// id fails fast; no redirect URL is ever produced from a broken config.
func New(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, social.ErrProviderNotConfigured.Clone().WithMetadata(map[string]any{
			"provider": "linkedin",
			"missing":  "client_id",
		})
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		if cfg.UseLegacyScopes {
			scopes = LegacyScopes()
		} else {
			scopes = DefaultScopes()
		}
	}

	return &Provider{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     oauthlinkedin.Endpoint,
		},
	}, nil
}

// Name implements social.Provider.
func (p *Provider) Name() string {
	return "linkedin"
}

// AuthCodeURL implements social.Provider: the full authorization URL with
// response_type=code, client_id, redirect_uri, state and scope.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}
