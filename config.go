package authflow

import (
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/joho/godotenv"
)

// Destinations are the landing paths the resolver can pick from. All are
// configuration, never hardcoded at decision sites.
type Destinations struct {
	OnboardingEntry    string
	CompanyWizard      string
	CompanyDashboard   string
	RepProfileCreation string
	RepDashboard       string
	RepOrchestrator    string
	PostRegistration   string
	SignIn             string
	OAuthFailure       string
}

// Config holds everything the flows, the resolver and the OAuth guard need.
type Config struct {
	AuthAPIURL    string
	CompanyAPIURL string
	RepAPIURL     string

	LinkedInClientID     string
	LinkedInClientSecret string
	LinkedInRedirectURI  string
	LinkedInLegacyScopes bool

	Destinations Destinations

	// RequestTimeout bounds every API call. Tunable pending product input.
	RequestTimeout time.Duration

	// RedirectDelay is the pause before a resolved destination is applied,
	// giving the success state a moment to render.
	RedirectDelay time.Duration

	// ResendCooldown is how long resend stays disabled after a dispatch.
	ResendCooldown time.Duration
}

// Validate checks the fields every flow depends on. LinkedIn settings are
// validated separately by the social package since password flows work
// without them.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.AuthAPIURL, validation.Required, is.URL),
		validation.Field(&c.CompanyAPIURL, validation.Required, is.URL),
		validation.Field(&c.RepAPIURL, validation.Required, is.URL),
	)
}

// LoadConfig reads configuration from the environment, honoring a local .env
// file when present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AuthAPIURL:           os.Getenv("AUTHFLOW_API_URL"),
		CompanyAPIURL:        os.Getenv("AUTHFLOW_COMPANY_API_URL"),
		RepAPIURL:            os.Getenv("AUTHFLOW_REP_API_URL"),
		LinkedInClientID:     os.Getenv("AUTHFLOW_LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: os.Getenv("AUTHFLOW_LINKEDIN_CLIENT_SECRET"),
		LinkedInRedirectURI:  os.Getenv("AUTHFLOW_LINKEDIN_REDIRECT_URI"),
		LinkedInLegacyScopes: os.Getenv("AUTHFLOW_LINKEDIN_LEGACY_SCOPES") == "true",
		Destinations: Destinations{
			OnboardingEntry:    envOr("AUTHFLOW_DEST_ONBOARDING", "/app2"),
			CompanyWizard:      envOr("AUTHFLOW_DEST_COMPANY_WIZARD", "/app11"),
			CompanyDashboard:   envOr("AUTHFLOW_DEST_COMPANY_DASHBOARD", "/app7"),
			RepProfileCreation: os.Getenv("AUTHFLOW_DEST_REP_PROFILE_CREATION"),
			RepDashboard:       os.Getenv("AUTHFLOW_DEST_REP_DASHBOARD"),
			RepOrchestrator:    os.Getenv("AUTHFLOW_DEST_REP_ORCHESTRATOR"),
			PostRegistration:   envOr("AUTHFLOW_DEST_POST_REGISTRATION", "/auth"),
			SignIn:             envOr("AUTHFLOW_DEST_SIGNIN", "/login"),
			OAuthFailure:       envOr("AUTHFLOW_DEST_OAUTH_FAILURE", "/login?error=linkedin_auth_failed"),
		},
		RequestTimeout: envDurationOr("AUTHFLOW_REQUEST_TIMEOUT", 15*time.Second),
		RedirectDelay:  envDurationOr("AUTHFLOW_REDIRECT_DELAY", 1500*time.Millisecond),
		ResendCooldown: envDurationOr("AUTHFLOW_RESEND_COOLDOWN", 30*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
