package authflow_test

import (
	"testing"
	"time"

	"github.com/chafiksabiry/go-authflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AUTHFLOW_API_URL", "https://auth.example.com")
	t.Setenv("AUTHFLOW_COMPANY_API_URL", "https://company.example.com")
	t.Setenv("AUTHFLOW_REP_API_URL", "https://rep.example.com")

	cfg, err := authflow.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/app2", cfg.Destinations.OnboardingEntry)
	assert.Equal(t, "/app11", cfg.Destinations.CompanyWizard)
	assert.Equal(t, "/app7", cfg.Destinations.CompanyDashboard)
	assert.Equal(t, "/auth", cfg.Destinations.PostRegistration)

	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.RedirectDelay)
	assert.Equal(t, 30*time.Second, cfg.ResendCooldown)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("AUTHFLOW_API_URL", "https://auth.example.com")
	t.Setenv("AUTHFLOW_COMPANY_API_URL", "https://company.example.com")
	t.Setenv("AUTHFLOW_REP_API_URL", "https://rep.example.com")
	t.Setenv("AUTHFLOW_DEST_ONBOARDING", "/welcome")
	t.Setenv("AUTHFLOW_RESEND_COOLDOWN", "45s")

	cfg, err := authflow.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/welcome", cfg.Destinations.OnboardingEntry)
	assert.Equal(t, 45*time.Second, cfg.ResendCooldown)
}

func TestLoadConfigRequiresAPIURLs(t *testing.T) {
	t.Setenv("AUTHFLOW_API_URL", "")
	t.Setenv("AUTHFLOW_COMPANY_API_URL", "https://company.example.com")
	t.Setenv("AUTHFLOW_REP_API_URL", "https://rep.example.com")

	_, err := authflow.LoadConfig()
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := authflow.Config{
		AuthAPIURL:    "https://auth.example.com",
		CompanyAPIURL: "https://company.example.com",
		RepAPIURL:     "https://rep.example.com",
	}
	assert.NoError(t, cfg.Validate())

	cfg.RepAPIURL = "not a url"
	assert.Error(t, cfg.Validate())
}
