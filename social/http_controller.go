package social

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// HTTPController terminates the LinkedIn redirect round trip: two begin
// endpoints (sign-in, sign-up) and their callbacks.
type HTTPController struct {
	authenticator *SocialAuthenticator
	config        HTTPConfig
}

// HTTPConfig configures the HTTP controller.
type HTTPConfig struct {
	// PathPrefix for routes (default: "/auth/linkedin")
	PathPrefix string

	// SuccessRedirect is where a completed callback lands (default: "/dashboard")
	SuccessRedirect string

	// ErrorRedirect is where a failed attempt lands; the OAuth guard's
	// failures are generic here on purpose
	ErrorRedirect string
}

// NewHTTPController creates the controller with sensible route defaults.
func NewHTTPController(authenticator *SocialAuthenticator, cfg HTTPConfig) *HTTPController {
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = "/auth/linkedin"
	}
	if cfg.SuccessRedirect == "" {
		cfg.SuccessRedirect = "/dashboard"
	}
	if cfg.ErrorRedirect == "" {
		cfg.ErrorRedirect = "/login?error=linkedin_auth_failed"
	}

	return &HTTPController{
		authenticator: authenticator,
		config:        cfg,
	}
}

// RegisterRoutes registers the begin and callback routes.
func (c *HTTPController) RegisterRoutes(group RouteRegistrar) {
	group.Get("/signin", c.BeginSignIn)
	group.Get("/signup", c.BeginSignUp)
	group.Get("/signin/callback", c.SignInCallback)
	group.Get("/signup/callback", c.SignUpCallback)
}

// BeginSignIn starts the sign-in round trip.
func (c *HTTPController) BeginSignIn(ctx router.Context) error {
	return c.begin(ctx, ScopeSignIn)
}

// BeginSignUp starts the sign-up round trip.
func (c *HTTPController) BeginSignUp(ctx router.Context) error {
	return c.begin(ctx, ScopeSignUp)
}

func (c *HTTPController) begin(ctx router.Context, scope Scope) error {
	redirect, err := c.authenticator.BeginAuth(scope)
	if err != nil {
		return ctx.Redirect(appendQueryParam(c.config.ErrorRedirect, "reason", "config"), http.StatusTemporaryRedirect)
	}

	return ctx.Redirect(redirect.URL, http.StatusTemporaryRedirect)
}

// SignInCallback completes the sign-in round trip.
func (c *HTTPController) SignInCallback(ctx router.Context) error {
	return c.callback(ctx, ScopeSignIn)
}

// SignUpCallback completes the sign-up round trip.
func (c *HTTPController) SignUpCallback(ctx router.Context) error {
	return c.callback(ctx, ScopeSignUp)
}

func (c *HTTPController) callback(ctx router.Context, scope Scope) error {
	if errCode := ctx.Query("error"); errCode != "" {
		redirectURL := appendQueryParam(c.config.ErrorRedirect, "oauth_error", errCode)
		return ctx.Redirect(redirectURL, http.StatusTemporaryRedirect)
	}

	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		return ctx.Redirect(c.config.ErrorRedirect, http.StatusTemporaryRedirect)
	}

	if err := c.authenticator.CompleteCallback(ctx.Context(), scope, code, state); err != nil {
		return ctx.Redirect(c.config.ErrorRedirect, http.StatusTemporaryRedirect)
	}

	return ctx.Redirect(c.config.SuccessRedirect, http.StatusTemporaryRedirect)
}

func appendQueryParam(rawURL, key, value string) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + key + "=" + url.QueryEscape(value)
}
