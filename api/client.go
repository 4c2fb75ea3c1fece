// Package api decodes the authentication backend's HTTP contract into typed
// results. Response-shape quirks (result.error, bare error flags, optional
// tokens) are interpreted here once so callers only ever see typed values or
// sentinel errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const emailConflictMessage = "Email already registered"

// Logger is the minimal logging surface the client needs.
type Logger interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the client's endpoints and transport settings.
type Config struct {
	AuthBaseURL    string
	CompanyBaseURL string
	RepBaseURL     string

	// Timeout bounds each request; zero falls back to 15s.
	Timeout time.Duration

	HTTPClient *http.Client
	Logger     Logger
}

// Client calls the auth, company and representative services.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     Logger
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Error(string, ...any) {}

// NewClient creates a client for the configured services.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Client{cfg: cfg, httpClient: httpClient, logger: logger}
}

// Register creates an account. An already-registered email yields
// ErrEmailConflict; other rejections yield ErrUpstream.
func (c *Client) Register(ctx context.Context, fullName, email, password, phone string) (*Registration, error) {
	payload := map[string]string{
		"fullName": fullName,
		"email":    email,
		"password": password,
		"phone":    phone,
	}

	var out struct {
		Data struct {
			ID   string `json:"_id"`
			Code string `json:"code"`
		} `json:"data"`
	}

	status, msg, err := c.postJSON(ctx, c.cfg.AuthBaseURL, "/auth/register", "", payload, &out)
	if err != nil {
		return nil, err
	}

	if status == http.StatusConflict || strings.EqualFold(msg, emailConflictMessage) {
		return nil, ErrEmailConflict
	}
	if status >= 400 {
		return nil, upstream(status, msg)
	}
	if out.Data.ID == "" {
		return nil, ErrUnexpectedShape
	}

	return &Registration{SubjectID: out.Data.ID, Code: out.Data.Code}, nil
}

// Login verifies credentials. Rejections yield ErrBadCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (*Login, error) {
	payload := map[string]string{"email": email, "password": password}

	var out struct {
		Data struct {
			UserID string `json:"userId"`
			Phone  string `json:"phone"`
			Code   string `json:"code"`
		} `json:"data"`
	}

	status, msg, err := c.postJSON(ctx, c.cfg.AuthBaseURL, "/auth/login", "", payload, &out)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusBadRequest {
		return nil, ErrBadCredentials
	}
	if status >= 400 {
		return nil, upstream(status, msg)
	}
	if out.Data.UserID == "" {
		return nil, ErrUnexpectedShape
	}

	return &Login{SubjectID: out.Data.UserID, Phone: out.Data.Phone, Code: out.Data.Code}, nil
}

// SendVerificationEmail dispatches a previously issued code over email.
func (c *Client) SendVerificationEmail(ctx context.Context, email, code string) error {
	payload := map[string]string{"email": email, "code": code}
	return c.fireAndCheck(ctx, c.cfg.AuthBaseURL, "/auth/send-verification-email", payload)
}

// ResendVerification asks the server to issue and dispatch a fresh code.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.fireAndCheck(ctx, c.cfg.AuthBaseURL, "/auth/resend-verification", payload)
}

// SendOTP dispatches a one-time password over SMS.
func (c *Client) SendOTP(ctx context.Context, userID, phoneNumber string) error {
	payload := map[string]string{"userId": userID, "phoneNumber": phoneNumber}
	return c.fireAndCheck(ctx, c.cfg.AuthBaseURL, "/auth/send-otp", payload)
}

// VerifyEmail checks an email code. A rejected code yields ErrInvalidCode; a
// response with neither an error flag nor a token yields ErrUnexpectedShape.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) (*Verification, error) {
	payload := map[string]string{"email": email, "code": code}

	var out struct {
		Result *struct {
			Error any `json:"error"`
		} `json:"result"`
		Token string `json:"token"`
	}

	status, msg, err := c.postJSON(ctx, c.cfg.AuthBaseURL, "/auth/verify-email", "", payload, &out)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, upstream(status, msg)
	}

	if out.Result != nil && truthy(out.Result.Error) {
		return nil, ErrInvalidCode
	}
	if out.Token == "" {
		return nil, ErrUnexpectedShape
	}

	return &Verification{Token: out.Token}, nil
}

// VerifyOTP checks an SMS one-time password for the given subject.
func (c *Client) VerifyOTP(ctx context.Context, userID, otp string) (*Verification, error) {
	payload := map[string]string{"userId": userID, "otp": otp}

	var out struct {
		Error any    `json:"error"`
		Token string `json:"token"`
	}

	status, msg, err := c.postJSON(ctx, c.cfg.AuthBaseURL, "/auth/verify-otp", "", payload, &out)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, upstream(status, msg)
	}

	if truthy(out.Error) {
		return nil, ErrInvalidCode
	}
	if out.Token == "" {
		return nil, ErrUnexpectedShape
	}

	return &Verification{Token: out.Token}, nil
}

// VerifyAccount activates an account once both channels are verified.
func (c *Client) VerifyAccount(ctx context.Context, userID string) (*Activation, error) {
	payload := map[string]string{"userId": userID}

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	status, msg, err := c.postJSON(ctx, c.cfg.AuthBaseURL, "/auth/verify-account", "", payload, &out)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, upstream(status, msg)
	}

	return &Activation{Success: out.Success, Message: out.Message}, nil
}

// GenerateVerificationCode issues a recovery code for the email.
func (c *Client) GenerateVerificationCode(ctx context.Context, email string) (string, error) {
	payload := map[string]string{"email": email}

	var out struct {
		VerificationCode string `json:"verificationCode"`
	}

	status, msg, err := c.postJSON(ctx, c.cfg.AuthBaseURL, "/auth/generate-verification-code", "", payload, &out)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", upstream(status, msg)
	}
	if out.VerificationCode == "" {
		return "", ErrUnexpectedShape
	}

	return out.VerificationCode, nil
}

// ChangePassword sets a new password for the email. The caller must hold a
// verification token; it travels as the bearer credential.
func (c *Client) ChangePassword(ctx context.Context, token, email, newPassword string) error {
	payload := map[string]string{"email": email, "newPassword": newPassword}

	var out struct{}
	status, msg, err := c.postJSON(ctx, c.cfg.AuthBaseURL, "/auth/change-password", token, payload, &out)
	if err != nil {
		return err
	}
	if status >= 400 {
		return upstream(status, msg)
	}
	return nil
}

// CheckFirstLogin reports whether the subject has never completed a login.
func (c *Client) CheckFirstLogin(ctx context.Context, userID string) (bool, error) {
	payload := map[string]string{"userId": userID}

	var out struct {
		IsFirstLogin bool `json:"isFirstLogin"`
	}

	status, msg, err := c.postJSON(ctx, c.cfg.AuthBaseURL, "/auth/check-first-login", "", payload, &out)
	if err != nil {
		return false, err
	}
	if status >= 400 {
		return false, upstream(status, msg)
	}

	return out.IsFirstLogin, nil
}

// CheckUserType returns the subject's account kind; a null userType maps to
// AccountUnknown.
func (c *Client) CheckUserType(ctx context.Context, userID string) (AccountKind, error) {
	payload := map[string]string{"userId": userID}

	var out struct {
		UserType *string `json:"userType"`
	}

	status, msg, err := c.postJSON(ctx, c.cfg.AuthBaseURL, "/auth/check-user-type", "", payload, &out)
	if err != nil {
		return AccountUnknown, err
	}
	if status >= 400 {
		return AccountUnknown, upstream(status, msg)
	}

	if out.UserType == nil {
		return AccountUnknown, nil
	}

	return AccountKind(*out.UserType), nil
}

// ExchangeLinkedInSignUp trades an authorization code for a session via the
// sign-up exchange endpoint.
func (c *Client) ExchangeLinkedInSignUp(ctx context.Context, code string) (*Verification, error) {
	return c.exchangeLinkedIn(ctx, "/auth/linkedin", code)
}

// ExchangeLinkedInSignIn trades an authorization code for a session via the
// sign-in exchange endpoint.
func (c *Client) ExchangeLinkedInSignIn(ctx context.Context, code string) (*Verification, error) {
	return c.exchangeLinkedIn(ctx, "/auth/signin/linkedin", code)
}

func (c *Client) exchangeLinkedIn(ctx context.Context, path, code string) (*Verification, error) {
	payload := map[string]string{"code": code}

	var out struct {
		Token string `json:"token"`
	}

	status, msg, err := c.postJSON(ctx, c.cfg.AuthBaseURL, path, "", payload, &out)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, upstream(status, msg)
	}
	if out.Token == "" {
		return nil, ErrUnexpectedShape
	}

	return &Verification{Token: out.Token}, nil
}

// CompanyOnboardingProgress fetches a company's onboarding progress. A 404
// yields ErrNotFound, meaning onboarding has not started.
func (c *Client) CompanyOnboardingProgress(ctx context.Context, userID string) (*OnboardingProgress, error) {
	url := fmt.Sprintf("%s/onboarding/companies/%s/onboardingProgress", strings.TrimRight(c.cfg.CompanyBaseURL, "/"), userID)

	var out OnboardingProgress
	status, msg, err := c.getJSON(ctx, url, "", &out)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status >= 400 {
		return nil, upstream(status, msg)
	}

	return &out, nil
}

// RepresentativeProfile fetches a representative's profile; the current
// session token authorizes the request.
func (c *Client) RepresentativeProfile(ctx context.Context, userID, token string) (*RepProfile, error) {
	url := fmt.Sprintf("%s/profiles/%s", strings.TrimRight(c.cfg.RepBaseURL, "/"), userID)

	var out RepProfile
	status, msg, err := c.getJSON(ctx, url, token, &out)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status >= 400 {
		return nil, upstream(status, msg)
	}

	return &out, nil
}

// fireAndCheck posts a payload whose response body carries nothing we need.
func (c *Client) fireAndCheck(ctx context.Context, base, path string, payload any) error {
	var out struct {
		Error any `json:"error"`
	}

	status, msg, err := c.postJSON(ctx, base, path, "", payload, &out)
	if err != nil {
		return err
	}
	if status >= 400 {
		return upstream(status, msg)
	}
	if truthy(out.Error) {
		return upstream(status, fmt.Sprintf("%v", out.Error))
	}
	return nil
}

// postJSON sends a JSON body and decodes the response into out. It returns
// the status code and, for error statuses, the server-provided message.
func (c *Client) postJSON(ctx context.Context, base, path, token string, in, out any) (int, string, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return 0, "", ErrUpstream.Clone().WithMetadata(map[string]any{"error": err.Error()})
	}

	url := strings.TrimRight(base, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, "", ErrUpstream.Clone().WithMetadata(map[string]any{"error": err.Error()})
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, url, token string, out any) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", ErrUpstream.Clone().WithMetadata(map[string]any{"error": err.Error()})
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) (int, string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request to %s failed: %v", req.URL.Path, err)
		return 0, "", ErrUpstream.Clone().WithMetadata(map[string]any{
			"url":   req.URL.String(),
			"error": err.Error(),
		})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, "", ErrUpstream.Clone().WithMetadata(map[string]any{"error": err.Error()})
	}

	if resp.StatusCode >= 400 {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &errBody)
		return resp.StatusCode, errBody.Message, nil
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, "", ErrUnexpectedShape.Clone().WithMetadata(map[string]any{"error": err.Error()})
		}
	}

	return resp.StatusCode, "", nil
}

func upstream(status int, msg string) error {
	meta := map[string]any{"status": status}
	if msg != "" {
		meta["message"] = msg
	}
	return ErrUpstream.Clone().WithMetadata(meta)
}

// truthy interprets the API's loosely typed error flags: absent, nil, false,
// empty string and empty object all mean "no error".
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
