package authflow_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chafiksabiry/go-authflow/api"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthAPI implements authflow.AuthAPI
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Register(ctx context.Context, fullName, email, password, phone string) (*api.Registration, error) {
	args := m.Called(ctx, fullName, email, password, phone)
	var out *api.Registration
	if v := args.Get(0); v != nil {
		out = v.(*api.Registration)
	}
	return out, args.Error(1)
}

func (m *MockAuthAPI) Login(ctx context.Context, email, password string) (*api.Login, error) {
	args := m.Called(ctx, email, password)
	var out *api.Login
	if v := args.Get(0); v != nil {
		out = v.(*api.Login)
	}
	return out, args.Error(1)
}

func (m *MockAuthAPI) SendVerificationEmail(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *MockAuthAPI) ResendVerification(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthAPI) SendOTP(ctx context.Context, userID, phoneNumber string) error {
	args := m.Called(ctx, userID, phoneNumber)
	return args.Error(0)
}

func (m *MockAuthAPI) VerifyEmail(ctx context.Context, email, code string) (*api.Verification, error) {
	args := m.Called(ctx, email, code)
	var out *api.Verification
	if v := args.Get(0); v != nil {
		out = v.(*api.Verification)
	}
	return out, args.Error(1)
}

func (m *MockAuthAPI) VerifyOTP(ctx context.Context, userID, otp string) (*api.Verification, error) {
	args := m.Called(ctx, userID, otp)
	var out *api.Verification
	if v := args.Get(0); v != nil {
		out = v.(*api.Verification)
	}
	return out, args.Error(1)
}

func (m *MockAuthAPI) VerifyAccount(ctx context.Context, userID string) (*api.Activation, error) {
	args := m.Called(ctx, userID)
	var out *api.Activation
	if v := args.Get(0); v != nil {
		out = v.(*api.Activation)
	}
	return out, args.Error(1)
}

func (m *MockAuthAPI) GenerateVerificationCode(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockAuthAPI) ChangePassword(ctx context.Context, token, email, newPassword string) error {
	args := m.Called(ctx, token, email, newPassword)
	return args.Error(0)
}

// MockRoutingAPI implements authflow.RoutingAPI
type MockRoutingAPI struct {
	mock.Mock
}

func (m *MockRoutingAPI) CheckFirstLogin(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoutingAPI) CheckUserType(ctx context.Context, userID string) (api.AccountKind, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(api.AccountKind), args.Error(1)
}

func (m *MockRoutingAPI) CompanyOnboardingProgress(ctx context.Context, userID string) (*api.OnboardingProgress, error) {
	args := m.Called(ctx, userID)
	var out *api.OnboardingProgress
	if v := args.Get(0); v != nil {
		out = v.(*api.OnboardingProgress)
	}
	return out, args.Error(1)
}

func (m *MockRoutingAPI) RepresentativeProfile(ctx context.Context, userID, token string) (*api.RepProfile, error) {
	args := m.Called(ctx, userID, token)
	var out *api.RepProfile
	if v := args.Get(0); v != nil {
		out = v.(*api.RepProfile)
	}
	return out, args.Error(1)
}

// recordingNavigator captures the destinations it was asked to apply.
type recordingNavigator struct {
	mu           sync.Mutex
	destinations []string
}

func (n *recordingNavigator) Navigate(_ context.Context, destination string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.destinations = append(n.destinations, destination)
	return nil
}

func (n *recordingNavigator) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.destinations...)
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// mintToken signs a token carrying the auth API's userId claim.
func mintToken(t *testing.T, userID string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"userId": userID,
		"sub":    userID,
		"exp":    jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	return signed
}

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
