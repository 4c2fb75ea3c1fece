package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chafiksabiry/go-authflow/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*api.Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := api.NewClient(api.Config{
		AuthBaseURL:    server.URL,
		CompanyBaseURL: server.URL,
		RepBaseURL:     server.URL,
	})
	return client, server
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestRegister(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "ada@example.com", in["email"])

		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"_id": "user-1", "code": "123456"},
		})
	}))
	defer server.Close()

	result, err := client.Register(context.Background(), "Ada Lovelace", "ada@example.com", "passw0rd", "+14155552671")
	require.NoError(t, err)
	assert.Equal(t, "user-1", result.SubjectID)
	assert.Equal(t, "123456", result.Code)
}

func TestRegisterEmailConflictByStatus(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{"message": "Email already registered"})
	}))
	defer server.Close()

	_, err := client.Register(context.Background(), "Ada", "ada@example.com", "passw0rd", "+14155552671")
	assert.ErrorIs(t, err, api.ErrEmailConflict)
}

func TestLogin(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"userId": "user-1", "phone": "+14155552671", "code": "123456"},
		})
	}))
	defer server.Close()

	result, err := client.Login(context.Background(), "ada@example.com", "passw0rd")
	require.NoError(t, err)
	assert.Equal(t, "user-1", result.SubjectID)
	assert.Equal(t, "+14155552671", result.Phone)
	assert.Equal(t, "123456", result.Code)
}

func TestLoginRejected(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden} {
		client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, map[string]any{"message": "invalid credentials"})
		}))

		_, err := client.Login(context.Background(), "ada@example.com", "wrong")
		assert.ErrorIs(t, err, api.ErrBadCredentials, "status %d", status)

		server.Close()
	}
}

func TestVerifyEmail(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/verify-email", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"result": map[string]any{},
			"token":  "jwt-token",
		})
	}))
	defer server.Close()

	result, err := client.VerifyEmail(context.Background(), "ada@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", result.Token)
}

func TestVerifyEmailRejectedCode(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"result": map[string]any{"error": "Invalid verification code"},
		})
	}))
	defer server.Close()

	_, err := client.VerifyEmail(context.Background(), "ada@example.com", "654321")
	assert.ErrorIs(t, err, api.ErrInvalidCode)
}

func TestVerifyEmailMissingToken(t *testing.T) {
	// no error flag and no token: the shape is unusable
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"result": map[string]any{}})
	}))
	defer server.Close()

	_, err := client.VerifyEmail(context.Background(), "ada@example.com", "123456")
	assert.ErrorIs(t, err, api.ErrUnexpectedShape)
}

func TestVerifyOTP(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/verify-otp", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"token": "jwt-token"})
	}))
	defer server.Close()

	result, err := client.VerifyOTP(context.Background(), "user-1", "123456")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", result.Token)
}

func TestVerifyOTPRejected(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"error": true})
	}))
	defer server.Close()

	_, err := client.VerifyOTP(context.Background(), "user-1", "654321")
	assert.ErrorIs(t, err, api.ErrInvalidCode)
}

func TestVerifyAccount(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/verify-account", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer server.Close()

	result, err := client.VerifyAccount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestGenerateVerificationCode(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/generate-verification-code", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"verificationCode": "987654"})
	}))
	defer server.Close()

	code, err := client.GenerateVerificationCode(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "987654", code)
}

func TestChangePasswordSendsBearerToken(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/change-password", r.URL.Path)
		assert.Equal(t, "Bearer recovery-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{})
	}))
	defer server.Close()

	err := client.ChangePassword(context.Background(), "recovery-token", "ada@example.com", "n3wSecret")
	assert.NoError(t, err)
}

func TestCheckFirstLogin(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/check-first-login", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"isFirstLogin": true})
	}))
	defer server.Close()

	first, err := client.CheckFirstLogin(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, first)
}

func TestCheckUserType(t *testing.T) {
	cases := []struct {
		body map[string]any
		want api.AccountKind
	}{
		{map[string]any{"userType": "company"}, api.AccountCompany},
		{map[string]any{"userType": "rep"}, api.AccountRepresentative},
		{map[string]any{"userType": nil}, api.AccountUnknown},
	}

	for _, tc := range cases {
		client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, tc.body)
		}))

		kind, err := client.CheckUserType(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, tc.want, kind)

		server.Close()
	}
}

func TestCompanyOnboardingProgress(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/onboarding/companies/user-1/onboardingProgress", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"currentPhase": 4,
			"phases":       []map[string]any{{"id": 4, "completed": true}},
		})
	}))
	defer server.Close()

	progress, err := client.CompanyOnboardingProgress(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, progress.CurrentPhase)
	assert.True(t, progress.PhaseCompleted(4))
}

func TestCompanyOnboardingProgressNotFound(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "no progress"})
	}))
	defer server.Close()

	_, err := client.CompanyOnboardingProgress(context.Background(), "user-1")
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestRepresentativeProfile(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profiles/user-1", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"_id":                     "agent-9",
			"isBasicProfileCompleted": true,
			"onboardingProgress": map[string]any{
				"phases": map[string]any{
					"phase1": map[string]any{"status": "completed"},
					"phase2": map[string]any{"status": "completed"},
					"phase3": map[string]any{"status": "completed"},
					"phase4": map[string]any{"status": "completed"},
				},
			},
		})
	}))
	defer server.Close()

	profile, err := client.RepresentativeProfile(context.Background(), "user-1", "session-token")
	require.NoError(t, err)
	assert.Equal(t, "agent-9", profile.ID)
	assert.True(t, profile.IsBasicProfileCompleted)
	assert.True(t, profile.OnboardingComplete())
}

func TestExchangeLinkedInEndpoints(t *testing.T) {
	var paths []string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"token": "jwt-token"})
	}))
	defer server.Close()

	_, err := client.ExchangeLinkedInSignUp(context.Background(), "code-1")
	require.NoError(t, err)

	_, err = client.ExchangeLinkedInSignIn(context.Background(), "code-2")
	require.NoError(t, err)

	assert.Equal(t, []string{"/auth/linkedin", "/auth/signin/linkedin"}, paths)
}

func TestUpstreamFailure(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "boom"})
	}))
	defer server.Close()

	_, err := client.VerifyAccount(context.Background(), "user-1")
	assert.ErrorIs(t, err, api.ErrUpstream)
}
