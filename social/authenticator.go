// Package social brackets the third-party OAuth round trip: anti-forgery
// state on the way out, state validation and code exchange on the way back.
package social

import (
	"context"

	"github.com/chafiksabiry/go-authflow"
	"github.com/chafiksabiry/go-authflow/api"
)

// Provider produces the third party's authorization URL.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
}

// Exchanger trades an authorization code for a session through the backend.
// *api.Client satisfies it.
type Exchanger interface {
	ExchangeLinkedInSignIn(ctx context.Context, code string) (*api.Verification, error)
	ExchangeLinkedInSignUp(ctx context.Context, code string) (*api.Verification, error)
}

// AuthRedirect is the outcome of BeginAuth: the URL the user agent must be
// sent to. The flow continues in a fresh page load, never in this call.
type AuthRedirect struct {
	URL   string
	State string
}

// SocialAuthenticator orchestrates the LinkedIn sign-in and sign-up round
// trips for the dialogs.
type SocialAuthenticator struct {
	provider  Provider
	guard     *StateGuard
	exchanger Exchanger
	session   *authflow.SessionStore
	logger    authflow.Logger
}

// SocialAuthOption configures the authenticator.
type SocialAuthOption func(*SocialAuthenticator)

// WithLogger overrides the default logger.
func WithLogger(logger authflow.Logger) SocialAuthOption {
	return func(sa *SocialAuthenticator) {
		if logger != nil {
			sa.logger = logger
		}
	}
}

// NewSocialAuthenticator wires the provider, the state guard, the exchange
// client and the session store together.
func NewSocialAuthenticator(
	provider Provider,
	guard *StateGuard,
	exchanger Exchanger,
	session *authflow.SessionStore,
	opts ...SocialAuthOption,
) *SocialAuthenticator {
	sa := &SocialAuthenticator{
		provider:  provider,
		guard:     guard,
		exchanger: exchanger,
		session:   session,
		logger:    authflow.DefaultLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sa)
		}
	}

	return sa
}

// BeginAuth persists a fresh anti-forgery state for the scope and returns
// the provider URL to redirect to. A misconfigured provider fails before any
// state is written.
func (sa *SocialAuthenticator) BeginAuth(scope Scope) (*AuthRedirect, error) {
	if sa.provider == nil {
		return nil, ErrProviderNotConfigured
	}

	state, err := sa.guard.Begin(scope)
	if err != nil {
		return nil, err
	}

	return &AuthRedirect{
		URL:   sa.provider.AuthCodeURL(state),
		State: state,
	}, nil
}

// CompleteCallback finishes the round trip: the state is validated and
// consumed first, then the code is exchanged for a session, and the
// resulting token and subject id are persisted. A state mismatch never
// produces a session.
func (sa *SocialAuthenticator) CompleteCallback(ctx context.Context, scope Scope, code, state string) error {
	if err := sa.guard.Consume(scope, state); err != nil {
		return err
	}

	var (
		result *api.Verification
		err    error
	)
	if scope == ScopeSignUp {
		result, err = sa.exchanger.ExchangeLinkedInSignUp(ctx, code)
	} else {
		result, err = sa.exchanger.ExchangeLinkedInSignIn(ctx, code)
	}
	if err != nil {
		sa.logger.Error("linkedin code exchange failed: %v", err)
		return ErrExchangeFailed.Clone().WithMetadata(map[string]any{"error": err.Error()})
	}

	if err := sa.session.SetToken(result.Token); err != nil {
		return err
	}

	if claims, ok := sa.session.CurrentUser(); ok {
		if err := sa.session.SetSubjectID(claims.SubjectID()); err != nil {
			sa.logger.Warn("failed to persist subject id: %v", err)
		}
	}

	return nil
}
