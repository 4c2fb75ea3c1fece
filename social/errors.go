package social

import "github.com/goliatone/go-errors"

const (
	TextCodeInvalidState     = "social_invalid_state"
	TextCodeProviderConfig   = "social_provider_not_configured"
	TextCodeExchangeFailed   = "social_token_exchange_failed"
	TextCodeUnknownScope     = "social_unknown_scope"
	TextCodeStatePersistence = "social_state_persistence_failed"
)

// ErrInvalidState is returned when the callback state is missing, already
// consumed, or does not match the persisted value. It covers replay and CSRF
// and never yields a session.
var ErrInvalidState = errors.New("invalid oauth state", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidState).
	WithCode(errors.CodeBadRequest)

// ErrProviderNotConfigured is returned when the provider's client id is
// missing; the redirect must not happen against an invalid URL.
var ErrProviderNotConfigured = errors.New("social provider not configured", errors.CategoryInternal).
	WithTextCode(TextCodeProviderConfig).
	WithCode(errors.CodeInternal)

// ErrExchangeFailed is returned when the backend cannot trade the
// authorization code for a session.
var ErrExchangeFailed = errors.New("authorization code exchange failed", errors.CategoryAuth).
	WithTextCode(TextCodeExchangeFailed).
	WithCode(errors.CodeUnauthorized)

// ErrUnknownScope is returned for a flow scope the guard does not know.
var ErrUnknownScope = errors.New("unknown oauth flow scope", errors.CategoryBadInput).
	WithTextCode(TextCodeUnknownScope).
	WithCode(errors.CodeBadRequest)

// ErrStatePersistence is returned when the anti-forgery state cannot be
// stored; without it the callback could never be validated.
var ErrStatePersistence = errors.New("failed to persist oauth state", errors.CategoryInternal).
	WithTextCode(TextCodeStatePersistence).
	WithCode(errors.CodeInternal)
