package api

import "github.com/goliatone/go-errors"

const (
	TextCodeBadCredentials  = "api_bad_credentials"
	TextCodeEmailConflict   = "api_email_conflict"
	TextCodeInvalidCode     = "api_invalid_code"
	TextCodeNotFound        = "api_not_found"
	TextCodeUnexpectedShape = "api_unexpected_shape"
	TextCodeUpstream        = "api_upstream_failed"
)

// ErrBadCredentials is returned when /auth/login rejects the credentials.
var ErrBadCredentials = errors.New("login rejected", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrEmailConflict is returned when /auth/register reports the email is
// already registered.
var ErrEmailConflict = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailConflict).
	WithCode(errors.CodeConflict)

// ErrInvalidCode is returned when a verification endpoint rejects the code.
var ErrInvalidCode = errors.New("verification code rejected", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCode).
	WithCode(errors.CodeUnauthorized)

// ErrNotFound is returned for 404 responses, notably the company onboarding
// progress lookup before any progress record exists.
var ErrNotFound = errors.New("resource not found", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrUnexpectedShape is returned when a response carries neither the error
// nor the success fields we know how to decode.
var ErrUnexpectedShape = errors.New("unexpected response shape", errors.CategoryInternal).
	WithTextCode(TextCodeUnexpectedShape).
	WithCode(errors.CodeInternal)

// ErrUpstream is returned for transport failures and 5xx responses.
var ErrUpstream = errors.New("upstream request failed", errors.CategoryInternal).
	WithTextCode(TextCodeUpstream).
	WithCode(errors.CodeInternal)
