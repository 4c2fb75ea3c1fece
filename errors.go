package authflow

import "github.com/goliatone/go-errors"

const (
	TextCodeValidation         = "auth_validation_failed"
	TextCodeBadCredentials     = "auth_bad_credentials"
	TextCodeBadVerification    = "auth_bad_verification_code"
	TextCodeChannelUnavailable = "auth_channel_unavailable"
	TextCodeMissingSubject     = "auth_missing_subject"
	TextCodeTokenExpired       = "auth_token_expired"
	TextCodeTokenMalformed     = "auth_token_malformed"
	TextCodeUnexpectedShape    = "auth_unexpected_response_shape"
	TextCodeUpstream           = "auth_upstream_unavailable"
	TextCodeNotConfigured      = "auth_not_configured"
	TextCodeBusy               = "auth_request_in_flight"
	TextCodeInvalidStep        = "auth_invalid_step"
)

// ErrValidation is returned when a local pre-submission gate rejects input.
var ErrValidation = errors.New("validation failed", errors.CategoryValidation).
	WithTextCode(TextCodeValidation).
	WithCode(errors.CodeBadRequest)

// ErrBadCredentials is returned when the auth API rejects a login or registration.
var ErrBadCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrBadVerificationCode is returned when a one-time code fails verification.
var ErrBadVerificationCode = errors.New("invalid verification code", errors.CategoryAuth).
	WithTextCode(TextCodeBadVerification).
	WithCode(errors.CodeUnauthorized)

// ErrChannelUnavailable is returned when SMS delivery is requested without a
// known subject id or phone number.
var ErrChannelUnavailable = errors.New("verification channel unavailable", errors.CategoryConflict).
	WithTextCode(TextCodeChannelUnavailable).
	WithCode(errors.CodeConflict)

// ErrMissingSubject indicates the persisted subject id disappeared mid-flow,
// usually because client storage was cleared.
var ErrMissingSubject = errors.New("subject id not found in session storage", errors.CategoryConflict).
	WithTextCode(TextCodeMissingSubject).
	WithCode(errors.CodeConflict)

// ErrTokenExpired is returned when a persisted token's exp claim has passed.
var ErrTokenExpired = errors.New("session token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a persisted token cannot be decoded.
var ErrTokenMalformed = errors.New("session token malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnexpectedShape is returned when an API response lacks every field we
// know how to interpret, e.g. neither an error flag nor a token.
var ErrUnexpectedShape = errors.New("unexpected response shape", errors.CategoryInternal).
	WithTextCode(TextCodeUnexpectedShape).
	WithCode(errors.CodeInternal)

// ErrUpstreamUnavailable is returned when a non-critical lookup fails at the
// network or server level.
var ErrUpstreamUnavailable = errors.New("upstream service unavailable", errors.CategoryInternal).
	WithTextCode(TextCodeUpstream).
	WithCode(errors.CodeInternal)

// ErrNotConfigured is returned when required configuration is missing.
var ErrNotConfigured = errors.New("missing configuration", errors.CategoryInternal).
	WithTextCode(TextCodeNotConfigured).
	WithCode(errors.CodeInternal)

// ErrSubmissionInFlight is returned when a flow receives a submission while a
// previous one is still outstanding.
var ErrSubmissionInFlight = errors.New("a submission is already in flight", errors.CategoryConflict).
	WithTextCode(TextCodeBusy).
	WithCode(errors.CodeConflict)

// ErrInvalidStep is returned when an operation is not legal for the flow's
// current step.
var ErrInvalidStep = errors.New("operation not allowed in current step", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidStep).
	WithCode(errors.CodeBadRequest)
