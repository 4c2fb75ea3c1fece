package authflow

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// Recovery steps.
const (
	StepRecoveryEmail Step = "email"
	StepRecoveryCode  Step = "verification"
	StepNewPassword   Step = "new-password"
	StepRecovered     Step = "success"
)

// RecoveryFlow walks a user through password recovery: request a code, prove
// possession of the mailbox, set a new secret.
type RecoveryFlow struct {
	flowCore

	api     AuthAPI
	session *SessionStore

	email string
	token string
}

// RecoveryOption customizes flow construction.
type RecoveryOption func(*RecoveryFlow)

// WithRecoveryLogger overrides the default logger.
func WithRecoveryLogger(logger Logger) RecoveryOption {
	return func(f *RecoveryFlow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithRecoveryClock injects a custom clock (useful for tests).
func WithRecoveryClock(clock func() time.Time) RecoveryOption {
	return func(f *RecoveryFlow) {
		if clock != nil {
			f.now = clock
		}
	}
}

// NewRecoveryFlow builds a recovery flow over the auth API and session store.
func NewRecoveryFlow(authAPI AuthAPI, session *SessionStore, opts ...RecoveryOption) *RecoveryFlow {
	f := &RecoveryFlow{
		flowCore: newFlowCore(StepRecoveryEmail),
		api:      authAPI,
		session:  session,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	return f
}

// SubmitEmail requests a recovery code and dispatches it. A dispatch failure
// blocks the step with an error; there is no silent pass.
func (f *RecoveryFlow) SubmitEmail(ctx context.Context, email string) error {
	if !f.atStep(StepRecoveryEmail) {
		return ErrInvalidStep
	}

	if email == "" {
		return ErrValidation.Clone().WithMetadata(map[string]any{
			"message": "please enter your email address",
		})
	}

	if err := f.beginSubmission(); err != nil {
		return err
	}
	defer f.endSubmission()

	code, err := f.api.GenerateVerificationCode(ctx, email)
	if err != nil {
		return err
	}

	if err := f.api.SendVerificationEmail(ctx, email, code); err != nil {
		return err
	}

	f.mu.Lock()
	f.email = email
	f.step = StepRecoveryCode
	f.mu.Unlock()

	return nil
}

// SubmitCode verifies the emailed code. A rejected code keeps the step and
// surfaces a message; a verified code yields a token that authorizes the
// password change and is persisted for that purpose.
func (f *RecoveryFlow) SubmitCode(ctx context.Context, code string) error {
	if !f.atStep(StepRecoveryCode) {
		return ErrInvalidStep
	}

	if err := ValidateCode(code); err != nil {
		return ErrValidation.Clone().WithMetadata(map[string]any{
			"message": "please enter a valid 6-digit code",
		})
	}

	if err := f.beginSubmission(); err != nil {
		return err
	}
	defer f.endSubmission()

	f.mu.Lock()
	email := f.email
	f.mu.Unlock()

	result, err := f.api.VerifyEmail(ctx, email, code)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.Category == errors.CategoryAuth {
			return ErrBadVerificationCode.Clone().WithMetadata(map[string]any{
				"message": "invalid email verification code",
			})
		}
		// neither an error flag nor a token: unexpected shape, or transport
		return err
	}

	if err := f.session.SetToken(result.Token); err != nil {
		return err
	}

	f.mu.Lock()
	f.token = result.Token
	f.step = StepNewPassword
	f.mu.Unlock()

	return nil
}

// SubmitNewPassword validates and applies the new secret. The confirmed
// value is what travels to the server.
func (f *RecoveryFlow) SubmitNewPassword(ctx context.Context, newPassword, confirmation string) error {
	if !f.atStep(StepNewPassword) {
		return ErrInvalidStep
	}

	if len(newPassword) < 8 {
		return ErrValidation.Clone().WithMetadata(map[string]any{
			"message": "password must be at least 8 characters long",
		})
	}
	if newPassword != confirmation {
		return ErrValidation.Clone().WithMetadata(map[string]any{
			"message": "passwords do not match",
		})
	}

	if err := f.beginSubmission(); err != nil {
		return err
	}
	defer f.endSubmission()

	f.mu.Lock()
	email := f.email
	token := f.token
	f.mu.Unlock()

	if err := f.api.ChangePassword(ctx, token, email, confirmation); err != nil {
		return err
	}

	f.setStep(StepRecovered)
	return nil
}

// Finish acknowledges the terminal step and hands control back to the
// caller, e.g. to return to sign-in.
func (f *RecoveryFlow) Finish() error {
	if !f.atStep(StepRecovered) {
		return ErrInvalidStep
	}
	return nil
}
