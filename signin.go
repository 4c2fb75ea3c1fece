package authflow

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// Sign-in steps. Forward only: once verified there is no way back.
const (
	StepCredentials Step = "credentials"
	StepTwoFactor   Step = "two-factor"
	StepSignedIn    Step = "success"
)

// SignInFlow drives credential submission, two-factor verification over a
// selectable channel, and the post-auth resolution that follows. One flow
// instance serves one sign-in attempt; discard it when the dialog goes away.
type SignInFlow struct {
	flowCore

	api      AuthAPI
	session  *SessionStore
	resolver *Resolver
	cooldown *Countdown

	cooldownFor time.Duration

	email     string
	subjectID string
	phone     string
	channel   Channel
	resolved  bool
}

// SignInOption customizes flow construction.
type SignInOption func(*SignInFlow)

// WithSignInLogger overrides the default logger.
func WithSignInLogger(logger Logger) SignInOption {
	return func(f *SignInFlow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithSignInClock injects a custom clock (useful for tests).
func WithSignInClock(clock func() time.Time) SignInOption {
	return func(f *SignInFlow) {
		if clock != nil {
			f.now = clock
		}
	}
}

// WithSignInCooldown overrides the resend cooldown duration.
func WithSignInCooldown(d time.Duration) SignInOption {
	return func(f *SignInFlow) {
		if d > 0 {
			f.cooldownFor = d
		}
	}
}

// NewSignInFlow builds a sign-in flow over the auth API, the session store
// and the post-auth resolver.
func NewSignInFlow(authAPI AuthAPI, session *SessionStore, resolver *Resolver, opts ...SignInOption) *SignInFlow {
	f := &SignInFlow{
		flowCore:    newFlowCore(StepCredentials),
		api:         authAPI,
		session:     session,
		resolver:    resolver,
		channel:     ChannelEmail,
		cooldownFor: 30 * time.Second,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	f.cooldown = NewCountdown(WithCountdownClock(f.now))

	return f
}

// Channel returns the active verification channel.
func (f *SignInFlow) Channel() Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channel
}

// ResendRemaining returns how long the resend action stays disabled.
func (f *SignInFlow) ResendRemaining() time.Duration {
	return f.cooldown.Remaining()
}

// Close releases the flow's timer resources.
func (f *SignInFlow) Close() {
	f.cooldown.Stop()
}

// SubmitCredentials posts the email and password. On success the server's
// one-time code is dispatched over email, the channel resets to email, the
// resend cooldown starts, and the flow advances to two-factor. On a rejected
// login nothing is retained.
func (f *SignInFlow) SubmitCredentials(ctx context.Context, email, password string) error {
	if !f.atStep(StepCredentials) {
		return ErrInvalidStep
	}

	if email == "" || password == "" {
		return ErrValidation.Clone().WithMetadata(map[string]any{
			"message": "please enter both email and password",
		})
	}

	if err := f.beginSubmission(); err != nil {
		return err
	}
	defer f.endSubmission()

	result, err := f.api.Login(ctx, email, password)
	if err != nil {
		f.logger.Debug("login rejected for %s: %v", email, err)
		return ErrBadCredentials
	}

	if err := f.api.SendVerificationEmail(ctx, email, result.Code); err != nil {
		return err
	}

	f.mu.Lock()
	f.email = email
	f.subjectID = result.SubjectID
	f.phone = result.Phone
	f.channel = ChannelEmail
	f.step = StepTwoFactor
	f.mu.Unlock()

	f.cooldown.Arm(f.cooldownFor)

	return nil
}

// VerifyCode checks the entered code against the active channel. On success
// the token is persisted, the flow reaches its terminal step and the
// post-auth destination is resolved exactly once and returned; the caller
// applies it via Resolver.Apply. On a rejected code the flow stays put and
// the entered code is left to the caller untouched.
func (f *SignInFlow) VerifyCode(ctx context.Context, code string) (string, error) {
	if !f.atStep(StepTwoFactor) {
		return "", ErrInvalidStep
	}

	if err := ValidateCode(code); err != nil {
		return "", ErrValidation.Clone().WithMetadata(map[string]any{
			"message": "please enter a valid verification code",
		})
	}

	if err := f.beginSubmission(); err != nil {
		return "", err
	}
	defer f.endSubmission()

	f.mu.Lock()
	channel := f.channel
	email := f.email
	subjectID := f.subjectID
	f.mu.Unlock()

	var token string
	switch channel {
	case ChannelSMS:
		result, err := f.api.VerifyOTP(ctx, subjectID, code)
		if err != nil {
			return "", f.verificationError(channel, err)
		}
		token = result.Token
	default:
		result, err := f.api.VerifyEmail(ctx, email, code)
		if err != nil {
			return "", f.verificationError(channel, err)
		}
		token = result.Token
	}

	claims, err := DecodeToken(token, f.now())
	if err != nil {
		return "", err
	}

	if err := f.session.SetToken(token); err != nil {
		return "", err
	}
	if err := f.session.SetSubjectID(claims.SubjectID()); err != nil {
		return "", err
	}

	f.setStep(StepSignedIn)
	f.cooldown.Stop()

	f.mu.Lock()
	alreadyResolved := f.resolved
	f.resolved = true
	f.mu.Unlock()

	if alreadyResolved {
		return "", ErrInvalidStep
	}

	return f.resolver.Resolve(ctx, claims.SubjectID(), token)
}

func (f *SignInFlow) verificationError(channel Channel, err error) error {
	message := "invalid email verification code"
	if channel == ChannelSMS {
		message = "invalid SMS verification code"
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Category == errors.CategoryAuth {
		return ErrBadVerificationCode.Clone().WithMetadata(map[string]any{
			"channel": string(channel),
			"message": message,
		})
	}

	return err
}

// SwitchChannel changes the delivery channel from the two-factor step,
// re-dispatches a fresh code and restarts the cooldown; any code typed so far
// should be discarded by the caller. Switching to SMS without a known subject
// and phone fails with ErrChannelUnavailable. A failed SMS dispatch falls
// back to the email channel.
func (f *SignInFlow) SwitchChannel(ctx context.Context, target Channel) error {
	if !f.atStep(StepTwoFactor) {
		return ErrInvalidStep
	}

	if err := f.beginSubmission(); err != nil {
		return err
	}
	defer f.endSubmission()

	f.mu.Lock()
	email := f.email
	subjectID := f.subjectID
	phone := f.phone
	f.mu.Unlock()

	switch target {
	case ChannelSMS:
		if subjectID == "" || phone == "" {
			return ErrChannelUnavailable
		}
		if err := f.api.SendOTP(ctx, subjectID, phone); err != nil {
			f.mu.Lock()
			f.channel = ChannelEmail
			f.mu.Unlock()
			return err
		}
	case ChannelEmail:
		if err := f.api.ResendVerification(ctx, email); err != nil {
			return err
		}
	default:
		return ErrChannelUnavailable
	}

	f.mu.Lock()
	f.channel = target
	f.mu.Unlock()

	f.cooldown.Arm(f.cooldownFor)

	return nil
}

// Resend re-dispatches a code on the active channel. While the cooldown is
// running it is a strict no-op: no dispatch, no timer reset.
func (f *SignInFlow) Resend(ctx context.Context) error {
	if !f.atStep(StepTwoFactor) {
		return ErrInvalidStep
	}

	if f.cooldown.Active() {
		return nil
	}

	if err := f.beginSubmission(); err != nil {
		return err
	}
	defer f.endSubmission()

	f.mu.Lock()
	channel := f.channel
	email := f.email
	subjectID := f.subjectID
	phone := f.phone
	f.mu.Unlock()

	var err error
	if channel == ChannelSMS {
		err = f.api.SendOTP(ctx, subjectID, phone)
	} else {
		err = f.api.ResendVerification(ctx, email)
	}
	if err != nil {
		return err
	}

	f.cooldown.Arm(f.cooldownFor)

	return nil
}
