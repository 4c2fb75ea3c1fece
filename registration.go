package authflow

import (
	"context"
	"time"

	"github.com/chafiksabiry/go-authflow/api"
	"github.com/goliatone/go-errors"
)

// Registration steps, in order. Navigation is forward through the gates with
// one-step backward moves allowed everywhere except the edges.
const (
	StepName         Step = "name"
	StepEmail        Step = "email"
	StepPassword     Step = "password"
	StepPhone        Step = "phone"
	StepTerms        Step = "terms"
	StepVerification Step = "verification"
	StepRegistered   Step = "success"
)

var registrationSequence = sequence{
	StepName, StepEmail, StepPassword, StepPhone, StepTerms, StepVerification, StepRegistered,
}

// RegistrationForm is the data gathered across the registration steps.
type RegistrationForm struct {
	FullName      string
	Email         string
	Password      string
	Phone         string
	TermsAccepted bool
	EmailCode     string
	PhoneOTP      string
}

// RegistrationFlow walks an applicant through identity, contact, secret,
// phone, consent, dual verification and activation. One instance serves one
// attempt; a dialog dismissed mid-flow starts over with a fresh flow.
type RegistrationFlow struct {
	flowCore

	api     AuthAPI
	session *SessionStore

	form        RegistrationForm
	fieldErrors map[string]string
}

// RegistrationOption customizes flow construction.
type RegistrationOption func(*RegistrationFlow)

// WithRegistrationLogger overrides the default logger.
func WithRegistrationLogger(logger Logger) RegistrationOption {
	return func(f *RegistrationFlow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithRegistrationClock injects a custom clock (useful for tests).
func WithRegistrationClock(clock func() time.Time) RegistrationOption {
	return func(f *RegistrationFlow) {
		if clock != nil {
			f.now = clock
		}
	}
}

// NewRegistrationFlow builds a registration flow over the auth API and the
// session store.
func NewRegistrationFlow(authAPI AuthAPI, session *SessionStore, opts ...RegistrationOption) *RegistrationFlow {
	f := &RegistrationFlow{
		flowCore:    newFlowCore(StepName),
		api:         authAPI,
		session:     session,
		fieldErrors: map[string]string{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	return f
}

// Form returns a copy of the data entered so far.
func (f *RegistrationFlow) Form() RegistrationForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// FieldError returns the error recorded for a field, if any.
func (f *RegistrationFlow) FieldError(field string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.fieldErrors[field]
	return msg, ok
}

// Update merges entered values into the form. Zero values do not erase
// previously entered data except for booleans, which are always applied.
func (f *RegistrationFlow) Update(form RegistrationForm) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if form.FullName != "" {
		f.form.FullName = form.FullName
	}
	if form.Email != "" {
		f.form.Email = form.Email
	}
	if form.Password != "" {
		f.form.Password = form.Password
	}
	if form.Phone != "" {
		f.form.Phone = form.Phone
	}
	if form.EmailCode != "" {
		f.form.EmailCode = form.EmailCode
	}
	if form.PhoneOTP != "" {
		f.form.PhoneOTP = form.PhoneOTP
	}
	f.form.TermsAccepted = form.TermsAccepted
}

// Back moves one step backwards. It is not available from the first step or
// after success.
func (f *RegistrationFlow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step == StepRegistered {
		return ErrInvalidStep
	}

	prev, ok := registrationSequence.prev(f.step)
	if !ok {
		return ErrInvalidStep
	}

	f.step = prev
	return nil
}

// Next validates the current step and advances. The terms step performs
// account creation and fires both code dispatches; the verification step runs
// email verification, OTP verification and activation in that strict order.
func (f *RegistrationFlow) Next(ctx context.Context) error {
	f.mu.Lock()
	step := f.step
	form := f.form
	f.mu.Unlock()

	switch step {
	case StepName:
		return f.gate(step, "name", ValidateFullName(form.FullName))

	case StepEmail:
		return f.gate(step, "email", ValidateEmail(form.Email))

	case StepPassword:
		return f.gate(step, "password", ValidatePassword(form.Password))

	case StepPhone:
		if err := f.gate(step, "phone", ValidatePhone(form.Phone)); err != nil {
			return err
		}
		f.mu.Lock()
		f.form.Phone = NormalizePhone(f.form.Phone)
		f.mu.Unlock()
		return nil

	case StepTerms:
		if !form.TermsAccepted {
			f.setFieldError("terms", "please accept the terms and conditions")
			return ErrValidation.Clone().WithMetadata(map[string]any{"field": "terms"})
		}
		return f.register(ctx, form)

	case StepVerification:
		return f.verify(ctx, form)

	default:
		return ErrInvalidStep
	}
}

// gate records the field error and blocks, or clears it and advances.
func (f *RegistrationFlow) gate(step Step, field string, err error) error {
	if err != nil {
		f.setFieldError(field, err.Error())
		return ErrValidation.Clone().WithMetadata(map[string]any{
			"field":   field,
			"message": err.Error(),
		})
	}

	f.clearFieldError(field)

	next, ok := registrationSequence.next(step)
	if !ok {
		return ErrInvalidStep
	}
	f.setStep(next)
	return nil
}

func (f *RegistrationFlow) register(ctx context.Context, form RegistrationForm) error {
	if err := f.beginSubmission(); err != nil {
		return err
	}
	defer f.endSubmission()

	result, err := f.api.Register(ctx, form.FullName, form.Email, form.Password, form.Phone)
	if err != nil {
		if errors.Is(err, api.ErrEmailConflict) {
			// back to the email step with a field error; everything else
			// entered so far stays intact
			f.setFieldError("email", "this email is already registered")
			f.setStep(StepEmail)
			return ErrValidation.Clone().WithMetadata(map[string]any{"field": "email"})
		}

		f.logger.Error("registration failed: %v", err)
		return errors.Wrap(err, errors.CategoryAuth, "registration failed, please try again")
	}

	if err := f.session.SetSubjectID(result.SubjectID); err != nil {
		return err
	}

	// two independent dispatches: the email code and the phone OTP
	if err := f.api.SendVerificationEmail(ctx, form.Email, result.Code); err != nil {
		return err
	}
	if err := f.api.SendOTP(ctx, result.SubjectID, form.Phone); err != nil {
		return err
	}

	f.clearFieldError("terms")
	f.setStep(StepVerification)
	return nil
}

func (f *RegistrationFlow) verify(ctx context.Context, form RegistrationForm) error {
	if form.EmailCode == "" || form.PhoneOTP == "" {
		f.setFieldError("verification", "please enter both the email verification code and the OTP code")
		return ErrValidation.Clone().WithMetadata(map[string]any{"field": "verification"})
	}

	if err := ValidateCode(form.EmailCode); err != nil {
		f.setFieldError("verification", err.Error())
		return ErrValidation.Clone().WithMetadata(map[string]any{"field": "verification"})
	}

	if err := f.beginSubmission(); err != nil {
		return err
	}
	defer f.endSubmission()

	// email code first; a failure here leaves the OTP untouched
	emailResult, err := f.api.VerifyEmail(ctx, form.Email, form.EmailCode)
	if err != nil {
		return ErrBadVerificationCode.Clone().WithMetadata(map[string]any{
			"channel": string(ChannelEmail),
			"message": "invalid email verification code",
		})
	}

	subjectID, ok := f.session.SubjectID()
	if !ok || subjectID == "" {
		// client storage was cleared mid-flow; there is nothing to verify
		// the OTP against
		return ErrMissingSubject
	}

	if _, err := f.api.VerifyOTP(ctx, subjectID, form.PhoneOTP); err != nil {
		return ErrBadVerificationCode.Clone().WithMetadata(map[string]any{
			"channel": string(ChannelSMS),
			"message": "invalid OTP, please try again",
		})
	}

	activation, err := f.api.VerifyAccount(ctx, subjectID)
	if err != nil {
		return err
	}
	if !activation.Success {
		return ErrBadVerificationCode.Clone().WithMetadata(map[string]any{
			"message": activationMessage(activation.Message),
		})
	}

	if err := f.session.SetToken(emailResult.Token); err != nil {
		return err
	}

	f.setStep(StepRegistered)
	return nil
}

func (f *RegistrationFlow) setFieldError(field, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fieldErrors[field] = message
}

func (f *RegistrationFlow) clearFieldError(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.fieldErrors, field)
}

func activationMessage(message string) string {
	if message == "" {
		return "account activation failed"
	}
	return message
}
