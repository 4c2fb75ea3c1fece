package authflow

import (
	"context"
	"sync"
	"time"

	"github.com/chafiksabiry/go-authflow/api"
)

// AuthAPI is the slice of the backend contract the step machines consume.
// *api.Client satisfies it; tests substitute mocks.
type AuthAPI interface {
	Register(ctx context.Context, fullName, email, password, phone string) (*api.Registration, error)
	Login(ctx context.Context, email, password string) (*api.Login, error)
	SendVerificationEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
	SendOTP(ctx context.Context, userID, phoneNumber string) error
	VerifyEmail(ctx context.Context, email, code string) (*api.Verification, error)
	VerifyOTP(ctx context.Context, userID, otp string) (*api.Verification, error)
	VerifyAccount(ctx context.Context, userID string) (*api.Activation, error)
	GenerateVerificationCode(ctx context.Context, email string) (string, error)
	ChangePassword(ctx context.Context, token, email, newPassword string) error
}

// RoutingAPI is the slice of the contract the post-auth resolver consumes.
type RoutingAPI interface {
	CheckFirstLogin(ctx context.Context, userID string) (bool, error)
	CheckUserType(ctx context.Context, userID string) (api.AccountKind, error)
	CompanyOnboardingProgress(ctx context.Context, userID string) (*api.OnboardingProgress, error)
	RepresentativeProfile(ctx context.Context, userID, token string) (*api.RepProfile, error)
}

// sequence is a flow's fixed forward order of steps.
type sequence []Step

func (s sequence) index(step Step) int {
	for i, candidate := range s {
		if candidate == step {
			return i
		}
	}
	return -1
}

// next returns the step after the given one; ok is false at the end.
func (s sequence) next(step Step) (Step, bool) {
	i := s.index(step)
	if i < 0 || i+1 >= len(s) {
		return "", false
	}
	return s[i+1], true
}

// prev returns the step before the given one; ok is false at the start.
func (s sequence) prev(step Step) (Step, bool) {
	i := s.index(step)
	if i <= 0 {
		return "", false
	}
	return s[i-1], true
}

// flowCore carries the state every step machine shares: the current step, the
// single-submission guard and the injected clock and logger.
type flowCore struct {
	mu     sync.Mutex
	step   Step
	busy   bool
	now    func() time.Time
	logger Logger
}

func newFlowCore(initial Step) flowCore {
	return flowCore{
		step:   initial,
		now:    defaultClock,
		logger: defLogger{},
	}
}

// Step returns the flow's current step.
func (f *flowCore) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Busy reports whether a submission is outstanding.
func (f *flowCore) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// beginSubmission claims the in-flight slot; only one asynchronous submission
// may be outstanding per flow, so duplicate submits are rejected rather than
// queued.
func (f *flowCore) beginSubmission() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return ErrSubmissionInFlight
	}
	f.busy = true
	return nil
}

func (f *flowCore) endSubmission() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
}

func (f *flowCore) setStep(step Step) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = step
}

func (f *flowCore) atStep(step Step) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step == step
}
