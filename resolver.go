package authflow

import (
	"context"
	"time"

	"github.com/chafiksabiry/go-authflow/api"
	"github.com/goliatone/go-errors"
)

// accountState is the resolved classification of a signed-in subject. The
// three variants make the destination switch exhaustive; there is no
// stringly-typed fallthrough.
type accountState interface {
	isAccountState()
}

// accountNew covers first logins and subjects whose type is unresolved.
type accountNew struct{}

// accountCompany carries the company's onboarding progress; nil means no
// progress record exists yet.
type accountCompany struct {
	progress *api.OnboardingProgress
}

// accountRepresentative carries the representative profile; nil means the
// fetch failed and the safe default applies.
type accountRepresentative struct {
	profile *api.RepProfile
}

func (accountNew) isAccountState()            {}
func (accountCompany) isAccountState()        {}
func (accountRepresentative) isAccountState() {}

const companyFinalPhase = 4

// Resolver decides where an authenticated subject lands. The decision is
// computed fresh per call; nothing about the routing profile is cached beyond
// the representative's profile id side effect.
type Resolver struct {
	api       RoutingAPI
	session   *SessionStore
	dest      Destinations
	navigator Navigator
	delay     time.Duration
	logger    Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// ResolverOption customizes resolver construction.
type ResolverOption func(*Resolver)

// WithResolverLogger overrides the default logger.
func WithResolverLogger(logger Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithResolverDelay overrides the pause before a destination is applied.
func WithResolverDelay(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.delay = d
	}
}

// WithResolverSleep injects the wait primitive (useful for tests).
func WithResolverSleep(fn func(ctx context.Context, d time.Duration) error) ResolverOption {
	return func(r *Resolver) {
		if fn != nil {
			r.sleep = fn
		}
	}
}

// NewResolver builds a resolver over the routing endpoints and session store.
func NewResolver(routing RoutingAPI, session *SessionStore, dest Destinations, navigator Navigator, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		api:       routing,
		session:   session,
		dest:      dest,
		navigator: navigator,
		delay:     1500 * time.Millisecond,
		logger:    defLogger{},
		sleep:     sleepCtx,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Resolve classifies the subject and returns the landing destination.
// Company onboarding fetch errors (other than not-found) propagate;
// representative profile fetch errors fall back to profile creation.
func (r *Resolver) Resolve(ctx context.Context, subjectID, token string) (string, error) {
	account, err := r.classify(ctx, subjectID, token)
	if err != nil {
		return "", err
	}
	return r.destination(account), nil
}

func (r *Resolver) classify(ctx context.Context, subjectID, token string) (accountState, error) {
	firstLogin, err := r.api.CheckFirstLogin(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	kind, err := r.api.CheckUserType(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	// First login wins over everything; onboarding progress is not queried.
	if firstLogin || kind == api.AccountUnknown {
		return accountNew{}, nil
	}

	if kind == api.AccountCompany {
		progress, err := r.api.CompanyOnboardingProgress(ctx, subjectID)
		if err != nil {
			if errors.Is(err, api.ErrNotFound) {
				return accountCompany{progress: nil}, nil
			}
			return nil, err
		}
		return accountCompany{progress: progress}, nil
	}

	// Every non-company role is treated as a representative.
	profile, err := r.api.RepresentativeProfile(ctx, subjectID, token)
	if err != nil {
		r.logger.Error("representative profile fetch failed: %v", err)
		return accountRepresentative{profile: nil}, nil
	}

	if err := r.session.SetProfileID(profile.ID); err != nil {
		r.logger.Warn("failed to cache profile id: %v", err)
	}

	return accountRepresentative{profile: profile}, nil
}

func (r *Resolver) destination(account accountState) string {
	switch state := account.(type) {
	case accountNew:
		return r.dest.OnboardingEntry

	case accountCompany:
		if state.progress == nil ||
			state.progress.CurrentPhase != companyFinalPhase ||
			!state.progress.PhaseCompleted(companyFinalPhase) {
			return r.dest.CompanyWizard
		}
		return r.dest.CompanyDashboard

	case accountRepresentative:
		if state.profile == nil || !state.profile.IsBasicProfileCompleted {
			return r.dest.RepProfileCreation
		}
		if state.profile.OnboardingComplete() {
			return r.dest.RepDashboard
		}
		return r.dest.RepOrchestrator

	default:
		// unreachable: classify only produces the three variants above
		return r.dest.OnboardingEntry
	}
}

// Apply issues the redirect after the configured delay, at most once per
// session. A second call is a logged no-op so a re-rendered caller cannot
// loop.
func (r *Resolver) Apply(ctx context.Context, destination string) error {
	if r.session.HasRedirected() {
		r.logger.Debug("redirect already issued this session, skipping %s", destination)
		return nil
	}

	if err := r.session.MarkRedirected(); err != nil {
		return err
	}

	if err := r.sleep(ctx, r.delay); err != nil {
		return err
	}

	return r.navigator.Navigate(ctx, destination)
}

// ResolveExisting handles the already-signed-in fast path: when a subject id
// is persisted and no redirect was issued yet, it resolves a destination for
// the stored session. ok is false when there is nothing to do.
func (r *Resolver) ResolveExisting(ctx context.Context) (destination string, ok bool, err error) {
	subjectID, has := r.session.SubjectID()
	if !has || subjectID == "" {
		return "", false, nil
	}

	if r.session.HasRedirected() {
		return "", false, nil
	}

	token, _ := r.session.Token()

	destination, err = r.Resolve(ctx, subjectID, token)
	if err != nil {
		// leave the guard unarmed so the next mount can retry
		r.logger.Error("existing session resolution failed: %v", err)
		return "", false, err
	}

	return destination, true, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
