package social

import (
	"github.com/chafiksabiry/go-authflow"
	"github.com/google/uuid"
)

// Scope distinguishes which flow owns an OAuth round trip. Sign-up and
// sign-in keep separate state slots since both can be in flight from
// different tabs.
type Scope string

const (
	ScopeSignIn Scope = "signin"
	ScopeSignUp Scope = "signup"
)

func (s Scope) valid() bool {
	return s == ScopeSignIn || s == ScopeSignUp
}

func (s Scope) slot() string {
	return "linkedin_oauth_state:" + string(s)
}

// StateGuard issues and validates the anti-forgery state around a third
// party redirect. States are random, persisted per scope, and consumed
// exactly once.
type StateGuard struct {
	storage  authflow.Storage
	newState func() string
}

// StateGuardOption customizes guard construction.
type StateGuardOption func(*StateGuard)

// WithStateSource injects the state generator (useful for tests).
func WithStateSource(fn func() string) StateGuardOption {
	return func(g *StateGuard) {
		if fn != nil {
			g.newState = fn
		}
	}
}

// NewStateGuard builds a guard over the persisted storage.
func NewStateGuard(storage authflow.Storage, opts ...StateGuardOption) *StateGuard {
	g := &StateGuard{
		storage:  storage,
		newState: uuid.NewString,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Begin generates a fresh state and persists it under the scope's slot,
// replacing any previous value (last write wins across tabs).
func (g *StateGuard) Begin(scope Scope) (string, error) {
	if !scope.valid() {
		return "", ErrUnknownScope
	}

	state := g.newState()
	if err := g.storage.Set(scope.slot(), state); err != nil {
		return "", ErrStatePersistence.Clone().WithMetadata(map[string]any{"error": err.Error()})
	}

	return state, nil
}

// Consume validates a callback state against the persisted value and deletes
// it on success, before any code exchange happens, so a retried callback
// cannot replay. A missing or mismatched state fails with ErrInvalidState.
func (g *StateGuard) Consume(scope Scope, state string) error {
	if !scope.valid() {
		return ErrUnknownScope
	}

	stored, ok := g.storage.Get(scope.slot())
	if !ok || stored == "" || state == "" {
		return ErrInvalidState
	}

	if stored != state {
		return ErrInvalidState
	}

	if err := g.storage.Delete(scope.slot()); err != nil {
		return ErrStatePersistence.Clone().WithMetadata(map[string]any{"error": err.Error()})
	}

	return nil
}
