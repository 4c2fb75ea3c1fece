package social_test

import (
	"testing"

	"github.com/chafiksabiry/go-authflow"
	"github.com/chafiksabiry/go-authflow/social"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateGuardBeginIssuesRandomStates(t *testing.T) {
	guard := social.NewStateGuard(authflow.NewMemoryStorage())

	first, err := guard.Begin(social.ScopeSignIn)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := guard.Begin(social.ScopeSignIn)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestStateGuardConsumeExactlyOnce(t *testing.T) {
	guard := social.NewStateGuard(authflow.NewMemoryStorage())

	state, err := guard.Begin(social.ScopeSignIn)
	require.NoError(t, err)

	require.NoError(t, guard.Consume(social.ScopeSignIn, state))

	// the state slot is gone: a replayed callback fails
	err = guard.Consume(social.ScopeSignIn, state)
	assert.ErrorIs(t, err, social.ErrInvalidState)
}

func TestStateGuardConsumeMismatch(t *testing.T) {
	storage := authflow.NewMemoryStorage()
	guard := social.NewStateGuard(storage)

	state, err := guard.Begin(social.ScopeSignIn)
	require.NoError(t, err)

	err = guard.Consume(social.ScopeSignIn, "forged-state")
	assert.ErrorIs(t, err, social.ErrInvalidState)

	// a mismatch does not burn the stored state; the genuine callback still works
	assert.NoError(t, guard.Consume(social.ScopeSignIn, state))
}

func TestStateGuardConsumeWithoutBegin(t *testing.T) {
	guard := social.NewStateGuard(authflow.NewMemoryStorage())

	err := guard.Consume(social.ScopeSignIn, "anything")
	assert.ErrorIs(t, err, social.ErrInvalidState)
}

func TestStateGuardEmptyCallbackState(t *testing.T) {
	guard := social.NewStateGuard(authflow.NewMemoryStorage())

	_, err := guard.Begin(social.ScopeSignIn)
	require.NoError(t, err)

	err = guard.Consume(social.ScopeSignIn, "")
	assert.ErrorIs(t, err, social.ErrInvalidState)
}

func TestStateGuardScopesAreIndependent(t *testing.T) {
	guard := social.NewStateGuard(authflow.NewMemoryStorage())

	signIn, err := guard.Begin(social.ScopeSignIn)
	require.NoError(t, err)
	signUp, err := guard.Begin(social.ScopeSignUp)
	require.NoError(t, err)

	// a sign-up state never validates a sign-in callback
	assert.ErrorIs(t, guard.Consume(social.ScopeSignIn, signUp), social.ErrInvalidState)

	assert.NoError(t, guard.Consume(social.ScopeSignIn, signIn))
	assert.NoError(t, guard.Consume(social.ScopeSignUp, signUp))
}

func TestStateGuardLastWriteWins(t *testing.T) {
	guard := social.NewStateGuard(authflow.NewMemoryStorage())

	stale, err := guard.Begin(social.ScopeSignIn)
	require.NoError(t, err)
	fresh, err := guard.Begin(social.ScopeSignIn)
	require.NoError(t, err)

	assert.ErrorIs(t, guard.Consume(social.ScopeSignIn, stale), social.ErrInvalidState)
	assert.NoError(t, guard.Consume(social.ScopeSignIn, fresh))
}

func TestStateGuardUnknownScope(t *testing.T) {
	guard := social.NewStateGuard(authflow.NewMemoryStorage())

	_, err := guard.Begin(social.Scope("link"))
	assert.ErrorIs(t, err, social.ErrUnknownScope)

	err = guard.Consume(social.Scope("link"), "state")
	assert.ErrorIs(t, err, social.ErrUnknownScope)
}
