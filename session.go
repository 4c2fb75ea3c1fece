package authflow

import (
	"sync"
	"time"
)

// Storage keys for the persisted session slots.
const (
	slotToken      = "token"
	slotSubjectID  = "userId"
	slotProfileID  = "agentId"
	slotRedirected = "hasRedirected"
)

// SessionStore owns the bearer token's persisted lifecycle and the handful of
// slots that travel with it (subject id, representative profile id, the
// one-shot redirect guard). It is the single source of truth for whether a
// session is active on this client.
type SessionStore struct {
	mu            sync.Mutex
	storage       Storage
	logger        Logger
	now           func() time.Time
	claims        *TokenClaims
	subscriberSeq int
	subscriberIDs map[int]Subscriber
}

// SessionStoreOption customizes session store construction.
type SessionStoreOption func(*SessionStore)

// WithSessionLogger overrides the default logger.
func WithSessionLogger(logger Logger) SessionStoreOption {
	return func(s *SessionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionClock injects a custom clock (useful for tests).
func WithSessionClock(clock func() time.Time) SessionStoreOption {
	return func(s *SessionStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewSessionStore loads any persisted token and applies the expiry check.
// Expired or malformed tokens are cleared and reported as "no user"; no error
// escapes to the caller for a bad persisted token.
func NewSessionStore(storage Storage, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		storage: storage,
		logger:  defLogger{},
		now:     defaultClock,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if raw, ok := storage.Get(slotToken); ok {
		claims, err := DecodeToken(raw, s.now())
		if err != nil {
			s.logger.Debug("discarding persisted token: %v", err)
			_ = storage.Delete(slotToken)
		} else {
			s.claims = claims
		}
	}

	return s
}

// SetToken persists a new token and notifies subscribers. A token that fails
// decoding is treated as "no user": the slot is cleared and the decode error
// is returned so the caller can surface it.
func (s *SessionStore) SetToken(token string) error {
	claims, err := DecodeToken(token, s.now())
	if err != nil {
		s.ClearToken()
		return err
	}

	s.mu.Lock()
	if err := s.storage.Set(slotToken, token); err != nil {
		s.mu.Unlock()
		return err
	}
	s.claims = claims
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(token, claims)
	}

	return nil
}

// ClearToken ends the session: the token, subject id, profile id and the
// redirect guard are all removed, then subscribers are notified.
func (s *SessionStore) ClearToken() {
	s.mu.Lock()
	for _, key := range []string{slotToken, slotSubjectID, slotProfileID, slotRedirected} {
		if err := s.storage.Delete(key); err != nil {
			s.logger.Warn("failed to clear session slot %q: %v", key, err)
		}
	}
	s.claims = nil
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	for _, fn := range subs {
		fn("", nil)
	}
}

// Token returns the persisted token, re-checking expiry at call time.
func (s *SessionStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.storage.Get(slotToken)
	if !ok {
		return "", false
	}

	if s.claims == nil || s.claims.Expired(s.now()) {
		return "", false
	}

	return raw, true
}

// CurrentUser returns the decoded claims for the active session, or false
// when no valid session exists.
func (s *SessionStore) CurrentUser() (*TokenClaims, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.claims == nil || s.claims.Expired(s.now()) {
		return nil, false
	}

	return s.claims, true
}

// Subscribe registers a listener for token changes and returns an
// unsubscribe function.
func (s *SessionStore) Subscribe(fn Subscriber) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.subscriberSeq++
	id := s.subscriberSeq
	if s.subscriberIDs == nil {
		s.subscriberIDs = map[int]Subscriber{}
	}
	s.subscriberIDs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscriberIDs, id)
	}
}

// snapshotSubscribers must be called with the mutex held.
func (s *SessionStore) snapshotSubscribers() []Subscriber {
	subs := make([]Subscriber, 0, len(s.subscriberIDs))
	for _, fn := range s.subscriberIDs {
		subs = append(subs, fn)
	}
	return subs
}

// SetSubjectID persists the subject id issued during registration or login.
func (s *SessionStore) SetSubjectID(id string) error {
	return s.storage.Set(slotSubjectID, id)
}

// SubjectID returns the persisted subject id.
func (s *SessionStore) SubjectID() (string, bool) {
	return s.storage.Get(slotSubjectID)
}

// SetProfileID caches a representative's profile identifier for later use.
func (s *SessionStore) SetProfileID(id string) error {
	return s.storage.Set(slotProfileID, id)
}

// ProfileID returns the cached representative profile identifier.
func (s *SessionStore) ProfileID() (string, bool) {
	return s.storage.Get(slotProfileID)
}

// HasRedirected reports whether a post-auth redirect was already issued this
// session.
func (s *SessionStore) HasRedirected() bool {
	_, ok := s.storage.Get(slotRedirected)
	return ok
}

// MarkRedirected arms the one-shot redirect guard.
func (s *SessionStore) MarkRedirected() error {
	return s.storage.Set(slotRedirected, "true")
}

// ResetRedirectGuard clears the guard, e.g. when a resolution attempt failed
// and the next mount should try again.
func (s *SessionStore) ResetRedirectGuard() {
	if err := s.storage.Delete(slotRedirected); err != nil {
		s.logger.Warn("failed to reset redirect guard: %v", err)
	}
}
