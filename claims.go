package authflow

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the client-visible view of a session token. Tokens are
// decoded without signature verification: the server is the trust boundary,
// this layer only inspects expiry and the subject identifier.
type TokenClaims struct {
	UserID string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID returns the subject identifier, preferring the userId claim the
// auth API embeds over the registered sub claim.
func (c *TokenClaims) SubjectID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// Expired reports whether the exp claim has passed at the given instant.
// A token with no exp claim is treated as expired: claims must never be
// trusted without an expiry check.
func (c *TokenClaims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}

// DecodeToken parses a raw token and applies the expiry check. Malformed
// payloads yield ErrTokenMalformed, expired ones ErrTokenExpired.
func DecodeToken(raw string, now time.Time) (*TokenClaims, error) {
	if raw == "" {
		return nil, ErrTokenMalformed
	}

	claims := &TokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, ErrTokenMalformed
	}

	if claims.Expired(now) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}
