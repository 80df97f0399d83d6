package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrNoExpiry is returned when the token carries no exp claim.
var ErrNoExpiry = errors.New("token has no expiry claim")

// TokenExpiry reads the exp claim of a bearer token without verifying its
// signature. The server remains the authority on validity; the client only
// uses exp to end sessions early instead of waiting for a 401.
func TokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// SessionExpiry returns when a freshly issued session must end: the cookie
// lifetime (maxAge from now) capped by the token's own exp, when readable.
// Opaque tokens simply get the full lifetime. Without a max age only exp
// applies, and an opaque token gets a zero time that never expires.
func SessionExpiry(token string, now time.Time, maxAge time.Duration) time.Time {
	exp, err := TokenExpiry(token)
	if maxAge <= 0 {
		if err != nil {
			return time.Time{}
		}
		return exp
	}
	expiresAt := now.Add(maxAge)
	if err == nil && exp.Before(expiresAt) {
		return exp
	}
	return expiresAt
}

// Expired reports whether a session ending at expiresAt is over.
// A zero expiresAt never expires.
func Expired(expiresAt, now time.Time) bool {
	return !expiresAt.IsZero() && !now.Before(expiresAt)
}
