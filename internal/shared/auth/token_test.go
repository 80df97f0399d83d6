package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatalf("SignedString() failed: %v", err)
	}
	return token
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	got, err := TokenExpiry(token)
	if err != nil {
		t.Fatalf("TokenExpiry() failed: %v", err)
	}
	if !got.Equal(exp) {
		t.Errorf("TokenExpiry() = %v, want %v", got, exp)
	}
}

func TestTokenExpiry_NoExpClaim(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{Subject: "user-1"})

	_, err := TokenExpiry(token)
	if !errors.Is(err, ErrNoExpiry) {
		t.Errorf("TokenExpiry() error = %v, want ErrNoExpiry", err)
	}
}

func TestTokenExpiry_Opaque(t *testing.T) {
	if _, err := TokenExpiry("not-a-jwt"); err == nil {
		t.Error("TokenExpiry() accepted an opaque token")
	}
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	maxAge := 14 * 24 * time.Hour

	tests := []struct {
		name  string
		token string
		want  time.Time
	}{
		{
			name:  "opaque token gets full lifetime",
			token: "opaque",
			want:  now.Add(maxAge),
		},
		{
			name:  "short-lived jwt caps the session",
			token: signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}),
			want:  now.Add(time.Hour),
		},
		{
			name:  "long-lived jwt is capped by max age",
			token: signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(90 * 24 * time.Hour))}),
			want:  now.Add(maxAge),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SessionExpiry(tt.token, now, maxAge)
			if !got.Equal(tt.want) {
				t.Errorf("SessionExpiry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionExpiry_WithoutMaxAge(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	exp := now.Add(3 * time.Hour)

	tests := []struct {
		name  string
		token string
		want  time.Time
	}{
		{name: "opaque token never expires", token: "opaque", want: time.Time{}},
		{
			name:  "jwt keeps its exp",
			token: signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}),
			want:  exp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SessionExpiry(tt.token, now, 0)
			if !got.Equal(tt.want) {
				t.Errorf("SessionExpiry() = %v, want %v", got, tt.want)
			}
			if Expired(got, now) {
				t.Errorf("Expired(%v, now) = true for a fresh session", got)
			}
		})
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()
	if Expired(time.Time{}, now) {
		t.Error("zero expiry should never expire")
	}
	if !Expired(now, now) {
		t.Error("expiry equal to now should be expired")
	}
	if Expired(now.Add(time.Minute), now) {
		t.Error("future expiry should not be expired")
	}
}
