// Package auth resolves the caller's Holidaze session from the bearer token they send.
// The token is only decoded here; the Holidaze API is the one that verifies it.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession      = errors.New("no session")
	ErrSessionExpired = errors.New("session expired")
)

// Session is the signed-in user as far as this service can tell.
type Session struct {
	AccessToken string
	Name        string
	Email       string
	ExpiresAt   time.Time // zero when the token carries no exp claim
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// ParseSession decodes the claims of a Holidaze access token without verifying it.
func ParseSession(token string, now time.Time) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("malformed access token: %w", err)
	}

	s := &Session{AccessToken: token}
	s.Name, _ = claims["name"].(string)
	s.Email, _ = claims["email"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
	if s.Expired(now) {
		return nil, ErrSessionExpired
	}
	return s, nil
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// SessionFromRequest returns the request's session, or ErrNoSession / ErrSessionExpired.
func SessionFromRequest(r *http.Request, now time.Time) (*Session, error) {
	return ParseSession(BearerToken(r), now)
}
