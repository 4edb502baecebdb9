// Package auth issues and verifies HS256 bearer tokens for API callers.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/paperless-mirror/internal/errs"
)

// Leeway tolerated on exp/nbf checks.
const Leeway = 30 * time.Second

// Issue creates a signed HS256 JWT for subject valid for ttl.
func Issue(key []byte, subject string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if len(key) == 0 || subject == "" {
		return "", time.Time{}, errors.New("empty key/subject")
	}
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	return signed, exp, err
}

// Verify checks signature, algorithm and validity window and returns the subject.
// Every failure wraps errs.ErrUnauthorized.
func Verify(key []byte, token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	}, jwt.WithLeeway(Leeway), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", errors.Join(errs.ErrUnauthorized, errors.New("invalid token"))
	}
	if claims.Subject == "" {
		return "", errors.Join(errs.ErrUnauthorized, errors.New("empty subject"))
	}
	return claims.Subject, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <t>" value.
func BearerToken(header string) (string, bool) {
	v := strings.TrimSpace(header)
	if len(v) < 7 || !strings.EqualFold(v[:7], "bearer ") {
		return "", false
	}
	t := strings.TrimSpace(v[7:])
	return t, t != ""
}
