package auth

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrMalformedToken token cannot be decoded
var ErrMalformedToken = errors.New("malformed bearer token")

// TokenClaims claims carried by the API bearer token.
//
// The signature is never checked here, the API does that on every call. The claims are only
// used to know when a stored token stops being worth sending.
type TokenClaims struct {
	jwt.StandardClaims
}

// TimeRemaining remaining time before the token get expired, -1 if the token carries no exp claim
func (tc *TokenClaims) TimeRemaining(now time.Time) time.Duration {
	if tc.ExpiresAt == 0 {
		return -1
	}
	exp := time.Unix(tc.ExpiresAt, 0)
	if exp.Before(now) {
		return 0
	}
	return exp.Sub(now)
}

// Expired whether exp claim has passed
func (tc *TokenClaims) Expired(now time.Time) bool {
	return tc.TimeRemaining(now) == 0
}

// Inspect decode token claims without verifying the signature
func Inspect(tokenStr string) (*TokenClaims, error) {
	claims := new(TokenClaims)
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
