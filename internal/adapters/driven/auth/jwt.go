package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
)

// Ensure JWTInspector implements the interface.
var _ driven.TokenInspector = (*JWTInspector)(nil)

// JWTInspector reads the expiry claim of a JWT without verifying its
// signature. The backend remains the authority on validity.
type JWTInspector struct {
	parser *jwt.Parser
}

// NewJWTInspector creates a token inspector.
func NewJWTInspector() *JWTInspector {
	return &JWTInspector{parser: jwt.NewParser()}
}

// Expiry returns the token's "exp" claim. ok is false for opaque tokens and
// tokens without an expiry.
func (i *JWTInspector) Expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Subject returns the token's "sub" claim, or "".
func (i *JWTInspector) Subject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}
