package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hvacdesk/hv/internal/ports"
)

// TokenInspector reads the expiry of a backend-issued JWT. The signature is
// not checked: the client has no key and the backend validates every call.
type TokenInspector struct {
	parser *jwt.Parser
}

var _ ports.TokenInspector = (*TokenInspector)(nil)

func NewTokenInspector() *TokenInspector {
	return &TokenInspector{parser: jwt.NewParser()}
}

// ExpiresAt reports false for opaque tokens and for JWTs without exp.
func (i *TokenInspector) ExpiresAt(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := i.parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}
