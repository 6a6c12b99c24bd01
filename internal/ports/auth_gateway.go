package ports

import (
	"context"
	"time"

	"github.com/hvacdesk/hv/internal/domain"
)

type AuthGateway interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, credentials domain.Credentials) (string, error)
	// CurrentUser resolves the identity behind token.
	CurrentUser(ctx context.Context, token string) (domain.Identity, error)
	Register(ctx context.Context, profile domain.Profile) error
}

type TokenInspector interface {
	// ExpiresAt reports the token expiry when the token carries one.
	ExpiresAt(token string) (time.Time, bool)
}
