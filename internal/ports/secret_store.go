package ports

import "context"

// SessionTokenKey is the fixed secret-store key of the persisted bearer token.
const SessionTokenKey = "hvac/session/token"

// SecretStore persists opaque secrets. Get returns an error wrapping
// domain.ErrSecretNotFound when the key has no value.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
