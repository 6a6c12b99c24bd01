package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hvacdesk/hv/internal/domain"
	"github.com/stretchr/testify/mock"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

func customerIdentity() domain.Identity {
	return domain.Identity{
		ID:       "u-1",
		FullName: "Amal Customer",
		Username: "amal",
		Email:    "a@b.com",
		Roles:    domain.NewRoleSet(domain.RoleCustomer),
	}
}

func identityWithRoles(roles ...domain.RoleName) domain.Identity {
	identity := customerIdentity()
	identity.Roles = domain.NewRoleSet(roles...)
	return identity
}

func rejected(status int, payload string) error {
	return &domain.BackendError{Kind: domain.FailureRejected, Op: "test", Status: status, Payload: []byte(payload)}
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type expiryInspector map[string]time.Time

func (i expiryInspector) ExpiresAt(token string) (time.Time, bool) {
	expiresAt, ok := i[token]
	return expiresAt, ok
}

// memoryTokens is a concurrency-safe in-memory secret store.
type memoryTokens struct {
	mu     sync.Mutex
	values map[string]string
	puts   int
}

func newMemoryTokens(initial map[string]string) *memoryTokens {
	values := make(map[string]string, len(initial))
	for key, value := range initial {
		values[key] = value
	}
	return &memoryTokens{values: values}
}

func (m *memoryTokens) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("secret %q: %w", key, domain.ErrSecretNotFound)
	}
	return value, nil
}

func (m *memoryTokens) Put(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.puts++
	m.values[key] = value
	return nil
}

func (m *memoryTokens) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *memoryTokens) token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.values[SessionTokenKey]
	return value, ok
}

func (m *memoryTokens) putCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.puts
}

// gatedAuth blocks CurrentUser until release is closed.
type gatedAuth struct {
	identity domain.Identity
	entered  chan struct{}
	release  chan struct{}

	mu    sync.Mutex
	calls int
}

func newGatedAuth(identity domain.Identity) *gatedAuth {
	return &gatedAuth{
		identity: identity,
		entered:  make(chan struct{}, 16),
		release:  make(chan struct{}),
	}
}

func (g *gatedAuth) Login(_ context.Context, _ domain.Credentials) (string, error) {
	return "fresh-token", nil
}

func (g *gatedAuth) CurrentUser(ctx context.Context, _ string) (domain.Identity, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	g.entered <- struct{}{}
	select {
	case <-g.release:
		return g.identity, nil
	case <-ctx.Done():
		return domain.Identity{}, ctx.Err()
	}
}

func (g *gatedAuth) Register(_ context.Context, _ domain.Profile) error {
	return nil
}

func (g *gatedAuth) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.calls
}

// sessionRecorder collects every snapshot a manager publishes.
type sessionRecorder struct {
	mu       sync.Mutex
	sessions []domain.Session
}

func (r *sessionRecorder) record(session domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = append(r.sessions, session)
}

func (r *sessionRecorder) snapshots() []domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}
