package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hvacdesk/hv/internal/domain"
	"github.com/hvacdesk/hv/internal/ports"
)

const SessionTokenKey = ports.SessionTokenKey

type LoginResult struct {
	Success bool
	Error   string
	// Role is the primary role of the signed-in identity.
	Role     domain.RoleName
	Navigate domain.NavigationIntent
	Session  domain.Session
}

type RegisterResult struct {
	Success bool
	Error   string
}

type SessionListener func(domain.Session)

type SessionOption func(*SessionManager)

func WithTokenInspector(inspector ports.TokenInspector) SessionOption {
	return func(m *SessionManager) {
		if inspector != nil {
			m.inspector = inspector
		}
	}
}

func WithLogger(logger *slog.Logger) SessionOption {
	return func(m *SessionManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// SessionManager is the only writer of the session and of the persisted
// token. Every login and logout starts a new epoch; continuations of older
// epochs are dropped instead of applied.
type SessionManager struct {
	auth      ports.AuthGateway
	tokens    ports.SecretStore
	inspector ports.TokenInspector
	clock     ports.Clock
	logger    *slog.Logger

	// writeMu serializes epoch changes with token-store writes.
	writeMu sync.Mutex
	mu      sync.RWMutex
	session domain.Session
	epoch   uint64

	listenersMu  sync.Mutex
	listeners    map[uint64]SessionListener
	nextListener uint64

	hydrateOnce sync.Once
}

func NewSessionManager(auth ports.AuthGateway, tokens ports.SecretStore, clock ports.Clock, opts ...SessionOption) *SessionManager {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	m := &SessionManager{
		auth:      auth,
		tokens:    tokens,
		inspector: opaqueTokens{},
		clock:     clock,
		logger:    slog.Default(),
		session:   domain.UnresolvedSession(),
		listeners: map[uint64]SessionListener{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "session_manager")

	return m
}

func (m *SessionManager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.session
}

// Subscribe registers fn for every session transition and returns a func
// that removes it. Listeners run outside the manager's locks.
func (m *SessionManager) Subscribe(fn SessionListener) func() {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()

	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn

	return func() {
		m.listenersMu.Lock()
		defer m.listenersMu.Unlock()
		delete(m.listeners, id)
	}
}

// Hydrate restores the session from the persisted token. It runs once per
// manager; later and concurrent callers wait for that run. Failures are
// logged and always end in a terminal status.
func (m *SessionManager) Hydrate(ctx context.Context) domain.Session {
	m.hydrateOnce.Do(func() {
		m.hydrate(ctx)
	})

	return m.Snapshot()
}

func (m *SessionManager) hydrate(ctx context.Context) {
	epoch := m.currentEpoch()

	token, err := m.tokens.Get(ctx, SessionTokenKey)
	if err != nil && !isSecretNotFound(err) {
		m.logger.WarnContext(ctx, "read persisted token failed", "error", err)
	}
	token = strings.TrimSpace(token)
	if err != nil || token == "" {
		m.settleUnresolved()
		return
	}

	if expiresAt, ok := m.inspector.ExpiresAt(token); ok && !expiresAt.After(m.clock.Now()) {
		m.logger.InfoContext(ctx, "persisted token expired", "expires_at", expiresAt.Format(time.RFC3339))
		m.dropToken(ctx, epoch, domain.ErrTokenExpired)
		return
	}

	identity, err := m.currentUser(ctx, token)
	if err != nil {
		m.logger.WarnContext(ctx, "session hydration failed", "error", err)
		m.dropToken(ctx, epoch, err)
		return
	}

	m.writeMu.Lock()
	if m.currentEpoch() != epoch {
		m.writeMu.Unlock()
		m.logger.DebugContext(ctx, "discarding stale hydration result")
		m.settleUnresolved()
		return
	}
	snapshot := m.setSession(domain.Session{Token: token, Identity: &identity, Status: domain.SessionAuthenticated})
	m.writeMu.Unlock()

	m.logger.InfoContext(ctx, "session restored", "user_id", identity.ID, "roles", identity.Roles.Strings())
	m.notify(snapshot)
}

// Login authenticates credentials, persists the token and resolves the
// identity. Failures are reported in the result and leave the session as is.
func (m *SessionManager) Login(ctx context.Context, credentials domain.Credentials) LoginResult {
	epoch := m.beginAction()

	token, identity, err := m.authenticate(ctx, credentials)
	if err != nil {
		m.logger.WarnContext(ctx, "login failed", "error", err)
		return LoginResult{Error: describeFailure(err, loginFailureMessages), Session: m.Snapshot()}
	}

	m.writeMu.Lock()
	if m.currentEpoch() != epoch {
		m.writeMu.Unlock()
		m.logger.InfoContext(ctx, "discarding login superseded by a newer session action")
		return LoginResult{Error: loginSupersededMessage, Session: m.Snapshot()}
	}
	if err := m.tokens.Put(ctx, SessionTokenKey, token); err != nil {
		m.writeMu.Unlock()
		m.logger.ErrorContext(ctx, "persist session token failed", "error", err)
		return LoginResult{Error: loginFailureMessages.generic, Session: m.Snapshot()}
	}
	snapshot := m.setSession(domain.Session{Token: token, Identity: &identity, Status: domain.SessionAuthenticated})
	m.writeMu.Unlock()

	m.notify(snapshot)

	role, _ := identity.Roles.Primary()
	m.logger.InfoContext(ctx, "login succeeded", "user_id", identity.ID, "role", role)

	return LoginResult{
		Success:  true,
		Role:     role,
		Navigate: domain.ToRole(role),
		Session:  snapshot,
	}
}

func (m *SessionManager) authenticate(ctx context.Context, credentials domain.Credentials) (string, domain.Identity, error) {
	token, err := m.auth.Login(ctx, credentials)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("authenticate: %w", err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.Identity{}, domain.ErrMissingToken
	}

	identity, err := m.currentUser(ctx, token)
	if err != nil {
		return "", domain.Identity{}, err
	}

	return token, identity, nil
}

// Logout clears the session and the persisted token. It always succeeds and
// invalidates every in-flight hydration, login or revalidation.
func (m *SessionManager) Logout(ctx context.Context) domain.Session {
	m.writeMu.Lock()
	m.mu.Lock()
	m.epoch++
	changed := m.session.Status != domain.SessionUnauthenticated
	m.mu.Unlock()

	if err := m.tokens.Delete(context.WithoutCancel(ctx), SessionTokenKey); err != nil {
		m.logger.WarnContext(ctx, "delete persisted token failed", "error", err)
	}

	snapshot := m.Snapshot()
	if changed {
		snapshot = m.setSession(domain.Session{Status: domain.SessionUnauthenticated})
	}
	m.writeMu.Unlock()

	if changed {
		m.logger.InfoContext(ctx, "logged out")
		m.notify(snapshot)
	}

	return snapshot
}

// Revalidate re-checks the current token with the backend. A failed check
// signs the user out and clears the token.
func (m *SessionManager) Revalidate(ctx context.Context) domain.Session {
	current, epoch := m.state()
	if !current.IsAuthenticated() {
		return current
	}

	identity, err := m.currentUser(ctx, current.Token)
	if err != nil {
		m.logger.WarnContext(ctx, "identity re-check failed", "error", err)
		m.dropToken(ctx, epoch, err)
		return m.Snapshot()
	}

	m.writeMu.Lock()
	if m.currentEpoch() != epoch || m.Snapshot().Token != current.Token {
		m.writeMu.Unlock()
		return m.Snapshot()
	}
	snapshot := m.setSession(domain.Session{Token: current.Token, Identity: &identity, Status: domain.SessionAuthenticated})
	m.writeMu.Unlock()

	m.notify(snapshot)
	return snapshot
}

// Register forwards profile to the backend. It never touches the session.
func (m *SessionManager) Register(ctx context.Context, profile domain.Profile) RegisterResult {
	if err := m.auth.Register(ctx, profile); err != nil {
		m.logger.WarnContext(ctx, "registration failed", "error", err)
		return RegisterResult{Error: describeFailure(err, registerFailureMessages)}
	}

	m.logger.InfoContext(ctx, "registration succeeded", "username", profile.UserName)
	return RegisterResult{Success: true}
}

func (m *SessionManager) currentUser(ctx context.Context, token string) (domain.Identity, error) {
	identity, err := m.auth.CurrentUser(ctx, token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("resolve current user: %w", err)
	}
	if len(identity.Roles) == 0 {
		return domain.Identity{}, fmt.Errorf("resolve current user: %w: no roles", domain.ErrInvalidIdentity)
	}

	return identity, nil
}

// dropToken clears token and signs out, unless a newer action owns the session.
func (m *SessionManager) dropToken(ctx context.Context, epoch uint64, cause error) {
	m.writeMu.Lock()
	if m.currentEpoch() != epoch {
		m.writeMu.Unlock()
		m.logger.DebugContext(ctx, "discarding stale identity failure", "error", cause)
		m.settleUnresolved()
		return
	}

	if err := m.tokens.Delete(context.WithoutCancel(ctx), SessionTokenKey); err != nil {
		m.logger.WarnContext(ctx, "delete rejected token failed", "error", err)
	}
	snapshot := m.setSession(domain.Session{Status: domain.SessionUnauthenticated})
	m.writeMu.Unlock()

	m.notify(snapshot)
}

// settleUnresolved ends hydration without a backend verdict. A session still
// unresolved becomes unauthenticated; anything else is left alone.
func (m *SessionManager) settleUnresolved() {
	m.writeMu.Lock()
	if m.Snapshot().Status != domain.SessionUnresolved {
		m.writeMu.Unlock()
		return
	}
	snapshot := m.setSession(domain.Session{Status: domain.SessionUnauthenticated})
	m.writeMu.Unlock()

	m.notify(snapshot)
}

func (m *SessionManager) beginAction() uint64 {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch++

	return m.epoch
}

// state reads the session together with the epoch it belongs to.
func (m *SessionManager) state() (domain.Session, uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.session, m.epoch
}

func (m *SessionManager) currentEpoch() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.epoch
}

// setSession must be called with writeMu held.
func (m *SessionManager) setSession(next domain.Session) domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	next.Revision = m.session.Revision + 1
	m.session = next

	return next
}

func (m *SessionManager) notify(snapshot domain.Session) {
	m.listenersMu.Lock()
	listeners := make([]SessionListener, 0, len(m.listeners))
	for _, listener := range m.listeners {
		listeners = append(listeners, listener)
	}
	m.listenersMu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}

type opaqueTokens struct{}

func (opaqueTokens) ExpiresAt(string) (time.Time, bool) {
	return time.Time{}, false
}

var errSessionNotAuthenticated = errors.New("not signed in")
