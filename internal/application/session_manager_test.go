package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hvacdesk/hv/internal/domain"
	"github.com/hvacdesk/hv/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) (*SessionManager, *mocks.MockAuthGateway, *mocks.MockSecretStore) {
	t.Helper()

	auth := mocks.NewMockAuthGateway(t)
	store := mocks.NewMockSecretStore(t)
	return NewSessionManager(auth, store, fixedClock{now: testNow}), auth, store
}

func TestLoginCustomerNavigatesToCustomerDashboard(t *testing.T) {
	manager, auth, store := newTestManager(t)

	auth.EXPECT().Login(mockAnyContext(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"}).Return("tok-1", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(customerIdentity(), nil)
	store.EXPECT().Put(mockAnyContext(), SessionTokenKey, "tok-1").Return(nil)

	result := manager.Login(context.Background(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"})

	require.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Equal(t, domain.RoleCustomer, result.Role)
	assert.Equal(t, "/customer", result.Navigate.Route())

	session := manager.Snapshot()
	assert.Equal(t, result.Session, session)
	assert.Equal(t, domain.SessionAuthenticated, session.Status)
	assert.Equal(t, "tok-1", session.Token)
	assert.True(t, session.IsCustomer())
	assert.False(t, session.IsAdmin())
	assert.False(t, session.IsEngineer())
	assert.True(t, session.Consistent())
}

func TestLoginTrimsTokenBeforeUse(t *testing.T) {
	manager, auth, store := newTestManager(t)

	auth.EXPECT().Login(mockAnyContext(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"}).Return("  tok-1\n", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(customerIdentity(), nil)
	store.EXPECT().Put(mockAnyContext(), SessionTokenKey, "tok-1").Return(nil)

	result := manager.Login(context.Background(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"})
	require.True(t, result.Success)
	assert.Equal(t, "tok-1", result.Session.Token)
}

func TestLoginPrimaryRoleFollowsBackendOrder(t *testing.T) {
	manager, auth, store := newTestManager(t)

	auth.EXPECT().Login(mockAnyContext(), domain.Credentials{Identifier: "eng@b.com", Secret: "pw"}).Return("tok-1", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(identityWithRoles("Auditor", domain.RoleEngineer, domain.RoleAdmin), nil)
	store.EXPECT().Put(mockAnyContext(), SessionTokenKey, "tok-1").Return(nil)

	result := manager.Login(context.Background(), domain.Credentials{Identifier: "eng@b.com", Secret: "pw"})
	require.True(t, result.Success)
	assert.Equal(t, domain.RoleEngineer, result.Role)
	assert.Equal(t, "/engineer", result.Navigate.Route())
}

func TestLoginFailureMessages(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "rejected with message",
			err:  rejected(401, `{"message":"Invalid email or password"}`),
			want: "Invalid email or password",
		},
		{
			name: "rejected with validation errors",
			err:  rejected(400, `{"title":"One or more validation errors occurred.","errors":{"Email":["The Email field is required."],"Password":["The Password field is required."]}}`),
			want: "The Email field is required., The Password field is required.",
		},
		{
			name: "rejected with plain text",
			err:  rejected(400, "Account locked"),
			want: "Account locked",
		},
		{
			name: "rejected with unrecognised json body",
			err:  rejected(423, `{"code":"locked"}`),
			want: `{"code":"locked"}`,
		},
		{
			name: "rejected without payload",
			err:  rejected(401, ""),
			want: "Invalid email or password",
		},
		{
			name: "network unavailable",
			err:  &domain.BackendError{Kind: domain.FailureNetworkUnavailable, Op: "login", Err: errors.New("connection refused")},
			want: "Cannot connect to server. Please check if backend is running on the correct port.",
		},
		{
			name: "no response",
			err:  &domain.BackendError{Kind: domain.FailureNoResponse, Op: "login", Err: errors.New("EOF")},
			want: "Server not responding. Please check your backend connection.",
		},
		{
			name: "unclassified",
			err:  errors.New("boom"),
			want: "Login failed. Please try again.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			manager, auth, _ := newTestManager(t)
			auth.EXPECT().Login(mockAnyContext(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"}).Return("", tc.err)

			result := manager.Login(context.Background(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"})

			assert.False(t, result.Success)
			assert.Equal(t, tc.want, result.Error)
			assert.Equal(t, domain.SessionUnresolved, manager.Snapshot().Status)
		})
	}
}

func TestLoginWithoutTokenFails(t *testing.T) {
	manager, auth, _ := newTestManager(t)
	auth.EXPECT().Login(mockAnyContext(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"}).Return("  ", nil)

	result := manager.Login(context.Background(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"})

	assert.False(t, result.Success)
	assert.Equal(t, "Login failed. Please try again.", result.Error)
	assert.Equal(t, domain.SessionUnresolved, result.Session.Status)
}

func TestLoginIdentityFailureLeavesPreviousSession(t *testing.T) {
	tokens := newMemoryTokens(map[string]string{SessionTokenKey: "old-token"})
	auth := mocks.NewMockAuthGateway(t)
	manager := NewSessionManager(auth, tokens, fixedClock{now: testNow})

	auth.EXPECT().CurrentUser(mockAnyContext(), "old-token").Return(customerIdentity(), nil).Once()
	before := manager.Hydrate(context.Background())
	require.True(t, before.IsAuthenticated())

	auth.EXPECT().Login(mockAnyContext(), domain.Credentials{Identifier: "b@b.com", Secret: "pw"}).Return("new-token", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "new-token").Return(domain.Identity{}, rejected(500, `{"message":"identity service down"}`))

	result := manager.Login(context.Background(), domain.Credentials{Identifier: "b@b.com", Secret: "pw"})

	assert.False(t, result.Success)
	assert.Equal(t, "identity service down", result.Error)
	assert.Equal(t, before, manager.Snapshot())
	token, ok := tokens.token()
	require.True(t, ok)
	assert.Equal(t, "old-token", token)
}

func TestLoginRejectsIdentityWithoutRoles(t *testing.T) {
	manager, auth, _ := newTestManager(t)
	auth.EXPECT().Login(mockAnyContext(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"}).Return("tok-1", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(domain.Identity{ID: "u-1"}, nil)

	result := manager.Login(context.Background(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"})

	assert.False(t, result.Success)
	assert.Equal(t, "Login failed. Please try again.", result.Error)
}

func TestLoginPersistFailureKeepsSession(t *testing.T) {
	manager, auth, store := newTestManager(t)
	auth.EXPECT().Login(mockAnyContext(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"}).Return("tok-1", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(customerIdentity(), nil)
	store.EXPECT().Put(mockAnyContext(), SessionTokenKey, "tok-1").Return(errors.New("disk full"))

	result := manager.Login(context.Background(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"})

	assert.False(t, result.Success)
	assert.Equal(t, "Login failed. Please try again.", result.Error)
	assert.Equal(t, domain.SessionUnresolved, manager.Snapshot().Status)
}

func TestHydrateWithoutTokenSettlesUnauthenticated(t *testing.T) {
	manager, _, store := newTestManager(t)
	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("", fmt.Errorf("secret: %w", domain.ErrSecretNotFound)).Once()

	session := manager.Hydrate(context.Background())

	assert.Equal(t, domain.SessionUnauthenticated, session.Status)
	assert.Nil(t, session.Identity)
	assert.Empty(t, session.Token)

	// A second hydrate is a no-op.
	assert.Equal(t, session, manager.Hydrate(context.Background()))
}

func TestHydrateStoreFailureSettlesUnauthenticated(t *testing.T) {
	manager, _, store := newTestManager(t)
	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("", errors.New("gpg: decryption failed"))

	session := manager.Hydrate(context.Background())

	assert.Equal(t, domain.SessionUnauthenticated, session.Status)
}

func TestHydrateRestoresPersistedSession(t *testing.T) {
	manager, auth, store := newTestManager(t)
	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("tok-1\n", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(identityWithRoles(domain.RoleAdmin), nil)

	session := manager.Hydrate(context.Background())

	require.True(t, session.IsAuthenticated())
	assert.Equal(t, "tok-1", session.Token)
	assert.True(t, session.IsAdmin())
}

func TestHydrateDropsExpiredToken(t *testing.T) {
	auth := mocks.NewMockAuthGateway(t)
	store := mocks.NewMockSecretStore(t)
	manager := NewSessionManager(auth, store, fixedClock{now: testNow},
		WithTokenInspector(expiryInspector{"a.b.c": testNow.Add(-time.Minute)}),
	)

	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("a.b.c", nil)
	store.EXPECT().Delete(mockAnyContext(), SessionTokenKey).Return(nil)

	session := manager.Hydrate(context.Background())

	assert.Equal(t, domain.SessionUnauthenticated, session.Status)
	auth.AssertNotCalled(t, "CurrentUser", mockAnyContext(), "a.b.c")
}

func TestHydrateKeepsUnexpiredToken(t *testing.T) {
	auth := mocks.NewMockAuthGateway(t)
	store := mocks.NewMockSecretStore(t)
	manager := NewSessionManager(auth, store, fixedClock{now: testNow},
		WithTokenInspector(expiryInspector{"a.b.c": testNow.Add(time.Hour)}),
	)

	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("a.b.c", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "a.b.c").Return(customerIdentity(), nil)

	assert.True(t, manager.Hydrate(context.Background()).IsAuthenticated())
}

func TestHydrateDropsRejectedToken(t *testing.T) {
	manager, auth, store := newTestManager(t)
	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("tok-1", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(domain.Identity{}, rejected(401, ""))
	store.EXPECT().Delete(mockAnyContext(), SessionTokenKey).Return(nil)

	session := manager.Hydrate(context.Background())

	assert.Equal(t, domain.SessionUnauthenticated, session.Status)
	assert.True(t, session.Consistent())
}

func TestHydrateRunsOnceForConcurrentCallers(t *testing.T) {
	tokens := newMemoryTokens(map[string]string{SessionTokenKey: "tok-1"})
	auth := newGatedAuth(customerIdentity())
	manager := NewSessionManager(auth, tokens, fixedClock{now: testNow})

	var wg sync.WaitGroup
	results := make([]domain.Session, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = manager.Hydrate(context.Background())
		}(i)
	}

	<-auth.entered
	close(auth.release)
	wg.Wait()

	assert.Equal(t, 1, auth.callCount())
	for _, session := range results {
		assert.True(t, session.IsAuthenticated())
	}
}

func TestLogoutDuringHydrationWins(t *testing.T) {
	tokens := newMemoryTokens(map[string]string{SessionTokenKey: "tok-1"})
	auth := newGatedAuth(customerIdentity())
	manager := NewSessionManager(auth, tokens, fixedClock{now: testNow})

	done := make(chan domain.Session)
	go func() {
		done <- manager.Hydrate(context.Background())
	}()

	<-auth.entered
	manager.Logout(context.Background())
	close(auth.release)

	session := <-done
	assert.Equal(t, domain.SessionUnauthenticated, session.Status)
	assert.Equal(t, domain.SessionUnauthenticated, manager.Snapshot().Status)
	_, ok := tokens.token()
	assert.False(t, ok)
}

func TestLoginSupersededByLogoutIsDiscarded(t *testing.T) {
	tokens := newMemoryTokens(nil)
	auth := newGatedAuth(customerIdentity())
	manager := NewSessionManager(auth, tokens, fixedClock{now: testNow})

	done := make(chan LoginResult)
	go func() {
		done <- manager.Login(context.Background(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"})
	}()

	<-auth.entered
	manager.Logout(context.Background())
	close(auth.release)

	result := <-done
	assert.False(t, result.Success)
	assert.Equal(t, loginSupersededMessage, result.Error)
	assert.Equal(t, domain.SessionUnauthenticated, manager.Snapshot().Status)
	assert.Zero(t, tokens.putCount())
}

func TestLoginDuringHydrationWins(t *testing.T) {
	tokens := newMemoryTokens(map[string]string{SessionTokenKey: "stale-token"})
	auth := newGatedAuth(customerIdentity())
	manager := NewSessionManager(auth, tokens, fixedClock{now: testNow})

	hydrated := make(chan domain.Session)
	go func() {
		hydrated <- manager.Hydrate(context.Background())
	}()
	<-auth.entered

	loggedIn := make(chan LoginResult)
	go func() {
		loggedIn <- manager.Login(context.Background(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"})
	}()
	<-auth.entered

	close(auth.release)
	result := <-loggedIn
	<-hydrated

	require.True(t, result.Success)
	session := manager.Snapshot()
	assert.Equal(t, "fresh-token", session.Token)
	token, ok := tokens.token()
	require.True(t, ok)
	assert.Equal(t, "fresh-token", token)
}

func TestLogoutClearsSessionAndToken(t *testing.T) {
	manager, auth, store := newTestManager(t)
	auth.EXPECT().Login(mockAnyContext(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"}).Return("tok-1", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(customerIdentity(), nil)
	store.EXPECT().Put(mockAnyContext(), SessionTokenKey, "tok-1").Return(nil)
	store.EXPECT().Delete(mockAnyContext(), SessionTokenKey).Return(nil).Twice()

	require.True(t, manager.Login(context.Background(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"}).Success)

	var recorder sessionRecorder
	unsubscribe := manager.Subscribe(recorder.record)
	defer unsubscribe()

	session := manager.Logout(context.Background())
	assert.Equal(t, domain.SessionUnauthenticated, session.Status)
	assert.Empty(t, session.Token)
	assert.Nil(t, session.Identity)

	manager.Logout(context.Background())
	assert.Len(t, recorder.snapshots(), 1)
}

func TestLogoutIgnoresStoreFailure(t *testing.T) {
	manager, _, store := newTestManager(t)
	store.EXPECT().Delete(mockAnyContext(), SessionTokenKey).Return(errors.New("pass: locked"))

	session := manager.Logout(context.Background())
	assert.Equal(t, domain.SessionUnauthenticated, session.Status)
}

func TestRevalidateRefreshesIdentity(t *testing.T) {
	manager, auth, store := newTestManager(t)
	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("tok-1", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(customerIdentity(), nil).Once()
	manager.Hydrate(context.Background())

	promoted := identityWithRoles(domain.RoleCustomer, domain.RoleAdmin)
	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(promoted, nil).Once()

	session := manager.Revalidate(context.Background())
	require.True(t, session.IsAuthenticated())
	assert.True(t, session.IsAdmin())
	assert.Equal(t, "tok-1", session.Token)
}

func TestRevalidateRejectedTokenSignsOut(t *testing.T) {
	manager, auth, store := newTestManager(t)
	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("tok-1", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(customerIdentity(), nil).Once()
	manager.Hydrate(context.Background())

	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(domain.Identity{}, rejected(401, "")).Once()
	store.EXPECT().Delete(mockAnyContext(), SessionTokenKey).Return(nil)

	session := manager.Revalidate(context.Background())
	assert.Equal(t, domain.SessionUnauthenticated, session.Status)
}

// revokedTokenAuth accepts revoked once, then blocks its next identity check
// until release is closed and rejects it.
type revokedTokenAuth struct {
	revoked  string
	identity domain.Identity
	entered  chan struct{}
	release  chan struct{}

	mu     sync.Mutex
	checks int
}

func (a *revokedTokenAuth) Login(_ context.Context, _ domain.Credentials) (string, error) {
	return "fresh-token", nil
}

func (a *revokedTokenAuth) CurrentUser(_ context.Context, token string) (domain.Identity, error) {
	if token != a.revoked {
		return a.identity, nil
	}

	a.mu.Lock()
	a.checks++
	first := a.checks == 1
	a.mu.Unlock()
	if first {
		return a.identity, nil
	}

	close(a.entered)
	<-a.release
	return domain.Identity{}, rejected(401, "")
}

func (a *revokedTokenAuth) Register(_ context.Context, _ domain.Profile) error {
	return nil
}

func TestRevalidateOfOldTokenKeepsNewerLogin(t *testing.T) {
	tokens := newMemoryTokens(map[string]string{SessionTokenKey: "old-token"})
	auth := &revokedTokenAuth{
		revoked:  "old-token",
		identity: customerIdentity(),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	manager := NewSessionManager(auth, tokens, fixedClock{now: testNow})
	require.Equal(t, "old-token", manager.Hydrate(context.Background()).Token)

	revalidated := make(chan domain.Session)
	go func() {
		revalidated <- manager.Revalidate(context.Background())
	}()
	<-auth.entered

	require.True(t, manager.Login(context.Background(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"}).Success)
	close(auth.release)
	<-revalidated

	session := manager.Snapshot()
	assert.Equal(t, domain.SessionAuthenticated, session.Status)
	assert.Equal(t, "fresh-token", session.Token)
	token, ok := tokens.token()
	require.True(t, ok)
	assert.Equal(t, "fresh-token", token)
}

func TestRevalidateWithoutSessionIsNoop(t *testing.T) {
	manager, _, _ := newTestManager(t)

	assert.Equal(t, domain.SessionUnresolved, manager.Revalidate(context.Background()).Status)
}

func TestRegisterNeverTouchesSession(t *testing.T) {
	manager, auth, _ := newTestManager(t)
	profile := domain.Profile{UserName: "amal", Email: "a@b.com", Password: "pw", Role: "Customer"}

	auth.EXPECT().Register(mockAnyContext(), profile).Return(nil).Once()
	result := manager.Register(context.Background(), profile)
	assert.True(t, result.Success)

	auth.EXPECT().Register(mockAnyContext(), profile).Return(rejected(400, `["Username 'amal' is already taken."]`)).Once()
	result = manager.Register(context.Background(), profile)
	assert.False(t, result.Success)
	assert.Equal(t, "Username 'amal' is already taken.", result.Error)

	auth.EXPECT().Register(mockAnyContext(), profile).Return(&domain.BackendError{Kind: domain.FailureNetworkUnavailable}).Once()
	result = manager.Register(context.Background(), profile)
	assert.Equal(t, "Cannot connect to server. Please check if backend is running.", result.Error)

	assert.Equal(t, domain.SessionUnresolved, manager.Snapshot().Status)
}

func TestSubscribersSeeOrderedConsistentSnapshots(t *testing.T) {
	manager, auth, store := newTestManager(t)

	var recorder sessionRecorder
	unsubscribe := manager.Subscribe(recorder.record)

	store.EXPECT().Get(mockAnyContext(), SessionTokenKey).Return("", domain.ErrSecretNotFound)
	manager.Hydrate(context.Background())

	auth.EXPECT().Login(mockAnyContext(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"}).Return("tok-1", nil)
	auth.EXPECT().CurrentUser(mockAnyContext(), "tok-1").Return(customerIdentity(), nil)
	store.EXPECT().Put(mockAnyContext(), SessionTokenKey, "tok-1").Return(nil)
	manager.Login(context.Background(), domain.Credentials{Identifier: "a@b.com", Secret: "pw"})

	store.EXPECT().Delete(mockAnyContext(), SessionTokenKey).Return(nil)
	manager.Logout(context.Background())

	unsubscribe()
	manager.Logout(context.Background())

	snapshots := recorder.snapshots()
	require.Len(t, snapshots, 3)
	assert.Equal(t, domain.SessionUnauthenticated, snapshots[0].Status)
	assert.Equal(t, domain.SessionAuthenticated, snapshots[1].Status)
	assert.Equal(t, domain.SessionUnauthenticated, snapshots[2].Status)
	for i, session := range snapshots {
		assert.True(t, session.Consistent(), "snapshot %d", i)
		if i > 0 {
			assert.Greater(t, session.Revision, snapshots[i-1].Revision)
		}
	}
}
