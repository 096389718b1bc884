package inkwell_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func adaProfile() *inkwell.Profile {
	return &inkwell.Profile{
		ID:       "u-1",
		Username: "ada",
		Email:    "ada@example.com",
		Role:     inkwell.RoleAdmin,
	}
}

func TestSessionManager_LoginSuccess(t *testing.T) {
	identity := &MockIdentityService{}
	store := inkwell.NewCredentialStore(newMemKV())
	manager := inkwell.NewSessionManager(identity, store)
	ctx := context.Background()

	identity.On("Login", mock.Anything, "ada", "secret").Return(&inkwell.LoginResult{
		Token: "tok-123",
		User:  adaProfile(),
	}, nil)

	profile, err := manager.Login(ctx, "ada", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ada", profile.Username)

	snap := manager.Snapshot()
	assert.Equal(t, inkwell.StatusAuthenticated, snap.Status)
	assert.True(t, snap.IsAuthenticated)
	assert.True(t, snap.IsAdmin)
	assert.Nil(t, snap.LastError)

	cred, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", cred.Token)
	require.NotNil(t, cred.Profile)
	assert.Equal(t, "ada", cred.Profile.Username)

	identity.AssertExpectations(t)
}

func TestSessionManager_LoginFailure(t *testing.T) {
	identity := &MockIdentityService{}
	store := inkwell.NewCredentialStore(newMemKV())
	manager := inkwell.NewSessionManager(identity, store)
	ctx := context.Background()

	rejected := errors.New("Incorrect username or password")
	identity.On("Login", mock.Anything, "ada", "wrong").Return(nil, rejected).Once()

	_, err := manager.Login(ctx, "ada", "wrong")
	require.Error(t, err)

	snap := manager.Snapshot()
	assert.Equal(t, inkwell.StatusAnonymous, snap.Status)
	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, rejected, snap.LastError)

	cred, readErr := store.Read(ctx)
	require.NoError(t, readErr)
	assert.True(t, cred.IsZero())

	// the next attempt clears the carried error
	identity.On("Login", mock.Anything, "ada", "secret").Return(&inkwell.LoginResult{
		Token: "tok-123",
		User:  adaProfile(),
	}, nil).Once()

	_, err = manager.Login(ctx, "ada", "secret")
	require.NoError(t, err)
	assert.Nil(t, manager.Snapshot().LastError)
}

func TestSessionManager_RegisterDoesNotAuthenticate(t *testing.T) {
	identity := &MockIdentityService{}
	store := inkwell.NewCredentialStore(newMemKV())
	manager := inkwell.NewSessionManager(identity, store)
	ctx := context.Background()

	identity.On("Register", mock.Anything, "ada", "ada@example.com", "secret").
		Return(adaProfile(), nil)

	profile, err := manager.Register(ctx, "ada", "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ada", profile.Username)

	snap := manager.Snapshot()
	assert.Equal(t, inkwell.StatusAnonymous, snap.Status)
	assert.False(t, snap.IsAuthenticated)

	cred, readErr := store.Read(ctx)
	require.NoError(t, readErr)
	assert.True(t, cred.IsZero())
}

func TestSessionManager_LogoutIsIdempotent(t *testing.T) {
	identity := &MockIdentityService{}
	store := inkwell.NewCredentialStore(newMemKV())
	manager := inkwell.NewSessionManager(identity, store)
	ctx := context.Background()

	identity.On("Login", mock.Anything, "ada", "secret").Return(&inkwell.LoginResult{
		Token: "tok-123",
		User:  adaProfile(),
	}, nil)

	_, err := manager.Login(ctx, "ada", "secret")
	require.NoError(t, err)

	manager.Logout(ctx)
	manager.Logout(ctx)
	manager.Logout(ctx)

	snap := manager.Snapshot()
	assert.Equal(t, inkwell.StatusAnonymous, snap.Status)
	assert.Nil(t, snap.Profile)

	cred, readErr := store.Read(ctx)
	require.NoError(t, readErr)
	assert.True(t, cred.IsZero())
}

func TestSessionManager_LogoutSurvivesBackendFailure(t *testing.T) {
	kv := newMemKV()
	kv.delErr = errors.New("disk full")
	store := inkwell.NewCredentialStore(kv)
	manager := inkwell.NewSessionManager(&MockIdentityService{}, store)

	// must not panic or surface the error
	manager.Logout(context.Background())
	assert.Equal(t, inkwell.StatusAnonymous, manager.Snapshot().Status)
}

func TestSessionManager_InitWithoutCredential(t *testing.T) {
	manager := inkwell.NewSessionManager(&MockIdentityService{}, inkwell.NewCredentialStore(newMemKV()))

	require.NoError(t, manager.Init(context.Background()))
	assert.Equal(t, inkwell.StatusAnonymous, manager.Snapshot().Status)
}

func TestSessionManager_InitResolvesStoredCredential(t *testing.T) {
	identity := &MockIdentityService{}
	store := inkwell.NewCredentialStore(newMemKV())
	manager := inkwell.NewSessionManager(identity, store)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, inkwell.Credential{Token: "tok-123", Profile: adaProfile()}))
	identity.On("Me", mock.Anything).Return(adaProfile(), nil)

	require.NoError(t, manager.Init(ctx))

	snap := manager.Snapshot()
	assert.Equal(t, inkwell.StatusAuthenticated, snap.Status)
	assert.True(t, snap.IsAdmin)
	assert.Equal(t, "ada", snap.Profile.Username)
}

func TestSessionManager_InitFailureSignsOut(t *testing.T) {
	identity := &MockIdentityService{}
	store := inkwell.NewCredentialStore(newMemKV())
	manager := inkwell.NewSessionManager(identity, store)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, inkwell.Credential{Token: "tok-stale", Profile: adaProfile()}))
	identity.On("Me", mock.Anything).Return(nil, errors.New("Could not validate credentials"))

	err := manager.Init(ctx)
	require.Error(t, err)

	snap := manager.Snapshot()
	assert.Equal(t, inkwell.StatusAnonymous, snap.Status)
	assert.Nil(t, snap.Profile)

	cred, readErr := store.Read(ctx)
	require.NoError(t, readErr)
	assert.True(t, cred.IsZero())
}

func TestSessionManager_ChangeNotifications(t *testing.T) {
	identity := &MockIdentityService{}
	store := inkwell.NewCredentialStore(newMemKV())
	manager := inkwell.NewSessionManager(identity, store)
	ctx := context.Background()

	var mu sync.Mutex
	var seen []inkwell.Status
	manager.OnChange(func(snap inkwell.SessionSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, snap.Status)
	})

	identity.On("Login", mock.Anything, "ada", "secret").Return(&inkwell.LoginResult{
		Token: "tok-123",
		User:  adaProfile(),
	}, nil)

	_, err := manager.Login(ctx, "ada", "secret")
	require.NoError(t, err)
	manager.Logout(ctx)
	manager.HandleCredentialRejected()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []inkwell.Status{
		inkwell.StatusResolving,
		inkwell.StatusAuthenticated,
		inkwell.StatusAnonymous,
		inkwell.StatusAnonymous,
	}, seen)
}

// End-to-end over the wire: a 401 mid-session must leave the client fully
// signed out without any caller-side handling.
func TestSessionManager_RejectionThroughPipeline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	defer server.Close()

	kv := newMemKV()
	store := inkwell.NewCredentialStore(kv)
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, inkwell.Credential{Token: "tok-stale", Profile: adaProfile()}))

	manager := inkwell.NewSessionManager(&MockIdentityService{}, store)
	client := inkwell.NewClient(server.URL, store).
		OnCredentialRejected(manager.HandleCredentialRejected)

	err := client.Get(ctx, "/users/me", nil)
	require.Error(t, err)
	assert.True(t, inkwell.IsCredentialRejected(err))

	snap := manager.Snapshot()
	assert.Equal(t, inkwell.StatusAnonymous, snap.Status)
	assert.False(t, kv.has(inkwell.KeyToken))
}
