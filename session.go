package inkwell

import (
	"context"
	"sync"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusAnonymous     Status = "anonymous"
	StatusResolving     Status = "resolving"
	StatusAuthenticated Status = "authenticated"
)

// SessionSnapshot is the read-only view consumers observe. IsAuthenticated
// and IsAdmin are derived so views never reach into the store themselves.
type SessionSnapshot struct {
	Status          Status
	IsAuthenticated bool
	IsAdmin         bool
	Profile         *Profile
	LastError       error
}

// SessionManager owns the in-memory identity state. It talks to the server
// through an IdentityService and persists credentials through the store; the
// request pipeline never depends on it, only the other way around.
type SessionManager struct {
	mu       sync.Mutex
	identity IdentityService
	store    *CredentialStore
	logger   Logger

	status  Status
	profile *Profile
	lastErr error
	subs    []func(SessionSnapshot)
}

// NewSessionManager creates a manager in the anonymous state.
func NewSessionManager(identity IdentityService, store *CredentialStore) *SessionManager {
	return &SessionManager{
		identity: identity,
		store:    store,
		logger:   defLogger{},
		status:   StatusAnonymous,
	}
}

// WithLogger replaces the default logger.
func (m *SessionManager) WithLogger(logger Logger) *SessionManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// OnChange registers a subscriber notified after every state transition.
// Subscribers run outside the manager's lock.
func (m *SessionManager) OnChange(fn func(SessionSnapshot)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Snapshot returns the current session view.
func (m *SessionManager) Snapshot() SessionSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *SessionManager) snapshotLocked() SessionSnapshot {
	return SessionSnapshot{
		Status:          m.status,
		IsAuthenticated: m.status == StatusAuthenticated,
		IsAdmin:         m.status == StatusAuthenticated && m.profile.IsAdmin(),
		Profile:         m.profile,
		LastError:       m.lastErr,
	}
}

// setState applies a transition and notifies subscribers outside the lock.
func (m *SessionManager) setState(status Status, profile *Profile, lastErr error) {
	m.mu.Lock()
	m.status = status
	m.profile = profile
	m.lastErr = lastErr
	snap := m.snapshotLocked()
	subs := make([]func(SessionSnapshot), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Login authenticates and persists the credential. A failed attempt leaves
// the session anonymous with the server's message as LastError; the next
// attempt clears it.
func (m *SessionManager) Login(ctx context.Context, username, password string) (*Profile, error) {
	m.setState(StatusResolving, nil, nil)

	result, err := m.identity.Login(ctx, username, password)
	if err != nil {
		m.logger.Debug("login failed for %s: %v", username, err)
		m.setState(StatusAnonymous, nil, err)
		return nil, err
	}

	cred := Credential{Token: result.Token, Profile: result.User}
	if err := m.store.Write(ctx, cred); err != nil {
		m.logger.Error("failed to persist credential: %v", err)
	}

	m.logger.Info("authenticated as %s", result.User.DisplayName())
	m.setState(StatusAuthenticated, result.User, nil)
	return result.User, nil
}

// Register creates an account. It does not sign in: the server returns a
// profile without a token, so the caller stays anonymous until Login.
func (m *SessionManager) Register(ctx context.Context, username, email, password string) (*Profile, error) {
	m.mu.Lock()
	m.lastErr = nil
	m.mu.Unlock()

	profile, err := m.identity.Register(ctx, username, email, password)
	if err != nil {
		m.logger.Debug("registration failed for %s: %v", username, err)
		m.setState(StatusAnonymous, nil, err)
		return nil, err
	}
	return profile, nil
}

// Logout clears the credential and resets the session. It never fails and
// is safe to call repeatedly or while already anonymous.
func (m *SessionManager) Logout(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("failed to clear credential on logout: %v", err)
	}
	m.setState(StatusAnonymous, nil, nil)
}

// Init bootstraps the session from a persisted credential. The stored
// profile is only a hint; the server's answer to /users/me decides. Any
// failure signs the session out so no half-authenticated state survives.
func (m *SessionManager) Init(ctx context.Context) error {
	cred, err := m.store.Read(ctx)
	if err != nil {
		m.logger.Error("credential read failed on init: %v", err)
		m.Logout(ctx)
		return err
	}
	if cred.IsZero() {
		m.setState(StatusAnonymous, nil, nil)
		return nil
	}

	m.setState(StatusResolving, cred.Profile, nil)

	profile, err := m.identity.Me(ctx)
	if err != nil {
		m.logger.Info("stored credential did not resolve, signing out: %v", err)
		m.Logout(ctx)
		return err
	}

	if err := m.store.Write(ctx, Credential{Token: cred.Token, Profile: profile}); err != nil {
		m.logger.Error("failed to refresh stored profile: %v", err)
	}

	m.setState(StatusAuthenticated, profile, nil)
	return nil
}

// RefreshProfile re-resolves the profile for an authenticated session, e.g.
// after the user edits their own settings.
func (m *SessionManager) RefreshProfile(ctx context.Context) (*Profile, error) {
	profile, err := m.identity.Me(ctx)
	if err != nil {
		return nil, err
	}

	cred, readErr := m.store.Read(ctx)
	if readErr == nil && !cred.IsZero() {
		if err := m.store.Write(ctx, Credential{Token: cred.Token, Profile: profile}); err != nil {
			m.logger.Error("failed to refresh stored profile: %v", err)
		}
	}

	m.setState(StatusAuthenticated, profile, nil)
	return profile, nil
}

// HandleCredentialRejected resets the in-memory state after the pipeline
// cleared a rejected credential. Wire it as the pipeline's rejection hook;
// it issues no requests of its own.
func (m *SessionManager) HandleCredentialRejected() {
	m.logger.Info("session reset after credential rejection")
	m.setState(StatusAnonymous, nil, nil)
}
