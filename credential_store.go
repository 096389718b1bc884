package inkwell

import (
	"context"
	"encoding/json"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// Storage keys. Two records, mirroring the token and profile the web client
// kept side by side.
const (
	KeyToken   = "inkwell.token"
	KeyProfile = "inkwell.profile"
)

// CredentialStore persists the current credential through a KV capability.
// Reads never fail on damaged records: a malformed token or profile is
// discarded and the store behaves as if it were empty.
type CredentialStore struct {
	mu     sync.Mutex
	kv     KV
	logger Logger
}

// NewCredentialStore creates a store over the given KV backend.
func NewCredentialStore(kv KV) *CredentialStore {
	return &CredentialStore{
		kv:     kv,
		logger: defLogger{},
	}
}

// WithLogger replaces the default logger.
func (s *CredentialStore) WithLogger(logger Logger) *CredentialStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Read returns the persisted credential. Missing or corrupt records yield a
// zero credential; the error is reserved for backend failures.
func (s *CredentialStore) Read(ctx context.Context) (Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		return Credential{}, goerrors.Wrap(err, goerrors.CategoryInternal, "credential store read failed")
	}
	if !ok || len(token) == 0 {
		return Credential{}, nil
	}

	cred := Credential{Token: string(token)}

	raw, ok, err := s.kv.Get(ctx, KeyProfile)
	if err != nil {
		return Credential{}, goerrors.Wrap(err, goerrors.CategoryInternal, "credential store read failed")
	}
	if !ok || len(raw) == 0 {
		return cred, nil
	}

	profile := &Profile{}
	if err := json.Unmarshal(raw, profile); err != nil {
		s.logger.Debug("discarding corrupt profile record: %v", err)
		return cred, nil
	}
	if profile.Username == "" || !profile.Role.IsValid() {
		s.logger.Debug("discarding profile record with invalid shape")
		return cred, nil
	}

	cred.Profile = profile
	return cred, nil
}

// Write replaces both records with the given credential. Writing a zero
// credential is equivalent to Clear.
func (s *CredentialStore) Write(ctx context.Context, cred Credential) error {
	if cred.IsZero() {
		return s.Clear(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, KeyToken, []byte(cred.Token)); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "credential store write failed")
	}

	if cred.Profile == nil {
		if err := s.kv.Delete(ctx, KeyProfile); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "credential store write failed")
		}
		return nil
	}

	raw, err := json.Marshal(cred.Profile)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "credential store write failed")
	}
	if err := s.kv.Set(ctx, KeyProfile, raw); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "credential store write failed")
	}
	return nil
}

// Clear removes both records. Clearing an already empty store succeeds.
func (s *CredentialStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, KeyToken); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "credential store clear failed")
	}
	if err := s.kv.Delete(ctx, KeyProfile); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "credential store clear failed")
	}
	return nil
}
