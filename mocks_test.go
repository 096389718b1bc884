package inkwell_test

import (
	"context"
	"sync"

	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/stretchr/testify/mock"
)

// MockIdentityService implements inkwell.IdentityService
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Login(ctx context.Context, username, password string) (*inkwell.LoginResult, error) {
	args := m.Called(ctx, username, password)
	var result *inkwell.LoginResult
	if v := args.Get(0); v != nil {
		result = v.(*inkwell.LoginResult)
	}
	return result, args.Error(1)
}

func (m *MockIdentityService) Register(ctx context.Context, username, email, password string) (*inkwell.Profile, error) {
	args := m.Called(ctx, username, email, password)
	var profile *inkwell.Profile
	if v := args.Get(0); v != nil {
		profile = v.(*inkwell.Profile)
	}
	return profile, args.Error(1)
}

func (m *MockIdentityService) Me(ctx context.Context) (*inkwell.Profile, error) {
	args := m.Called(ctx)
	var profile *inkwell.Profile
	if v := args.Get(0); v != nil {
		profile = v.(*inkwell.Profile)
	}
	return profile, args.Error(1)
}

// memKV is an in-process KV with injectable failures.
type memKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	delErr  error
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (k *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.getErr != nil {
		return nil, false, k.getErr
	}
	value, ok := k.data[key]
	return value, ok, nil
}

func (k *memKV) Set(_ context.Context, key string, value []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.setErr != nil {
		return k.setErr
	}
	k.data[key] = append([]byte(nil), value...)
	return nil
}

func (k *memKV) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.delErr != nil {
		return k.delErr
	}
	delete(k.data, key)
	return nil
}

func (k *memKV) put(key, value string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data[key] = []byte(value)
}

func (k *memKV) has(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.data[key]
	return ok
}
