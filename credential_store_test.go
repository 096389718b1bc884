package inkwell_test

import (
	"context"
	"errors"
	"testing"

	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStore_RoundTrip(t *testing.T) {
	kv := newMemKV()
	store := inkwell.NewCredentialStore(kv)
	ctx := context.Background()

	cred := inkwell.Credential{
		Token: "tok-123",
		Profile: &inkwell.Profile{
			ID:       "u-1",
			Username: "ada",
			Email:    "ada@example.com",
			Role:     inkwell.RoleAdmin,
		},
	}

	require.NoError(t, store.Write(ctx, cred))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got.Token)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "ada", got.Profile.Username)
	assert.Equal(t, inkwell.RoleAdmin, got.Profile.Role)
}

func TestCredentialStore_EmptyStore(t *testing.T) {
	store := inkwell.NewCredentialStore(newMemKV())

	got, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	assert.Nil(t, got.Profile)
}

func TestCredentialStore_CorruptRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed profile yields token-only credential", func(t *testing.T) {
		kv := newMemKV()
		kv.put(inkwell.KeyToken, "tok-123")
		kv.put(inkwell.KeyProfile, "{not json")

		got, err := inkwell.NewCredentialStore(kv).Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-123", got.Token)
		assert.Nil(t, got.Profile)
	})

	t.Run("profile with unknown role is discarded", func(t *testing.T) {
		kv := newMemKV()
		kv.put(inkwell.KeyToken, "tok-123")
		kv.put(inkwell.KeyProfile, `{"username":"ada","role":"emperor"}`)

		got, err := inkwell.NewCredentialStore(kv).Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-123", got.Token)
		assert.Nil(t, got.Profile)
	})

	t.Run("profile without token is signed out", func(t *testing.T) {
		kv := newMemKV()
		kv.put(inkwell.KeyProfile, `{"username":"ada","role":"admin"}`)

		got, err := inkwell.NewCredentialStore(kv).Read(ctx)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
		assert.Nil(t, got.Profile)
	})
}

func TestCredentialStore_Clear(t *testing.T) {
	kv := newMemKV()
	store := inkwell.NewCredentialStore(kv)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, inkwell.Credential{
		Token:   "tok-123",
		Profile: &inkwell.Profile{Username: "ada", Role: inkwell.RoleUser},
	}))

	require.NoError(t, store.Clear(ctx))
	assert.False(t, kv.has(inkwell.KeyToken))
	assert.False(t, kv.has(inkwell.KeyProfile))

	// clearing again is a no-op
	require.NoError(t, store.Clear(ctx))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestCredentialStore_WriteZeroClears(t *testing.T) {
	kv := newMemKV()
	store := inkwell.NewCredentialStore(kv)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, inkwell.Credential{
		Token:   "tok-123",
		Profile: &inkwell.Profile{Username: "ada", Role: inkwell.RoleUser},
	}))
	require.NoError(t, store.Write(ctx, inkwell.Credential{}))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	assert.False(t, kv.has(inkwell.KeyProfile))
}

func TestCredentialStore_BackendFailure(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("database is locked")
	store := inkwell.NewCredentialStore(kv)

	_, err := store.Read(context.Background())
	assert.Error(t, err)
}
