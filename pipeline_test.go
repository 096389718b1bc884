package inkwell_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, token string) (*inkwell.CredentialStore, *memKV) {
	t.Helper()
	kv := newMemKV()
	store := inkwell.NewCredentialStore(kv)
	if token != "" {
		require.NoError(t, store.Write(context.Background(), inkwell.Credential{
			Token:   token,
			Profile: &inkwell.Profile{Username: "ada", Role: inkwell.RoleUser},
		}))
	}
	return store, kv
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	store, _ := newTestStore(t, "tok-123")
	client := inkwell.NewClient(server.URL, store)

	var out map[string]bool
	require.NoError(t, client.Get(context.Background(), "/posts", &out))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.True(t, out["ok"])
}

func TestClient_AnonymousWhenNoToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	store, _ := newTestStore(t, "")
	client := inkwell.NewClient(server.URL, store)

	var out []string
	require.NoError(t, client.Get(context.Background(), "/posts", &out))
	assert.Empty(t, gotAuth)
}

func TestClient_UnwrapsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"p-1","title":"Hello"}`))
	}))
	defer server.Close()

	store, _ := newTestStore(t, "")
	client := inkwell.NewClient(server.URL, store)

	var post struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, client.Get(context.Background(), "/posts/p-1", &post))
	assert.Equal(t, "Hello", post.Title)
}

func TestClient_CredentialRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Token has expired"}`))
	}))
	defer server.Close()

	store, kv := newTestStore(t, "tok-stale")

	var hookCalls atomic.Int32
	client := inkwell.NewClient(server.URL, store).
		OnCredentialRejected(func() { hookCalls.Add(1) })

	err := client.Get(context.Background(), "/users/me", nil)
	require.Error(t, err)
	assert.True(t, inkwell.IsCredentialRejected(err))
	assert.Equal(t, "Token has expired", inkwell.ErrorMessage(err))

	// credential gone, hook fired once
	assert.Equal(t, int32(1), hookCalls.Load())
	assert.False(t, kv.has(inkwell.KeyToken))
	assert.False(t, kv.has(inkwell.KeyProfile))

	cred, readErr := store.Read(context.Background())
	require.NoError(t, readErr)
	assert.True(t, cred.IsZero())
}

func TestClient_ForbiddenKeepsCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"Admin privileges required"}`))
	}))
	defer server.Close()

	store, kv := newTestStore(t, "tok-123")

	var hookCalls atomic.Int32
	client := inkwell.NewClient(server.URL, store).
		OnCredentialRejected(func() { hookCalls.Add(1) })

	err := client.Put(context.Background(), "/users/ada/role", nil, nil)
	require.Error(t, err)
	assert.True(t, inkwell.IsOperationRejected(err))
	assert.False(t, inkwell.IsCredentialRejected(err))
	assert.Equal(t, "Admin privileges required", inkwell.ErrorMessage(err))

	assert.Equal(t, int32(0), hookCalls.Load())
	assert.True(t, kv.has(inkwell.KeyToken))
}

func TestClient_OperationRejectedKeepsServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail":"Username already registered"}`))
	}))
	defer server.Close()

	store, _ := newTestStore(t, "")
	client := inkwell.NewClient(server.URL, store)

	err := client.Post(context.Background(), "/register", map[string]string{"username": "ada"}, nil)
	require.Error(t, err)
	assert.True(t, inkwell.IsOperationRejected(err))
	assert.Equal(t, "Username already registered", inkwell.ErrorMessage(err))
}

func TestClient_TransportUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	store, _ := newTestStore(t, "")
	client := inkwell.NewClient(server.URL, store)

	err := client.Get(context.Background(), "/posts", nil)
	require.Error(t, err)
	assert.True(t, inkwell.IsTransportUnavailable(err))
	assert.False(t, inkwell.IsOperationRejected(err))
}

func TestClient_MalformedSuccessPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	store, _ := newTestStore(t, "")
	client := inkwell.NewClient(server.URL, store)

	var out map[string]any
	err := client.Get(context.Background(), "/posts", &out)
	require.Error(t, err)
	assert.True(t, inkwell.IsMalformedResponse(err))
}

func TestClient_EmptySuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	store, _ := newTestStore(t, "")
	client := inkwell.NewClient(server.URL, store)

	var out map[string]any
	require.NoError(t, client.Delete(context.Background(), "/posts/p-1", &out))
	assert.Nil(t, out)
}

func TestClient_NonStringDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","username"],"msg":"field required"}]}`))
	}))
	defer server.Close()

	store, _ := newTestStore(t, "")
	client := inkwell.NewClient(server.URL, store)

	err := client.Post(context.Background(), "/register", map[string]string{}, nil)
	require.Error(t, err)
	assert.True(t, inkwell.IsOperationRejected(err))
	assert.Contains(t, inkwell.ErrorMessage(err), "field required")
}
