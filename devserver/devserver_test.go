package devserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/inkwell-cms/go-inkwell/devserver"
	"github.com/inkwell-cms/go-inkwell/service"
	"github.com/inkwell-cms/go-inkwell/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *devserver.Server {
	t.Helper()
	server, err := devserver.New(context.Background(), devserver.Config{})
	require.NoError(t, err)
	require.NoError(t, server.Seed(context.Background()))
	return server
}

func doJSON(t *testing.T, server *devserver.Server, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.App().Test(req, 10000)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func loginAdmin(t *testing.T, server *devserver.Server) string {
	t.Helper()
	status, body := doJSON(t, server, http.MethodPost, "/api/login", "", map[string]string{
		"username": devserver.SeedUser.Username,
		"password": devserver.SeedUser.Password,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var result inkwell.LoginResult
	require.NoError(t, json.Unmarshal(body, &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

func detail(t *testing.T, body []byte) string {
	t.Helper()
	var envelope struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Detail
}

func TestLogin(t *testing.T) {
	server := newTestServer(t)

	t.Run("valid credentials return token and profile", func(t *testing.T) {
		status, body := doJSON(t, server, http.MethodPost, "/api/login", "", map[string]string{
			"username": "admin",
			"password": "admin123",
		})
		require.Equal(t, http.StatusOK, status)

		var result inkwell.LoginResult
		require.NoError(t, json.Unmarshal(body, &result))
		assert.NotEmpty(t, result.Token)
		require.NotNil(t, result.User)
		assert.Equal(t, inkwell.RoleAdmin, result.User.Role)
	})

	t.Run("wrong password is a 401 with a verbatim message", func(t *testing.T) {
		status, body := doJSON(t, server, http.MethodPost, "/api/login", "", map[string]string{
			"username": "admin",
			"password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Incorrect username or password", detail(t, body))
	})

	t.Run("unknown user is indistinguishable from wrong password", func(t *testing.T) {
		status, body := doJSON(t, server, http.MethodPost, "/api/login", "", map[string]string{
			"username": "ghost",
			"password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Incorrect username or password", detail(t, body))
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		status, _ := doJSON(t, server, http.MethodPost, "/api/login", "", map[string]string{
			"username": "admin",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})
}

func TestRegister(t *testing.T) {
	server := newTestServer(t)

	status, body := doJSON(t, server, http.MethodPost, "/api/register", "", map[string]string{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "lovelace",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var profile inkwell.Profile
	require.NoError(t, json.Unmarshal(body, &profile))
	assert.Equal(t, "ada", profile.Username)
	assert.Equal(t, inkwell.RoleUser, profile.Role)

	// no token in the response; registration does not sign in
	assert.NotContains(t, string(body), "token")

	t.Run("duplicate username", func(t *testing.T) {
		status, body := doJSON(t, server, http.MethodPost, "/api/register", "", map[string]string{
			"username": "ada",
			"email":    "other@example.com",
			"password": "lovelace",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Username already registered", detail(t, body))
	})
}

func TestMe(t *testing.T) {
	server := newTestServer(t)
	token := loginAdmin(t, server)

	status, body := doJSON(t, server, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	var profile inkwell.Profile
	require.NoError(t, json.Unmarshal(body, &profile))
	assert.Equal(t, "admin", profile.Username)

	t.Run("no token", func(t *testing.T) {
		status, _ := doJSON(t, server, http.MethodGet, "/api/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("garbage token", func(t *testing.T) {
		status, body := doJSON(t, server, http.MethodGet, "/api/users/me", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Could not validate credentials", detail(t, body))
	})
}

func TestRoleChange(t *testing.T) {
	server := newTestServer(t)
	adminToken := loginAdmin(t, server)

	status, _ := doJSON(t, server, http.MethodPost, "/api/register", "", map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "builder1",
	})
	require.Equal(t, http.StatusCreated, status)

	t.Run("admin promotes a user", func(t *testing.T) {
		status, body := doJSON(t, server, http.MethodPut, "/api/users/bob/role?role=editor", adminToken, nil)
		require.Equal(t, http.StatusOK, status, string(body))

		var profile inkwell.Profile
		require.NoError(t, json.Unmarshal(body, &profile))
		assert.Equal(t, inkwell.RoleEditor, profile.Role)
	})

	t.Run("non-admin gets 403, not 401", func(t *testing.T) {
		status, body := doJSON(t, server, http.MethodPost, "/api/login", "", map[string]string{
			"username": "bob",
			"password": "builder1",
		})
		require.Equal(t, http.StatusOK, status)
		var result inkwell.LoginResult
		require.NoError(t, json.Unmarshal(body, &result))

		status, body = doJSON(t, server, http.MethodPut, "/api/users/admin/role?role=user", result.Token, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Admin privileges required", detail(t, body))
	})

	t.Run("invalid role", func(t *testing.T) {
		status, body := doJSON(t, server, http.MethodPut, "/api/users/bob/role?role=emperor", adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid role", detail(t, body))
	})
}

func TestArticleVisibility(t *testing.T) {
	server := newTestServer(t)
	token := loginAdmin(t, server)

	t.Run("anonymous list hides drafts", func(t *testing.T) {
		status, body := doJSON(t, server, http.MethodGet, "/api/posts", "", nil)
		require.Equal(t, http.StatusOK, status)

		var articles []service.Article
		require.NoError(t, json.Unmarshal(body, &articles))
		for _, article := range articles {
			assert.Equal(t, service.ArticlePublished, article.Status)
		}
	})

	t.Run("admin sees drafts", func(t *testing.T) {
		status, body := doJSON(t, server, http.MethodGet, "/api/posts?status=draft", token, nil)
		require.Equal(t, http.StatusOK, status)

		var articles []service.Article
		require.NoError(t, json.Unmarshal(body, &articles))
		assert.NotEmpty(t, articles)
	})
}

func TestArticleLifecycle(t *testing.T) {
	server := newTestServer(t)
	token := loginAdmin(t, server)

	status, body := doJSON(t, server, http.MethodPost, "/api/posts", token, service.ArticleInput{
		Title:    "New post",
		Content:  "body text",
		Category: "go",
		Tags:     []string{"tooling"},
		Status:   service.ArticlePublished,
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var article service.Article
	require.NoError(t, json.Unmarshal(body, &article))
	assert.Equal(t, "admin", article.Author)

	status, body = doJSON(t, server, http.MethodPut, "/api/posts/"+article.ID, token, service.ArticleInput{
		Title:   "New post (edited)",
		Content: "body text v2",
		Status:  service.ArticlePublished,
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &article))
	assert.Equal(t, "New post (edited)", article.Title)

	// likes
	status, body = doJSON(t, server, http.MethodPost, "/api/posts/"+article.ID+"/like", token, nil)
	require.Equal(t, http.StatusOK, status)
	var likes service.LikeStatus
	require.NoError(t, json.Unmarshal(body, &likes))
	assert.Equal(t, 1, likes.Count)
	assert.True(t, likes.Liked)

	// comments
	status, body = doJSON(t, server, http.MethodPost, "/api/comments", token, service.CommentInput{
		PostID:  article.ID,
		Content: "first",
	})
	require.Equal(t, http.StatusCreated, status)
	var comment service.Comment
	require.NoError(t, json.Unmarshal(body, &comment))

	status, _ = doJSON(t, server, http.MethodPost, "/api/comments/"+comment.ID+"/reply", token, service.CommentInput{
		Content: "reply",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body = doJSON(t, server, http.MethodGet, "/api/posts/"+article.ID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, status)
	var thread []service.Comment
	require.NoError(t, json.Unmarshal(body, &thread))
	require.Len(t, thread, 1)
	require.Len(t, thread[0].Replies, 1)

	// delete
	status, _ = doJSON(t, server, http.MethodDelete, "/api/posts/"+article.ID, token, nil)
	require.Equal(t, http.StatusNoContent, status)
	status, _ = doJSON(t, server, http.MethodGet, "/api/posts/"+article.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSearch(t *testing.T) {
	server := newTestServer(t)

	status, body := doJSON(t, server, http.MethodGet, "/api/search?q=welcome", "", nil)
	require.Equal(t, http.StatusOK, status)

	var results []service.SearchResult
	require.NoError(t, json.Unmarshal(body, &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "Hello, Inkwell", results[0].Title)
}

// The full stack: inkwell client against a live devserver over TCP.
func TestClientIntegration(t *testing.T) {
	server := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go server.App().Listener(ln)
	defer server.Shutdown()
	time.Sleep(50 * time.Millisecond)

	baseURL := "http://" + ln.Addr().String() + "/api"
	kv := memstore.New()
	store := inkwell.NewCredentialStore(kv)
	client := inkwell.NewClient(baseURL, store)
	users := service.NewUsers(client)
	manager := inkwell.NewSessionManager(users, store)
	client.OnCredentialRejected(manager.HandleCredentialRejected)

	ctx := context.Background()

	profile, err := manager.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, profile.IsAdmin())
	assert.True(t, manager.Snapshot().IsAuthenticated)

	me, err := users.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", me.Username)

	// a damaged token comes back as credential rejection and signs out
	require.NoError(t, store.Write(ctx, inkwell.Credential{Token: "tampered", Profile: profile}))
	_, err = users.Me(ctx)
	require.Error(t, err)
	assert.True(t, inkwell.IsCredentialRejected(err))
	assert.Equal(t, inkwell.StatusAnonymous, manager.Snapshot().Status)

	cred, err := store.Read(ctx)
	require.NoError(t, err)
	assert.True(t, cred.IsZero())
}
