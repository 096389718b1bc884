package devserver_test

import (
	"net/http"
	"testing"

	"encoding/json"

	"github.com/inkwell-cms/go-inkwell/service"
	"github.com/stretchr/testify/require"
)

func TestZZDebugComments(t *testing.T) {
	server := newTestServer(t)
	token := loginAdmin(t, server)

	status, body := doJSON(t, server, http.MethodPost, "/api/posts", token, service.ArticleInput{
		Title:   "New post",
		Content: "body text",
		Status:  service.ArticlePublished,
	})
	t.Logf("create article: %d %s", status, body)
	var article service.Article
	require.NoError(t, json.Unmarshal(body, &article))

	status, body = doJSON(t, server, http.MethodPut, "/api/posts/"+article.ID, token, service.ArticleInput{
		Title:   "New post (edited)",
		Content: "body text v2",
		Status:  service.ArticlePublished,
	})
	t.Logf("update article: %d %s", status, body)
	require.NoError(t, json.Unmarshal(body, &article))

	status, body = doJSON(t, server, http.MethodPost, "/api/posts/"+article.ID+"/like", token, nil)
	t.Logf("like: %d %s", status, body)

	status, body = doJSON(t, server, http.MethodPost, "/api/comments", token, service.CommentInput{
		PostID:  article.ID,
		Content: "first",
	})
	t.Logf("create comment: %d %s", status, body)
	var comment service.Comment
	require.NoError(t, json.Unmarshal(body, &comment))

	status, body = doJSON(t, server, http.MethodPost, "/api/comments/"+comment.ID+"/reply", token, service.CommentInput{
		Content: "reply",
	})
	t.Logf("reply: %d %s", status, body)

	status, body = doJSON(t, server, http.MethodGet, "/api/posts/"+article.ID+"/comments", "", nil)
	t.Logf("list comments for %q: %d %s", article.ID, status, body)
}
