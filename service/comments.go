package service

import (
	"context"
	"fmt"
	"net/url"

	inkwell "github.com/inkwell-cms/go-inkwell"
)

// Comments wraps the comment endpoints.
type Comments struct {
	client *inkwell.Client
}

func NewComments(client *inkwell.Client) *Comments {
	return &Comments{client: client}
}

// ForArticle lists the comment tree for an article.
func (s *Comments) ForArticle(ctx context.Context, articleID string) ([]Comment, error) {
	var comments []Comment
	path := fmt.Sprintf("/posts/%s/comments", url.PathEscape(articleID))
	if err := s.client.Get(ctx, path, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Comments) Create(ctx context.Context, input CommentInput) (*Comment, error) {
	comment := &Comment{}
	if err := s.client.Post(ctx, "/comments", input, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Reply posts a nested reply under an existing comment.
func (s *Comments) Reply(ctx context.Context, parentID string, input CommentInput) (*Comment, error) {
	comment := &Comment{}
	path := fmt.Sprintf("/comments/%s/reply", url.PathEscape(parentID))
	if err := s.client.Post(ctx, path, input, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Comments) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/comments/"+url.PathEscape(id), nil)
}
