package service

import (
	"context"
	"fmt"
	"io"
	"net/url"

	inkwell "github.com/inkwell-cms/go-inkwell"
)

// Articles wraps the post endpoints.
type Articles struct {
	client *inkwell.Client
}

func NewArticles(client *inkwell.Client) *Articles {
	return &Articles{client: client}
}

// ListArticlesOptions filters List. Zero values mean no filter.
type ListArticlesOptions struct {
	Status   string
	Category string
	Tag      string
}

func (s *Articles) List(ctx context.Context, opts ListArticlesOptions) ([]Article, error) {
	query := url.Values{}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.Category != "" {
		query.Set("category", opts.Category)
	}
	if opts.Tag != "" {
		query.Set("tag", opts.Tag)
	}

	path := "/posts"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var articles []Article
	if err := s.client.Get(ctx, path, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *Articles) Get(ctx context.Context, id string) (*Article, error) {
	article := &Article{}
	if err := s.client.Get(ctx, "/posts/"+url.PathEscape(id), article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *Articles) Create(ctx context.Context, input ArticleInput) (*Article, error) {
	article := &Article{}
	if err := s.client.Post(ctx, "/posts", input, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *Articles) Update(ctx context.Context, id string, input ArticleInput) (*Article, error) {
	article := &Article{}
	if err := s.client.Put(ctx, "/posts/"+url.PathEscape(id), input, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *Articles) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/posts/"+url.PathEscape(id), nil)
}

// UploadCover attaches a cover image to an article.
func (s *Articles) UploadCover(ctx context.Context, id, filename string, content io.Reader) (*Article, error) {
	article := &Article{}
	upload := inkwell.MultipartUpload{
		FieldName: "file",
		FileName:  filename,
		Content:   content,
	}
	path := fmt.Sprintf("/posts/%s/cover", url.PathEscape(id))
	if err := s.client.PostMultipart(ctx, path, upload, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *Articles) Like(ctx context.Context, id string) (*LikeStatus, error) {
	status := &LikeStatus{}
	path := fmt.Sprintf("/posts/%s/like", url.PathEscape(id))
	if err := s.client.Post(ctx, path, nil, status); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *Articles) Unlike(ctx context.Context, id string) (*LikeStatus, error) {
	status := &LikeStatus{}
	path := fmt.Sprintf("/posts/%s/like", url.PathEscape(id))
	if err := s.client.Delete(ctx, path, status); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *Articles) Likes(ctx context.Context, id string) (*LikeStatus, error) {
	status := &LikeStatus{}
	path := fmt.Sprintf("/posts/%s/likes", url.PathEscape(id))
	if err := s.client.Get(ctx, path, status); err != nil {
		return nil, err
	}
	return status, nil
}
