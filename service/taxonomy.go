package service

import (
	"context"
	"net/url"

	inkwell "github.com/inkwell-cms/go-inkwell"
)

// Categories wraps the category endpoints.
type Categories struct {
	client *inkwell.Client
}

func NewCategories(client *inkwell.Client) *Categories {
	return &Categories{client: client}
}

func (s *Categories) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.client.Get(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Categories) Create(ctx context.Context, name string) (*Category, error) {
	category := &Category{}
	if err := s.client.Post(ctx, "/categories", map[string]string{"name": name}, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Categories) Delete(ctx context.Context, name string) error {
	return s.client.Delete(ctx, "/categories/"+url.PathEscape(name), nil)
}

// Tags wraps the tag endpoints.
type Tags struct {
	client *inkwell.Client
}

func NewTags(client *inkwell.Client) *Tags {
	return &Tags{client: client}
}

func (s *Tags) List(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := s.client.Get(ctx, "/tags", &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *Tags) Create(ctx context.Context, name string) (*Tag, error) {
	tag := &Tag{}
	if err := s.client.Post(ctx, "/tags", map[string]string{"name": name}, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *Tags) Delete(ctx context.Context, name string) error {
	return s.client.Delete(ctx, "/tags/"+url.PathEscape(name), nil)
}
