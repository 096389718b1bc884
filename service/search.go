package service

import (
	"context"
	"net/url"

	inkwell "github.com/inkwell-cms/go-inkwell"
)

// Search wraps the full-text search endpoint.
type Search struct {
	client *inkwell.Client
}

func NewSearch(client *inkwell.Client) *Search {
	return &Search{client: client}
}

// SearchOptions narrows a query. Zero values mean no filter.
type SearchOptions struct {
	Category string
	Tag      string
}

func (s *Search) Query(ctx context.Context, q string, opts SearchOptions) ([]SearchResult, error) {
	query := url.Values{}
	query.Set("q", q)
	if opts.Category != "" {
		query.Set("category", opts.Category)
	}
	if opts.Tag != "" {
		query.Set("tag", opts.Tag)
	}

	var results []SearchResult
	if err := s.client.Get(ctx, "/search?"+query.Encode(), &results); err != nil {
		return nil, err
	}
	return results, nil
}
