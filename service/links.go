package service

import (
	"context"
	"net/url"

	inkwell "github.com/inkwell-cms/go-inkwell"
)

// FriendLinks wraps the friend link endpoints.
type FriendLinks struct {
	client *inkwell.Client
}

func NewFriendLinks(client *inkwell.Client) *FriendLinks {
	return &FriendLinks{client: client}
}

func (s *FriendLinks) List(ctx context.Context) ([]FriendLink, error) {
	var links []FriendLink
	if err := s.client.Get(ctx, "/friend-links", &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (s *FriendLinks) Create(ctx context.Context, input FriendLinkInput) (*FriendLink, error) {
	link := &FriendLink{}
	if err := s.client.Post(ctx, "/friend-links", input, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *FriendLinks) Update(ctx context.Context, id string, input FriendLinkInput) (*FriendLink, error) {
	link := &FriendLink{}
	if err := s.client.Put(ctx, "/friend-links/"+url.PathEscape(id), input, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *FriendLinks) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/friend-links/"+url.PathEscape(id), nil)
}
