package service

import (
	"context"

	inkwell "github.com/inkwell-cms/go-inkwell"
)

// Settings wraps the three settings groups the admin panel edits.
type Settings struct {
	client *inkwell.Client
}

func NewSettings(client *inkwell.Client) *Settings {
	return &Settings{client: client}
}

func (s *Settings) Basic(ctx context.Context) (*BasicSettings, error) {
	settings := &BasicSettings{}
	if err := s.client.Get(ctx, "/settings/basic", settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) UpdateBasic(ctx context.Context, settings BasicSettings) (*BasicSettings, error) {
	updated := &BasicSettings{}
	if err := s.client.Put(ctx, "/settings/basic", settings, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Settings) Profile(ctx context.Context) (*ProfileSettings, error) {
	settings := &ProfileSettings{}
	if err := s.client.Get(ctx, "/settings/profile", settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) UpdateProfile(ctx context.Context, settings ProfileSettings) (*ProfileSettings, error) {
	updated := &ProfileSettings{}
	if err := s.client.Put(ctx, "/settings/profile", settings, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Settings) Advanced(ctx context.Context) (*AdvancedSettings, error) {
	settings := &AdvancedSettings{}
	if err := s.client.Get(ctx, "/settings/advanced", settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) UpdateAdvanced(ctx context.Context, settings AdvancedSettings) (*AdvancedSettings, error) {
	updated := &AdvancedSettings{}
	if err := s.client.Put(ctx, "/settings/advanced", settings, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
