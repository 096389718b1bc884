package service

import (
	"context"
	"fmt"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	inkwell "github.com/inkwell-cms/go-inkwell"
)

// Users wraps the identity and account endpoints. It is the canonical
// IdentityService implementation the session manager is wired with.
type Users struct {
	client *inkwell.Client
}

var _ inkwell.IdentityService = (*Users)(nil)

func NewUsers(client *inkwell.Client) *Users {
	return &Users{client: client}
}

// LoginInput is validated before it goes on the wire so obviously bad input
// never spends a round trip.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (p LoginInput) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required),
		validation.Field(&p.Password, validation.Required),
	)
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p RegisterInput) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(3, 32)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(6, 128)),
	)
}

// ProfileUpdate carries the fields an account may edit about itself.
type ProfileUpdate struct {
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func (s *Users) Login(ctx context.Context, username, password string) (*inkwell.LoginResult, error) {
	input := LoginInput{Username: username, Password: password}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	result := &inkwell.LoginResult{}
	if err := s.client.Post(ctx, "/login", input, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Users) Register(ctx context.Context, username, email, password string) (*inkwell.Profile, error) {
	input := RegisterInput{Username: username, Email: email, Password: password}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	profile := &inkwell.Profile{}
	if err := s.client.Post(ctx, "/register", input, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Users) Me(ctx context.Context) (*inkwell.Profile, error) {
	profile := &inkwell.Profile{}
	if err := s.client.Get(ctx, "/users/me", profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Users) UpdateProfile(ctx context.Context, update ProfileUpdate) (*inkwell.Profile, error) {
	profile := &inkwell.Profile{}
	if err := s.client.Put(ctx, "/users/profile", update, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SetRole changes another account's role. The server enforces who may call
// this; the client only shapes the request.
func (s *Users) SetRole(ctx context.Context, username string, role inkwell.UserRole) (*inkwell.Profile, error) {
	query := url.Values{}
	query.Set("role", string(role))

	profile := &inkwell.Profile{}
	path := fmt.Sprintf("/users/%s/role?%s", url.PathEscape(username), query.Encode())
	if err := s.client.Put(ctx, path, nil, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
