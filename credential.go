package inkwell

import "time"

// Profile is the identity snapshot the server returns for an account.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role.CanAdminister()
}

// DisplayName returns the username, falling back to the email local part.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Username != "" {
		return p.Username
	}
	return p.Email
}

// Credential pairs a bearer token with the profile it was minted for. A zero
// credential means signed out; a profile is only meaningful alongside a
// non-empty token.
type Credential struct {
	Token   string
	Profile *Profile
}

// IsZero reports whether the credential carries no token.
func (c Credential) IsZero() bool {
	return c.Token == ""
}
