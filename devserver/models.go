package devserver

import (
	"time"

	"github.com/google/uuid"
	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/uptrace/bun"
)

// User is the account row. The password hash never leaves the server; the
// wire shape clients see is inkwell.Profile.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Role           string     `bun:"role,notnull" json:"role,omitempty"`
	Avatar         string     `bun:"avatar" json:"avatar,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	LoginAttempts  int        `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"-"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"-"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"-"`
}

// Profile converts the row to the wire shape.
func (u *User) Profile() *inkwell.Profile {
	if u == nil {
		return nil
	}
	profile := &inkwell.Profile{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     inkwell.UserRole(u.Role),
		Avatar:   u.Avatar,
	}
	if u.CreatedAt != nil {
		profile.CreatedAt = *u.CreatedAt
	}
	return profile
}
