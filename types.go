package inkwell

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// KV is the persistence capability backing the credential store. Values are
// opaque bytes; Get reports presence so callers can tell an absent key from
// an empty value.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// IdentityService performs the identity operations the session manager
// drives. The canonical implementation talks to the server through the
// request pipeline (see service.Users).
type IdentityService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, username, email, password string) (*Profile, error)
	Me(ctx context.Context) (*Profile, error)
}

// LoginResult is the payload a successful login returns: a bearer token and
// the profile it was minted for.
type LoginResult struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

// Navigator receives forced navigation when a credential is rejected
// mid-session. Front ends route it to their login entry point.
type Navigator interface {
	ForceLogin()
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) ForceLogin() { f() }

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] INKWELL "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] INKWELL "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] INKWELL "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
