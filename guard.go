package inkwell

import "sync"

// RouteRequirement declares what a route demands of the session.
// RequiresAdmin implies RequiresAuth.
type RouteRequirement struct {
	RequiresAuth  bool
	RequiresGuest bool
	RequiresAdmin bool
}

// Action is the guard's verdict for a navigation attempt.
type Action int

const (
	ActionAllow Action = iota
	ActionRedirectLogin
	ActionRedirectHome
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionRedirectLogin:
		return "redirect-login"
	case ActionRedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Decide is the pure access rule: it maps a requirement and a session
// snapshot to a verdict, with no side effects.
//
//   - admin route, signed out      -> login
//   - admin route, non-admin user  -> home
//   - auth route, signed out       -> login
//   - guest route, signed in       -> home
//   - anything else                -> allow
func Decide(req RouteRequirement, snap SessionSnapshot) Action {
	if req.RequiresAdmin {
		if !snap.IsAuthenticated {
			return ActionRedirectLogin
		}
		if !snap.IsAdmin {
			return ActionRedirectHome
		}
		return ActionAllow
	}
	if req.RequiresAuth && !snap.IsAuthenticated {
		return ActionRedirectLogin
	}
	if req.RequiresGuest && snap.IsAuthenticated {
		return ActionRedirectHome
	}
	return ActionAllow
}

// Guard binds the access rule to a route table and keeps the single
// remembered target for resuming a denied navigation after login.
type Guard struct {
	mu      sync.Mutex
	routes  map[string]RouteRequirement
	pending string
	home    string
	login   string
}

// NewGuard creates a guard with the given home and login route names.
func NewGuard(home, login string) *Guard {
	return &Guard{
		routes: map[string]RouteRequirement{},
		home:   home,
		login:  login,
	}
}

// Register adds or replaces a route's requirement. Unregistered routes are
// public.
func (g *Guard) Register(route string, req RouteRequirement) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.routes[route] = req
}

// Requirement returns the registered requirement for a route.
func (g *Guard) Requirement(route string) RouteRequirement {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.routes[route]
}

// Resolve decides where a navigation to route actually lands. A redirect to
// login remembers the denied target, last write wins. An allowed navigation
// anywhere but the login route drops the remembered target, so only an
// immediate login resumes it.
func (g *Guard) Resolve(route string, snap SessionSnapshot) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch Decide(g.routes[route], snap) {
	case ActionRedirectLogin:
		g.pending = route
		return g.login
	case ActionRedirectHome:
		return g.home
	default:
		if route != g.login {
			g.pending = ""
		}
		return route
	}
}

// Remember overwrites the remembered target directly, for flows that force
// navigation outside Resolve (a mid-session credential rejection).
func (g *Guard) Remember(route string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = route
}

// ConsumeTarget returns the remembered target, or def when none is pending.
// The slot is cleared either way; a target is only good for one use.
func (g *Guard) ConsumeTarget(def string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	target := g.pending
	g.pending = ""
	if target == "" {
		return def
	}
	return target
}

// Home returns the configured home route.
func (g *Guard) Home() string { return g.home }

// Login returns the configured login route.
func (g *Guard) Login() string { return g.login }
