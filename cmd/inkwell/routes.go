package main

import inkwell "github.com/inkwell-cms/go-inkwell"

// Route names. Unregistered routes are public.
const (
	routeHome       = "home"
	routeArticle    = "article"
	routeCategories = "categories"
	routeTimeline   = "timeline"
	routeFriends    = "friends"
	routeSearch     = "search"
	routeLogin      = "login"
	routeRegister   = "register"

	routeAdminDashboard = "admin/dashboard"
	routeAdminPosts     = "admin/posts"
	routeAdminLinks     = "admin/links"
	routeAdminSettings  = "admin/settings"
)

func newRouteGuard() *inkwell.Guard {
	g := inkwell.NewGuard(routeHome, routeLogin)
	g.Register(routeLogin, inkwell.RouteRequirement{RequiresGuest: true})
	g.Register(routeRegister, inkwell.RouteRequirement{RequiresGuest: true})

	admin := inkwell.RouteRequirement{RequiresAdmin: true}
	g.Register(routeAdminDashboard, admin)
	g.Register(routeAdminPosts, admin)
	g.Register(routeAdminLinks, admin)
	g.Register(routeAdminSettings, admin)
	return g
}
