package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/inkwell-cms/go-inkwell/service"
)

// Messages delivered into the program, from commands or from the session
// layer via program.Send.
type (
	sessionChangedMsg struct{ snap inkwell.SessionSnapshot }
	forceLoginMsg     struct{}

	articlesLoadedMsg struct{ articles []service.Article }
	articleLoadedMsg  struct {
		article  *service.Article
		comments []service.Comment
	}
	categoriesLoadedMsg struct {
		categories []service.Category
		tags       []service.Tag
	}
	friendsLoadedMsg struct{ links []service.FriendLink }
	searchResultsMsg struct{ results []service.SearchResult }
	dashboardMsg     struct {
		articles []service.Article
		links    []service.FriendLink
	}
	settingsLoadedMsg struct {
		basic    *service.BasicSettings
		profile  *service.ProfileSettings
		advanced *service.AdvancedSettings
	}
	loginDoneMsg    struct{ err error }
	registerDoneMsg struct{ err error }
	actionDoneMsg   struct {
		route string
		err   error
	}
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
)

// App is the root model. It owns the current route and delegates per-route
// state to the screen structs.
type App struct {
	ctx     context.Context
	svc     *services
	manager *inkwell.SessionManager
	guard   *inkwell.Guard
	logger  inkwell.Logger

	route  string
	width  int
	height int
	snap   inkwell.SessionSnapshot
	notice string

	home       homeScreen
	article    articleScreen
	cats       categoriesScreen
	timeline   timelineScreen
	friends    friendsScreen
	search     searchScreen
	login      loginScreen
	dashboard  adminDashboardScreen
	adminPosts adminPostsScreen
	adminLinks adminLinksScreen
	adminPrefs adminSettingsScreen
}

func newApp(ctx context.Context, svc *services, manager *inkwell.SessionManager, guard *inkwell.Guard, logger inkwell.Logger) *App {
	return &App{
		ctx:     ctx,
		svc:     svc,
		manager: manager,
		guard:   guard,
		logger:  logger,
		route:   routeHome,
		snap:    manager.Snapshot(),
		article: articleScreen{vp: viewport.New(80, 20)},
		search:  newSearchScreen(),
		login:   newLoginScreen(),
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadFor(routeHome)
}

// navigate runs the route through the guard and loads whatever the resolved
// route needs.
func (a *App) navigate(route string) tea.Cmd {
	resolved := a.guard.Resolve(route, a.snap)
	if resolved != route {
		a.logger.Debug("navigation to %s resolved to %s", route, resolved)
	}
	a.route = resolved
	a.notice = ""
	return a.loadFor(resolved)
}

func (a *App) loadFor(route string) tea.Cmd {
	switch route {
	case routeHome, routeTimeline, routeAdminPosts:
		return a.loadArticles()
	case routeCategories:
		return a.loadCategories()
	case routeFriends, routeAdminLinks:
		return a.loadFriends()
	case routeAdminDashboard:
		return a.loadDashboard()
	case routeAdminSettings:
		return a.loadSettings()
	case routeLogin, routeRegister:
		a.login = newLoginScreen()
		a.login.registering = route == routeRegister
		return a.login.focusCmd()
	case routeSearch:
		a.search = newSearchScreen()
		return a.search.input.Focus()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.article.vp.Width = msg.Width - 4
		a.article.vp.Height = msg.Height - 6
		return a, nil

	case sessionChangedMsg:
		a.snap = msg.snap
		return a, nil

	case forceLoginMsg:
		// mid-session rejection: remember where the user was so a fresh
		// login puts them back
		if a.route != routeLogin && a.route != routeRegister {
			a.guard.Remember(a.route)
		}
		a.route = routeLogin
		a.login = newLoginScreen()
		a.login.failure = "Your session has expired, sign in again."
		return a, a.login.focusCmd()

	case articlesLoadedMsg:
		a.home.articles = msg.articles
		a.timeline.articles = msg.articles
		a.adminPosts.articles = msg.articles
		if a.home.cursor >= len(msg.articles) {
			a.home.cursor = 0
		}
		if a.adminPosts.cursor >= len(msg.articles) {
			a.adminPosts.cursor = 0
		}
		return a, nil

	case articleLoadedMsg:
		a.article.article = msg.article
		a.article.comments = msg.comments
		a.article.vp.SetContent(a.article.render(a.width - 4))
		a.article.vp.GotoTop()
		return a, nil

	case categoriesLoadedMsg:
		a.cats.categories = msg.categories
		a.cats.tags = msg.tags
		return a, nil

	case friendsLoadedMsg:
		a.friends.links = msg.links
		a.adminLinks.setLinks(msg.links)
		return a, nil

	case dashboardMsg:
		a.dashboard.articles = msg.articles
		a.dashboard.links = msg.links
		return a, nil

	case settingsLoadedMsg:
		a.adminPrefs.basic = msg.basic
		a.adminPrefs.profile = msg.profile
		a.adminPrefs.advanced = msg.advanced
		return a, nil

	case searchResultsMsg:
		a.search.results = msg.results
		a.search.searched = true
		a.search.cursor = 0
		return a, nil

	case loginDoneMsg:
		if msg.err != nil {
			a.login.failure = inkwell.ErrorMessage(msg.err)
			a.login.busy = false
			return a, nil
		}
		return a, a.navigate(a.guard.ConsumeTarget(routeHome))

	case registerDoneMsg:
		a.login.busy = false
		if msg.err != nil {
			a.login.failure = inkwell.ErrorMessage(msg.err)
			return a, nil
		}
		a.login.registering = false
		a.login.failure = ""
		a.notice = "Account created, sign in below."
		a.route = routeLogin
		return a, a.login.focusCmd()

	case actionDoneMsg:
		if msg.err != nil {
			a.notice = errorStyle.Render(inkwell.ErrorMessage(msg.err))
			return a, nil
		}
		if msg.route != "" {
			return a, a.loadFor(msg.route)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// text-entry screens own the keyboard apart from escape
	switch a.route {
	case routeLogin, routeRegister:
		if msg.Type == tea.KeyEsc {
			return a, a.navigate(routeHome)
		}
		return a, a.login.handleKey(a, msg)
	case routeSearch:
		if msg.Type == tea.KeyEsc {
			return a, a.navigate(routeHome)
		}
		return a, a.search.handleKey(a, msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "h", "esc":
		return a, a.navigate(routeHome)
	case "c":
		return a, a.navigate(routeCategories)
	case "t":
		return a, a.navigate(routeTimeline)
	case "f":
		return a, a.navigate(routeFriends)
	case "/":
		return a, a.navigate(routeSearch)
	case "l":
		return a, a.navigate(routeLogin)
	case "r":
		return a, a.navigate(routeRegister)
	case "a":
		return a, a.navigate(routeAdminDashboard)
	case "o":
		if a.snap.IsAuthenticated {
			a.manager.Logout(a.ctx)
			return a, a.navigate(routeHome)
		}
	}

	switch a.route {
	case routeHome:
		return a, a.home.handleKey(a, msg)
	case routeArticle:
		return a, a.article.handleKey(a, msg)
	case routeAdminDashboard:
		return a, a.dashboard.handleKey(a, msg)
	case routeAdminPosts:
		return a, a.adminPosts.handleKey(a, msg)
	case routeAdminLinks:
		return a, a.adminLinks.handleKey(a, msg)
	}
	return a, nil
}

func (a *App) View() string {
	var body string
	switch a.route {
	case routeHome:
		body = a.home.view(a)
	case routeArticle:
		body = a.article.view(a)
	case routeCategories:
		body = a.cats.view()
	case routeTimeline:
		body = a.timeline.view()
	case routeFriends:
		body = a.friends.view()
	case routeSearch:
		body = a.search.view()
	case routeLogin, routeRegister:
		body = a.login.view()
	case routeAdminDashboard:
		body = a.dashboard.view()
	case routeAdminPosts:
		body = a.adminPosts.view()
	case routeAdminLinks:
		body = a.adminLinks.view()
	case routeAdminSettings:
		body = a.adminPrefs.view()
	default:
		body = a.home.view(a)
	}

	var b strings.Builder
	b.WriteString(a.header() + "\n\n")
	b.WriteString(body)
	if a.notice != "" {
		b.WriteString("\n" + a.notice)
	}
	b.WriteString("\n\n" + faintStyle.Render(a.footer()))
	return b.String()
}

func (a *App) header() string {
	who := "anonymous"
	switch {
	case a.snap.Status == inkwell.StatusResolving:
		who = "resolving..."
	case a.snap.IsAuthenticated:
		who = a.snap.Profile.DisplayName()
		if a.snap.IsAdmin {
			who += " (admin)"
		}
	}
	return titleStyle.Render("inkwell") + faintStyle.Render("  •  "+who)
}

func (a *App) footer() string {
	switch a.route {
	case routeLogin, routeRegister:
		return "tab: next field • enter: submit • esc: back"
	case routeSearch:
		return "enter: search • ↑/↓: select • esc: back"
	case routeArticle:
		return "↑/↓: scroll • L: like • esc: back"
	case routeAdminDashboard:
		return "1: posts • 2: links • 3: settings • esc: back"
	case routeAdminPosts:
		return "↑/↓: select • enter: open • d: delete • esc: back"
	case routeAdminLinks:
		return "↑/↓: select • y: approve • n: reject • esc: back"
	case routeAdminSettings:
		return "esc: back"
	}
	keys := "enter: open • /: search • c: categories • t: timeline • f: friends"
	if a.snap.IsAuthenticated {
		keys += " • o: sign out"
		if a.snap.IsAdmin {
			keys += " • a: admin"
		}
	} else {
		keys += " • l: sign in • r: register"
	}
	return keys + " • q: quit"
}

// --- commands ---

func (a *App) loadArticles() tea.Cmd {
	return func() tea.Msg {
		articles, err := a.svc.articles.List(a.ctx, service.ListArticlesOptions{})
		if err != nil {
			a.logger.Error("failed to load articles: %v", err)
			return actionDoneMsg{err: err}
		}
		return articlesLoadedMsg{articles: articles}
	}
}

func (a *App) openArticle(id string) tea.Cmd {
	a.route = routeArticle
	return func() tea.Msg {
		article, err := a.svc.articles.Get(a.ctx, id)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		comments, err := a.svc.comments.ForArticle(a.ctx, id)
		if err != nil {
			a.logger.Debug("comments unavailable for %s: %v", id, err)
		}
		return articleLoadedMsg{article: article, comments: comments}
	}
}

func (a *App) loadCategories() tea.Cmd {
	return func() tea.Msg {
		categories, err := a.svc.cats.List(a.ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		tags, err := a.svc.tags.List(a.ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return categoriesLoadedMsg{categories: categories, tags: tags}
	}
}

func (a *App) loadFriends() tea.Cmd {
	return func() tea.Msg {
		links, err := a.svc.links.List(a.ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return friendsLoadedMsg{links: links}
	}
}

func (a *App) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		articles, err := a.svc.articles.List(a.ctx, service.ListArticlesOptions{})
		if err != nil {
			return actionDoneMsg{err: err}
		}
		links, err := a.svc.links.List(a.ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return dashboardMsg{articles: articles, links: links}
	}
}

func (a *App) loadSettings() tea.Cmd {
	return func() tea.Msg {
		basic, err := a.svc.settings.Basic(a.ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		profile, err := a.svc.settings.Profile(a.ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		advanced, err := a.svc.settings.Advanced(a.ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return settingsLoadedMsg{basic: basic, profile: profile, advanced: advanced}
	}
}

func (a *App) likeArticle(id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := a.svc.articles.Like(a.ctx, id); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{}
	}
}

func (a *App) deleteArticle(id string) tea.Cmd {
	return func() tea.Msg {
		if err := a.svc.articles.Delete(a.ctx, id); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{route: routeAdminPosts}
	}
}

func (a *App) moderateLink(link service.FriendLink, status string) tea.Cmd {
	return func() tea.Msg {
		input := service.FriendLinkInput{
			Name:        link.Name,
			URL:         link.URL,
			Description: link.Description,
			Avatar:      link.Avatar,
			Status:      status,
		}
		if _, err := a.svc.links.Update(a.ctx, link.ID, input); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{route: routeAdminLinks}
	}
}

func (a *App) doLogin(username, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.manager.Login(a.ctx, username, password)
		return loginDoneMsg{err: err}
	}
}

func (a *App) doRegister(username, email, password string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.manager.Register(a.ctx, username, email, password)
		return registerDoneMsg{err: err}
	}
}

func (a *App) doSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.svc.search.Query(a.ctx, query, service.SearchOptions{})
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return searchResultsMsg{results: results}
	}
}

func formatCount(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %ss", n, singular)
}
