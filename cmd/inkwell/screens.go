package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/inkwell-cms/go-inkwell/service"
)

// --- home ---

type homeScreen struct {
	articles []service.Article
	cursor   int
}

func (s *homeScreen) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.articles)-1 {
			s.cursor++
		}
	case "enter":
		if s.cursor < len(s.articles) {
			return a.openArticle(s.articles[s.cursor].ID)
		}
	}
	return nil
}

func (s *homeScreen) view(a *App) string {
	if len(s.articles) == 0 {
		return faintStyle.Render("No articles yet.")
	}

	var b strings.Builder
	for i, article := range s.articles {
		marker := "  "
		title := article.Title
		if i == s.cursor {
			marker = cursorStyle.Render("> ")
			title = titleStyle.Render(title)
		}
		meta := fmt.Sprintf("%s • %s • %s",
			article.CreatedAt.Format("2006-01-02"),
			formatCount(article.Views, "view"),
			formatCount(article.Likes, "like"))
		if article.Status == service.ArticleDraft {
			meta += " • " + statusStyle.Render("draft")
		}
		b.WriteString(marker + title + "\n")
		b.WriteString("  " + faintStyle.Render(meta) + "\n")
		if article.Summary != "" {
			b.WriteString("  " + article.Summary + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// --- article ---

type articleScreen struct {
	article  *service.Article
	comments []service.Comment
	vp       viewport.Model
}

func (s *articleScreen) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "L":
		if s.article != nil && a.snap.IsAuthenticated {
			return a.likeArticle(s.article.ID)
		}
	}
	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return cmd
}

func (s *articleScreen) render(width int) string {
	if s.article == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(s.article.Title) + "\n")
	meta := fmt.Sprintf("%s • %s", s.article.Author, s.article.CreatedAt.Format("2006-01-02"))
	if s.article.Category != "" {
		meta += " • " + s.article.Category
	}
	if len(s.article.Tags) > 0 {
		meta += " • " + strings.Join(s.article.Tags, ", ")
	}
	b.WriteString(faintStyle.Render(meta) + "\n\n")
	b.WriteString(renderMarkdown(s.article.Content, width))

	if len(s.comments) > 0 {
		b.WriteString("\n\n" + titleStyle.Render(formatCount(countComments(s.comments), "comment")) + "\n")
		writeComments(&b, s.comments, 0)
	}
	return b.String()
}

func (s *articleScreen) view(a *App) string {
	if s.article == nil {
		return faintStyle.Render("Loading...")
	}
	return s.vp.View()
}

func countComments(comments []service.Comment) int {
	n := len(comments)
	for _, c := range comments {
		n += countComments(c.Replies)
	}
	return n
}

func writeComments(b *strings.Builder, comments []service.Comment, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, c := range comments {
		b.WriteString(fmt.Sprintf("%s%s %s\n", indent,
			statusStyle.Render(c.Author),
			faintStyle.Render(c.CreatedAt.Format("2006-01-02 15:04"))))
		b.WriteString(indent + c.Content + "\n")
		writeComments(b, c.Replies, depth+1)
	}
}

// --- categories & tags ---

type categoriesScreen struct {
	categories []service.Category
	tags       []service.Tag
}

func (s *categoriesScreen) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Categories") + "\n")
	if len(s.categories) == 0 {
		b.WriteString(faintStyle.Render("  none") + "\n")
	}
	for _, c := range s.categories {
		b.WriteString(fmt.Sprintf("  %s %s\n", c.Name, faintStyle.Render(formatCount(c.Count, "post"))))
	}
	b.WriteString("\n" + titleStyle.Render("Tags") + "\n")
	if len(s.tags) == 0 {
		b.WriteString(faintStyle.Render("  none") + "\n")
	}
	for _, t := range s.tags {
		b.WriteString(fmt.Sprintf("  #%s %s\n", t.Name, faintStyle.Render(formatCount(t.Count, "post"))))
	}
	return strings.TrimRight(b.String(), "\n")
}

// --- timeline ---

type timelineScreen struct {
	articles []service.Article
}

func (s *timelineScreen) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Timeline") + "\n")
	if len(s.articles) == 0 {
		b.WriteString(faintStyle.Render("  nothing published yet"))
		return b.String()
	}

	year := 0
	for _, article := range s.articles {
		if y := article.CreatedAt.Year(); y != year {
			year = y
			b.WriteString("\n" + statusStyle.Render(fmt.Sprintf("%d", year)) + "\n")
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			faintStyle.Render(article.CreatedAt.Format("01-02")), article.Title))
	}
	return strings.TrimRight(b.String(), "\n")
}

// --- friend links ---

type friendsScreen struct {
	links []service.FriendLink
}

func (s *friendsScreen) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Friends") + "\n")
	shown := 0
	for _, link := range s.links {
		if link.Status != service.LinkApproved {
			continue
		}
		shown++
		b.WriteString("  " + link.Name + " " + faintStyle.Render(link.URL) + "\n")
		if link.Description != "" {
			b.WriteString("    " + faintStyle.Render(link.Description) + "\n")
		}
	}
	if shown == 0 {
		b.WriteString(faintStyle.Render("  none yet"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// --- search ---

type searchScreen struct {
	input    textinput.Model
	results  []service.SearchResult
	cursor   int
	searched bool
}

func newSearchScreen() searchScreen {
	input := textinput.New()
	input.Placeholder = "search articles"
	input.CharLimit = 120
	return searchScreen{input: input}
}

func (s *searchScreen) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		if s.input.Focused() {
			query := strings.TrimSpace(s.input.Value())
			if query == "" {
				return nil
			}
			s.input.Blur()
			return a.doSearch(query)
		}
		if s.cursor < len(s.results) {
			return a.openArticle(s.results[s.cursor].ID)
		}
	case "up", "k":
		if !s.input.Focused() && s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if !s.input.Focused() && s.cursor < len(s.results)-1 {
			s.cursor++
		}
	case "/":
		if !s.input.Focused() {
			return s.input.Focus()
		}
	}

	if s.input.Focused() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}
	return nil
}

func (s *searchScreen) view() string {
	var b strings.Builder
	b.WriteString(s.input.View() + "\n\n")
	if !s.searched {
		return b.String()
	}
	if len(s.results) == 0 {
		b.WriteString(faintStyle.Render("No matches."))
		return b.String()
	}
	for i, result := range s.results {
		marker := "  "
		title := result.Title
		if i == s.cursor {
			marker = cursorStyle.Render("> ")
			title = titleStyle.Render(title)
		}
		b.WriteString(marker + title + "\n")
		if result.Snippet != "" {
			b.WriteString("  " + faintStyle.Render(result.Snippet) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// --- login / register ---

type loginScreen struct {
	username textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    int

	registering bool
	busy        bool
	failure     string
}

func newLoginScreen() loginScreen {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 32

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginScreen{username: username, email: email, password: password}
}

func (s *loginScreen) focusCmd() tea.Cmd {
	s.focus = 0
	return s.username.Focus()
}

// fields returns the active inputs in tab order.
func (s *loginScreen) fields() []*textinput.Model {
	if s.registering {
		return []*textinput.Model{&s.username, &s.email, &s.password}
	}
	return []*textinput.Model{&s.username, &s.password}
}

func (s *loginScreen) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	if s.busy {
		return nil
	}

	fields := s.fields()
	switch msg.String() {
	case "tab", "down":
		return s.setFocus((s.focus + 1) % len(fields))
	case "shift+tab", "up":
		return s.setFocus((s.focus - 1 + len(fields)) % len(fields))
	case "enter":
		if s.focus < len(fields)-1 {
			return s.setFocus(s.focus + 1)
		}
		username := strings.TrimSpace(s.username.Value())
		password := s.password.Value()
		if username == "" || password == "" {
			s.failure = "Username and password are required."
			return nil
		}
		s.busy = true
		s.failure = ""
		if s.registering {
			return a.doRegister(username, strings.TrimSpace(s.email.Value()), password)
		}
		return a.doLogin(username, password)
	}

	var cmd tea.Cmd
	*fields[s.focus], cmd = fields[s.focus].Update(msg)
	return cmd
}

func (s *loginScreen) setFocus(index int) tea.Cmd {
	fields := s.fields()
	s.focus = index
	var cmd tea.Cmd
	for i, field := range fields {
		if i == index {
			cmd = field.Focus()
		} else {
			field.Blur()
		}
	}
	return cmd
}

func (s *loginScreen) view() string {
	var b strings.Builder
	if s.registering {
		b.WriteString(titleStyle.Render("Create an account") + "\n\n")
	} else {
		b.WriteString(titleStyle.Render("Sign in") + "\n\n")
	}
	for _, field := range s.fields() {
		b.WriteString(field.View() + "\n")
	}
	if s.busy {
		b.WriteString("\n" + faintStyle.Render("Working..."))
	}
	if s.failure != "" {
		b.WriteString("\n" + errorStyle.Render(s.failure))
	}
	return b.String()
}

// --- admin: dashboard ---

type adminDashboardScreen struct {
	articles []service.Article
	links    []service.FriendLink
}

func (s *adminDashboardScreen) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "1":
		return a.navigate(routeAdminPosts)
	case "2":
		return a.navigate(routeAdminLinks)
	case "3":
		return a.navigate(routeAdminSettings)
	}
	return nil
}

func (s *adminDashboardScreen) view() string {
	drafts := 0
	published := 0
	views := 0
	for _, article := range s.articles {
		if article.Status == service.ArticleDraft {
			drafts++
		} else {
			published++
		}
		views += article.Views
	}
	pending := 0
	for _, link := range s.links {
		if link.Status == service.LinkPending {
			pending++
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard") + "\n\n")
	b.WriteString(fmt.Sprintf("  %s published, %s, %s\n",
		formatCount(published, "article"), formatCount(drafts, "draft"),
		formatCount(views, "view")))
	b.WriteString(fmt.Sprintf("  %s awaiting review\n", formatCount(pending, "friend link")))
	return strings.TrimRight(b.String(), "\n")
}

// --- admin: posts ---

type adminPostsScreen struct {
	articles []service.Article
	cursor   int
}

func (s *adminPostsScreen) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.articles)-1 {
			s.cursor++
		}
	case "enter":
		if s.cursor < len(s.articles) {
			return a.openArticle(s.articles[s.cursor].ID)
		}
	case "d":
		if s.cursor < len(s.articles) {
			return a.deleteArticle(s.articles[s.cursor].ID)
		}
	}
	return nil
}

func (s *adminPostsScreen) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Posts") + "\n\n")
	if len(s.articles) == 0 {
		b.WriteString(faintStyle.Render("  none"))
		return b.String()
	}
	for i, article := range s.articles {
		marker := "  "
		title := article.Title
		if i == s.cursor {
			marker = cursorStyle.Render("> ")
			title = titleStyle.Render(title)
		}
		meta := article.CreatedAt.Format("2006-01-02")
		if article.Status == service.ArticleDraft {
			meta += " • " + statusStyle.Render("draft")
		}
		b.WriteString(marker + title + " " + faintStyle.Render(meta) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// --- admin: friend link moderation ---

type adminLinksScreen struct {
	pending []service.FriendLink
	cursor  int
}

func (s *adminLinksScreen) setLinks(links []service.FriendLink) {
	s.pending = nil
	for _, link := range links {
		if link.Status == service.LinkPending {
			s.pending = append(s.pending, link)
		}
	}
	if s.cursor >= len(s.pending) {
		s.cursor = 0
	}
}

func (s *adminLinksScreen) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.pending)-1 {
			s.cursor++
		}
	case "y":
		if s.cursor < len(s.pending) {
			return a.moderateLink(s.pending[s.cursor], service.LinkApproved)
		}
	case "n":
		if s.cursor < len(s.pending) {
			return a.moderateLink(s.pending[s.cursor], service.LinkRejected)
		}
	}
	return nil
}

func (s *adminLinksScreen) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pending friend links") + "\n\n")
	if len(s.pending) == 0 {
		b.WriteString(faintStyle.Render("  queue is empty"))
		return b.String()
	}
	for i, link := range s.pending {
		marker := "  "
		name := link.Name
		if i == s.cursor {
			marker = cursorStyle.Render("> ")
			name = titleStyle.Render(name)
		}
		b.WriteString(marker + name + " " + faintStyle.Render(link.URL) + "\n")
		if link.Description != "" {
			b.WriteString("  " + faintStyle.Render(link.Description) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// --- admin: settings ---

type adminSettingsScreen struct {
	basic    *service.BasicSettings
	profile  *service.ProfileSettings
	advanced *service.AdvancedSettings
}

func (s *adminSettingsScreen) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings") + "\n\n")
	if s.basic == nil {
		b.WriteString(faintStyle.Render("  loading..."))
		return b.String()
	}

	b.WriteString(statusStyle.Render("Site") + "\n")
	b.WriteString("  title:    " + s.basic.SiteTitle + "\n")
	b.WriteString("  subtitle: " + s.basic.SiteSubtitle + "\n")
	if s.basic.Footer != "" {
		b.WriteString("  footer:   " + s.basic.Footer + "\n")
	}

	if s.profile != nil {
		b.WriteString("\n" + statusStyle.Render("Owner") + "\n")
		b.WriteString("  nickname: " + s.profile.Nickname + "\n")
		if s.profile.Bio != "" {
			b.WriteString("  bio:      " + s.profile.Bio + "\n")
		}
		if s.profile.GitHub != "" {
			b.WriteString("  github:   " + s.profile.GitHub + "\n")
		}
	}

	if s.advanced != nil {
		b.WriteString("\n" + statusStyle.Render("Advanced") + "\n")
		b.WriteString(fmt.Sprintf("  comments enabled: %v\n", s.advanced.CommentsEnabled))
	}
	return strings.TrimRight(b.String(), "\n")
}
