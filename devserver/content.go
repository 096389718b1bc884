package devserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-cms/go-inkwell/service"
)

// contentStore keeps the non-account content in memory. Good enough for a
// development stand-in; everything resets with the process.
type contentStore struct {
	mu         sync.RWMutex
	articles   map[string]*service.Article
	order      []string
	likes      map[string]map[string]bool
	categories map[string]bool
	tags       map[string]bool
	links      map[string]*service.FriendLink
	comments   map[string]*service.Comment
	uploads    map[string]*service.UploadedFile
	files      map[string][]byte
	basic      service.BasicSettings
	profile    service.ProfileSettings
	advanced   service.AdvancedSettings
}

func newContentStore() *contentStore {
	return &contentStore{
		articles:   map[string]*service.Article{},
		likes:      map[string]map[string]bool{},
		categories: map[string]bool{},
		tags:       map[string]bool{},
		links:      map[string]*service.FriendLink{},
		comments:   map[string]*service.Comment{},
		uploads:    map[string]*service.UploadedFile{},
		files:      map[string][]byte{},
	}
}

type articleFilter struct {
	status   string
	category string
	tag      string
}

func (cs *contentStore) listArticles(filter articleFilter) []service.Article {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	out := []service.Article{}
	for i := len(cs.order) - 1; i >= 0; i-- {
		article := cs.articles[cs.order[i]]
		if article == nil {
			continue
		}
		if filter.status != "" && article.Status != filter.status {
			continue
		}
		if filter.category != "" && article.Category != filter.category {
			continue
		}
		if filter.tag != "" && !containsString(article.Tags, filter.tag) {
			continue
		}
		copied := *article
		copied.Likes = len(cs.likes[article.ID])
		out = append(out, copied)
	}
	return out
}

func (cs *contentStore) getArticle(id string) (*service.Article, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	article, ok := cs.articles[id]
	if !ok {
		return nil, false
	}
	article.Views++
	copied := *article
	copied.Likes = len(cs.likes[id])
	return &copied, true
}

func (cs *contentStore) createArticle(input service.ArticleInput, author string) *service.Article {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := time.Now()
	article := &service.Article{
		ID:        uuid.New().String(),
		Title:     input.Title,
		Content:   input.Content,
		Summary:   input.Summary,
		Category:  input.Category,
		Tags:      input.Tags,
		Status:    input.Status,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if article.Status == "" {
		article.Status = service.ArticleDraft
	}

	cs.articles[article.ID] = article
	cs.order = append(cs.order, article.ID)
	cs.absorbTaxonomyLocked(article)

	copied := *article
	return &copied
}

func (cs *contentStore) updateArticle(id string, input service.ArticleInput) (*service.Article, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	article, ok := cs.articles[id]
	if !ok {
		return nil, false
	}

	article.Title = input.Title
	article.Content = input.Content
	article.Summary = input.Summary
	article.Category = input.Category
	article.Tags = input.Tags
	if input.Status != "" {
		article.Status = input.Status
	}
	article.UpdatedAt = time.Now()
	cs.absorbTaxonomyLocked(article)

	copied := *article
	copied.Likes = len(cs.likes[id])
	return &copied, true
}

func (cs *contentStore) deleteArticle(id string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.articles[id]; !ok {
		return false
	}
	delete(cs.articles, id)
	delete(cs.likes, id)
	for i, existing := range cs.order {
		if existing == id {
			cs.order = append(cs.order[:i], cs.order[i+1:]...)
			break
		}
	}
	for commentID, comment := range cs.comments {
		if comment.PostID == id {
			delete(cs.comments, commentID)
		}
	}
	return true
}

func (cs *contentStore) setCover(id, url string) (*service.Article, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	article, ok := cs.articles[id]
	if !ok {
		return nil, false
	}
	article.Cover = url
	copied := *article
	return &copied, true
}

// absorbTaxonomyLocked keeps the category and tag sets in sync with the
// content that references them.
func (cs *contentStore) absorbTaxonomyLocked(article *service.Article) {
	if article.Category != "" {
		cs.categories[article.Category] = true
	}
	for _, tag := range article.Tags {
		if tag != "" {
			cs.tags[tag] = true
		}
	}
}

func (cs *contentStore) like(articleID, userID string) (service.LikeStatus, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.articles[articleID]; !ok {
		return service.LikeStatus{}, false
	}
	if cs.likes[articleID] == nil {
		cs.likes[articleID] = map[string]bool{}
	}
	cs.likes[articleID][userID] = true
	return service.LikeStatus{Count: len(cs.likes[articleID]), Liked: true}, true
}

func (cs *contentStore) unlike(articleID, userID string) (service.LikeStatus, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.articles[articleID]; !ok {
		return service.LikeStatus{}, false
	}
	delete(cs.likes[articleID], userID)
	return service.LikeStatus{Count: len(cs.likes[articleID])}, true
}

func (cs *contentStore) likeStatus(articleID, userID string) (service.LikeStatus, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	if _, ok := cs.articles[articleID]; !ok {
		return service.LikeStatus{}, false
	}
	return service.LikeStatus{
		Count: len(cs.likes[articleID]),
		Liked: userID != "" && cs.likes[articleID][userID],
	}, true
}

func (cs *contentStore) listCategories() []service.Category {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	counts := map[string]int{}
	for _, article := range cs.articles {
		if article.Category != "" {
			counts[article.Category]++
		}
	}

	out := []service.Category{}
	for name := range cs.categories {
		out = append(out, service.Category{Name: name, Count: counts[name]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (cs *contentStore) addCategory(name string) service.Category {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.categories[name] = true
	return service.Category{Name: name}
}

func (cs *contentStore) deleteCategory(name string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.categories[name] {
		return false
	}
	delete(cs.categories, name)
	for _, article := range cs.articles {
		if article.Category == name {
			article.Category = ""
		}
	}
	return true
}

func (cs *contentStore) listTags() []service.Tag {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	counts := map[string]int{}
	for _, article := range cs.articles {
		for _, tag := range article.Tags {
			counts[tag]++
		}
	}

	out := []service.Tag{}
	for name := range cs.tags {
		out = append(out, service.Tag{Name: name, Count: counts[name]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (cs *contentStore) addTag(name string) service.Tag {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.tags[name] = true
	return service.Tag{Name: name}
}

func (cs *contentStore) deleteTag(name string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.tags[name] {
		return false
	}
	delete(cs.tags, name)
	for _, article := range cs.articles {
		article.Tags = removeString(article.Tags, name)
	}
	return true
}

func (cs *contentStore) listLinks(includeUnapproved bool) []service.FriendLink {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	out := []service.FriendLink{}
	for _, link := range cs.links {
		if !includeUnapproved && link.Status != service.LinkApproved {
			continue
		}
		out = append(out, *link)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (cs *contentStore) createLink(input service.FriendLinkInput) *service.FriendLink {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	link := &service.FriendLink{
		ID:          uuid.New().String(),
		Name:        input.Name,
		URL:         input.URL,
		Description: input.Description,
		Avatar:      input.Avatar,
		Status:      service.LinkPending,
	}
	cs.links[link.ID] = link
	copied := *link
	return &copied
}

func (cs *contentStore) updateLink(id string, input service.FriendLinkInput) (*service.FriendLink, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	link, ok := cs.links[id]
	if !ok {
		return nil, false
	}
	if input.Name != "" {
		link.Name = input.Name
	}
	if input.URL != "" {
		link.URL = input.URL
	}
	link.Description = input.Description
	link.Avatar = input.Avatar
	if input.Status != "" {
		link.Status = input.Status
	}
	copied := *link
	return &copied, true
}

func (cs *contentStore) deleteLink(id string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.links[id]; !ok {
		return false
	}
	delete(cs.links, id)
	return true
}

func (cs *contentStore) commentsForArticle(articleID string) []service.Comment {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	roots := []service.Comment{}
	replies := map[string][]service.Comment{}
	for _, comment := range cs.comments {
		if comment.PostID != articleID {
			continue
		}
		if comment.ParentID == "" {
			roots = append(roots, *comment)
		} else {
			replies[comment.ParentID] = append(replies[comment.ParentID], *comment)
		}
	}

	for i := range roots {
		nested := replies[roots[i].ID]
		sort.Slice(nested, func(a, b int) bool { return nested[a].CreatedAt.Before(nested[b].CreatedAt) })
		roots[i].Replies = nested
	}
	sort.Slice(roots, func(a, b int) bool { return roots[a].CreatedAt.Before(roots[b].CreatedAt) })
	return roots
}

func (cs *contentStore) createComment(input service.CommentInput, author, parentID string) (*service.Comment, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	postID := input.PostID
	if parentID != "" {
		parent, ok := cs.comments[parentID]
		if !ok {
			return nil, false
		}
		postID = parent.PostID
	}
	if _, ok := cs.articles[postID]; !ok {
		return nil, false
	}

	comment := &service.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		Author:    author,
		Content:   input.Content,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}
	cs.comments[comment.ID] = comment
	copied := *comment
	return &copied, true
}

func (cs *contentStore) getComment(id string) (*service.Comment, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	comment, ok := cs.comments[id]
	if !ok {
		return nil, false
	}
	copied := *comment
	return &copied, true
}

func (cs *contentStore) deleteComment(id string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.comments[id]; !ok {
		return false
	}
	delete(cs.comments, id)
	for childID, child := range cs.comments {
		if child.ParentID == id {
			delete(cs.comments, childID)
		}
	}
	return true
}

func (cs *contentStore) search(q, category, tag string) []service.SearchResult {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	needle := strings.ToLower(q)
	out := []service.SearchResult{}
	for _, id := range cs.order {
		article := cs.articles[id]
		if article == nil || article.Status != service.ArticlePublished {
			continue
		}
		if category != "" && article.Category != category {
			continue
		}
		if tag != "" && !containsString(article.Tags, tag) {
			continue
		}
		haystack := strings.ToLower(article.Title + " " + article.Content)
		if needle != "" && !strings.Contains(haystack, needle) {
			continue
		}
		out = append(out, service.SearchResult{
			ID:       article.ID,
			Title:    article.Title,
			Snippet:  snippet(article.Content, needle),
			Category: article.Category,
			Tags:     article.Tags,
		})
	}
	return out
}

// snippet returns a short window of text around the first match.
func snippet(content, needle string) string {
	const window = 80

	lower := strings.ToLower(content)
	idx := 0
	if needle != "" {
		idx = strings.Index(lower, needle)
		if idx < 0 {
			idx = 0
		}
	}

	start := idx - window/2
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(content) {
		end = len(content)
	}
	return content[start:end]
}

func (cs *contentStore) saveUpload(filename string, data []byte) *service.UploadedFile {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	file := &service.UploadedFile{
		Filename:   filename,
		URL:        "/static/" + filename,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
	}
	cs.uploads[filename] = file
	cs.files[filename] = data
	copied := *file
	return &copied
}

func (cs *contentStore) listUploads() []service.UploadedFile {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	out := []service.UploadedFile{}
	for _, file := range cs.uploads {
		out = append(out, *file)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out
}

func (cs *contentStore) deleteUpload(filename string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.uploads[filename]; !ok {
		return false
	}
	delete(cs.uploads, filename)
	delete(cs.files, filename)
	return true
}

func (cs *contentStore) renameUpload(oldName, newName string) (*service.UploadedFile, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	file, ok := cs.uploads[oldName]
	if !ok {
		return nil, false
	}
	if _, exists := cs.uploads[newName]; exists {
		return nil, false
	}

	file.Filename = newName
	file.URL = "/static/" + newName
	cs.uploads[newName] = file
	cs.files[newName] = cs.files[oldName]
	delete(cs.uploads, oldName)
	delete(cs.files, oldName)

	copied := *file
	return &copied, true
}

func (cs *contentStore) getBasic() service.BasicSettings {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.basic
}

func (cs *contentStore) setBasic(settings service.BasicSettings) service.BasicSettings {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.basic = settings
	return cs.basic
}

func (cs *contentStore) getProfile() service.ProfileSettings {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.profile
}

func (cs *contentStore) setProfile(settings service.ProfileSettings) service.ProfileSettings {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.profile = settings
	return cs.profile
}

func (cs *contentStore) getAdvanced() service.AdvancedSettings {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.advanced
}

func (cs *contentStore) setAdvanced(settings service.AdvancedSettings) service.AdvancedSettings {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.advanced = settings
	return cs.advanced
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func removeString(haystack []string, needle string) []string {
	out := haystack[:0]
	for _, s := range haystack {
		if s != needle {
			out = append(out, s)
		}
	}
	return out
}
