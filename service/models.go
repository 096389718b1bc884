// Package service provides thin per-resource wrappers over the request
// pipeline. Wrappers hold no state of their own: they shape requests,
// delegate to the pipeline, and hand back decoded models.
package service

import "time"

// Article statuses.
const (
	ArticlePublished = "published"
	ArticleDraft     = "draft"
)

type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary,omitempty"`
	Cover     string    `json:"cover,omitempty"`
	Category  string    `json:"category,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Status    string    `json:"status"`
	Author    string    `json:"author,omitempty"`
	Views     int       `json:"views"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ArticleInput is the create/update payload for an article.
type ArticleInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Summary  string   `json:"summary,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Status   string   `json:"status,omitempty"`
}

type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

// Friend link statuses.
const (
	LinkApproved = "approved"
	LinkPending  = "pending"
	LinkRejected = "rejected"
)

type FriendLink struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Status      string `json:"status"`
}

// FriendLinkInput is the create/update payload for a friend link.
type FriendLinkInput struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Status      string `json:"status,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	ParentID  string    `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Replies   []Comment `json:"replies,omitempty"`
}

// CommentInput is the payload for posting a comment or a reply.
type CommentInput struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

type SearchResult struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Snippet  string   `json:"snippet,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

type BasicSettings struct {
	SiteTitle    string `json:"siteTitle"`
	SiteSubtitle string `json:"siteSubtitle,omitempty"`
	Footer       string `json:"footer,omitempty"`
	ICP          string `json:"icp,omitempty"`
}

type ProfileSettings struct {
	Nickname string `json:"nickname"`
	Bio      string `json:"bio,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Email    string `json:"email,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type AdvancedSettings struct {
	CommentsEnabled bool   `json:"commentsEnabled"`
	CustomCSS       string `json:"customCss,omitempty"`
	CustomHead      string `json:"customHead,omitempty"`
}

type UploadedFile struct {
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
}

type LikeStatus struct {
	Count int  `json:"count"`
	Liked bool `json:"liked"`
}
