package devserver

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/inkwell-cms/go-inkwell/service"
)

// SeedUser is the development admin account.
var SeedUser = struct {
	Username string
	Email    string
	Password string
}{
	Username: "admin",
	Email:    "admin@inkwell.local",
	Password: "admin123",
}

// Seed provisions the admin account and some sample content so the client
// has something to render. Calling it twice is harmless.
func (s *Server) Seed(ctx context.Context) error {
	if _, err := s.users.GetByIdentifier(ctx, SeedUser.Username); err == nil {
		return nil
	} else if !repository.IsRecordNotFound(err) {
		return err
	}

	hash, err := HashPassword(SeedUser.Password)
	if err != nil {
		return err
	}

	if _, err := s.users.Register(ctx, &User{
		Username:     SeedUser.Username,
		Email:        SeedUser.Email,
		Role:         string(inkwell.RoleAdmin),
		PasswordHash: hash,
	}); err != nil {
		return err
	}

	s.content.addCategory("go")
	s.content.addCategory("notes")
	s.content.addTag("concurrency")
	s.content.addTag("tooling")

	s.content.createArticle(service.ArticleInput{
		Title:    "Hello, Inkwell",
		Content:  "# Welcome\n\nThis instance is seeded for development.\n\n```go\nfmt.Println(\"hello\")\n```\n",
		Summary:  "A seeded welcome post.",
		Category: "notes",
		Tags:     []string{"tooling"},
		Status:   service.ArticlePublished,
	}, SeedUser.Username)

	s.content.createArticle(service.ArticleInput{
		Title:    "Channels in practice",
		Content:  "Some notes on buffered channels and worker pools.",
		Category: "go",
		Tags:     []string{"concurrency"},
		Status:   service.ArticleDraft,
	}, SeedUser.Username)

	s.content.setBasic(service.BasicSettings{
		SiteTitle:    "Inkwell",
		SiteSubtitle: "a quiet place for notes",
	})

	s.logger.Info("seeded development data (admin / %s)", SeedUser.Password)
	return nil
}
