// Package devserver is the development stand-in for the Inkwell platform
// API. It serves the same wire surface the hosted platform does: FastAPI
// style error payloads ({"detail": msg}), 401 for invalid credentials, 403
// for insufficient role, bearer JWTs minted at /api/login.
package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Config holds the server options. Zero values get development defaults.
type Config struct {
	SigningKey string
	TokenTTL   time.Duration
	Issuer     string
	Audience   []string
	Logger     inkwell.Logger

	// DB backs the users table. When nil the server opens a shared
	// in-memory SQLite database and owns its lifecycle.
	DB *bun.DB
}

type Server struct {
	app     *fiber.App
	users   Users
	tokens  *TokenService
	content *contentStore
	logger  inkwell.Logger
}

// New builds the server and its routes.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.SigningKey == "" {
		cfg.SigningKey = "inkwell-dev-signing-key"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "inkwell-devserver"
	}
	if len(cfg.Audience) == 0 {
		cfg.Audience = []string{"inkwell:client"}
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	db := cfg.DB
	if db == nil {
		// a unique name keeps concurrent in-memory instances apart while
		// cache=shared keeps the pool's connections on one database
		dsn := fmt.Sprintf("file:devserver-%s?mode=memory&cache=shared", uuid.NewString())
		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, err
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	users, err := NewUsersRepository(ctx, db)
	if err != nil {
		return nil, err
	}

	s := &Server{
		users:   users,
		tokens:  NewTokenService([]byte(cfg.SigningKey), cfg.TokenTTL, cfg.Issuer, cfg.Audience, cfg.Logger),
		content: newContentStore(),
		logger:  cfg.Logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "inkwell-devserver",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.routes()

	return s, nil
}

// App exposes the fiber app, mainly for tests via app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on addr.
func (s *Server) Listen(addr string) error {
	s.logger.Info("devserver listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// errorHandler renders every error as the platform's detail payload.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"detail": err.Error()})
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Post("/login", s.handleLogin)
	api.Post("/register", s.handleRegister)
	api.Get("/users/me", s.requireAuth, s.handleMe)
	api.Put("/users/profile", s.requireAuth, s.handleUpdateProfile)
	api.Put("/users/:username/role", s.requireAuth, requireAdmin, s.handleSetRole)

	api.Get("/posts", s.optionalAuth, s.handleListArticles)
	api.Post("/posts", s.requireAuth, requirePublisher, s.handleCreateArticle)
	api.Get("/posts/:id", s.optionalAuth, s.handleGetArticle)
	api.Put("/posts/:id", s.requireAuth, requirePublisher, s.handleUpdateArticle)
	api.Delete("/posts/:id", s.requireAuth, requireAdmin, s.handleDeleteArticle)
	api.Post("/posts/:id/cover", s.requireAuth, requirePublisher, s.handleUploadCover)

	api.Post("/posts/:id/like", s.requireAuth, s.handleLike)
	api.Delete("/posts/:id/like", s.requireAuth, s.handleUnlike)
	api.Get("/posts/:id/likes", s.optionalAuth, s.handleLikes)

	api.Get("/posts/:id/comments", s.handleComments)
	api.Post("/comments", s.requireAuth, s.handleCreateComment)
	api.Post("/comments/:id/reply", s.requireAuth, s.handleReplyComment)
	api.Delete("/comments/:id", s.requireAuth, s.handleDeleteComment)

	api.Get("/categories", s.handleListCategories)
	api.Post("/categories", s.requireAuth, requireAdmin, s.handleCreateCategory)
	api.Delete("/categories/:name", s.requireAuth, requireAdmin, s.handleDeleteCategory)

	api.Get("/tags", s.handleListTags)
	api.Post("/tags", s.requireAuth, requireAdmin, s.handleCreateTag)
	api.Delete("/tags/:name", s.requireAuth, requireAdmin, s.handleDeleteTag)

	api.Get("/friend-links", s.optionalAuth, s.handleListLinks)
	api.Post("/friend-links", s.handleCreateLink)
	api.Put("/friend-links/:id", s.requireAuth, requireAdmin, s.handleUpdateLink)
	api.Delete("/friend-links/:id", s.requireAuth, requireAdmin, s.handleDeleteLink)

	api.Get("/search", s.handleSearch)

	api.Get("/settings/basic", s.handleGetBasicSettings)
	api.Put("/settings/basic", s.requireAuth, requireAdmin, s.handleSetBasicSettings)
	api.Get("/settings/profile", s.handleGetProfileSettings)
	api.Put("/settings/profile", s.requireAuth, requireAdmin, s.handleSetProfileSettings)
	api.Get("/settings/advanced", s.handleGetAdvancedSettings)
	api.Put("/settings/advanced", s.requireAuth, requireAdmin, s.handleSetAdvancedSettings)

	api.Post("/upload", s.requireAuth, requireAdmin, s.handleUpload)
	api.Get("/upload/list", s.requireAuth, requireAdmin, s.handleListUploads)
	api.Delete("/upload/delete", s.requireAuth, requireAdmin, s.handleDeleteUpload)
	api.Post("/upload/rename", s.requireAuth, requireAdmin, s.handleRenameUpload)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] DEVSERVER "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] DEVSERVER "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] DEVSERVER "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
