package devserver

import (
	"io"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	inkwell "github.com/inkwell-cms/go-inkwell"
	"github.com/inkwell-cms/go-inkwell/service"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 32)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 128)),
	)
}

// ProfileUpdateRequest carries the self-editable account fields.
type ProfileUpdateRequest struct {
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

func (r ProfileUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.Email),
	)
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	payload := LoginRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := payload.Validate(); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.UserContext()
	user, err := s.users.GetByIdentifier(ctx, payload.Username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return fiber.NewError(fiber.StatusUnauthorized, "Incorrect username or password")
		}
		return err
	}

	if err := ComparePasswordAndHash(payload.Password, user.PasswordHash); err != nil {
		if trackErr := s.users.TrackAttemptedLogin(ctx, user); trackErr != nil {
			s.logger.Error("failed to track login attempt: %v", trackErr)
		}
		return fiber.NewError(fiber.StatusUnauthorized, "Incorrect username or password")
	}

	if err := s.users.TrackSuccessfulLogin(ctx, user); err != nil {
		s.logger.Error("failed to track login: %v", err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return err
	}

	s.logger.Info("login: %s", user.Username)
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.Profile(),
	})
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	payload := RegisterRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := payload.Validate(); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.UserContext()
	if _, err := s.users.GetByIdentifier(ctx, payload.Username); err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Username already registered")
	}
	if _, err := s.users.GetByIdentifier(ctx, payload.Email); err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Email already registered")
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return err
	}

	user, err := s.users.Register(ctx, &User{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}

	s.logger.Info("registered: %s", user.Username)
	return c.Status(fiber.StatusCreated).JSON(user.Profile())
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	return c.JSON(currentUser(c).Profile())
}

func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	payload := ProfileUpdateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := payload.Validate(); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	user, err := s.users.UpdateProfile(c.UserContext(), currentUser(c).ID, payload.Email, payload.Avatar)
	if err != nil {
		return err
	}
	return c.JSON(user.Profile())
}

func (s *Server) handleSetRole(c *fiber.Ctx) error {
	role, ok := inkwell.ParseRole(c.Query("role"))
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid role")
	}

	user, err := s.users.SetRole(c.UserContext(), c.Params("username"), role)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}
	return c.JSON(user.Profile())
}

func (s *Server) handleListArticles(c *fiber.Ctx) error {
	filter := articleFilter{
		status:   c.Query("status"),
		category: c.Query("category"),
		tag:      c.Query("tag"),
	}

	// drafts are for publishers only
	user := currentUser(c)
	if user == nil || !inkwell.UserRole(user.Role).CanPublish() {
		filter.status = service.ArticlePublished
	}

	return c.JSON(s.content.listArticles(filter))
}

func (s *Server) handleGetArticle(c *fiber.Ctx) error {
	article, ok := s.content.getArticle(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Post not found")
	}

	if article.Status != service.ArticlePublished {
		user := currentUser(c)
		if user == nil || !inkwell.UserRole(user.Role).CanPublish() {
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		}
	}
	return c.JSON(article)
}

func (s *Server) handleCreateArticle(c *fiber.Ctx) error {
	input := service.ArticleInput{}
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	if input.Title == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "title: cannot be blank.")
	}
	return c.Status(fiber.StatusCreated).JSON(s.content.createArticle(input, currentUser(c).Username))
}

func (s *Server) handleUpdateArticle(c *fiber.Ctx) error {
	input := service.ArticleInput{}
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}

	article, ok := s.content.updateArticle(c.Params("id"), input)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Post not found")
	}
	return c.JSON(article)
}

func (s *Server) handleDeleteArticle(c *fiber.Ctx) error {
	if !s.content.deleteArticle(c.Params("id")) {
		return fiber.NewError(fiber.StatusNotFound, "Post not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleUploadCover(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file")
	}

	file, err := header.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unreadable file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unreadable file")
	}

	saved := s.content.saveUpload(header.Filename, data)
	article, ok := s.content.setCover(c.Params("id"), saved.URL)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Post not found")
	}
	return c.JSON(article)
}

func (s *Server) handleLike(c *fiber.Ctx) error {
	status, ok := s.content.like(c.Params("id"), currentUser(c).ID.String())
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Post not found")
	}
	return c.JSON(status)
}

func (s *Server) handleUnlike(c *fiber.Ctx) error {
	status, ok := s.content.unlike(c.Params("id"), currentUser(c).ID.String())
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Post not found")
	}
	return c.JSON(status)
}

func (s *Server) handleLikes(c *fiber.Ctx) error {
	userID := ""
	if user := currentUser(c); user != nil {
		userID = user.ID.String()
	}
	status, ok := s.content.likeStatus(c.Params("id"), userID)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Post not found")
	}
	return c.JSON(status)
}

func (s *Server) handleComments(c *fiber.Ctx) error {
	return c.JSON(s.content.commentsForArticle(c.Params("id")))
}

func (s *Server) handleCreateComment(c *fiber.Ctx) error {
	input := service.CommentInput{}
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	if input.Content == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "content: cannot be blank.")
	}

	comment, ok := s.content.createComment(input, currentUser(c).Username, "")
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Post not found")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (s *Server) handleReplyComment(c *fiber.Ctx) error {
	input := service.CommentInput{}
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	if input.Content == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "content: cannot be blank.")
	}

	comment, ok := s.content.createComment(input, currentUser(c).Username, c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Comment not found")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (s *Server) handleDeleteComment(c *fiber.Ctx) error {
	id := c.Params("id")
	comment, ok := s.content.getComment(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Comment not found")
	}

	user := currentUser(c)
	if comment.Author != user.Username && !inkwell.UserRole(user.Role).CanAdminister() {
		return fiber.NewError(fiber.StatusForbidden, "Cannot delete another user's comment")
	}

	s.content.deleteComment(id)
	return c.SendStatus(fiber.StatusNoContent)
}

type namePayload struct {
	Name string `json:"name"`
}

func (s *Server) handleListCategories(c *fiber.Ctx) error {
	return c.JSON(s.content.listCategories())
}

func (s *Server) handleCreateCategory(c *fiber.Ctx) error {
	payload := namePayload{}
	if err := c.BodyParser(&payload); err != nil || payload.Name == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "name: cannot be blank.")
	}
	return c.Status(fiber.StatusCreated).JSON(s.content.addCategory(payload.Name))
}

func (s *Server) handleDeleteCategory(c *fiber.Ctx) error {
	if !s.content.deleteCategory(c.Params("name")) {
		return fiber.NewError(fiber.StatusNotFound, "Category not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleListTags(c *fiber.Ctx) error {
	return c.JSON(s.content.listTags())
}

func (s *Server) handleCreateTag(c *fiber.Ctx) error {
	payload := namePayload{}
	if err := c.BodyParser(&payload); err != nil || payload.Name == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "name: cannot be blank.")
	}
	return c.Status(fiber.StatusCreated).JSON(s.content.addTag(payload.Name))
}

func (s *Server) handleDeleteTag(c *fiber.Ctx) error {
	if !s.content.deleteTag(c.Params("name")) {
		return fiber.NewError(fiber.StatusNotFound, "Tag not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleListLinks(c *fiber.Ctx) error {
	user := currentUser(c)
	includeUnapproved := user != nil && inkwell.UserRole(user.Role).CanAdminister()
	return c.JSON(s.content.listLinks(includeUnapproved))
}

func (s *Server) handleCreateLink(c *fiber.Ctx) error {
	input := service.FriendLinkInput{}
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	if input.Name == "" || input.URL == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "name and url are required")
	}
	return c.Status(fiber.StatusCreated).JSON(s.content.createLink(input))
}

func (s *Server) handleUpdateLink(c *fiber.Ctx) error {
	input := service.FriendLinkInput{}
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}

	link, ok := s.content.updateLink(c.Params("id"), input)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Link not found")
	}
	return c.JSON(link)
}

func (s *Server) handleDeleteLink(c *fiber.Ctx) error {
	if !s.content.deleteLink(c.Params("id")) {
		return fiber.NewError(fiber.StatusNotFound, "Link not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	return c.JSON(s.content.search(c.Query("q"), c.Query("category"), c.Query("tag")))
}

func (s *Server) handleGetBasicSettings(c *fiber.Ctx) error {
	return c.JSON(s.content.getBasic())
}

func (s *Server) handleSetBasicSettings(c *fiber.Ctx) error {
	settings := service.BasicSettings{}
	if err := c.BodyParser(&settings); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	return c.JSON(s.content.setBasic(settings))
}

func (s *Server) handleGetProfileSettings(c *fiber.Ctx) error {
	return c.JSON(s.content.getProfile())
}

func (s *Server) handleSetProfileSettings(c *fiber.Ctx) error {
	settings := service.ProfileSettings{}
	if err := c.BodyParser(&settings); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	return c.JSON(s.content.setProfile(settings))
}

func (s *Server) handleGetAdvancedSettings(c *fiber.Ctx) error {
	return c.JSON(s.content.getAdvanced())
}

func (s *Server) handleSetAdvancedSettings(c *fiber.Ctx) error {
	settings := service.AdvancedSettings{}
	if err := c.BodyParser(&settings); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	return c.JSON(s.content.setAdvanced(settings))
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file")
	}

	file, err := header.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unreadable file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unreadable file")
	}

	return c.Status(fiber.StatusCreated).JSON(s.content.saveUpload(header.Filename, data))
}

func (s *Server) handleListUploads(c *fiber.Ctx) error {
	return c.JSON(s.content.listUploads())
}

func (s *Server) handleDeleteUpload(c *fiber.Ctx) error {
	if !s.content.deleteUpload(c.Query("filename")) {
		return fiber.NewError(fiber.StatusNotFound, "File not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type renamePayload struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

func (s *Server) handleRenameUpload(c *fiber.Ctx) error {
	payload := renamePayload{}
	if err := c.BodyParser(&payload); err != nil || payload.OldName == "" || payload.NewName == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "oldName and newName are required")
	}

	file, ok := s.content.renameUpload(payload.OldName, payload.NewName)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "File not found")
	}
	return c.JSON(file)
}
