package devserver

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	inkwell "github.com/inkwell-cms/go-inkwell"
)

const userLocalKey = "devserver.user"

// resolveUser validates the bearer token and loads the account it names.
// A missing header resolves to nil without error.
func (s *Server) resolveUser(c *fiber.Ctx) (*User, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return nil, nil
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Could not validate credentials")
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		s.logger.Debug("token validation failed: %v", err)
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Could not validate credentials")
	}

	user, err := s.users.GetByIdentifier(c.UserContext(), claims.UID)
	if err != nil {
		s.logger.Debug("token subject not found: %v", err)
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Could not validate credentials")
	}
	return user, nil
}

func (s *Server) requireAuth(c *fiber.Ctx) error {
	user, err := s.resolveUser(c)
	if err != nil {
		return err
	}
	if user == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}
	c.Locals(userLocalKey, user)
	return c.Next()
}

// optionalAuth resolves the user when a valid token is present and stays
// silent otherwise, for endpoints whose answer varies by role.
func (s *Server) optionalAuth(c *fiber.Ctx) error {
	if user, err := s.resolveUser(c); err == nil && user != nil {
		c.Locals(userLocalKey, user)
	}
	return c.Next()
}

// requireAdmin and requirePublisher run after requireAuth. Insufficient
// role is a 403, never a 401: the credential itself is fine.
func requireAdmin(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil || !inkwell.UserRole(user.Role).CanAdminister() {
		return fiber.NewError(fiber.StatusForbidden, "Admin privileges required")
	}
	return c.Next()
}

func requirePublisher(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil || !inkwell.UserRole(user.Role).CanPublish() {
		return fiber.NewError(fiber.StatusForbidden, "Editor privileges required")
	}
	return c.Next()
}

func currentUser(c *fiber.Ctx) *User {
	user, _ := c.Locals(userLocalKey).(*User)
	return user
}
