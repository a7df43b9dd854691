package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"luxe/internal/apperror"
	"luxe/internal/models"
	"luxe/internal/services"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	userLocalsKey = "user"
)

// AuthRequired is a Fiber middleware that resolves the access token to the
// current user. An explicit Bearer header wins over the accessToken cookie.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Cookies(AccessTokenCookie)
		}

		user, err := authService.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		// Request-scoped, never shared between requests.
		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AdminRequired rejects users without the admin role. It must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apperror.Unauthorized("Unauthorized request")
		}
		if !user.IsAdmin() {
			return apperror.Forbidden("Admin access required")
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}
