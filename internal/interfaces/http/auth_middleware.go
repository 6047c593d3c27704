package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/application/session"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
)

// LocalUser key de c.Locals con el *entity.UserProfile de la sesión.
const LocalUser = "user"

// RequireSession exige una sesión vigente. Un token expirado cierra la sesión antes de responder 401.
func RequireSession(sess *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !sess.EnforceExpiry(c.UserContext()) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: "inicie sesión para continuar"})
		}
		user := sess.CurrentUser()
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: "inicie sesión para continuar"})
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// GetUser devuelve el usuario del contexto (después de RequireSession).
func GetUser(c *fiber.Ctx) *entity.UserProfile {
	u, _ := c.Locals(LocalUser).(*entity.UserProfile)
	return u
}
