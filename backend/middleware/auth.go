package middleware

import (
	"context"

	"akatsuki/backend/config"
	"akatsuki/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// ActiveChecker reports whether a user may use the API.
type ActiveChecker interface {
	Active(ctx context.Context, userID uint) (bool, error)
}

// AuthMiddleware resolves the bearer token to a user id in c.Locals and
// rejects unknown or deactivated accounts.
func AuthMiddleware(cfg *config.Config, users ActiveChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		active, err := users.Active(c.UserContext(), userID)
		if err != nil {
			return utils.InternalServerError(c, "Internal server error")
		}
		if !active {
			return utils.Forbidden(c, "Account is inactive")
		}

		c.Locals(utils.UserIDKey, userID)
		return c.Next()
	}
}
