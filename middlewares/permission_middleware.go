package middlewares

import (
	"planora.app/authz"
	"planora.app/pkg/result"

	"github.com/gofiber/fiber/v2"
)

// RequirePermission rejects requests whose principal lacks action.
// Services check again; this only keeps forbidden pages from rendering.
func RequirePermission(action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentPrincipal(c).Can(action) {
			return c.Next()
		}
		if wantsJSON(c) {
			return c.Status(fiber.StatusForbidden).JSON(result.Fail("permission denied"))
		}
		return c.Status(fiber.StatusForbidden).Render("errors/403", fiber.Map{"Title": "Permission denied"}, "layouts/error_layout")
	}
}
