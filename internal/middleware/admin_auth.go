package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/acrlib/library-kiosk-api/internal/utils"
)

// AdminSessionCookie carries the admin session marker. The value is a
// static server-side token rather than a signed claim; the admin surface
// is a single shared account on a school intranet.
const AdminSessionCookie = "acr_admin_session"

// AdminOnly rejects requests that do not carry a valid admin session
// cookie.
func AdminOnly(sessionToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Cookies(AdminSessionCookie) != sessionToken {
			return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Next()
	}
}
