package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminOnly lets a request through only when its username query parameter
// names the admin identity. Anything else gets 403.
func AdminOnly(adminUsername string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := strings.TrimSpace(c.Query("username"))
		if adminUsername == "" || username != adminUsername {
			log.Printf("🚫 [ADMIN] access denied for username=%q on %s", username, c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "access denied",
			})
		}
		return c.Next()
	}
}
