package middleware

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ActorLocalKey is the fiber Locals key holding the acting user's id (uint).
const ActorLocalKey = "actor_id"

// ActorContext reads the acting user from the userId query parameter or the
// X-User-ID header and stores it under ActorLocalKey. A missing or malformed
// value leaves the actor unset; handlers decide whether one is required.
func ActorContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Query("userId"))
		if raw == "" {
			raw = strings.TrimSpace(c.Get("X-User-ID"))
		}
		if raw == "" {
			return c.Next()
		}

		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			log.Printf("⚠️ [ACTOR] ignoring invalid user id %q on %s %s", raw, c.Method(), c.Path())
			return c.Next()
		}
		c.Locals(ActorLocalKey, uint(id))
		return c.Next()
	}
}

// Actor returns the id stored by ActorContext, or 0.
func Actor(c *fiber.Ctx) uint {
	if id, ok := c.Locals(ActorLocalKey).(uint); ok {
		return id
	}
	return 0
}
