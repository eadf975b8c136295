package handlers

import "github.com/gofiber/fiber/v2"

func (h *Handler) ListMonitoredUsers(c *fiber.Ctx) error {
	rows, err := h.Monitor.ListMonitoredUsers(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}
