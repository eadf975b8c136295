package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tennis-tournament-api/models"
	"tennis-tournament-api/services"
)

// idParam parses the :id route parameter as a positive integer.
func idParam(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) ListPlayers(c *fiber.Ctx) error {
	players, err := h.Players.List(c.UserContext(), models.PlayerFilter{
		Name: c.Query("name"),
		Sort: c.Query("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(players)
}

func (h *Handler) GetPlayer(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return badRequest(c, "invalid player id")
	}
	p, err := h.Players.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) CreatePlayer(c *fiber.Ctx) error {
	var in services.PlayerInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.Players.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) ReplacePlayer(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return badRequest(c, "invalid player id")
	}
	var in services.PlayerInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.Players.Replace(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) DeletePlayer(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return badRequest(c, "invalid player id")
	}
	if err := h.Players.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
