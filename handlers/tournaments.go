package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tennis-tournament-api/middleware"
	"tennis-tournament-api/models"
	"tennis-tournament-api/services"
)

// actorBody is the optional userId carried in mutation bodies.
type actorBody struct {
	UserID *uint `json:"userId"`
}

// actor prefers the body's userId and falls back to the query parameter or
// X-User-ID header picked up by middleware.ActorContext.
func actor(c *fiber.Ctx, body actorBody) uint {
	if body.UserID != nil && *body.UserID != 0 {
		return *body.UserID
	}
	return middleware.Actor(c)
}

type createTournamentRequest struct {
	services.TournamentInput
	actorBody
}

type patchTournamentRequest struct {
	services.TournamentPatchInput
	actorBody
}

func (h *Handler) ListTournaments(c *fiber.Ctx) error {
	list, total, err := h.Tournaments.List(c.UserContext(), models.TournamentFilter{
		Location: c.Query("location"),
		Sort:     c.Query("sort"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"tournaments": list,
		"total":       total,
	})
}

func (h *Handler) GetTournament(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return badRequest(c, "invalid tournament id")
	}
	t, err := h.Tournaments.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

func (h *Handler) CreateTournament(c *fiber.Ctx) error {
	var req createTournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	t, err := h.Tournaments.Create(c.UserContext(), actor(c, req.actorBody), req.TournamentInput)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *Handler) PatchTournament(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return badRequest(c, "invalid tournament id")
	}
	var req patchTournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	t, err := h.Tournaments.Patch(c.UserContext(), actor(c, req.actorBody), id, req.TournamentPatchInput)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(t)
}

func (h *Handler) DeleteTournament(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return badRequest(c, "invalid tournament id")
	}
	// DELETE bodies are optional; the actor may come from the query or header instead.
	var body actorBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			body = actorBody{}
		}
	}
	if err := h.Tournaments.Delete(c.UserContext(), actor(c, body), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
