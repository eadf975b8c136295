package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tennis-tournament-api/middleware"
	"tennis-tournament-api/services"
	"tennis-tournament-api/utils"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Players     *services.PlayerService
	Tournaments *services.TournamentService
	Users       *services.UserService
	Auth        *services.AuthService
	Monitor     *services.MonitorService
	Hub         *services.Hub
	Files       utils.FileStore

	// UploadDir is served at /uploads when files are kept on local disk.
	UploadDir     string
	AdminUsername string
}

type Handler struct {
	Deps
}

func SetupRoutes(app *fiber.App, deps Deps) {
	h := &Handler{Deps: deps}

	app.Get("/healthz", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 🔓 Auth
	auth := app.Group("/api/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/verify-code", h.VerifyCode)

	api := app.Group("/api", middleware.ActorContext())

	// Players
	api.Get("/players", h.ListPlayers)
	api.Get("/players/:id", h.GetPlayer)
	api.Post("/players", h.CreatePlayer)
	api.Put("/players/:id", h.ReplacePlayer)
	api.Delete("/players/:id", h.DeletePlayer)

	// Tournaments (mutations are attributed to the acting user)
	api.Get("/tournaments", h.ListTournaments)
	api.Get("/tournaments/:id", h.GetTournament)
	api.Post("/tournaments", h.CreateTournament)
	api.Patch("/tournaments/:id", h.PatchTournament)
	api.Delete("/tournaments/:id", h.DeleteTournament)

	// 🔐 Admin
	app.Get("/monitored-users", middleware.AdminOnly(deps.AdminUsername), h.ListMonitoredUsers)

	// Files
	app.Post("/upload", h.Upload)
	if deps.UploadDir != "" {
		app.Static("/uploads", deps.UploadDir)
	}

	// Live updates
	app.Get("/ws", middleware.RequireWebSocketUpgrade(), websocket.New(h.Stream))
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
